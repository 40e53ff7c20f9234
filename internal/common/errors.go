// Package common contains shared constants and sentinel errors used across
// SafeShare components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Auth flow errors.
	ErrAuthFailed    = errors.New("authentication failed")
	ErrInvalidCode   = errors.New("invalid verification code")
	ErrMalformedCode = errors.New("malformed verification code")

	// Credential lifecycle errors.
	ErrNoCredential        = errors.New("no credential")
	ErrMalformedCredential = errors.New("malformed credential")
	ErrCredentialExpired   = errors.New("credential expired")

	// ErrSessionTimeout is returned when the full credential never shows up
	// in the store after a successful MFA verification.
	ErrSessionTimeout = errors.New("session establishment timed out")

	// Transport / backend errors.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAdminOnly is returned by user-management operations when the
	// caller's own role is not admin.
	ErrAdminOnly = errors.New("admin role required")
	ErrNetwork      = errors.New("network error")
	ErrProfileFetch = errors.New("profile fetch failed")
	ErrNotFound     = errors.New("not found")

	// ErrCrypto covers any file encryption/decryption failure, including
	// authentication-tag mismatch on tampered ciphertext.
	ErrCrypto = errors.New("crypto error")
)
