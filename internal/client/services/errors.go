package services

import "errors"

var (
	// ErrNotAwaitingMFA is returned when an MFA code is submitted (or the
	// challenge cancelled) outside the AwaitingMFA state.
	ErrNotAwaitingMFA = errors.New("no MFA challenge in progress")

	// ErrNoMFASecret is returned when the local authenticator has no stored
	// TOTP secret.
	ErrNoMFASecret = errors.New("no MFA secret stored")
)
