// Package models defines the DTOs exchanged with the SafeShare backend.
// Field tags follow the backend's snake_case JSON schema.
package models

import "time"

// Share visibility and permission values.
const (
	SharePublic  = "public"
	SharePrivate = "private"

	PermissionView     = "view"
	PermissionDownload = "download"
)

// UserProfile is the user-info response for an authenticated subject.
type UserProfile struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	MFAEnabled bool   `json:"is_mfa_enabled"`
}

// User is one row of the admin-facing account listing.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
	MFAEnabled  bool   `json:"is_mfa_enabled"`
}

// UpdateRoleRequest changes another user's role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// FileInfo describes one of the caller's uploaded files.
type FileInfo struct {
	ID               int64     `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	UploadedAt       time.Time `json:"uploaded_at"`
	UploadedBy       int64     `json:"uploaded_by"`
}

// SharedWithMeFile is a file someone else granted the caller access to.
type SharedWithMeFile struct {
	FileID     int64     `json:"file_id"`
	Filename   string    `json:"filename"`
	SharedBy   string    `json:"shared_by"`
	SharedAt   time.Time `json:"shared_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Permission string    `json:"permission"`
	IsPublic   bool      `json:"is_public"`
}

// MyShare is a grant the caller handed out.
type MyShare struct {
	FileID     int64     `json:"file_id"`
	Filename   string    `json:"filename"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Permission string    `json:"permission"`
	IsPublic   bool      `json:"is_public"`
	IsExpired  bool      `json:"is_expired"`
	SharedWith string    `json:"shared_with,omitempty"`
}

// ShareGrant is the admin-facing view of any grant in the system.
type ShareGrant struct {
	ID         int64     `json:"id"`
	FileID     int64     `json:"file_id"`
	Filename   string    `json:"filename"`
	SharedBy   string    `json:"shared_by"`
	Permission string    `json:"permission"`
	IsPublic   bool      `json:"is_public"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ShareRequest creates a new grant on a file.
type ShareRequest struct {
	ShareType     string   `json:"share_type"`
	Permission    string   `json:"permission"`
	ExpiresInDays int      `json:"expires_in_days"`
	Users         []string `json:"users,omitempty"`
}

// LoginRequest is the first-factor login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the canonical tagged login result: either MFARequired
// with a temporary token, or a full access token directly.
type LoginResponse struct {
	MFARequired bool   `json:"mfa_required"`
	TempToken   string `json:"temp_token,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyMFARequest submits a 6-digit TOTP code.
type VerifyMFARequest struct {
	Code string `json:"mfa_code"`
}

// MFASetupResponse carries a freshly provisioned TOTP secret.
type MFASetupResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// EnableMFARequest toggles MFA for the account.
type EnableMFARequest struct {
	Enabled bool `json:"enable"`
}
