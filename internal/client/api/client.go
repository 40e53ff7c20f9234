// Package api implements the HTTP client for the SafeShare backend. Every
// outbound request carries the current bearer credential re-read from the
// credential store, and any 401 received on a session-bearing call trips
// the forced-logout circuit breaker.
package api

import (
	"context"

	"safeshare/internal/cryptox"
	"safeshare/internal/models"
)

// Client is the backend surface the services layer depends on.
type Client interface {
	// Auth.
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, username, email, password string) error
	VerifyMFA(ctx context.Context, code string) error
	SetupMFA(ctx context.Context) (*models.MFASetupResponse, error)
	EnableMFA(ctx context.Context, enabled bool) error
	Logout(ctx context.Context) error
	UserInfo(ctx context.Context, id int64) (*models.UserProfile, error)

	// Files.
	UploadFile(ctx context.Context, name string, payload *cryptox.EncryptedPayload) (*models.FileInfo, error)
	MyFiles(ctx context.Context) ([]models.FileInfo, error)
	DownloadFile(ctx context.Context, id int64) (*cryptox.EncryptedPayload, string, error)
	DeleteFile(ctx context.Context, id int64) error

	// Shares.
	ShareFile(ctx context.Context, id int64, req *models.ShareRequest) error
	SharedWithMe(ctx context.Context) ([]models.SharedWithMeFile, error)
	MyShares(ctx context.Context) ([]models.MyShare, error)
	AllShares(ctx context.Context) ([]models.ShareGrant, error)
	RevokeShare(ctx context.Context, fileID int64) error

	// User management. The backend rejects non-admin callers.
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, userID int64, role string) error
}
