package services

import (
	"context"
	"fmt"

	"safeshare/internal/client/api"
	"safeshare/internal/common"
	"safeshare/internal/logging"
	"safeshare/internal/models"
	"safeshare/internal/session"
)

// AdminService exposes the user-management operations. Calls are gated on
// the caller's own role before reaching the backend, the same way the route
// guard gates the admin pages; the backend enforces the role again.
type AdminService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, userID int64, role string) error
}

type adminService struct {
	api      api.Client
	sessions *SessionManager
	logger   logging.Logger
}

func NewAdminService(apiClient api.Client, sessions *SessionManager, logger logging.Logger) AdminService {
	return &adminService{api: apiClient, sessions: sessions, logger: logger}
}

// requireAdmin validates the current session and checks its role claim.
func (s *adminService) requireAdmin(ctx context.Context) error {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return err
	}
	if sess.Claims.Role != session.RoleAdmin {
		return common.ErrAdminOnly
	}
	return nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.api.ListUsers(ctx)
}

func (s *adminService) UpdateUserRole(ctx context.Context, userID int64, role string) error {
	switch role {
	case session.RoleAdmin, session.RoleRegular, session.RoleGuest:
	default:
		return fmt.Errorf("update role: unknown role %q", role)
	}
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.api.UpdateUserRole(ctx, userID, role); err != nil {
		return err
	}
	s.logger.Info(ctx, "user role updated", "user_id", userID, "role", role)
	return nil
}
