// Package services contains the application services of the SafeShare
// client: the authentication flow, the session manager, and the encrypted
// file service. All state that used to be ambient in the original UI lives
// in injectable service objects here.
package services

import (
	"context"
	"fmt"
	"time"

	"safeshare/internal/client/api"
	"safeshare/internal/client/credstore"
	"safeshare/internal/common"
	"safeshare/internal/logging"
	"safeshare/internal/models"
	"safeshare/internal/session"
)

// Session is the in-memory projection of a validated full credential plus
// the fetched user profile. It is derived on demand and never stored.
type Session struct {
	Token   string
	Claims  *session.Claims
	Profile *models.UserProfile
}

// SessionManager derives Sessions from the credential store. It caches
// nothing: the store is shared with other client processes, so every call
// re-reads it.
type SessionManager struct {
	creds  credstore.Store
	api    api.Client
	logger logging.Logger
	now    func() time.Time
}

func NewSessionManager(apiClient api.Client, creds credstore.Store, logger logging.Logger) *SessionManager {
	return &SessionManager{
		creds:  creds,
		api:    apiClient,
		logger: logger,
		now:    time.Now,
	}
}

// Credential reads the full bearer credential from the store.
// Returns ErrNoCredential when none is stored.
func (m *SessionManager) Credential(ctx context.Context) (string, error) {
	v, err := m.creds.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", fmt.Errorf("reading credential: %w", err)
	}
	if len(v) == 0 {
		return "", common.ErrNoCredential
	}
	return string(v), nil
}

// Current builds a Session from the stored credential. A Session exists
// only when the credential decodes, is unexpired, and the profile fetch
// succeeds; anything else is an error.
func (m *SessionManager) Current(ctx context.Context) (*Session, error) {
	token, err := m.Credential(ctx)
	if err != nil {
		return nil, err
	}

	claims, err := session.Decode(token)
	if err != nil {
		return nil, err
	}
	if claims.IsExpired(m.now()) {
		return nil, common.ErrCredentialExpired
	}

	profile, err := m.api.UserInfo(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrProfileFetch, err)
	}

	return &Session{Token: token, Claims: claims, Profile: profile}, nil
}

// Clear drops the full credential from the store.
func (m *SessionManager) Clear(ctx context.Context) error {
	return m.creds.Delete(ctx, common.AccessTokenKey)
}
