package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/sethvargo/go-retry"

	"safeshare/internal/client/api"
	"safeshare/internal/client/credstore"
	"safeshare/internal/common"
	"safeshare/internal/logging"
	"safeshare/internal/models"
)

// State is the position of the authentication flow.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAwaitingMFA   State = "awaiting_mfa"
	StateAuthenticated State = "authenticated"
)

// AuthService drives the login flow and the MFA lifecycle.
//
// Contract:
//   - Login: first factor. Either establishes a session directly or parks
//     the flow in AwaitingMFA with a temporary credential stored.
//   - SubmitCode: second factor. On success waits (bounded) for the full
//     credential to land, then establishes the session.
//   - Cancel: abandons a pending MFA challenge; safe at any point before
//     the full credential is stored.
//   - Logout: best-effort server call plus unconditional local cleanup.
//   - ForceLogout: the 401 circuit breaker target; local cleanup only.
//   - SetupMFA / ConfirmMFA / DisableMFA / CurrentTOTP: MFA lifecycle and
//     local-authenticator management.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	State() State
	Login(ctx context.Context, username, password string) (*Session, error)
	SubmitCode(ctx context.Context, code string) (*Session, error)
	Cancel(ctx context.Context) error
	Logout(ctx context.Context) error
	ForceLogout(ctx context.Context)
	Register(ctx context.Context, username, email, password string) error
	SetupMFA(ctx context.Context) (*models.MFASetupResponse, error)
	ConfirmMFA(ctx context.Context, code string) error
	DisableMFA(ctx context.Context) error
	CurrentTOTP(ctx context.Context) (string, error)
}

type authService struct {
	api      api.Client
	creds    credstore.Store
	sessions *SessionManager
	logger   logging.Logger

	state State

	// Read-after-write confirmation of the backend-issued credential:
	// poll the store every pollInterval for at most establishTimeout.
	establishTimeout time.Duration
	pollInterval     time.Duration
}

// NewAuthService constructs an AuthService. The flow is event-driven and
// single-threaded per client session; no internal locking is done.
func NewAuthService(apiClient api.Client, creds credstore.Store, sessions *SessionManager, logger logging.Logger, establishTimeout, pollInterval time.Duration) AuthService {
	return &authService{
		api:              apiClient,
		creds:            creds,
		sessions:         sessions,
		logger:           logger,
		state:            StateAnonymous,
		establishTimeout: establishTimeout,
		pollInterval:     pollInterval,
	}
}

func (s *authService) State() State {
	return s.state
}

// Login submits the first factor. When the backend requires MFA, the
// returned Session is nil and State() reports AwaitingMFA.
func (s *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.state = StateAnonymous
		return nil, err
	}

	if resp.MFARequired {
		if resp.TempToken == "" {
			s.state = StateAnonymous
			return nil, fmt.Errorf("login: %w: mfa required but no temporary credential issued", common.ErrAuthFailed)
		}
		if err := s.creds.Set(ctx, common.TempTokenKey, []byte(resp.TempToken)); err != nil {
			s.state = StateAnonymous
			return nil, fmt.Errorf("storing temporary credential: %w", err)
		}
		s.state = StateAwaitingMFA
		s.logger.Info(ctx, "first factor accepted, awaiting MFA code", "username", username)
		return nil, nil
	}

	if resp.AccessToken != "" {
		if err := s.creds.SetFull(ctx, []byte(resp.AccessToken)); err != nil {
			s.state = StateAnonymous
			return nil, fmt.Errorf("storing credential: %w", err)
		}
	}

	sess, err := s.establishSession(ctx)
	if err != nil {
		s.rollback(ctx)
		return nil, err
	}

	s.state = StateAuthenticated
	s.logger.Info(ctx, "login successful", "user_id", sess.Claims.UserID, "role", sess.Claims.Role)
	return sess, nil
}

// SubmitCode submits the 6-digit MFA code. A wrong code keeps the flow in
// AwaitingMFA so the user can retry; the caller should clear the entered
// code either way.
func (s *authService) SubmitCode(ctx context.Context, code string) (*Session, error) {
	if s.state != StateAwaitingMFA {
		return nil, ErrNotAwaitingMFA
	}
	if !validCode(code) {
		return nil, fmt.Errorf("submit code: %w", common.ErrMalformedCode)
	}

	if err := s.api.VerifyMFA(ctx, code); err != nil {
		// wrong code: stay in AwaitingMFA, the temp credential is still good
		return nil, err
	}

	sess, err := s.establishSession(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSessionTimeout) {
			// credential never landed; the challenge remains open
			return nil, err
		}
		s.rollback(ctx)
		return nil, err
	}

	// the cookie path already discards the temp credential; this covers
	// backends that return the token in the body instead
	if err := s.creds.Delete(ctx, common.TempTokenKey); err != nil {
		s.logger.Warn(ctx, "discarding temporary credential", "error", err)
	}

	s.state = StateAuthenticated
	s.logger.Info(ctx, "MFA verification successful", "user_id", sess.Claims.UserID)
	return sess, nil
}

// Cancel abandons a pending MFA challenge and discards the temporary
// credential. Safe to call at any point after the challenge was issued.
func (s *authService) Cancel(ctx context.Context) error {
	if s.state != StateAwaitingMFA {
		return ErrNotAwaitingMFA
	}
	if err := s.creds.Delete(ctx, common.TempTokenKey); err != nil {
		return fmt.Errorf("discarding temporary credential: %w", err)
	}
	s.state = StateAnonymous
	s.logger.Info(ctx, "MFA challenge cancelled")
	return nil
}

// Logout tells the backend (best effort) and then unconditionally clears
// both credentials locally. The local authenticator secret survives.
func (s *authService) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn(ctx, "server logout failed, clearing local state anyway", "error", err)
	}

	if err := s.creds.Delete(ctx, common.AccessTokenKey); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	if err := s.creds.Delete(ctx, common.TempTokenKey); err != nil {
		return fmt.Errorf("clearing temporary credential: %w", err)
	}
	s.state = StateAnonymous
	s.logger.Info(ctx, "logged out")
	return nil
}

// ForceLogout is the 401 circuit breaker: clear the session and credential
// without talking to the backend again.
func (s *authService) ForceLogout(ctx context.Context) {
	if err := s.creds.Delete(ctx, common.AccessTokenKey); err != nil {
		s.logger.Error(ctx, "clearing credential on forced logout", "error", err)
	}
	s.state = StateAnonymous
}

func (s *authService) Register(ctx context.Context, username, email, password string) error {
	return s.api.Register(ctx, username, email, password)
}

// SetupMFA provisions a TOTP secret on the backend and stores it locally
// so the client can act as its own authenticator.
func (s *authService) SetupMFA(ctx context.Context) (*models.MFASetupResponse, error) {
	resp, err := s.api.SetupMFA(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.creds.Set(ctx, common.MFASecretKey, []byte(resp.Secret)); err != nil {
		return nil, fmt.Errorf("storing MFA secret: %w", err)
	}
	return resp, nil
}

// ConfirmMFA proves possession of the freshly provisioned secret and then
// enables MFA for the account.
func (s *authService) ConfirmMFA(ctx context.Context, code string) error {
	if !validCode(code) {
		return fmt.Errorf("confirm mfa: %w", common.ErrMalformedCode)
	}
	if err := s.api.VerifyMFA(ctx, code); err != nil {
		return err
	}
	return s.api.EnableMFA(ctx, true)
}

// DisableMFA turns MFA off for the account and discards the locally stored
// authenticator secret, which is useless once the backend stops asking for
// codes.
func (s *authService) DisableMFA(ctx context.Context) error {
	if err := s.api.EnableMFA(ctx, false); err != nil {
		return err
	}
	if err := s.creds.Delete(ctx, common.MFASecretKey); err != nil {
		s.logger.Warn(ctx, "discarding MFA secret", "error", err)
	}
	s.logger.Info(ctx, "MFA disabled")
	return nil
}

// CurrentTOTP mints the code for the current time step from the locally
// stored secret.
func (s *authService) CurrentTOTP(ctx context.Context) (string, error) {
	secret, err := s.creds.Get(ctx, common.MFASecretKey)
	if err != nil {
		return "", err
	}
	if len(secret) == 0 {
		return "", ErrNoMFASecret
	}
	return totp.GenerateCode(string(secret), time.Now())
}

// establishSession waits for the full credential to be readable from the
// store, then validates it and fetches the profile. The wait replaces the
// fixed post-MFA delay the original design used: a bounded constant-backoff
// poll with an explicit timeout error.
func (s *authService) establishSession(ctx context.Context) (*Session, error) {
	backoff := retry.WithMaxDuration(s.establishTimeout, retry.NewConstant(s.pollInterval))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		v, err := s.creds.Get(ctx, common.AccessTokenKey)
		if err != nil {
			return err
		}
		if len(v) == 0 {
			return retry.RetryableError(common.ErrNoCredential)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrNoCredential) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: credential never appeared in store", common.ErrSessionTimeout)
		}
		return nil, err
	}

	return s.sessions.Current(ctx)
}

// rollback clears a partially established session and returns the flow to
// Anonymous.
func (s *authService) rollback(ctx context.Context) {
	if err := s.creds.Delete(ctx, common.AccessTokenKey); err != nil {
		s.logger.Warn(ctx, "rollback: clearing credential", "error", err)
	}
	s.state = StateAnonymous
}

func validCode(code string) bool {
	if len(code) != common.MFACodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
