package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"safeshare/internal/client/api"
	"safeshare/internal/client/credstore"
	"safeshare/internal/common"
	"safeshare/internal/logging"
	"safeshare/internal/models"
	"safeshare/internal/session"
)

// memStore is an in-memory credstore.Store for tests.
type memStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemStore() *memStore { return &memStore{m: make(map[string][]byte)} }

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key], nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *memStore) SetFull(ctx context.Context, credential []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[common.AccessTokenKey] = credential
	delete(s.m, common.TempTokenKey)
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string][]byte)
	return nil
}

func (s *memStore) Close() error { return nil }

var _ credstore.Store = (*memStore)(nil)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const testSigningKey = "test-signing-key"

func mintToken(t *testing.T, userID int64, role string, mfaVerified bool, ttl time.Duration) string {
	t.Helper()
	claims := &session.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID:      userID,
		Role:        role,
		MFAVerified: mfaVerified,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	require.NoError(t, err)
	return signed
}

// fakeBackend implements the canonical REST endpoints the client consumes.
type fakeBackend struct {
	t *testing.T

	mu         sync.Mutex
	password   string
	mfaEnabled bool
	totpSecret string

	// when false, a successful verify-mfa does not carry the credential
	// cookie; the test controls when (if ever) the credential appears.
	issueCookieOnVerify bool

	// when true, authenticated endpoints answer 401 regardless of the
	// bearer, simulating a revoked credential.
	revokeBearers bool

	profile models.UserProfile
	users   []models.User

	verifyCalls int
	usersCalls  int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "safeshare-test", AccountName: "bob"})
	require.NoError(t, err)

	return &fakeBackend{
		t:                   t,
		password:            "correctpass",
		totpSecret:          key.Secret(),
		issueCookieOnVerify: true,
		profile: models.UserProfile{
			ID:       42,
			Username: "bob",
			Email:    "bob@example.com",
			Role:     session.RoleRegular,
		},
		users: []models.User{
			{ID: 42, Username: "bob", Email: "bob@example.com", Role: session.RoleRegular},
			{ID: 43, Username: "alice", Email: "alice@example.com", Role: session.RoleGuest},
		},
	}
}

func (b *fakeBackend) bearer(r *http.Request) string {
	h := r.Header.Get(common.AuthHeaderName)
	return strings.TrimPrefix(h, common.BearerPrefix)
}

func (b *fakeBackend) fullToken() string {
	return mintToken(b.t, b.profile.ID, b.profile.Role, true, time.Hour)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login/":
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != b.password {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if b.mfaEnabled {
			temp := mintToken(b.t, b.profile.ID, b.profile.Role, false, 5*time.Minute)
			json.NewEncoder(w).Encode(models.LoginResponse{MFARequired: true, TempToken: temp})
			return
		}
		// the full credential travels as a cookie, like the real backend
		http.SetCookie(w, &http.Cookie{Name: common.AccessTokenKey, Value: b.fullToken()})
		json.NewEncoder(w).Encode(models.LoginResponse{})

	case r.Method == http.MethodPost && r.URL.Path == "/auth/verify-mfa/":
		b.verifyCalls++
		if b.bearer(r) == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req models.VerifyMFARequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Code) != common.MFACodeLength {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if !totp.Validate(req.Code, b.totpSecret) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if b.issueCookieOnVerify {
			http.SetCookie(w, &http.Cookie{Name: common.AccessTokenKey, Value: b.fullToken()})
		}
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/auth/user-info/"):
		if b.bearer(r) == "" || b.revokeBearers {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(b.profile)

	case r.Method == http.MethodPost && r.URL.Path == "/auth/logout/":
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodPost && r.URL.Path == "/auth/setup-mfa/":
		json.NewEncoder(w).Encode(models.MFASetupResponse{
			Secret:     b.totpSecret,
			OTPAuthURL: fmt.Sprintf("otpauth://totp/safeshare-test:bob?secret=%s", b.totpSecret),
		})

	case r.Method == http.MethodPost && r.URL.Path == "/auth/enable-mfa/":
		var req models.EnableMFARequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.mfaEnabled = req.Enabled
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodGet && r.URL.Path == "/users":
		b.usersCalls++
		if b.bearer(r) == "" || b.revokeBearers {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(b.users)

	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/users/") && strings.HasSuffix(r.URL.Path, "/update_role/"):
		b.usersCalls++
		if b.bearer(r) == "" || b.revokeBearers {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req models.UpdateRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/users/"), "/update_role/")
		for i := range b.users {
			if fmt.Sprintf("%d", b.users[i].ID) == id {
				b.users[i].Role = req.Role
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// authFixture wires a real HTTP client and store against the fake backend.
type authFixture struct {
	backend  *fakeBackend
	store    *memStore
	client   *api.HTTPClient
	sessions *SessionManager
	auth     AuthService
	admin    AdminService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	backend := newFakeBackend(t)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	store := newMemStore()
	logger := testLogger()
	client := api.NewHTTPClient(srv.URL, store, logger, 5*time.Second)
	sessions := NewSessionManager(client, store, logger)
	auth := NewAuthService(client, store, sessions, logger, time.Second, 20*time.Millisecond)
	admin := NewAdminService(client, sessions, logger)

	return &authFixture{
		backend:  backend,
		store:    store,
		client:   client,
		sessions: sessions,
		auth:     auth,
		admin:    admin,
	}
}

func (f *authFixture) currentCode(t *testing.T) string {
	t.Helper()
	code, err := totp.GenerateCode(f.backend.totpSecret, time.Now())
	require.NoError(t, err)
	return code
}
