package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safeshare/internal/common"
	"safeshare/internal/cryptox"
	"safeshare/internal/logging"
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

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *memStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := newMemStore()
	return NewHTTPClient(srv.URL, store, testLogger(), 5*time.Second), store
}

func TestHTTPClient_AttachesFullCredential(t *testing.T) {
	var gotAuth string
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get(common.AuthHeaderName)
		w.Write([]byte(`{"files":[]}`))
	}))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, common.AccessTokenKey, []byte("full-token")))
	require.NoError(t, store.Set(ctx, common.TempTokenKey, []byte("temp-token")))

	_, err := c.MyFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer full-token", gotAuth, "full credential preferred over temp")
}

func TestHTTPClient_FallsBackToTempCredential(t *testing.T) {
	var gotAuth string
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get(common.AuthHeaderName)
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, common.TempTokenKey, []byte("temp-token")))

	require.NoError(t, c.VerifyMFA(ctx, "123456"))
	assert.Equal(t, "Bearer temp-token", gotAuth)
}

func TestHTTPClient_Unauthorized_TripsLogoutHook(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, common.AccessTokenKey, []byte("stale")))

	calls := 0
	c.SetUnauthorizedHandler(func(ctx context.Context) { calls++ })

	_, err := c.MyFiles(ctx)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, 1, calls, "hook must fire exactly once per response")
}

func TestHTTPClient_Unauthorized_TempCredentialDoesNotTripHook(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, common.TempTokenKey, []byte("temp")))

	calls := 0
	c.SetUnauthorizedHandler(func(ctx context.Context) { calls++ })

	err := c.VerifyMFA(ctx, "000000")
	assert.ErrorIs(t, err, common.ErrInvalidCode)
	assert.Zero(t, calls, "wrong MFA code is not a dead session")
}

func TestHTTPClient_VerifyMFA_MalformedCode(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, common.TempTokenKey, []byte("temp")))

	err := c.VerifyMFA(ctx, "12ab56")
	assert.ErrorIs(t, err, common.ErrMalformedCode)
}

func TestHTTPClient_PersistsCredentialCookie(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: common.AccessTokenKey, Value: "fresh-token"})
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, common.TempTokenKey, []byte("temp")))

	require.NoError(t, c.VerifyMFA(ctx, "123456"))

	full, err := store.Get(ctx, common.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh-token"), full)

	temp, err := store.Get(ctx, common.TempTokenKey)
	require.NoError(t, err)
	assert.Nil(t, temp, "temp credential discarded once the full one lands")
}

func TestHTTPClient_Login(t *testing.T) {
	t.Run("bad credentials", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))

		_, err := c.Login(context.Background(), "alice", "wrongpass")
		assert.ErrorIs(t, err, common.ErrAuthFailed)
	})

	t.Run("mfa required", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"mfa_required": true, "temp_token": "tmp-1"}`))
		}))

		resp, err := c.Login(context.Background(), "bob", "correctpass")
		require.NoError(t, err)
		assert.True(t, resp.MFARequired)
		assert.Equal(t, "tmp-1", resp.TempToken)
	})
}

func TestHTTPClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, newMemStore(), testLogger(), time.Second)

	_, err := c.MyFiles(context.Background())
	assert.ErrorIs(t, err, common.ErrNetwork)
}

func TestHTTPClient_DownloadFile_DecodesMetadata(t *testing.T) {
	payload := &cryptox.EncryptedPayload{
		Ciphertext: []byte("sealed-bytes"),
		IV:         []byte("twelve-bytes"),
		WrappedKey: []byte("wrapped-file-key"),
		KeyIV:      []byte("another-12bb"),
	}

	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerIV, base64.StdEncoding.EncodeToString(payload.IV))
		w.Header().Set(headerWrappedKey, base64.StdEncoding.EncodeToString(payload.WrappedKey))
		w.Header().Set(headerKeyIV, base64.StdEncoding.EncodeToString(payload.KeyIV))
		w.Header().Set(headerOriginalFilename, "report.pdf")
		w.Write(payload.Ciphertext)
	}))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, common.AccessTokenKey, []byte("tok")))

	got, name, err := c.DownloadFile(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, "report.pdf", name)
}

func TestHTTPClient_UploadFile_SendsEncryptionFields(t *testing.T) {
	payload := &cryptox.EncryptedPayload{
		Ciphertext: []byte("sealed"),
		IV:         []byte("iv-iv-iv-iv!"),
		WrappedKey: []byte("wk"),
		KeyIV:      []byte("kiv-kiv-kiv!"),
	}

	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "notes.txt", hdr.Filename)

		assert.Equal(t, base64.StdEncoding.EncodeToString(payload.IV), r.FormValue("iv"))
		assert.Equal(t, base64.StdEncoding.EncodeToString(payload.WrappedKey), r.FormValue("wrapped_key"))
		assert.Equal(t, base64.StdEncoding.EncodeToString(payload.KeyIV), r.FormValue("key_iv"))
		assert.NotEmpty(t, r.FormValue("client_ref"))

		w.Write([]byte(`{"id": 11, "original_filename": "notes.txt"}`))
	}))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, common.AccessTokenKey, []byte("tok")))

	info, err := c.UploadFile(ctx, "notes.txt", payload)
	require.NoError(t, err)
	assert.Equal(t, int64(11), info.ID)
}

func TestHTTPClient_UpdateUserRole_SendsPatch(t *testing.T) {
	var gotMethod, gotPath, gotRole string
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		var req struct {
			Role string `json:"role"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotRole = req.Role
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, common.AccessTokenKey, []byte("tok")))

	require.NoError(t, c.UpdateUserRole(ctx, 43, "guest"))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/users/43/update_role/", gotPath)
	assert.Equal(t, "guest", gotRole)
}

func TestHTTPClient_ListUsers_BareArray(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "username": "root", "role": "admin"}]`))
	}))

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, common.AccessTokenKey, []byte("tok")))

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "root", users[0].Username)
}
