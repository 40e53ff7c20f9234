package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"safeshare/internal/client/credstore"
	"safeshare/internal/common"
	"safeshare/internal/cryptox"
	"safeshare/internal/logging"
	"safeshare/internal/models"
)

// Headers carrying encryption metadata alongside a binary file body.
const (
	headerIV               = "X-Encryption-Iv"
	headerWrappedKey       = "X-Encryption-Key"
	headerKeyIV            = "X-Encryption-Key-Iv"
	headerOriginalFilename = "X-Original-Filename"
)

// HTTPClient talks to the backend REST API.
//
// The credential is never cached: each request reads the store again, so a
// login or logout performed by another process is picked up immediately.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	creds   credstore.Store
	logger  logging.Logger

	// onUnauthorized runs when a session-bearing request comes back 401.
	onUnauthorized func(ctx context.Context)
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, creds credstore.Store, logger logging.Logger, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
		logger:  logger,
	}
}

// SetUnauthorizedHandler installs the forced-logout hook. The hook fires
// only for requests that were authenticated with the full credential; an
// MFA-scoped 401 means a wrong code, not a dead session.
func (c *HTTPClient) SetUnauthorizedHandler(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

// bearer picks the credential to attach: the full one when present, the
// temporary one as fallback for MFA-scoped calls.
func (c *HTTPClient) bearer(ctx context.Context) (token string, full bool, err error) {
	v, err := c.creds.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", false, err
	}
	if len(v) > 0 {
		return string(v), true, nil
	}
	v, err = c.creds.Get(ctx, common.TempTokenKey)
	if err != nil {
		return "", false, err
	}
	return string(v), false, nil
}

// do sends one request. It attaches the bearer credential, persists any
// full credential the backend hands back via a Set-Cookie, and trips the
// unauthorized hook on a session-bearing 401. Callers own the response
// body unless an error is returned.
func (c *HTTPClient) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, full, err := c.bearer(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading credential: %w", err)
	}
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", common.ErrNetwork, method, path, err)
	}

	// The backend issues the full credential as a cookie. Mirror it into
	// the store so every local reader sees it.
	for _, ck := range resp.Cookies() {
		if ck.Name == common.AccessTokenKey && ck.Value != "" {
			if err := c.creds.SetFull(ctx, []byte(ck.Value)); err != nil {
				c.logger.Error(ctx, "persisting credential cookie", "error", err)
			}
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if full && c.onUnauthorized != nil {
			c.logger.Warn(ctx, "session rejected by backend, forcing logout", "path", path)
			c.onUnauthorized(ctx)
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, common.ErrUnauthorized)
	}

	return resp, nil
}

// doJSON sends in (may be nil) as a JSON body and decodes a 2xx response
// into out (may be nil).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, method, path); err != nil {
		return err
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func checkStatus(resp *http.Response, method, path string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, common.ErrNotFound)
	default:
		return fmt.Errorf("%s %s: unexpected status %s", method, path, resp.Status)
	}
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	in := &models.LoginRequest{Username: username, Password: password}

	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/auth/login/", "application/json", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// bad credentials surface as 400 from the backend
	if resp.StatusCode == http.StatusBadRequest {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("login: %w", common.ErrAuthFailed)
	}
	if err := checkStatus(resp, http.MethodPost, "/auth/login/"); err != nil {
		return nil, err
	}

	var out models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) error {
	in := &models.RegisterRequest{Username: username, Email: email, Password: password}
	return c.doJSON(ctx, http.MethodPost, "/auth/register/", in, nil)
}

func (c *HTTPClient) VerifyMFA(ctx context.Context, code string) error {
	in := &models.VerifyMFARequest{Code: code}

	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPost, "/auth/verify-mfa/", "application/json", bytes.NewReader(b))
	if err != nil {
		// a 401 here means the code was wrong, not that the session died
		if errors.Is(err, common.ErrUnauthorized) {
			return fmt.Errorf("verify-mfa: %w", common.ErrInvalidCode)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("verify-mfa: %w", common.ErrMalformedCode)
	}
	return checkStatus(resp, http.MethodPost, "/auth/verify-mfa/")
}

func (c *HTTPClient) SetupMFA(ctx context.Context) (*models.MFASetupResponse, error) {
	var out models.MFASetupResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/setup-mfa/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) EnableMFA(ctx context.Context, enabled bool) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/enable-mfa/", &models.EnableMFARequest{Enabled: enabled}, nil)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout/", nil, nil)
}

func (c *HTTPClient) UserInfo(ctx context.Context, id int64) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/auth/user-info/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UploadFile(ctx context.Context, name string, payload *cryptox.EncryptedPayload) (*models.FileInfo, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(payload.Ciphertext); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"iv":          base64.StdEncoding.EncodeToString(payload.IV),
		"wrapped_key": base64.StdEncoding.EncodeToString(payload.WrappedKey),
		"key_iv":      base64.StdEncoding.EncodeToString(payload.KeyIV),
		"client_ref":  uuid.NewString(),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/files/", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.MethodPost, "/files/"); err != nil {
		return nil, err
	}

	var out models.FileInfo
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	return &out, nil
}

func (c *HTTPClient) MyFiles(ctx context.Context) ([]models.FileInfo, error) {
	var out struct {
		Files []models.FileInfo `json:"files"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/files/my-files/", nil, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

func (c *HTTPClient) DownloadFile(ctx context.Context, id int64) (*cryptox.EncryptedPayload, string, error) {
	path := fmt.Sprintf("/files/%d/download/", id)

	resp, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, http.MethodGet, path); err != nil {
		return nil, "", err
	}

	ciphertext, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading download body: %v", common.ErrNetwork, err)
	}

	payload := &cryptox.EncryptedPayload{Ciphertext: ciphertext}
	for _, f := range []struct {
		header string
		dst    *[]byte
	}{
		{headerIV, &payload.IV},
		{headerWrappedKey, &payload.WrappedKey},
		{headerKeyIV, &payload.KeyIV},
	} {
		v, err := base64.StdEncoding.DecodeString(resp.Header.Get(f.header))
		if err != nil {
			return nil, "", fmt.Errorf("decoding %s: %w", f.header, err)
		}
		*f.dst = v
	}

	return payload, resp.Header.Get(headerOriginalFilename), nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/files/%d/", id), nil, nil)
}

func (c *HTTPClient) ShareFile(ctx context.Context, id int64, req *models.ShareRequest) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/files/%d/share/", id), req, nil)
}

func (c *HTTPClient) SharedWithMe(ctx context.Context) ([]models.SharedWithMeFile, error) {
	var out struct {
		SharedFiles []models.SharedWithMeFile `json:"shared_files"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/files/shared-with-me/", nil, &out); err != nil {
		return nil, err
	}
	return out.SharedFiles, nil
}

func (c *HTTPClient) MyShares(ctx context.Context) ([]models.MyShare, error) {
	var out struct {
		MyShares []models.MyShare `json:"my_shares"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/files/my-shares/", nil, &out); err != nil {
		return nil, err
	}
	return out.MyShares, nil
}

func (c *HTTPClient) AllShares(ctx context.Context) ([]models.ShareGrant, error) {
	var out struct {
		Shares []models.ShareGrant `json:"shares"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/files/all-shares/", nil, &out); err != nil {
		return nil, err
	}
	return out.Shares, nil
}

func (c *HTTPClient) RevokeShare(ctx context.Context, fileID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/files/%d/delete-share/", fileID), nil, nil)
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	// the users listing answers a bare array, no envelope
	var out []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateUserRole(ctx context.Context, userID int64, role string) error {
	in := &models.UpdateRoleRequest{Role: role}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/update_role/", userID), in, nil)
}
