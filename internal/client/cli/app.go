package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"safeshare/internal/client/api"
	"safeshare/internal/client/config"
	"safeshare/internal/client/credstore"
	"safeshare/internal/client/services"
	"safeshare/internal/cryptox"
	"safeshare/internal/logging"
)

type App struct {
	config   *config.Config
	store    credstore.Store
	client   *api.HTTPClient
	sessions *services.SessionManager
	auth     services.AuthService
	files    services.FileService
	admin    services.AdminService
	logger   logging.Logger
	userName string
	reader   *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := credstore.Open(ctx, c.CredentialDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	cipher, err := cryptox.NewFileCipher([]byte(c.EncryptionPassphrase), []byte(c.EncryptionSalt))
	if err != nil {
		store.Close()
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.APIBaseURL, store, logger, c.RequestTimeout)
	sessions := services.NewSessionManager(apiClient, store, logger)
	auth := services.NewAuthService(apiClient, store, sessions, logger,
		c.SessionEstablishTimeout, c.SessionPollInterval)
	files := services.NewFileService(apiClient, cipher, logger)
	admin := services.NewAdminService(apiClient, sessions, logger)

	a := &App{
		config:   c,
		store:    store,
		client:   apiClient,
		sessions: sessions,
		auth:     auth,
		files:    files,
		admin:    admin,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
	}

	// any 401 on a session-bearing request drops the local session
	apiClient.SetUnauthorizedHandler(a.handleForcedLogout)

	return a, nil
}

func (a *App) handleForcedLogout(ctx context.Context) {
	a.auth.ForceLogout(ctx)
	a.userName = ""
	printlnFn("Session expired, please log in again.")
}

func (a *App) isLoggedIn() bool {
	return a.auth.State() == services.StateAuthenticated
}

func (a *App) getStatus() string {
	switch a.auth.State() {
	case services.StateAuthenticated:
		return fmt.Sprintf("(%s)", a.userName)
	case services.StateAwaitingMFA:
		return "(mfa)"
	default:
		return ""
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing credential store", "error", err)
	}
}
