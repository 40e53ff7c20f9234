// Package webapp runs the SafeShare web gateway: a gorilla/mux router whose
// page routes sit behind the guard middleware, with graceful shutdown on
// SIGINT/SIGTERM.
package webapp

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gorilla/mux"

	"safeshare/internal/guard"
	"safeshare/internal/logging"
	"safeshare/internal/webapp/config"
)

type App struct {
	config *config.Config
	logger logging.Logger
	router *mux.Router
}

func NewApp(c *config.Config, logger logging.Logger) *App {
	return &App{
		config: c,
		logger: logger,
		router: NewRouter(logger),
	}
}

// NewRouter builds the page router with the guard applied to every route.
func NewRouter(logger logging.Logger) *mux.Router {
	h := &pageHandler{logger: logger}
	g := guard.New(logger)

	r := mux.NewRouter()
	r.HandleFunc("/", h.root).Methods(http.MethodGet)
	r.HandleFunc(guard.LoginPath, h.login).Methods(http.MethodGet)
	r.HandleFunc(guard.RegisterPath, h.register).Methods(http.MethodGet)
	r.HandleFunc(guard.VerifyMFAPath, h.verifyMFA).Methods(http.MethodGet)
	r.HandleFunc(guard.DashboardPath, h.dashboard).Methods(http.MethodGet)
	r.HandleFunc(guard.AdminPrefix, h.admin).Methods(http.MethodGet)
	r.PathPrefix(guard.AdminPrefix + "/").HandlerFunc(h.admin).Methods(http.MethodGet)
	r.Use(g.Middleware)

	return r
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (a *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	a.logger.Info(ctx, "starting web gateway", "addr", a.config.Addr)

	a.initSignalHandler(cancelFunc)

	srv := &http.Server{Addr: a.config.Addr, Handler: a.router}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error(ctx, "http server", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error(shutdownCtx, "shutdown", "error", err)
	}

	wg.Wait()
	a.logger.Info(context.Background(), "web gateway stopped")
}
