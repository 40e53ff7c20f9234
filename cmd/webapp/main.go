package main

import (
	"context"
	"log/slog"
	"os"

	"safeshare/internal/logging"
	"safeshare/internal/webapp"
	"safeshare/internal/webapp/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app := webapp.NewApp(cfg, logger)
	app.Run(ctx)

}
