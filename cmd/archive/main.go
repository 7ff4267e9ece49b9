// Command archive runs one retention sweep: completed scheduled instances
// older than the archive horizon move into cold storage, and archived rows
// past their time-to-live are purged. The sweep spans all owners and is
// safe to re-run; replays overwrite already-archived rows.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/planvine/tempo-backend/internal/app"
	"github.com/planvine/tempo-backend/internal/config"
	"github.com/planvine/tempo-backend/pkg/ctxutil"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = ctxutil.WithRequestID(ctx, uuid.New().String())

	services, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		logger.Error("wire services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer services.Close()

	result, err := services.Retention.Sweep(ctx)
	if err != nil {
		logger.Error("retention sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("retention sweep completed",
		slog.Int64("archived", result.Archived),
		slog.Int64("purged", result.Purged),
	)
}
