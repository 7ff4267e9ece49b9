// Command materialize expands one owner's recurring chores and routines into
// draft scheduled instances over the configured lookahead window. Safe to
// re-run: instances have deterministic ids, so a replay lands on the same
// rows.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/planvine/tempo-backend/internal/app"
	"github.com/planvine/tempo-backend/internal/config"
	"github.com/planvine/tempo-backend/internal/domain"
	"github.com/planvine/tempo-backend/pkg/ctxutil"
)

func main() {
	var (
		ownerFlag = flag.String("owner", "", "owner id (uuid, required)")
		startFlag = flag.String("start", "", "start date YYYY-MM-DD (default today)")
		daysFlag  = flag.Int("days", 0, "window in days (default lookahead from config)")
		tzFlag    = flag.String("tz", "", "timezone (default from config)")
	)
	flag.Parse()

	ownerID, err := uuid.Parse(*ownerFlag)
	if err != nil {
		log.Fatalf("invalid -owner: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = ctxutil.WithOwnerID(ctx, ownerID)
	ctx = ctxutil.WithRequestID(ctx, uuid.New().String())

	services, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		logger.Error("wire services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer services.Close()

	start := time.Now().UTC()
	if *startFlag != "" {
		start, err = time.Parse(domain.DateLayout, *startFlag)
		if err != nil {
			log.Fatalf("invalid -start: %v", err)
		}
	}

	days := *daysFlag
	if days <= 0 {
		days = cfg.Scheduling.LookaheadDays
	}

	result, err := services.Schedule.MaterializeWindow(ctx, ownerID, start, days, *tzFlag)
	if err != nil {
		logger.Error("materialization failed",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("materialization completed",
		slog.String("owner_id", ownerID.String()),
		slog.Int("days", result.Days),
		slog.Int("materialized", result.Materialized),
		slog.Int("rule_failures", result.RuleFailures),
	)
}
