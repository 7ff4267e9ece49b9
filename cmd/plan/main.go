// Command plan requests a planning run for one owner from the external
// solver. It is intended to be invoked by an external cron job or an
// operator, not as an in-process goroutine.
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
		daysFlag  = flag.Int("days", 0, "planning window in days (default from config)")
		tzFlag    = flag.String("tz", "", "timezone (default from config)")
		busyFlag  = flag.Bool("include-busy", false, "include committed instances as busy time")
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

	state, err := services.Schedule.RequestPlan(ctx, ownerID, domain.PlanRequest{
		StartDate:   *startFlag,
		Days:        *daysFlag,
		Timezone:    *tzFlag,
		IncludeBusy: *busyFlag,
	})
	if err != nil {
		logger.Error("plan request failed",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("plan requested",
		slog.String("owner_id", ownerID.String()),
		slog.String("key", state.Key),
		slog.String("status", state.Status.String()),
		slog.String("window_start", state.WindowStart),
		slog.String("window_end", state.WindowEnd),
		slog.String("solver_run_id", state.SolverRunID),
	)
}
