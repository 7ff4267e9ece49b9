package app

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planvine/tempo-backend/internal/adapter/postgres"
	"github.com/planvine/tempo-backend/internal/adapter/postgres/archive"
	"github.com/planvine/tempo-backend/internal/adapter/postgres/block"
	"github.com/planvine/tempo-backend/internal/adapter/postgres/chore"
	"github.com/planvine/tempo-backend/internal/adapter/postgres/instance"
	"github.com/planvine/tempo-backend/internal/adapter/postgres/planjob"
	"github.com/planvine/tempo-backend/internal/adapter/postgres/routine"
	"github.com/planvine/tempo-backend/internal/adapter/solver"
	"github.com/planvine/tempo-backend/internal/config"
	"github.com/planvine/tempo-backend/internal/service/retention"
	"github.com/planvine/tempo-backend/internal/service/schedule"
)

// Services bundles the wired application services and their shared pool.
type Services struct {
	Pool      *pgxpool.Pool
	Schedule  *schedule.Service
	Retention *retention.Service
}

// NewServices connects to the database and wires the scheduling service with
// its repositories and the solver client.
func NewServices(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	svc := schedule.New(
		block.New(pool),
		chore.New(pool),
		routine.New(pool),
		instance.New(pool),
		planjob.New(pool),
		solver.NewClient(cfg.Solver, logger),
		postgres.NewTxManager(pool),
		logger,
		schedule.Options{
			DefaultTimezone: cfg.Scheduling.DefaultTimezone,
			LookaheadDays:   cfg.Scheduling.LookaheadDays,
			MaxPlanningDays: cfg.Scheduling.DefaultPlanningDays,
			MaxSnoozeDays:   cfg.Scheduling.SnoozeMaxDays,
		},
	)

	ret := retention.New(archive.New(pool), logger, retention.Options{
		ArchiveAfterDays: cfg.Scheduling.ArchiveAfterDays,
		ArchiveTTLDays:   cfg.Scheduling.ArchiveTTLDays,
	})

	return &Services{Pool: pool, Schedule: svc, Retention: ret}, nil
}

// Close releases the shared resources.
func (s *Services) Close() {
	s.Pool.Close()
}

// Run is the application entry point. It loads configuration, initializes
// the logger, wires the services, and logs startup information.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	services, err := NewServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer services.Close()

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("default_timezone", cfg.Scheduling.DefaultTimezone),
	)

	return nil
}
