// Package retention bounds growth of the instance store. Completed
// occurrences older than the archive horizon are moved into cold storage
// with a fixed time-to-live, and archived rows past their horizon are
// purged. The sweep is owner-agnostic; it runs as a periodic job.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type archiveRepo interface {
	ArchiveCompleted(ctx context.Context, cutoff, archivedAt, deleteAt time.Time) (int64, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Options bound the sweep. Zero values fall back to the defaults below.
type Options struct {
	ArchiveAfterDays int // completed instances older than this are archived
	ArchiveTTLDays   int // archived rows live this long before purge
}

const (
	defaultArchiveAfterDays = 30
	defaultArchiveTTLDays   = 90
)

// Service implements the archive sweep.
type Service struct {
	archive archiveRepo
	logger  *slog.Logger
	opts    Options
	now     func() time.Time
}

// New creates the retention service.
func New(archive archiveRepo, logger *slog.Logger, opts Options) *Service {
	if opts.ArchiveAfterDays <= 0 {
		opts.ArchiveAfterDays = defaultArchiveAfterDays
	}
	if opts.ArchiveTTLDays <= 0 {
		opts.ArchiveTTLDays = defaultArchiveTTLDays
	}
	return &Service{
		archive: archive,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
	}
}

// SweepResult reports what one sweep did.
type SweepResult struct {
	Archived int64
	Purged   int64
}

// Sweep archives completed instances older than the archive horizon, then
// purges archived rows whose time-to-live has passed. A purge failure after
// a successful archive still returns the archive count alongside the error.
func (s *Service) Sweep(ctx context.Context) (*SweepResult, error) {
	now := s.now().UTC()
	cutoff := now.AddDate(0, 0, -s.opts.ArchiveAfterDays)
	deleteAt := now.AddDate(0, 0, s.opts.ArchiveTTLDays)

	result := &SweepResult{}

	archived, err := s.archive.ArchiveCompleted(ctx, cutoff, now, deleteAt)
	if err != nil {
		return nil, fmt.Errorf("archive sweep: %w", err)
	}
	result.Archived = archived

	purged, err := s.archive.PurgeExpired(ctx, now)
	if err != nil {
		return result, fmt.Errorf("purge expired archives: %w", err)
	}
	result.Purged = purged

	s.logger.InfoContext(ctx, "retention sweep finished",
		slog.Int64("archived", result.Archived),
		slog.Int64("purged", result.Purged),
		slog.Time("cutoff", cutoff),
	)
	return result, nil
}
