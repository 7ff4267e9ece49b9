package config

import (
	"fmt"
	"net/url"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Solver.validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	if err := c.Scheduling.validate(); err != nil {
		return fmt.Errorf("scheduling: %w", err)
	}
	return nil
}

func (s *SolverConfig) validate() error {
	u, err := url.Parse(s.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url %q must be an absolute http(s) URL", s.URL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", s.Timeout)
	}
	return nil
}

func (s *SchedulingConfig) validate() error {
	if _, err := time.LoadLocation(s.DefaultTimezone); err != nil {
		return fmt.Errorf("default_timezone %q: %w", s.DefaultTimezone, err)
	}
	if s.LookaheadDays < 1 || s.LookaheadDays > 366 {
		return fmt.Errorf("lookahead_days must be in [1, 366] (got %d)", s.LookaheadDays)
	}
	if s.DefaultPlanningDays < 1 || s.DefaultPlanningDays > s.LookaheadDays {
		return fmt.Errorf("default_planning_days must be in [1, lookahead_days] (got %d)", s.DefaultPlanningDays)
	}
	if s.SnoozeMaxDays < 1 {
		return fmt.Errorf("snooze_max_days must be >= 1 (got %d)", s.SnoozeMaxDays)
	}
	if s.ArchiveAfterDays < 1 {
		return fmt.Errorf("archive_after_days must be >= 1 (got %d)", s.ArchiveAfterDays)
	}
	if s.ArchiveTTLDays < 1 {
		return fmt.Errorf("archive_ttl_days must be >= 1 (got %d)", s.ArchiveTTLDays)
	}
	return nil
}
