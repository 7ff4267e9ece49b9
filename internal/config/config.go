package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Solver     SolverConfig     `yaml:"solver"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// SolverConfig holds settings for the external planning job endpoint.
type SolverConfig struct {
	URL     string        `yaml:"url"     env:"SOLVER_URL"     env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env:"SOLVER_TIMEOUT" env-default:"30s"`
}

// SchedulingConfig holds materialization windows and scheduling limits.
type SchedulingConfig struct {
	DefaultTimezone     string `yaml:"default_timezone"      env:"SCHED_DEFAULT_TIMEZONE"      env-default:"UTC"`
	LookaheadDays       int    `yaml:"lookahead_days"        env:"SCHED_LOOKAHEAD_DAYS"        env-default:"31"`
	DefaultPlanningDays int    `yaml:"default_planning_days" env:"SCHED_DEFAULT_PLANNING_DAYS" env-default:"14"`
	SnoozeMaxDays       int    `yaml:"snooze_max_days"       env:"SCHED_SNOOZE_MAX_DAYS"       env-default:"14"`
	ArchiveAfterDays    int    `yaml:"archive_after_days"    env:"SCHED_ARCHIVE_AFTER_DAYS"    env-default:"30"`
	ArchiveTTLDays      int    `yaml:"archive_ttl_days"      env:"SCHED_ARCHIVE_TTL_DAYS"      env-default:"90"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
