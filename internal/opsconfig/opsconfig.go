// Package opsconfig loads the scheduling engine's operational tuning:
// everything needed to run a batch, as opposed to the per-organization
// business tuning the store owns (domain.OrganizationConfig, loaded
// from the organization_config table at run time). It has two entry
// points: Load parses the YAML file and fills defaults, and LoadFromEnv
// overlays environment variables and an optional .env file on top.
package opsconfig

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LockBackend selects which distlock implementation the scheduler
// uses to serialize concurrent runs against the same organization.
type LockBackend string

const (
	LockBackendAuto  LockBackend = "auto" // Redis if configured, else PostgreSQL advisory lock
	LockBackendRedis LockBackend = "redis"
	LockBackendPG    LockBackend = "postgres"
)

// Config is the operational surface read from a YAML file and/or
// environment variables before any organization is loaded.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Run      RunConfig      `yaml:"run"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds the store connection target.
type DatabaseConfig struct {
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
}

// RedisConfig holds the optional distributed-lock backend. Address
// empty means "no Redis" — the engine falls back to a PostgreSQL
// advisory lock.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RunConfig holds the batch-shape tuning for one invocation.
type RunConfig struct {
	BatchSize      int         `yaml:"batch_size"`
	ChunkSize      int         `yaml:"chunk_size"`
	LockBackend    LockBackend `yaml:"lock_backend"`
	LockTTLSeconds int         `yaml:"lock_ttl_seconds"`
}

// LogConfig holds structured-logging tuning. PII redaction defaults on;
// DisablePIIRedaction is the explicit opt-out.
type LogConfig struct {
	Level                string `yaml:"level"`
	DisablePIIRedaction bool   `yaml:"disable_pii_redaction"`
}

// Load reads and parses the configuration file, filling in defaults
// for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read opsconfig file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse opsconfig file: %w", err)
	}

	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 20
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Run.BatchSize == 0 {
		cfg.Run.BatchSize = 10_000
	}
	if cfg.Run.ChunkSize == 0 {
		cfg.Run.ChunkSize = 500
	}
	if cfg.Run.LockBackend == "" {
		cfg.Run.LockBackend = LockBackendAuto
	}
	if cfg.Run.LockTTLSeconds == 0 {
		cfg.Run.LockTTLSeconds = 3600
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return &cfg, nil
}

// LoadFromEnv loads the file at path, then overlays recognized
// environment variables (and an optional .env file) on top, for
// secrets and per-deployment overrides. A missing file at path is an
// error, as in Load.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dsn := os.Getenv("SCHEDULER_DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if addr := os.Getenv("SCHEDULER_REDIS_ADDRESS"); addr != "" {
		cfg.Redis.Address = addr
	}
	if pw := os.Getenv("SCHEDULER_REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}
	if lvl := os.Getenv("SCHEDULER_LOG_LEVEL"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if bs := os.Getenv("SCHEDULER_BATCH_SIZE"); bs != "" {
		if n, err := strconv.Atoi(bs); err == nil {
			cfg.Run.BatchSize = n
		}
	}

	return cfg, nil
}
