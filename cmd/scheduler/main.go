// Command scheduler runs one pass of the send-schedule engine for a
// single organization: `scheduler <store-path> <org-id>`. Exit codes
// follow spec §6: 0 success, 1 invalid argument, 2 store error,
// 3 configuration error, 4 internal failure.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/scheduler-engine/internal/domain"
	"github.com/ignite/scheduler-engine/internal/engine"
	"github.com/ignite/scheduler-engine/internal/opsconfig"
	"github.com/ignite/scheduler-engine/internal/pkg/distlock"
	"github.com/ignite/scheduler-engine/internal/pkg/logger"
	"github.com/ignite/scheduler-engine/internal/store"
)

const (
	exitOK            = 0
	exitInvalidArg    = 1
	exitStoreError    = 2
	exitConfigError   = 3
	exitInternalError = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: scheduler <store-path> <org-id>")
		return exitInvalidArg
	}
	storePath := os.Args[1]
	orgID := os.Args[2]
	if storePath == "" || orgID == "" {
		fmt.Fprintln(os.Stderr, "store-path and org-id must both be non-empty")
		return exitInvalidArg
	}

	opsPath := os.Getenv("SCHEDULER_CONFIG_PATH")
	if opsPath == "" {
		opsPath = "scheduler.yaml"
	}
	ops, err := opsconfig.LoadFromEnv(opsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load operational config: %v\n", err)
		return exitConfigError
	}
	if ops.Database.DSN == "" {
		ops.Database.DSN = storePath
	}
	logger.SetRedactPII(!ops.Log.DisablePIIRedaction)
	logger.SetLevel(parseLogLevel(ops.Log.Level))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := store.Open(ctx, ops.Database.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		return exitStoreError
	}
	defer s.Close()

	var redisClient *redis.Client
	if ops.Redis.Address != "" && ops.Run.LockBackend != opsconfig.LockBackendPG {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     ops.Redis.Address,
			Password: ops.Redis.Password,
			DB:       ops.Redis.DB,
		})
		defer redisClient.Close()
	}

	lock := distlock.NewLock(redisClient, s.DB(), "scheduler-run:"+orgID, time.Duration(ops.Run.LockTTLSeconds)*time.Second)
	acquired, err := lock.Acquire(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "acquire run lock: %v\n", err)
		return exitStoreError
	}
	if !acquired {
		fmt.Fprintf(os.Stderr, "another run is already in progress for org %s\n", orgID)
		return exitStoreError
	}
	defer lock.Release(ctx)

	runner := engine.NewRunner(s)
	runner.ChunkSize = ops.Run.ChunkSize
	runner.BatchSize = ops.Run.BatchSize

	summary, err := runner.Run(ctx, orgID)
	if summary != nil {
		printSummary(summary)
	}
	if err != nil {
		logger.Error("run failed", "org_id", orgID, "error", err.Error())
		return classifyFailure(err)
	}
	return exitOK
}

func parseLogLevel(level string) logger.Level {
	switch level {
	case "debug":
		return logger.DEBUG
	case "warn":
		return logger.WARN
	case "error":
		return logger.ERROR
	default:
		return logger.INFO
	}
}

func classifyFailure(err error) int {
	var cfgErr *domain.ConfigurationError
	var storeErr *domain.StoreError
	switch {
	case errors.As(err, &cfgErr):
		return exitConfigError
	case errors.As(err, &storeErr):
		return exitStoreError
	default:
		return exitInternalError
	}
}

func printSummary(s *domain.RunSummary) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal run summary: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
