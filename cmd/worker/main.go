package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/kumbu-pos/kumbu-pos/internal/app"
	"github.com/kumbu-pos/kumbu-pos/internal/invoice"
	"github.com/kumbu-pos/kumbu-pos/internal/sales"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
	"github.com/kumbu-pos/kumbu-pos/internal/store"
	"github.com/kumbu-pos/kumbu-pos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var backend store.Store
	switch cfg.StoreBackend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("redis ping", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		backend = store.NewRedisStore(redisClient, "kumbu")
	default:
		fileStore, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			logger.Error("init file store", slog.Any("error", err))
			os.Exit(1)
		}
		backend = fileStore
	}

	appState := state.New(backend, logger)
	if err := appState.Load(ctx); err != nil {
		logger.Error("load state", slog.Any("error", err))
		os.Exit(1)
	}

	renderer, err := invoice.NewRenderer()
	if err != nil {
		logger.Error("init renderer", slog.Any("error", err))
		os.Exit(1)
	}
	engine := sales.NewEngine(appState, renderer, logger, cfg.RenderTimeout)

	backfill := jobs.NewRenderBackfillJob(engine, logger)
	warmup := jobs.NewSAFTWarmupJob(appState, cfg.DataDir, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskInvoiceRenderBackfill, Handler: backfill.Handle},
			{Type: jobs.TaskSAFTWarmup, Handler: warmup.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: jobs.NewSAFTWarmupTask()},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
