package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kumbu-pos/kumbu-pos/internal/api"
	"github.com/kumbu-pos/kumbu-pos/internal/app"
	"github.com/kumbu-pos/kumbu-pos/internal/cart"
	"github.com/kumbu-pos/kumbu-pos/internal/clients"
	"github.com/kumbu-pos/kumbu-pos/internal/inventory"
	"github.com/kumbu-pos/kumbu-pos/internal/invoice"
	"github.com/kumbu-pos/kumbu-pos/internal/sales"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
	"github.com/kumbu-pos/kumbu-pos/internal/store"
	"github.com/kumbu-pos/kumbu-pos/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	inventoryLedger := inventory.NewLedger(appState, logger)
	clientLedger := clients.NewLedger(appState, logger)
	saleCart := cart.New(appState, logger)
	engine := sales.NewEngine(appState, renderer, logger, cfg.RenderTimeout)

	var pdf api.PDFRenderer
	pdfClient := report.NewClient(cfg.GotenbergURL)
	if err := pdfClient.Ping(ctx); err != nil {
		logger.Warn("gotenberg unavailable, pdf downloads disabled", slog.Any("error", err))
	} else {
		pdf = pdfClient
	}

	handler := api.NewHandler(api.Params{
		Logger:    logger,
		State:     appState,
		Inventory: inventoryLedger,
		Clients:   clientLedger,
		Cart:      saleCart,
		Engine:    engine,
		PDF:       pdf,
		PINHash:   cfg.MerchantPINHash,
	})

	router := app.NewRouter(app.RouterParams{
		Logger: logger,
		Config: cfg,
		API:    handler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
}
