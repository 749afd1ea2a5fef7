package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/blackspyek/cryptosim-backend/internal/adapter/binance"
	"github.com/blackspyek/cryptosim-backend/internal/adapter/httpapi"
	"github.com/blackspyek/cryptosim-backend/internal/adapter/repository/postgres"
	"github.com/blackspyek/cryptosim-backend/internal/cache"
	"github.com/blackspyek/cryptosim-backend/internal/config"
	"github.com/blackspyek/cryptosim-backend/internal/sysmon"
	"github.com/blackspyek/cryptosim-backend/internal/usecase/asset"
	"github.com/blackspyek/cryptosim-backend/internal/usecase/market"
	"github.com/blackspyek/cryptosim-backend/internal/usecase/seeder"
	"github.com/blackspyek/cryptosim-backend/internal/usecase/trade"
	"github.com/blackspyek/cryptosim-backend/internal/ws"
)

const klineCacheMaxCost = 1 << 20

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// Give Postgres a moment to come up when started together (Docker friendly)
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	ledgerRepo := postgres.NewLedgerRepository(db)
	assetRepo := postgres.NewAssetRepository(db)
	historyRepo := postgres.NewPriceHistoryRepository(db)

	// Shared in-process state
	priceCache := cache.NewPriceCache()
	hub := ws.NewHub(logger, cfg.WSSendBuffer)

	klineCache, err := cache.NewTTL(klineCacheMaxCost, cfg.KlineCacheTTL)
	if err != nil {
		logger.Fatal("failed to build kline cache", zap.Error(err))
	}

	// External feed
	feed := binance.NewClient(cfg.FeedBaseURL, cfg.FeedTimeout)

	// Services
	tradeService := trade.NewService(ledgerRepo, assetRepo, priceCache)
	assetService := asset.NewService(assetRepo, priceCache, feed, klineCache)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := seeder.New(ledgerRepo, assetRepo).Seed(ctx); err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}
	logger.Info("seed data ensured", zap.String("demo_account", seeder.DemoAccountID.String()))

	// Background price poller
	poller := &market.Poller{
		Assets:       assetRepo,
		History:      historyRepo,
		Cache:        priceCache,
		Feed:         feed,
		Hub:          hub,
		Sampler:      sysmon.Sampler{},
		Logger:       logger,
		Interval:     cfg.PollInterval,
		FetchTimeout: cfg.FeedTimeout,
	}
	go poller.Run(ctx)

	// HTTP server
	server := httpapi.NewServer(tradeService, assetService, hub, logger, cfg.APIToken, cfg.CORSOrigin)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.R,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
	hub.Close()
	logger.Info("server stopped")
}
