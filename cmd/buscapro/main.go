// Package main is the BuscaPro server entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MarcosHerrera95/buscapro/internal/cache"
	"github.com/MarcosHerrera95/buscapro/internal/config"
	"github.com/MarcosHerrera95/buscapro/internal/enrich"
	"github.com/MarcosHerrera95/buscapro/internal/metrics"
	"github.com/MarcosHerrera95/buscapro/internal/models"
	"github.com/MarcosHerrera95/buscapro/internal/ranking"
	"github.com/MarcosHerrera95/buscapro/internal/search"
	"github.com/MarcosHerrera95/buscapro/internal/server"
	"github.com/MarcosHerrera95/buscapro/internal/store"
	"github.com/MarcosHerrera95/buscapro/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/buscapro/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "config file path")
	debug := flag.Bool("debug", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("buscapro version %s\n", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", *configPath),
		zap.Bool("debug", debugMode),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := store.NewPostgresPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("postgres unavailable", zap.Error(err))
	}
	pgStore := store.NewPostgresStore(pool)
	defer pgStore.Close()

	// A dead fast tier at boot is a degradation, not a startup failure:
	// the fallback tier carries the cache alone until Redis comes back
	// and the process is restarted or redeployed.
	var fastTier cache.Tier
	rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Warn("redis unavailable, starting in fallback-only cache mode", zap.Error(err))
	} else {
		fastTier = cache.NewRedisTier(rdb, time.Duration(cfg.Redis.TimeoutSeconds)*time.Second)
		defer rdb.Close()
	}

	tiers := cache.NewMultiTier(
		fastTier,
		cache.NewMemoryTier(cfg.Cache.FallbackMaxEntries),
		time.Duration(cfg.Cache.SearchTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.SuggestionTTLSeconds)*time.Second,
		logger,
	)
	collector := metrics.NewCollector(cfg.Metrics.RingSize)

	engine := search.NewEngine(
		pgStore,
		enrich.NewEnricher(pgStore),
		ranking.NewRanker(cfg.Ranking.Locale),
		tiers,
		collector,
		logger,
		models.NormalizeOptions{
			DefaultLimit: cfg.Search.DefaultLimit,
			MaxLimit:     cfg.Search.MaxLimit,
			MaxRadiusKm:  cfg.Search.MaxRadiusKm,
		},
	)

	srv := server.NewServer(engine, collector, &cfg.Server, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}
}
