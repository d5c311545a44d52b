package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"shopkeep/internal/config"
	"shopkeep/internal/http/handlers"
	"shopkeep/internal/imagesearch"
	applog "shopkeep/internal/log"
	"shopkeep/internal/metrics"
	"shopkeep/internal/repos"
	"shopkeep/internal/trends"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := applog.TeeToFile(cfg.LogFile)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN, cfg.SeedDemo)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	m := metrics.New()

	// Trends model; without a key every analysis shows the retry state
	var summarizer trends.Summarizer = trends.Unconfigured{}
	if cfg.GeminiAPIKey != "" {
		g, err := trends.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			applog.Background("warn", "trends.init.fail", err, nil)
		} else {
			defer g.Close()
			summarizer = g
		}
	} else {
		applog.Background("info", "trends.disabled", nil, map[string]any{"reason": "GEMINI_API_KEY unset"})
	}

	// Item images
	var provider imagesearch.Provider
	if cfg.PexelsAPIKey != "" {
		provider = imagesearch.NewPexels(cfg.PexelsAPIKey, cfg.PexelsAPIURL, cfg.ImageTimeout)
	}
	var cache imagesearch.Cache
	if cfg.RedisAddr != "" {
		client, err := imagesearch.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			applog.Background("warn", "image.cache.disabled", err, map[string]any{"addr": cfg.RedisAddr})
		} else {
			defer client.Close()
			cache = imagesearch.NewRedisCache(client, cfg.ImageCacheTTL)
		}
	}

	deps := handlers.NewDeps(handlers.Stores{
		Items:     repos.NewItemRepo(db),
		Sales:     repos.NewSaleRepo(db),
		Inventory: repos.NewInventoryRepo(db),
	}, summarizer, cfg.TrendsTimeout, imagesearch.New(provider, cache, m), m)

	app := handlers.NewApp(handlers.AppConfig{TemplatesDir: cfg.TemplatesDir, Reload: true}, deps)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("[warn] shutdown: %v", err)
		}
	}()

	log.Printf("[http] listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("[http] %v", err)
	}
}
