package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"wellspring/internal/auth"
	"wellspring/internal/config"
	"wellspring/internal/db"
	"wellspring/internal/embed"
	httpx "wellspring/internal/http"
	"wellspring/internal/insight"
	"wellspring/internal/jobs"
	"wellspring/internal/record"
)

func main() {
	cfg, _ := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Embedding backend is strictly optional; without it the theme
	// clusterer runs keyword-only.
	var embedder insight.Embedder
	if cfg.GeminiAPIKey != "" {
		ge, err := embed.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbedModel)
		if err != nil {
			logger.Warn("embedding backend unavailable, themes degrade to keywords", zap.Error(err))
		} else {
			embedder = ge
			defer func() { _ = ge.Close() }()
		}
	}

	matcher := &insight.Matcher{Dict: insight.LoadDictionary(cfg.KeywordDictPath, logger)}
	composer := &insight.Composer{
		Clusterer: &insight.Clusterer{
			Embedder: embedder,
			Matcher:  matcher,
			MaxK:     cfg.MaxThemes,
			Timeout:  cfg.ClusterTimeout,
			Log:      logger,
		},
		Matcher:       matcher,
		StreakMinDays: cfg.StreakMinDays,
		DropThreshold: cfg.DropThreshold,
	}
	svc := &insight.Service{
		Store:          &insight.GormStore{DB: gdb},
		Composer:       composer,
		Log:            logger,
		MinRecords:     cfg.MinRecords,
		RetentionWeeks: cfg.RetentionWeeks,
	}
	runner := &insight.Runner{
		Svc:    svc,
		Source: &record.Loader{DB: gdb},
		Targets: func(ctx context.Context) ([]*uint64, error) {
			var ids []uint64
			if err := gdb.WithContext(ctx).Model(&auth.User{}).Pluck("id", &ids).Error; err != nil {
				return nil, err
			}
			targets := make([]*uint64, 0, len(ids)+1)
			targets = append(targets, nil) // global first
			for i := range ids {
				targets = append(targets, &ids[i])
			}
			return targets, nil
		},
		Log: logger,
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	jobsRepo := &jobs.Repo{DB: gdb}
	r := httpx.NewRouter(cfg, gdb, jwtSvc, svc, jobsRepo)

	// worker + initial batch schedule
	now := time.Now().UTC()
	if err := jobsRepo.EnsureScheduled(jobs.TypeWeeklyBatch, now); err != nil {
		logger.Error("schedule weekly batch", zap.Error(err))
	}
	if err := jobsRepo.EnsureScheduled(jobs.TypeBehavioralBatch, now); err != nil {
		logger.Error("schedule behavioral batch", zap.Error(err))
	}
	worker := &jobs.Worker{ID: "worker-1", Repo: jobsRepo, Runner: runner, Svc: svc, Log: logger}
	go worker.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
