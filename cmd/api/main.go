package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shinyyama/social-inbox/internal/ai"
	"github.com/shinyyama/social-inbox/internal/cache"
	"github.com/shinyyama/social-inbox/internal/config"
	"github.com/shinyyama/social-inbox/internal/db"
	"github.com/shinyyama/social-inbox/internal/events"
	"github.com/shinyyama/social-inbox/internal/logger"
	appmw "github.com/shinyyama/social-inbox/internal/middleware"
	"github.com/shinyyama/social-inbox/internal/server"
	"github.com/shinyyama/social-inbox/internal/service"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	lg := logger.Must(logger.Config{Development: cfg.Development()})
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := server.Options{
		Logger:       lg,
		Registry:     reg,
		Drafter:      buildDrafter(ctx, cfg, lg),
		Publisher:    events.Nop{},
		Cache:        cache.Nop{},
		AnalyticsTTL: cfg.AnalyticsTTL,
		GitSHA:       cfg.GitSHA,
		BuildAt:      cfg.BuildAt,
	}

	if len(cfg.KafkaBrokers) > 0 {
		pub := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaReplyTopic)
		defer func() { _ = pub.Close() }()
		opts.Publisher = pub
		lg.Info("reply events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaReplyTopic))
	}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			lg.Warn("redis unavailable; analytics cache disabled", zap.Error(err))
		} else {
			defer func() { _ = rc.Close() }()
			opts.Cache = rc
		}
	}

	if cfg.FirebaseProjectID != "" {
		authMw, err := appmw.NewAuthMiddleware(ctx, cfg.FirebaseProjectID)
		if err != nil {
			lg.Fatal("failed to init firebase auth", zap.Error(err))
		}
		opts.Auth = authMw
		opts.Identities = service.NewFirebaseIdentityLookup(authMw.Users())
	} else if !cfg.Development() {
		lg.Fatal("FIREBASE_PROJECT_ID is required outside development")
	} else {
		lg.Warn("firebase auth disabled; trusting " + appmw.UserIDHeader)
	}

	srv := server.New(nil, opts)
	addr := ":" + cfg.Port

	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting server", zap.String("addr", addr))
		errCh <- srv.Start(addr)
	}()

	go func() {
		conn, err := db.Connect(cfg)
		if err != nil {
			lg.Error("db connect error", zap.Error(err))
			return
		}
		if cfg.AutoMigrate {
			if err := db.Migrate(conn); err != nil {
				lg.Error("auto migrate error", zap.Error(err))
			}
		}
		srv.SetDB(conn)
		lg.Info("database ready", zap.String("driver", cfg.DBDriver))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("shutdown error", zap.Error(err))
		}
	}
}

// buildDrafter wraps the configured generator with the rate limit and breaker.
// The template drafter is always the fallback.
func buildDrafter(ctx context.Context, cfg *config.Config, lg *zap.Logger) ai.DraftGenerator {
	template := ai.NewTemplateDrafter(cfg.Draft.Delay)
	if cfg.Draft.Provider != "gemini" {
		return template
	}
	gemini, err := ai.NewGeminiDrafter(ctx, cfg.Draft.GeminiAPIKey, cfg.Draft.GeminiModel, lg.Named("gemini"))
	if err != nil {
		lg.Warn("gemini drafter unavailable; using templates", zap.Error(err))
		return template
	}
	return ai.NewGuardedDrafter(gemini, ai.GuardOptions{
		PerMinute:      cfg.Draft.RatePerMinute,
		BreakerTimeout: cfg.Draft.BreakerTimeout,
		Fallback:       ai.NewTemplateDrafter(0),
	}, lg.Named("draft"))
}
