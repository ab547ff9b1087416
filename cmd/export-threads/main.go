package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shinyyama/social-inbox/internal/archive"
	"github.com/shinyyama/social-inbox/internal/config"
	"github.com/shinyyama/social-inbox/internal/db"
	"github.com/shinyyama/social-inbox/internal/logger"
	"github.com/shinyyama/social-inbox/internal/repository"
	"go.uber.org/zap"
)

func main() {
	userID := flag.String("user", "", "only export threads of this user (default: all users)")
	flag.Parse()

	if err := run(*userID); err != nil {
		log.Fatalf("export failed: %v", err)
	}
}

func run(userID string) error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	lg := logger.Must(logger.Config{Development: cfg.Development()})
	defer func() { _ = lg.Sync() }()

	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	w, err := archive.NewGCSWriter(ctx, cfg.ExportBucket, cfg.GoogleCredentialsFile)
	if err != nil {
		return fmt.Errorf("storage client: %w", err)
	}
	defer func() { _ = w.Close() }()

	exp := archive.NewExporter(repository.NewMessageRepository(gdb), w, lg)
	n, err := exp.ExportReplied(ctx, userID)
	if err != nil {
		return fmt.Errorf("exported %d threads before error: %w", n, err)
	}
	lg.Info("export finished", zap.String("bucket", cfg.ExportBucket), zap.Int("threads", n))
	return nil
}
