package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shinyyama/social-inbox/internal/config"
	"github.com/shinyyama/social-inbox/internal/db"
	"github.com/shinyyama/social-inbox/internal/logger"
	"github.com/shinyyama/social-inbox/internal/repository"
	"github.com/shinyyama/social-inbox/internal/service"
	"go.uber.org/zap"
)

func main() {
	userID := flag.String("user", "", "only repair messages of this user (default: all users)")
	flag.Parse()

	if err := run(*userID); err != nil {
		log.Fatalf("reconcile failed: %v", err)
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
	svc := service.NewInboxService(service.InboxDeps{
		Messages: repository.NewMessageRepository(gdb),
		Logger:   lg,
	})
	n, err := svc.ReconcileReplied(ctx, service.Scope{UserID: userID})
	if err != nil {
		return err
	}
	lg.Info("reconcile finished", zap.String("user", userID), zap.Int("repaired", n))
	return nil
}
