package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shinyyama/social-inbox/internal/config"
	"github.com/shinyyama/social-inbox/internal/db"
	"github.com/shinyyama/social-inbox/internal/model"
	"gorm.io/gorm"
)

type seedAccount struct {
	Platform string
	Handle   string
}

type seedMessage struct {
	Sender    string
	Content   string
	Type      model.MessageType
	Sentiment model.Sentiment
	Priority  model.Priority
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	userID := strings.TrimSpace(os.Getenv("SEED_USER_ID"))
	if userID == "" {
		return fmt.Errorf("SEED_USER_ID is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	canSeed, err := shouldSeed(ctx, gdb, userID)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("accounts already exist for %s; skipping seed (set FORCE_SEED=true to override)", userID)
		return nil
	}

	now := time.Now().UTC()
	var messages int
	err = gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := model.Profile{ID: userID, FullName: "Demo User"}
		if err := tx.Where(model.Profile{ID: userID}).FirstOrCreate(&profile).Error; err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		for i, sa := range buildAccounts() {
			acc := model.SocialAccount{
				UserID:           userID,
				Platform:         sa.Platform,
				PlatformUserID:   fmt.Sprintf("%s-%d", sa.Platform, i+1),
				PlatformUsername: sa.Handle,
				IsActive:         true,
				LastSyncedAt:     &now,
			}
			if err := tx.Create(&acc).Error; err != nil {
				return fmt.Errorf("insert account %q: %w", sa.Handle, err)
			}
			for j, sm := range buildMessages() {
				msg := model.Message{
					SocialAccountID:   acc.ID,
					PlatformMessageID: fmt.Sprintf("%s-msg-%d", acc.PlatformUserID, j+1),
					SenderID:          fmt.Sprintf("sender-%d", j+1),
					SenderName:        sm.Sender,
					Content:           sm.Content,
					MessageType:       sm.Type,
					Sentiment:         sm.Sentiment,
					Priority:          sm.Priority,
					IsRead:            j%3 == 0,
					PlatformCreatedAt: now.Add(-time.Duration(i*len(buildMessages())+j) * time.Hour),
				}
				if err := tx.Create(&msg).Error; err != nil {
					return fmt.Errorf("insert message: %w", err)
				}
				messages++
			}
			for d := 0; d < 14; d++ {
				received := 8 + (d*7+i*3)%11
				replied := received * (60 + (d*13)%35) / 100
				ai := replied / 3
				row := model.AnalyticsDaily{
					SocialAccountID:        acc.ID,
					Date:                   now.Truncate(24*time.Hour).AddDate(0, 0, -d),
					MessagesReceived:       received,
					MessagesReplied:        replied,
					AIReplies:              ai,
					ManualReplies:          replied - ai,
					AvgResponseTimeMinutes: float64(15 + (d*17)%45),
					PositiveSentimentCount: received / 2,
					NegativeSentimentCount: received / 5,
					NeutralSentimentCount:  received - received/2 - received/5,
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("insert analytics: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d accounts and %d messages for %s", len(buildAccounts()), messages, userID)
	return nil
}

func buildAccounts() []seedAccount {
	return []seedAccount{
		{Platform: "twitter", Handle: "@acme"},
		{Platform: "instagram", Handle: "acme.official"},
		{Platform: "facebook", Handle: "Acme Inc."},
	}
}

func buildMessages() []seedMessage {
	return []seedMessage{
		{Sender: "Sarah Johnson", Content: "Love the new release! When is the next update coming?", Type: model.MessageTypeComment, Sentiment: model.SentimentPositive, Priority: model.PriorityMedium},
		{Sender: "Mike Chen", Content: "My order arrived damaged. I need a refund please.", Type: model.MessageTypeDM, Sentiment: model.SentimentNegative, Priority: model.PriorityHigh},
		{Sender: "Emma Davis", Content: "Do you ship internationally?", Type: model.MessageTypeDM, Sentiment: model.SentimentNeutral, Priority: model.PriorityMedium},
		{Sender: "Alex Rivera", Content: "Shoutout to the support team, super helpful!", Type: model.MessageTypeMention, Sentiment: model.SentimentPositive, Priority: model.PriorityLow},
		{Sender: "Priya Patel", Content: "Still waiting for a reply about my account access.", Type: model.MessageTypeReply, Sentiment: model.SentimentNegative, Priority: model.PriorityHigh},
	}
}

func shouldSeed(ctx context.Context, gdb *gorm.DB, userID string) (bool, error) {
	var cnt int64
	if err := gdb.WithContext(ctx).Model(&model.SocialAccount{}).Where("user_id = ?", userID).Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	force := os.Getenv("FORCE_SEED")
	return strings.EqualFold(force, "true"), nil
}
