package repository

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// a second connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(model.All()...))
	return gdb
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedAccount(t *testing.T, gdb *gorm.DB, userID, platform, handle string) model.SocialAccount {
	t.Helper()
	acc := model.SocialAccount{
		UserID:           userID,
		Platform:         platform,
		PlatformUserID:   handle + "-id",
		PlatformUsername: handle,
		IsActive:         true,
	}
	require.NoError(t, gdb.Create(&acc).Error)
	return acc
}

func seedMessage(t *testing.T, gdb *gorm.DB, acc model.SocialAccount, content string, offset time.Duration, mutate func(m *model.Message)) model.Message {
	t.Helper()
	msg := model.Message{
		SocialAccountID:   acc.ID,
		PlatformMessageID: content,
		SenderID:          "sender",
		SenderName:        "Sam",
		Content:           content,
		MessageType:       model.MessageTypeDM,
		Sentiment:         model.SentimentNeutral,
		Priority:          model.PriorityMedium,
		PlatformCreatedAt: baseTime.Add(offset),
	}
	if mutate != nil {
		mutate(&msg)
	}
	require.NoError(t, gdb.Create(&msg).Error)
	return msg
}
