package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsDaily is one pre-aggregated row per account per day, written upstream.
type AnalyticsDaily struct {
	ID                     string    `gorm:"primaryKey;size:36" json:"id"`
	SocialAccountID        string    `gorm:"column:social_account_id;size:36;index:idx_analytics_account_date;not null" json:"socialAccountId"`
	Date                   time.Time `gorm:"column:date;type:date;index:idx_analytics_account_date;not null" json:"date"`
	MessagesReceived       int       `gorm:"column:messages_received;not null;default:0" json:"messagesReceived"`
	MessagesReplied        int       `gorm:"column:messages_replied;not null;default:0" json:"messagesReplied"`
	AIReplies              int       `gorm:"column:ai_replies;not null;default:0" json:"aiReplies"`
	ManualReplies          int       `gorm:"column:manual_replies;not null;default:0" json:"manualReplies"`
	AvgResponseTimeMinutes float64   `gorm:"column:avg_response_time_minutes;not null;default:0" json:"avgResponseTimeMinutes"`
	PositiveSentimentCount int       `gorm:"column:positive_sentiment_count;not null;default:0" json:"positiveSentimentCount"`
	NegativeSentimentCount int       `gorm:"column:negative_sentiment_count;not null;default:0" json:"negativeSentimentCount"`
	NeutralSentimentCount  int       `gorm:"column:neutral_sentiment_count;not null;default:0" json:"neutralSentimentCount"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (AnalyticsDaily) TableName() string {
	return "analytics"
}

func (a *AnalyticsDaily) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// All returns every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&SocialAccount{},
		&Message{},
		&MessageReply{},
		&AIConfiguration{},
		&AnalyticsDaily{},
		&Profile{},
	}
}
