package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageType string

const (
	MessageTypeDM      MessageType = "dm"
	MessageTypeComment MessageType = "comment"
	MessageTypeMention MessageType = "mention"
	MessageTypeReply   MessageType = "reply"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Message is an inbound message synced from a platform. Everything except the
// read/replied columns is written by the external sync process.
type Message struct {
	ID                string         `gorm:"primaryKey;size:36" json:"id"`
	SocialAccountID   string         `gorm:"column:social_account_id;size:36;index;not null" json:"socialAccountId"`
	SocialAccount     *SocialAccount `gorm:"foreignKey:SocialAccountID" json:"socialAccount,omitempty"`
	PlatformMessageID string         `gorm:"column:platform_message_id;size:255;not null" json:"platformMessageId"`
	SenderID          string         `gorm:"column:sender_id;size:255;not null" json:"senderId"`
	SenderName        string         `gorm:"column:sender_name;size:255;not null" json:"senderName"`
	SenderUsername    *string        `gorm:"column:sender_username;size:255" json:"senderUsername,omitempty"`
	SenderAvatarURL   *string        `gorm:"column:sender_avatar_url;size:512" json:"senderAvatarUrl,omitempty"`
	Content           string         `gorm:"column:content;type:text;not null" json:"content"`
	MessageType       MessageType    `gorm:"column:message_type;size:16;not null;default:dm" json:"messageType"`
	ParentMessageID   *string        `gorm:"column:parent_message_id;size:36" json:"parentMessageId,omitempty"`
	IsRead            bool           `gorm:"column:is_read;not null;default:false" json:"isRead"`
	IsReplied         bool           `gorm:"column:is_replied;not null;default:false" json:"isReplied"`
	RepliedAt         *time.Time     `gorm:"column:replied_at" json:"repliedAt,omitempty"`
	RepliedByAI       bool           `gorm:"column:replied_by_ai;not null;default:false" json:"repliedByAi"`
	Sentiment         Sentiment      `gorm:"column:sentiment;size:16;not null;default:neutral" json:"sentiment"`
	Priority          Priority       `gorm:"column:priority;size:16;not null;default:medium" json:"priority"`
	PlatformCreatedAt time.Time      `gorm:"column:platform_created_at;index;not null" json:"platformCreatedAt"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
