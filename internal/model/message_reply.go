package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReplyStatus string

const (
	ReplyStatusPending ReplyStatus = "pending"
	ReplyStatusSent    ReplyStatus = "sent"
	ReplyStatusFailed  ReplyStatus = "failed"
)

// MessageReply rows are append-only.
type MessageReply struct {
	ID              string      `gorm:"primaryKey;size:36" json:"id"`
	MessageID       string      `gorm:"column:message_id;size:36;index;not null" json:"messageId"`
	SocialAccountID string      `gorm:"column:social_account_id;size:36;index;not null" json:"socialAccountId"`
	Content         string      `gorm:"column:content;type:text;not null" json:"content"`
	SentByAI        bool        `gorm:"column:sent_by_ai;not null;default:false" json:"sentByAi"`
	SentByUserID    *string     `gorm:"column:sent_by_user_id;size:128" json:"sentByUserId"`
	PlatformReplyID *string     `gorm:"column:platform_reply_id;size:255" json:"platformReplyId,omitempty"`
	Status          ReplyStatus `gorm:"column:status;size:16;not null" json:"status"`
	ErrorMessage    *string     `gorm:"column:error_message;type:text" json:"errorMessage,omitempty"`
	SentAt          *time.Time  `gorm:"column:sent_at" json:"sentAt,omitempty"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"createdAt"`
}

func (MessageReply) TableName() string {
	return "message_replies"
}

func (r *MessageReply) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
