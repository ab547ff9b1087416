package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResponseTone string

const (
	ToneProfessional ResponseTone = "professional"
	ToneFriendly     ResponseTone = "friendly"
	ToneCasual       ResponseTone = "casual"
	ToneCustom       ResponseTone = "custom"
)

type FilterKeywords struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// AIConfiguration with a nil SocialAccountID is the user's default.
type AIConfiguration struct {
	ID                 string         `gorm:"primaryKey;size:36" json:"id"`
	UserID             string         `gorm:"column:user_id;size:128;index;not null" json:"userId"`
	SocialAccountID    *string        `gorm:"column:social_account_id;size:36;index" json:"socialAccountId"`
	IsEnabled          bool           `gorm:"column:is_enabled;not null" json:"isEnabled"`
	AutoReplyEnabled   bool           `gorm:"column:auto_reply_enabled;not null;default:false" json:"autoReplyEnabled"`
	ResponseTone       ResponseTone   `gorm:"column:response_tone;size:16;not null;default:professional" json:"responseTone"`
	CustomInstructions string         `gorm:"column:custom_instructions;type:text" json:"customInstructions"`
	ReplyDelaySeconds  int            `gorm:"column:reply_delay_seconds;not null;default:0" json:"replyDelaySeconds"`
	FilterKeywords     FilterKeywords `gorm:"column:filter_keywords;type:text;serializer:json" json:"filterKeywords"`
	BusinessContext    string         `gorm:"column:business_context;type:text" json:"businessContext"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (AIConfiguration) TableName() string {
	return "ai_configurations"
}

func (c *AIConfiguration) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
