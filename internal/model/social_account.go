package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SocialAccount struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	UserID           string     `gorm:"column:user_id;size:128;index;not null" json:"userId"`
	Platform         string     `gorm:"column:platform;size:32;not null" json:"platform"`
	PlatformUserID   string     `gorm:"column:platform_user_id;size:128;not null" json:"platformUserId"`
	PlatformUsername string     `gorm:"column:platform_username;size:255;not null" json:"platformUsername"`
	ProfileImageURL  *string    `gorm:"column:profile_image_url;size:512" json:"profileImageUrl,omitempty"`
	IsActive         bool       `gorm:"column:is_active;not null" json:"isActive"`
	LastSyncedAt     *time.Time `gorm:"column:last_synced_at" json:"lastSyncedAt,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (SocialAccount) TableName() string {
	return "social_accounts"
}

func (a *SocialAccount) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
