package model

import "time"

// Profile is keyed by the firebase uid.
type Profile struct {
	ID        string    `gorm:"primaryKey;size:128" json:"id"`
	Email     string    `gorm:"size:320" json:"email"`
	FullName  string    `gorm:"column:full_name;size:200" json:"fullName"`
	AvatarURL string    `gorm:"column:avatar_url;type:text" json:"avatarUrl"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Profile) TableName() string {
	return "profiles"
}
