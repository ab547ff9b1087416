package repository

import (
	"context"
	"errors"

	"github.com/shinyyama/social-inbox/internal/model"
	"gorm.io/gorm"
)

type AIConfigRepository interface {
	FindDefault(ctx context.Context, userID string) (*model.AIConfiguration, error)
	SaveDefault(ctx context.Context, cfg *model.AIConfiguration) error
	SetDB(db *gorm.DB)
}

type aiConfigRepository struct {
	dbHandle
}

func NewAIConfigRepository(db *gorm.DB) AIConfigRepository {
	r := &aiConfigRepository{}
	r.SetDB(db)
	return r
}

// FindDefault returns the user's account-independent configuration, or nil
// when none has been saved yet.
func (r *aiConfigRepository) FindDefault(ctx context.Context, userID string) (*model.AIConfiguration, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var cfg model.AIConfiguration
	if err := db.
		Where("user_id = ? AND social_account_id IS NULL", userID).
		First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *aiConfigRepository) SaveDefault(ctx context.Context, cfg *model.AIConfiguration) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	cfg.SocialAccountID = nil
	existing, err := r.FindDefault(ctx, cfg.UserID)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.Create(cfg).Error
	}
	cfg.ID = existing.ID
	cfg.CreatedAt = existing.CreatedAt
	return db.Save(cfg).Error
}
