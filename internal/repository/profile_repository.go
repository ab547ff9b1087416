package repository

import (
	"context"
	"errors"

	"github.com/shinyyama/social-inbox/internal/model"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Find(ctx context.Context, id string) (*model.Profile, error)
	Save(ctx context.Context, p *model.Profile) error
	SetDB(db *gorm.DB)
}

type profileRepository struct {
	dbHandle
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	r := &profileRepository{}
	r.SetDB(db)
	return r
}

// Find returns nil when the user has no stored profile.
func (r *profileRepository) Find(ctx context.Context, id string) (*model.Profile, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var p model.Profile
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Save(ctx context.Context, p *model.Profile) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.Save(p).Error
}
