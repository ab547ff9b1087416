package repository

import (
	"context"
	"time"

	"github.com/shinyyama/social-inbox/internal/model"
	"gorm.io/gorm"
)

type AnalyticsRepository interface {
	ListSince(ctx context.Context, accountIDs []string, since time.Time) ([]model.AnalyticsDaily, error)
	Create(ctx context.Context, row *model.AnalyticsDaily) error
	SetDB(db *gorm.DB)
}

type analyticsRepository struct {
	dbHandle
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	r := &analyticsRepository{}
	r.SetDB(db)
	return r
}

func (r *analyticsRepository) ListSince(ctx context.Context, accountIDs []string, since time.Time) ([]model.AnalyticsDaily, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	if len(accountIDs) == 0 {
		return nil, nil
	}
	var list []model.AnalyticsDaily
	if err := db.
		Where("social_account_id IN ? AND date >= ?", accountIDs, since).
		Order("date DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *analyticsRepository) Create(ctx context.Context, row *model.AnalyticsDaily) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(row).Error
}
