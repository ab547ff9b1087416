package repository

import (
	"context"
	"time"

	"github.com/shinyyama/social-inbox/internal/model"
	"gorm.io/gorm"
)

type AccountRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.SocialAccount, error)
	FindByID(ctx context.Context, userID, id string) (*model.SocialAccount, error)
	Create(ctx context.Context, acc *model.SocialAccount) error
	SetActive(ctx context.Context, userID, id string, active bool) error
	Delete(ctx context.Context, userID, id string) error
	TouchSynced(ctx context.Context, userID string, ids []string, at time.Time) (int64, error)
	SetDB(db *gorm.DB)
}

type accountRepository struct {
	dbHandle
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	r := &accountRepository{}
	r.SetDB(db)
	return r
}

func (r *accountRepository) ListByUser(ctx context.Context, userID string) ([]model.SocialAccount, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.SocialAccount
	if err := db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *accountRepository) FindByID(ctx context.Context, userID, id string) (*model.SocialAccount, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var acc model.SocialAccount
	if err := db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *accountRepository) Create(ctx context.Context, acc *model.SocialAccount) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(acc).Error
}

func (r *accountRepository) SetActive(ctx context.Context, userID, id string, active bool) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	if _, err := r.FindByID(ctx, userID, id); err != nil {
		return err
	}
	return db.
		Model(&model.SocialAccount{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", active).Error
}

func (r *accountRepository) Delete(ctx context.Context, userID, id string) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	res := db.
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.SocialAccount{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchSynced stamps last_synced_at on the given accounts the user owns and
// reports how many rows matched.
func (r *accountRepository) TouchSynced(ctx context.Context, userID string, ids []string, at time.Time) (int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.
		Model(&model.SocialAccount{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("last_synced_at", at)
	return res.RowsAffected, res.Error
}
