package repotest

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/repository"
	"gorm.io/gorm"
)

// AccountRepo returns an AccountRepository over the store's accounts.
func (s *Store) AccountRepo() repository.AccountRepository { return accountRepo{s} }

// AIConfigRepo returns an AIConfigRepository keyed by user id.
func (s *Store) AIConfigRepo() repository.AIConfigRepository { return aiConfigRepo{s} }

// AnalyticsRepo returns an AnalyticsRepository over the store's rows.
func (s *Store) AnalyticsRepo() repository.AnalyticsRepository { return analyticsRepo{s} }

// ProfileRepo returns a ProfileRepository keyed by user id.
func (s *Store) ProfileRepo() repository.ProfileRepository { return profileRepo{s} }

type accountRepo struct{ s *Store }

func (r accountRepo) SetDB(*gorm.DB) {}

func (r accountRepo) ListByUser(_ context.Context, userID string) ([]model.SocialAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailList != nil {
		return nil, r.s.FailList
	}
	var out []model.SocialAccount
	for _, a := range r.s.Accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r accountRepo) FindByID(_ context.Context, userID, id string) (*model.SocialAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailFind != nil {
		return nil, r.s.FailFind
	}
	a, ok := r.s.Accounts[id]
	if !ok || a.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r accountRepo) Create(_ context.Context, acc *model.SocialAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	r.s.Accounts[acc.ID] = *acc
	return nil
}

func (r accountRepo) SetActive(_ context.Context, userID, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.Accounts[id]
	if !ok || a.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	a.IsActive = active
	r.s.Accounts[id] = a
	return nil
}

func (r accountRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.Accounts[id]
	if !ok || a.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.Accounts, id)
	return nil
}

func (r accountRepo) TouchSynced(_ context.Context, userID string, ids []string, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		a, ok := r.s.Accounts[id]
		if !ok || a.UserID != userID {
			continue
		}
		t := at
		a.LastSyncedAt = &t
		r.s.Accounts[id] = a
		n++
	}
	return n, nil
}

type aiConfigRepo struct{ s *Store }

func (r aiConfigRepo) SetDB(*gorm.DB) {}

func (r aiConfigRepo) FindDefault(_ context.Context, userID string) (*model.AIConfiguration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailFind != nil {
		return nil, r.s.FailFind
	}
	cfg, ok := r.s.Configs[userID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (r aiConfigRepo) SaveDefault(_ context.Context, cfg *model.AIConfiguration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cfg.SocialAccountID = nil
	if existing, ok := r.s.Configs[cfg.UserID]; ok {
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
	} else if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	r.s.Configs[cfg.UserID] = *cfg
	return nil
}

type analyticsRepo struct{ s *Store }

func (r analyticsRepo) SetDB(*gorm.DB) {}

func (r analyticsRepo) ListSince(_ context.Context, accountIDs []string, since time.Time) ([]model.AnalyticsDaily, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.StoreCalls++
	if r.s.FailList != nil {
		return nil, r.s.FailList
	}
	wanted := map[string]bool{}
	for _, id := range accountIDs {
		wanted[id] = true
	}
	var out []model.AnalyticsDaily
	for _, row := range r.s.Analytics {
		if wanted[row.SocialAccountID] && !row.Date.Before(since) {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r analyticsRepo) Create(_ context.Context, row *model.AnalyticsDaily) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	r.s.Analytics = append(r.s.Analytics, *row)
	return nil
}

type profileRepo struct{ s *Store }

func (r profileRepo) SetDB(*gorm.DB) {}

func (r profileRepo) Find(_ context.Context, id string) (*model.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.StoreCalls++
	if r.s.FailFind != nil {
		return nil, r.s.FailFind
	}
	p, ok := r.s.Profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r profileRepo) Save(_ context.Context, p *model.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.StoreCalls++
	if r.s.FailSave != nil {
		return r.s.FailSave
	}
	if existing, ok := r.s.Profiles[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = time.Now().UTC()
	r.s.Profiles[p.ID] = *p
	return nil
}
