package service

import (
	"context"
	"time"

	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/repository"
)

type AccountService interface {
	List(ctx context.Context, scope Scope) ([]model.SocialAccount, error)
	SetActive(ctx context.Context, scope Scope, id string, active bool) (*model.SocialAccount, error)
	Delete(ctx context.Context, scope Scope, id string) error
	Sync(ctx context.Context, scope Scope, ids []string) (int64, error)
}

type accountService struct {
	repo repository.AccountRepository
	now  func() time.Time
}

func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{repo: repo, now: time.Now}
}

func (s *accountService) List(ctx context.Context, scope Scope) ([]model.SocialAccount, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByUser(ctx, scope.UserID)
	if err != nil {
		return nil, storeErr("list accounts", err)
	}
	if list == nil {
		list = []model.SocialAccount{}
	}
	return list, nil
}

func (s *accountService) SetActive(ctx context.Context, scope Scope, id string, active bool) (*model.SocialAccount, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, scope.UserID, id, active); err != nil {
		return nil, storeErr("set account active", err)
	}
	acc, err := s.repo.FindByID(ctx, scope.UserID, id)
	if err != nil {
		return nil, storeErr("find account", err)
	}
	return acc, nil
}

func (s *accountService) Delete(ctx context.Context, scope Scope, id string) error {
	if err := scope.validate(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, scope.UserID, id); err != nil {
		return storeErr("delete account", err)
	}
	return nil
}

// Sync records a sync request for the given accounts; the platform fetch
// itself runs elsewhere. An empty id list means every account of the user.
func (s *accountService) Sync(ctx context.Context, scope Scope, ids []string) (int64, error) {
	if err := scope.validate(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		list, err := s.repo.ListByUser(ctx, scope.UserID)
		if err != nil {
			return 0, storeErr("list accounts", err)
		}
		for _, a := range list {
			ids = append(ids, a.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.repo.TouchSynced(ctx, scope.UserID, ids, s.now().UTC())
	if err != nil {
		return 0, storeErr("touch synced", err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	return n, nil
}
