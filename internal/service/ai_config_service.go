package service

import (
	"context"
	"strings"

	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/repository"
)

type AIConfigService interface {
	Get(ctx context.Context, scope Scope) (*model.AIConfiguration, error)
	Save(ctx context.Context, scope Scope, cfg model.AIConfiguration) (*model.AIConfiguration, error)
}

type aiConfigService struct {
	repo repository.AIConfigRepository
}

func NewAIConfigService(repo repository.AIConfigRepository) AIConfigService {
	return &aiConfigService{repo: repo}
}

// DefaultAIConfiguration is what a user sees before saving anything.
func DefaultAIConfiguration(userID string) *model.AIConfiguration {
	return &model.AIConfiguration{
		UserID:         userID,
		IsEnabled:      true,
		ResponseTone:   model.ToneProfessional,
		FilterKeywords: model.FilterKeywords{Include: []string{}, Exclude: []string{}},
	}
}

func (s *aiConfigService) Get(ctx context.Context, scope Scope) (*model.AIConfiguration, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	cfg, err := s.repo.FindDefault(ctx, scope.UserID)
	if err != nil {
		return nil, storeErr("find ai config", err)
	}
	if cfg == nil {
		return DefaultAIConfiguration(scope.UserID), nil
	}
	return cfg, nil
}

func (s *aiConfigService) Save(ctx context.Context, scope Scope, cfg model.AIConfiguration) (*model.AIConfiguration, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	switch cfg.ResponseTone {
	case "":
		cfg.ResponseTone = model.ToneProfessional
	case model.ToneProfessional, model.ToneFriendly, model.ToneCasual, model.ToneCustom:
	default:
		return nil, validation("unknown response tone %q", cfg.ResponseTone)
	}
	if cfg.ReplyDelaySeconds < 0 {
		return nil, validation("reply delay must not be negative")
	}
	cfg.ID = ""
	cfg.UserID = scope.UserID
	cfg.SocialAccountID = nil
	cfg.CustomInstructions = strings.TrimSpace(cfg.CustomInstructions)
	cfg.BusinessContext = strings.TrimSpace(cfg.BusinessContext)
	cfg.FilterKeywords = model.FilterKeywords{
		Include: cleanKeywords(cfg.FilterKeywords.Include),
		Exclude: cleanKeywords(cfg.FilterKeywords.Exclude),
	}
	if err := s.repo.SaveDefault(ctx, &cfg); err != nil {
		return nil, storeErr("save ai config", err)
	}
	return &cfg, nil
}

// cleanKeywords trims, drops empties and drops case-insensitive duplicates,
// keeping first-seen order.
func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		key := strings.ToLower(k)
		if k == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, k)
	}
	return out
}
