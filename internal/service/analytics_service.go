package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shinyyama/social-inbox/internal/cache"
	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/repository"
	"github.com/shinyyama/social-inbox/internal/reqctx"
	"go.uber.org/zap"
)

const (
	DefaultAnalyticsDays = 7
	MaxAnalyticsDays     = 365
)

type AnalyticsSummary struct {
	AccountID              string                 `json:"accountId"`
	Days                   int                    `json:"days"`
	Since                  string                 `json:"since"`
	TotalReceived          int                    `json:"totalReceived"`
	TotalReplied           int                    `json:"totalReplied"`
	AIReplies              int                    `json:"aiReplies"`
	ManualReplies          int                    `json:"manualReplies"`
	AvgResponseTimeMinutes int                    `json:"avgResponseTimeMinutes"`
	ReplyRate              int                    `json:"replyRate"`
	PositiveSentiment      int                    `json:"positiveSentiment"`
	NegativeSentiment      int                    `json:"negativeSentiment"`
	NeutralSentiment       int                    `json:"neutralSentiment"`
	Daily                  []model.AnalyticsDaily `json:"daily"`
}

type AnalyticsService interface {
	Summary(ctx context.Context, scope Scope, accountID string, days int) (*AnalyticsSummary, error)
}

type analyticsService struct {
	rows     repository.AnalyticsRepository
	accounts repository.AccountRepository
	cache    cache.JSONCache
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewAnalyticsService(rows repository.AnalyticsRepository, accounts repository.AccountRepository, c cache.JSONCache, ttl time.Duration, log *zap.Logger) AnalyticsService {
	if c == nil {
		c = cache.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &analyticsService{rows: rows, accounts: accounts, cache: c, ttl: ttl, log: log, now: time.Now}
}

func (s *analyticsService) Summary(ctx context.Context, scope Scope, accountID string, days int) (*AnalyticsSummary, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if days == 0 {
		days = DefaultAnalyticsDays
	}
	if days < 0 || days > MaxAnalyticsDays {
		return nil, validation("days must be between 1 and %d", MaxAnalyticsDays)
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		accountID = FilterAll
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -days)
	key := fmt.Sprintf("analytics:%s:%s:%d:%s", scope.UserID, accountID, days, since.Format(time.DateOnly))
	log := s.log.With(reqctx.Fields(ctx)...)

	var cached AnalyticsSummary
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		log.Warn("analytics cache read failed", zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	ids, err := s.accountIDs(ctx, scope, accountID)
	if err != nil {
		return nil, err
	}
	rows, err := s.rows.ListSince(ctx, ids, since)
	if err != nil {
		return nil, storeErr("list analytics", err)
	}

	sum := Summarize(rows)
	sum.AccountID = accountID
	sum.Days = days
	sum.Since = since.Format(time.DateOnly)
	if s.ttl > 0 {
		if err := s.cache.Set(ctx, key, sum, s.ttl); err != nil {
			log.Warn("analytics cache write failed", zap.Error(err))
		}
	}
	return sum, nil
}

func (s *analyticsService) accountIDs(ctx context.Context, scope Scope, accountID string) ([]string, error) {
	if !strings.EqualFold(accountID, FilterAll) {
		if _, err := s.accounts.FindByID(ctx, scope.UserID, accountID); err != nil {
			return nil, storeErr("find account", err)
		}
		return []string{accountID}, nil
	}
	list, err := s.accounts.ListByUser(ctx, scope.UserID)
	if err != nil {
		return nil, storeErr("list accounts", err)
	}
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// Summarize folds daily rows into totals. The response time is the rounded
// mean of the daily averages.
func Summarize(rows []model.AnalyticsDaily) *AnalyticsSummary {
	sum := &AnalyticsSummary{Daily: rows}
	if sum.Daily == nil {
		sum.Daily = []model.AnalyticsDaily{}
	}
	var responseTotal float64
	for _, r := range rows {
		sum.TotalReceived += r.MessagesReceived
		sum.TotalReplied += r.MessagesReplied
		sum.AIReplies += r.AIReplies
		sum.ManualReplies += r.ManualReplies
		sum.PositiveSentiment += r.PositiveSentimentCount
		sum.NegativeSentiment += r.NegativeSentimentCount
		sum.NeutralSentiment += r.NeutralSentimentCount
		responseTotal += r.AvgResponseTimeMinutes
	}
	if len(rows) > 0 {
		sum.AvgResponseTimeMinutes = int(math.Round(responseTotal / float64(len(rows))))
	}
	if sum.TotalReceived > 0 {
		sum.ReplyRate = int(math.Round(float64(sum.TotalReplied) / float64(sum.TotalReceived) * 100))
	}
	return sum
}
