package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shinyyama/social-inbox/internal/ai"
	"github.com/shinyyama/social-inbox/internal/events"
	"github.com/shinyyama/social-inbox/internal/metrics"
	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/repository"
	"github.com/shinyyama/social-inbox/internal/reqctx"
	"go.uber.org/zap"
)

type InboxService interface {
	FetchMessages(ctx context.Context, scope Scope, f Filter) ([]model.Message, error)
	GetMessage(ctx context.Context, scope Scope, id string) (*model.Message, error)
	SelectMessage(ctx context.Context, scope Scope, msg *model.Message) ([]model.MessageReply, error)
	ListReplies(ctx context.Context, scope Scope, msg *model.Message) ([]model.MessageReply, error)
	SubmitReply(ctx context.Context, scope Scope, msg *model.Message, content string, sentByAI bool) (*model.MessageReply, error)
	GenerateDraft(ctx context.Context, scope Scope, msg *model.Message) (string, error)
	ReconcileReplied(ctx context.Context, scope Scope) (int, error)
}

type InboxDeps struct {
	Messages  repository.MessageRepository
	AIConfigs repository.AIConfigRepository
	Drafter   ai.DraftGenerator
	Publisher events.Publisher
	Metrics   *metrics.Inbox
	Logger    *zap.Logger
}

type inboxService struct {
	messages  repository.MessageRepository
	aiConfigs repository.AIConfigRepository
	drafter   ai.DraftGenerator
	publisher events.Publisher
	metrics   *metrics.Inbox
	log       *zap.Logger
	now       func() time.Time
}

func NewInboxService(d InboxDeps) InboxService {
	s := &inboxService{
		messages:  d.Messages,
		aiConfigs: d.AIConfigs,
		drafter:   d.Drafter,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		log:       d.Logger,
		now:       time.Now,
	}
	if s.drafter == nil {
		s.drafter = ai.NewTemplateDrafter(0)
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.metrics == nil {
		s.metrics = metrics.NewInbox(nil)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

func (s *inboxService) logger(ctx context.Context) *zap.Logger {
	return s.log.With(reqctx.Fields(ctx)...)
}

func (s *inboxService) FetchMessages(ctx context.Context, scope Scope, f Filter) ([]model.Message, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	q, err := f.Query(scope.UserID)
	if err != nil {
		s.metrics.Fetches.WithLabelValues("invalid").Inc()
		return nil, err
	}
	list, err := s.messages.List(ctx, q)
	if err != nil {
		s.metrics.Fetches.WithLabelValues("error").Inc()
		return nil, storeErr("list messages", err)
	}
	s.metrics.Fetches.WithLabelValues("ok").Inc()
	return list, nil
}

func (s *inboxService) GetMessage(ctx context.Context, scope Scope, id string) (*model.Message, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, validation("message id is required")
	}
	msg, err := s.messages.FindByID(ctx, scope.UserID, id)
	if err != nil {
		return nil, storeErr("find message", err)
	}
	return msg, nil
}

// SelectMessage marks msg read and returns its thread. The read update is
// best-effort: a failure is logged and the thread is still returned.
func (s *inboxService) SelectMessage(ctx context.Context, scope Scope, msg *model.Message) ([]model.MessageReply, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, validation("message is required")
	}
	if err := s.messages.MarkRead(ctx, msg.ID); err != nil {
		s.metrics.ReadMarkFailures.Inc()
		s.logger(ctx).Warn("mark read failed", zap.String("message_id", msg.ID), zap.Error(err))
	}
	msg.IsRead = true
	return s.ListReplies(ctx, scope, msg)
}

func (s *inboxService) ListReplies(ctx context.Context, scope Scope, msg *model.Message) ([]model.MessageReply, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, validation("message is required")
	}
	replies, err := s.messages.ListReplies(ctx, msg.ID)
	if err != nil {
		return nil, storeErr("list replies", err)
	}
	return replies, nil
}

func (s *inboxService) SubmitReply(ctx context.Context, scope Scope, msg *model.Message, content string, sentByAI bool) (*model.MessageReply, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, validation("message is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, validation("reply content is required")
	}

	origin := metrics.Origin(sentByAI)
	now := s.now().UTC()
	reply := &model.MessageReply{
		MessageID:       msg.ID,
		SocialAccountID: msg.SocialAccountID,
		Content:         content,
		SentByAI:        sentByAI,
		Status:          model.ReplyStatusSent,
		SentAt:          &now,
	}
	if !sentByAI {
		uid := scope.UserID
		reply.SentByUserID = &uid
	}

	if tx, ok := s.messages.(repository.MessageTransactor); ok {
		err := tx.Transaction(ctx, func(repo repository.MessageRepository) error {
			if err := repo.CreateReply(ctx, reply); err != nil {
				return err
			}
			return repo.MarkReplied(ctx, msg.ID, now, sentByAI)
		})
		if err != nil {
			s.metrics.Replies.WithLabelValues(origin, "error").Inc()
			return nil, storeErr("submit reply", err)
		}
	} else {
		if err := s.messages.CreateReply(ctx, reply); err != nil {
			s.metrics.Replies.WithLabelValues(origin, "error").Inc()
			return nil, storeErr("create reply", err)
		}
		if err := s.messages.MarkReplied(ctx, msg.ID, now, sentByAI); err != nil {
			s.metrics.Replies.WithLabelValues(origin, "partial").Inc()
			s.metrics.PartialWrites.Inc()
			s.logger(ctx).Error("reply stored but message not marked replied",
				zap.String("message_id", msg.ID),
				zap.String("reply_id", reply.ID),
				zap.Error(err),
			)
			return reply, fmt.Errorf("%w: reply %s stored, message %s not marked replied: %v", ErrPartialWrite, reply.ID, msg.ID, err)
		}
	}

	s.metrics.Replies.WithLabelValues(origin, "ok").Inc()
	msg.IsReplied = true
	msg.RepliedAt = &now
	msg.RepliedByAI = sentByAI
	s.publish(ctx, msg, reply)
	return reply, nil
}

func (s *inboxService) publish(ctx context.Context, msg *model.Message, reply *model.MessageReply) {
	ev := events.ReplyEvent{
		Type:            events.TypeReplySent,
		ReplyID:         reply.ID,
		MessageID:       reply.MessageID,
		SocialAccountID: reply.SocialAccountID,
		Content:         reply.Content,
		SentByAI:        reply.SentByAI,
		SentByUserID:    reply.SentByUserID,
	}
	if msg.SocialAccount != nil {
		ev.Platform = msg.SocialAccount.Platform
	}
	if reply.SentAt != nil {
		ev.SentAt = *reply.SentAt
	}
	if err := s.publisher.PublishReply(ctx, ev); err != nil {
		s.logger(ctx).Warn("publish reply event failed", zap.String("reply_id", reply.ID), zap.Error(err))
	}
}

// GenerateDraft asks the configured generator for reply text. Nothing is
// persisted; empty output falls back to the first template.
func (s *inboxService) GenerateDraft(ctx context.Context, scope Scope, msg *model.Message) (string, error) {
	if err := scope.validate(); err != nil {
		return "", err
	}
	if msg == nil {
		return "", validation("message is required")
	}
	var cfg *model.AIConfiguration
	if s.aiConfigs != nil {
		c, err := s.aiConfigs.FindDefault(ctx, scope.UserID)
		if err != nil {
			s.logger(ctx).Warn("load ai config failed", zap.Error(err))
		}
		cfg = c
	}

	start := time.Now()
	text, err := s.drafter.Draft(ctx, msg, cfg)
	elapsed := time.Since(start).Seconds()
	if err != nil && !errors.Is(err, ai.ErrEmptyDraft) {
		s.metrics.DraftDuration.WithLabelValues("error").Observe(elapsed)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrDraftUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		s.metrics.DraftDuration.WithLabelValues("fallback").Observe(elapsed)
		return ai.Templates(msg.SenderName)[0], nil
	}
	s.metrics.DraftDuration.WithLabelValues("ok").Observe(elapsed)
	return text, nil
}

// ReconcileReplied marks every in-scope message that has a sent reply as
// replied, copying the newest reply's origin and time. An empty scope sweeps
// all users. Running it twice repairs nothing the second time.
func (s *inboxService) ReconcileReplied(ctx context.Context, scope Scope) (int, error) {
	list, err := s.messages.ListUnreconciled(ctx, scope.UserID)
	if err != nil {
		return 0, storeErr("list unreconciled", err)
	}
	repaired := 0
	for _, m := range list {
		latest, err := s.messages.LatestSentReply(ctx, m.ID)
		if err != nil {
			return repaired, storeErr("latest reply", err)
		}
		if latest == nil {
			continue
		}
		at := latest.CreatedAt
		if latest.SentAt != nil {
			at = *latest.SentAt
		}
		if err := s.messages.MarkReplied(ctx, m.ID, at, latest.SentByAI); err != nil {
			return repaired, storeErr("mark replied", err)
		}
		repaired++
	}
	s.metrics.Reconciled.Add(float64(repaired))
	if repaired > 0 {
		s.logger(ctx).Info("reconciled replied state", zap.Int("messages", repaired))
	}
	return repaired, nil
}
