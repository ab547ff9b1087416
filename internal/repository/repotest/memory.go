// Package repotest provides in-memory repositories for service tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/repository"
	"gorm.io/gorm"
)

// Store is an in-memory stand-in for the gorm repositories. It is not
// transactional; wrap it with Transactional for that. Fail* fields inject
// errors into the matching operation.
type Store struct {
	mu        sync.Mutex
	Accounts  map[string]model.SocialAccount
	Messages  map[string]model.Message
	Replies   []model.MessageReply
	Configs   map[string]model.AIConfiguration
	Analytics []model.AnalyticsDaily
	Profiles  map[string]model.Profile

	FailList        error
	FailFind        error
	FailMarkRead    error
	FailMarkReplied error
	FailCreateReply error
	FailListReplies error
	FailSave        error

	MarkReadCalls    int
	MarkRepliedCalls int
	CreateReplyCalls int
	StoreCalls       int
}

func New() *Store {
	return &Store{
		Accounts: map[string]model.SocialAccount{},
		Messages: map[string]model.Message{},
		Configs:  map[string]model.AIConfiguration{},
		Profiles: map[string]model.Profile{},
	}
}

func (s *Store) AddAccount(acc model.SocialAccount) model.SocialAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	s.Accounts[acc.ID] = acc
	return acc
}

func (s *Store) AddMessage(msg model.Message) model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	s.Messages[msg.ID] = msg
	return msg
}

// Message returns the stored copy of a message.
func (s *Store) Message(id string) model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Messages[id]
}

// RepliesFor returns stored replies for a message in insertion order.
func (s *Store) RepliesFor(messageID string) []model.MessageReply {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.MessageReply
	for _, r := range s.Replies {
		if r.MessageID == messageID {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) SetDB(*gorm.DB) {}

func (s *Store) owned(userID, accountID string) (model.SocialAccount, bool) {
	acc, ok := s.Accounts[accountID]
	if !ok {
		return acc, false
	}
	return acc, userID == "" || acc.UserID == userID
}

func (s *Store) withAccount(m model.Message) model.Message {
	if acc, ok := s.Accounts[m.SocialAccountID]; ok {
		a := acc
		m.SocialAccount = &a
	}
	return m
}

func (s *Store) List(_ context.Context, q repository.MessageQuery) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreCalls++
	if s.FailList != nil {
		return nil, s.FailList
	}
	out := make([]model.Message, 0)
	for _, m := range s.Messages {
		acc, ok := s.owned(q.UserID, m.SocialAccountID)
		if !ok {
			continue
		}
		if q.IsRead != nil && m.IsRead != *q.IsRead {
			continue
		}
		if q.IsReplied != nil && m.IsReplied != *q.IsReplied {
			continue
		}
		if q.Sentiment != "" && m.Sentiment != q.Sentiment {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(m.Content), strings.ToLower(q.Search)) {
			continue
		}
		if q.Platform != "" && !strings.EqualFold(acc.Platform, q.Platform) {
			continue
		}
		out = append(out, s.withAccount(m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlatformCreatedAt.After(out[j].PlatformCreatedAt)
	})
	return out, nil
}

func (s *Store) FindByID(_ context.Context, userID, id string) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreCalls++
	if s.FailFind != nil {
		return nil, s.FailFind
	}
	m, ok := s.Messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if _, ok := s.owned(userID, m.SocialAccountID); !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m = s.withAccount(m)
	return &m, nil
}

func (s *Store) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreCalls++
	s.MarkReadCalls++
	if s.FailMarkRead != nil {
		return s.FailMarkRead
	}
	if m, ok := s.Messages[id]; ok {
		m.IsRead = true
		s.Messages[id] = m
	}
	return nil
}

func (s *Store) MarkReplied(_ context.Context, id string, at time.Time, byAI bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreCalls++
	s.MarkRepliedCalls++
	if s.FailMarkReplied != nil {
		return s.FailMarkReplied
	}
	m, ok := s.Messages[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.IsReplied = true
	m.RepliedAt = &at
	m.RepliedByAI = byAI
	s.Messages[id] = m
	return nil
}

func (s *Store) CreateReply(_ context.Context, reply *model.MessageReply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreCalls++
	s.CreateReplyCalls++
	if s.FailCreateReply != nil {
		return s.FailCreateReply
	}
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now()
	}
	s.Replies = append(s.Replies, *reply)
	return nil
}

func (s *Store) ListReplies(_ context.Context, messageID string) ([]model.MessageReply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreCalls++
	if s.FailListReplies != nil {
		return nil, s.FailListReplies
	}
	out := make([]model.MessageReply, 0)
	for _, r := range s.Replies {
		if r.MessageID == messageID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) ListUnreconciled(_ context.Context, userID string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreCalls++
	if s.FailList != nil {
		return nil, s.FailList
	}
	sent := map[string]bool{}
	for _, r := range s.Replies {
		if r.Status == model.ReplyStatusSent {
			sent[r.MessageID] = true
		}
	}
	var out []model.Message
	for _, m := range s.Messages {
		if _, ok := s.owned(userID, m.SocialAccountID); !ok {
			continue
		}
		if !m.IsReplied && sent[m.ID] {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) LatestSentReply(_ context.Context, messageID string) (*model.MessageReply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreCalls++
	var latest *model.MessageReply
	for i := range s.Replies {
		r := s.Replies[i]
		if r.MessageID != messageID || r.Status != model.ReplyStatusSent {
			continue
		}
		if latest == nil || !r.CreatedAt.Before(latest.CreatedAt) {
			latest = &r
		}
	}
	return latest, nil
}

// Transactional wraps a Store with snapshot/restore transactions.
type Transactional struct {
	*Store
}

func (t Transactional) Transaction(ctx context.Context, fn func(repo repository.MessageRepository) error) error {
	t.mu.Lock()
	msgs := make(map[string]model.Message, len(t.Messages))
	for k, v := range t.Messages {
		msgs[k] = v
	}
	replies := append([]model.MessageReply(nil), t.Replies...)
	t.mu.Unlock()

	if err := fn(t.Store); err != nil {
		t.mu.Lock()
		t.Messages = msgs
		t.Replies = replies
		t.mu.Unlock()
		return err
	}
	return nil
}
