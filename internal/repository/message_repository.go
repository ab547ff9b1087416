package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shinyyama/social-inbox/internal/model"
	"gorm.io/gorm"
)

// MessageQuery holds the store-level predicates for listing messages. Zero
// values mean "no constraint".
type MessageQuery struct {
	UserID    string
	Platform  string
	IsRead    *bool
	IsReplied *bool
	Sentiment model.Sentiment
	Search    string
}

type MessageRepository interface {
	List(ctx context.Context, q MessageQuery) ([]model.Message, error)
	FindByID(ctx context.Context, userID, id string) (*model.Message, error)
	MarkRead(ctx context.Context, id string) error
	MarkReplied(ctx context.Context, id string, at time.Time, byAI bool) error
	CreateReply(ctx context.Context, reply *model.MessageReply) error
	ListReplies(ctx context.Context, messageID string) ([]model.MessageReply, error)
	ListUnreconciled(ctx context.Context, userID string) ([]model.Message, error)
	LatestSentReply(ctx context.Context, messageID string) (*model.MessageReply, error)
	SetDB(db *gorm.DB)
}

// MessageTransactor is implemented by stores that can run several writes
// atomically.
type MessageTransactor interface {
	Transaction(ctx context.Context, fn func(repo MessageRepository) error) error
}

type messageRepository struct {
	dbHandle
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	r := &messageRepository{}
	r.SetDB(db)
	return r
}

func (r *messageRepository) Transaction(ctx context.Context, fn func(repo MessageRepository) error) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(NewMessageRepository(tx))
	})
}

func scoped(db *gorm.DB, userID string) *gorm.DB {
	q := db.
		Model(&model.Message{}).
		Joins("JOIN social_accounts ON social_accounts.id = messages.social_account_id")
	if userID != "" {
		q = q.Where("social_accounts.user_id = ?", userID)
	}
	return q
}

func (r *messageRepository) List(ctx context.Context, mq MessageQuery) ([]model.Message, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	q := scoped(db, mq.UserID).Preload("SocialAccount")
	if mq.IsRead != nil {
		q = q.Where("messages.is_read = ?", *mq.IsRead)
	}
	if mq.IsReplied != nil {
		q = q.Where("messages.is_replied = ?", *mq.IsReplied)
	}
	if mq.Sentiment != "" {
		q = q.Where("messages.sentiment = ?", mq.Sentiment)
	}
	if mq.Search != "" {
		q = q.Where("LOWER(messages.content) LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(mq.Search))
	}
	if mq.Platform != "" {
		q = q.Where("LOWER(social_accounts.platform) = ?", strings.ToLower(mq.Platform))
	}
	var list []model.Message
	if err := q.Order("messages.platform_created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *messageRepository) FindByID(ctx context.Context, userID, id string) (*model.Message, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var msg model.Message
	if err := scoped(db, userID).
		Preload("SocialAccount").
		Where("messages.id = ?", id).
		First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id string) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.
		Model(&model.Message{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *messageRepository) MarkReplied(ctx context.Context, id string, at time.Time, byAI bool) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	res := db.
		Model(&model.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_replied":    true,
			"replied_at":    at,
			"replied_by_ai": byAI,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *messageRepository) CreateReply(ctx context.Context, reply *model.MessageReply) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return db.Create(reply).Error
}

func (r *messageRepository) ListReplies(ctx context.Context, messageID string) ([]model.MessageReply, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.MessageReply
	if err := db.
		Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListUnreconciled returns messages still flagged unreplied although a sent
// reply exists for them.
func (r *messageRepository) ListUnreconciled(ctx context.Context, userID string) ([]model.Message, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var list []model.Message
	if err := scoped(db, userID).
		Where("messages.is_replied = ?", false).
		Where("EXISTS (SELECT 1 FROM message_replies WHERE message_replies.message_id = messages.id AND message_replies.status = ?)", model.ReplyStatusSent).
		Order("messages.platform_created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *messageRepository) LatestSentReply(ctx context.Context, messageID string) (*model.MessageReply, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var reply model.MessageReply
	if err := db.
		Where("message_id = ? AND status = ?", messageID, model.ReplyStatusSent).
		Order("created_at DESC").
		First(&reply).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reply, nil
}
