package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const TypeReplySent = "reply.sent"

// ReplyEvent announces a stored reply to the platform delivery workers.
type ReplyEvent struct {
	Type            string    `json:"type"`
	ReplyID         string    `json:"reply_id"`
	MessageID       string    `json:"message_id"`
	SocialAccountID string    `json:"social_account_id"`
	Platform        string    `json:"platform,omitempty"`
	Content         string    `json:"content"`
	SentByAI        bool      `json:"sent_by_ai"`
	SentByUserID    *string   `json:"sent_by_user_id"`
	SentAt          time.Time `json:"sent_at"`
}

type Publisher interface {
	PublishReply(ctx context.Context, ev ReplyEvent) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishReply(context.Context, ReplyEvent) error { return nil }
func (Nop) Close() error                                   { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		Async:                  false,
	}
	return &KafkaPublisher{writer: w}
}

// PublishReply keys by message id so replies to one message stay ordered.
func (p *KafkaPublisher) PublishReply(ctx context.Context, ev ReplyEvent) error {
	if ev.Type == "" {
		ev.Type = TypeReplySent
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(ev.MessageID),
		Value: b,
		Time:  ev.SentAt,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
