package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/repository"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Thread is the exported document for one replied message.
type Thread struct {
	Message    model.Message        `json:"message"`
	Replies    []model.MessageReply `json:"replies"`
	ExportedAt time.Time            `json:"exportedAt"`
}

type ObjectWriter interface {
	WriteObject(ctx context.Context, name, contentType string, data []byte) error
}

type GCSWriter struct {
	client *storage.Client
	bucket string
}

func NewGCSWriter(ctx context.Context, bucket, credentialsFile string) (*GCSWriter, error) {
	if bucket == "" {
		return nil, fmt.Errorf("EXPORT_BUCKET is not set")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSWriter{client: client, bucket: bucket}, nil
}

func (w *GCSWriter) WriteObject(ctx context.Context, name, contentType string, data []byte) error {
	ow := w.client.Bucket(w.bucket).Object(name).NewWriter(ctx)
	ow.ContentType = contentType
	if _, err := ow.Write(data); err != nil {
		_ = ow.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := ow.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

func (w *GCSWriter) Close() error {
	return w.client.Close()
}

type Exporter struct {
	messages repository.MessageRepository
	out      ObjectWriter
	log      *zap.Logger
	now      func() time.Time
}

func NewExporter(messages repository.MessageRepository, out ObjectWriter, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{messages: messages, out: out, log: log, now: time.Now}
}

// ObjectName is the object path a thread is stored under.
func ObjectName(msg model.Message) string {
	return fmt.Sprintf("threads/%s/%s.json", msg.SocialAccountID, msg.ID)
}

// ExportReplied uploads every replied message of userID (all users when
// empty) with its replies. It stops at the first failed upload.
func (e *Exporter) ExportReplied(ctx context.Context, userID string) (int, error) {
	replied := true
	msgs, err := e.messages.List(ctx, repository.MessageQuery{UserID: userID, IsReplied: &replied})
	if err != nil {
		return 0, err
	}
	exported := 0
	for _, msg := range msgs {
		replies, err := e.messages.ListReplies(ctx, msg.ID)
		if err != nil {
			return exported, err
		}
		doc := Thread{Message: msg, Replies: replies, ExportedAt: e.now().UTC()}
		b, err := json.Marshal(doc)
		if err != nil {
			return exported, err
		}
		name := ObjectName(msg)
		if err := e.out.WriteObject(ctx, name, "application/json", b); err != nil {
			return exported, err
		}
		e.log.Debug("thread exported", zap.String("object", name), zap.Int("replies", len(replies)))
		exported++
	}
	return exported, nil
}
