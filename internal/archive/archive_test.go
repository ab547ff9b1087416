package archive

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWriter struct {
	objects map[string][]byte
	fail    error
}

func (w *memoryWriter) WriteObject(_ context.Context, name, contentType string, data []byte) error {
	if w.fail != nil {
		return w.fail
	}
	if w.objects == nil {
		w.objects = map[string][]byte{}
	}
	w.objects[name] = data
	return nil
}

func TestExportReplied(t *testing.T) {
	store := repotest.New()
	acc := store.AddAccount(model.SocialAccount{UserID: "u1", Platform: "twitter"})
	other := store.AddAccount(model.SocialAccount{UserID: "u2", Platform: "twitter"})
	replied := store.AddMessage(model.Message{SocialAccountID: acc.ID, Content: "hi", IsReplied: true})
	store.AddMessage(model.Message{SocialAccountID: acc.ID, Content: "open"})
	store.AddMessage(model.Message{SocialAccountID: other.ID, Content: "theirs", IsReplied: true})
	require.NoError(t, store.CreateReply(context.Background(), &model.MessageReply{MessageID: replied.ID, SocialAccountID: acc.ID, Content: "thanks", Status: model.ReplyStatusSent}))

	out := &memoryWriter{}
	exp := NewExporter(store, out, nil)
	fixed := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	exp.now = func() time.Time { return fixed }

	n, err := exp.ExportReplied(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, ok := out.objects["threads/"+acc.ID+"/"+replied.ID+".json"]
	require.True(t, ok)
	var doc Thread
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, replied.ID, doc.Message.ID)
	require.Len(t, doc.Replies, 1)
	assert.Equal(t, "thanks", doc.Replies[0].Content)
	assert.True(t, doc.ExportedAt.Equal(fixed))
}

func TestExportRepliedStopsOnWriteError(t *testing.T) {
	store := repotest.New()
	acc := store.AddAccount(model.SocialAccount{UserID: "u1", Platform: "twitter"})
	store.AddMessage(model.Message{SocialAccountID: acc.ID, Content: "hi", IsReplied: true})

	boom := errors.New("bucket gone")
	n, err := NewExporter(store, &memoryWriter{fail: boom}, nil).ExportReplied(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
}

func TestNewGCSWriterRequiresBucket(t *testing.T) {
	_, err := NewGCSWriter(context.Background(), "", "")
	assert.Error(t, err)
}
