package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func boolPtr(b bool) *bool { return &b }

func contents(list []model.Message) []string {
	out := make([]string, 0, len(list))
	for _, m := range list {
		out = append(out, m.Content)
	}
	return out
}

func TestMessageRepositoryList(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewMessageRepository(gdb)
	ctx := context.Background()

	tw := seedAccount(t, gdb, "u1", "Twitter", "@acme")
	ig := seedAccount(t, gdb, "u1", "instagram", "acme.ig")
	other := seedAccount(t, gdb, "u2", "twitter", "@other")

	seedMessage(t, gdb, tw, "Love the new release", 1*time.Hour, func(m *model.Message) {
		m.Sentiment = model.SentimentPositive
	})
	seedMessage(t, gdb, tw, "Refund please", 2*time.Hour, func(m *model.Message) {
		m.Sentiment = model.SentimentNegative
		m.IsRead = true
	})
	seedMessage(t, gdb, ig, "100% great_stuff", 3*time.Hour, func(m *model.Message) {
		m.IsRead = true
		m.IsReplied = true
	})
	seedMessage(t, gdb, other, "not mine", 4*time.Hour, nil)

	tests := []struct {
		name string
		q    MessageQuery
		want []string
	}{
		{"scope only, newest first", MessageQuery{UserID: "u1"}, []string{"100% great_stuff", "Refund please", "Love the new release"}},
		{"unread", MessageQuery{UserID: "u1", IsRead: boolPtr(false)}, []string{"Love the new release"}},
		{"unreplied", MessageQuery{UserID: "u1", IsReplied: boolPtr(false)}, []string{"Refund please", "Love the new release"}},
		{"replied", MessageQuery{UserID: "u1", IsReplied: boolPtr(true)}, []string{"100% great_stuff"}},
		{"sentiment", MessageQuery{UserID: "u1", Sentiment: model.SentimentNegative}, []string{"Refund please"}},
		{"search case-insensitive", MessageQuery{UserID: "u1", Search: "LOVE"}, []string{"Love the new release"}},
		{"search percent literal", MessageQuery{UserID: "u1", Search: "0% g"}, []string{"100% great_stuff"}},
		{"search underscore literal", MessageQuery{UserID: "u1", Search: "t_s"}, []string{"100% great_stuff"}},
		{"search wildcard does not match everything", MessageQuery{UserID: "u1", Search: "%"}, []string{"100% great_stuff"}},
		{"platform case-insensitive", MessageQuery{UserID: "u1", Platform: "TWITTER"}, []string{"Refund please", "Love the new release"}},
		{"combined", MessageQuery{UserID: "u1", Platform: "twitter", IsRead: boolPtr(true), Search: "refund"}, []string{"Refund please"}},
		{"no match", MessageQuery{UserID: "u1", Platform: "twitter", Sentiment: model.SentimentNeutral}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, contents(got))
		})
	}

	t.Run("account is preloaded", func(t *testing.T) {
		got, err := repo.List(ctx, MessageQuery{UserID: "u1", Platform: "instagram"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].SocialAccount)
		assert.Equal(t, "acme.ig", got[0].SocialAccount.PlatformUsername)
	})
}

func TestMessageRepositorySearchNonASCII(t *testing.T) {
	gdb := newTestDB(t)
	if gdb.Dialector.Name() == "sqlite" {
		t.Skip("sqlite LOWER() folds ASCII only")
	}
	repo := NewMessageRepository(gdb)
	acc := seedAccount(t, gdb, "u1", "twitter", "@acme")
	seedMessage(t, gdb, acc, "merci pour l'école", 0, nil)

	list, err := repo.List(context.Background(), MessageQuery{UserID: "u1", Search: "ÉCOLE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"merci pour l'école"}, contents(list))
}

func TestMessageRepositoryFindByIDScoped(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewMessageRepository(gdb)
	ctx := context.Background()

	acc := seedAccount(t, gdb, "u1", "twitter", "@acme")
	msg := seedMessage(t, gdb, acc, "hello", 0, nil)

	got, err := repo.FindByID(ctx, "u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, "twitter", got.SocialAccount.Platform)

	_, err = repo.FindByID(ctx, "u2", msg.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestMessageRepositoryReplyLifecycle(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewMessageRepository(gdb)
	ctx := context.Background()

	acc := seedAccount(t, gdb, "u1", "twitter", "@acme")
	msg := seedMessage(t, gdb, acc, "hello", 0, nil)

	require.NoError(t, repo.MarkRead(ctx, msg.ID))
	require.NoError(t, repo.MarkRead(ctx, msg.ID))

	first := &model.MessageReply{MessageID: msg.ID, SocialAccountID: acc.ID, Content: "one", Status: model.ReplyStatusSent, CreatedAt: baseTime}
	second := &model.MessageReply{MessageID: msg.ID, SocialAccountID: acc.ID, Content: "two", SentByAI: true, Status: model.ReplyStatusSent, CreatedAt: baseTime.Add(time.Minute)}
	require.NoError(t, repo.CreateReply(ctx, second))
	require.NoError(t, repo.CreateReply(ctx, first))

	replies, err := repo.ListReplies(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "one", replies[0].Content)
	assert.Equal(t, "two", replies[1].Content)

	latest, err := repo.LatestSentReply(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "two", latest.Content)

	require.NoError(t, repo.MarkReplied(ctx, msg.ID, baseTime, true))
	got, err := repo.FindByID(ctx, "u1", msg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	assert.True(t, got.IsReplied)
	assert.True(t, got.RepliedByAI)
	require.NotNil(t, got.RepliedAt)

	// repeating the same values leaves the row unchanged but still found
	require.NoError(t, repo.MarkReplied(ctx, msg.ID, baseTime, true))

	assert.ErrorIs(t, repo.MarkReplied(ctx, "missing", baseTime, false), gorm.ErrRecordNotFound)
}

func TestMessageRepositoryListUnreconciled(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewMessageRepository(gdb)
	ctx := context.Background()

	acc := seedAccount(t, gdb, "u1", "twitter", "@acme")
	orphan := seedMessage(t, gdb, acc, "orphan", 0, nil)
	failedOnly := seedMessage(t, gdb, acc, "failed only", time.Minute, nil)
	seedMessage(t, gdb, acc, "untouched", 2*time.Minute, nil)

	require.NoError(t, repo.CreateReply(ctx, &model.MessageReply{MessageID: orphan.ID, SocialAccountID: acc.ID, Content: "sent", Status: model.ReplyStatusSent}))
	require.NoError(t, repo.CreateReply(ctx, &model.MessageReply{MessageID: failedOnly.ID, SocialAccountID: acc.ID, Content: "nope", Status: model.ReplyStatusFailed}))

	list, err := repo.ListUnreconciled(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan"}, contents(list))

	none, err := repo.LatestSentReply(ctx, failedOnly.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	all, err := repo.ListUnreconciled(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMessageRepositoryTransactionRollsBack(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewMessageRepository(gdb)
	ctx := context.Background()

	acc := seedAccount(t, gdb, "u1", "twitter", "@acme")
	msg := seedMessage(t, gdb, acc, "hello", 0, nil)

	tx, ok := repo.(MessageTransactor)
	require.True(t, ok)
	boom := errors.New("boom")
	err := tx.Transaction(ctx, func(r MessageRepository) error {
		if err := r.CreateReply(ctx, &model.MessageReply{MessageID: msg.ID, SocialAccountID: acc.ID, Content: "x", Status: model.ReplyStatusSent}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	replies, err := repo.ListReplies(ctx, msg.ID)
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestRepositoriesWithoutDB(t *testing.T) {
	ctx := context.Background()
	_, err := NewMessageRepository(nil).List(ctx, MessageQuery{})
	assert.ErrorIs(t, err, ErrDBNotReady)
	_, err = NewAccountRepository(nil).ListByUser(ctx, "u1")
	assert.ErrorIs(t, err, ErrDBNotReady)
	_, err = NewAIConfigRepository(nil).FindDefault(ctx, "u1")
	assert.ErrorIs(t, err, ErrDBNotReady)
	_, err = NewAnalyticsRepository(nil).ListSince(ctx, []string{"a"}, time.Now())
	assert.ErrorIs(t, err, ErrDBNotReady)
}

func TestRepositorySetDBLater(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewMessageRepository(nil)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "u1", "x")
	require.ErrorIs(t, err, ErrDBNotReady)

	acc := seedAccount(t, gdb, "u1", "twitter", "@acme")
	msg := seedMessage(t, gdb, acc, "hello", 0, nil)
	repo.SetDB(gdb)

	got, err := repo.FindByID(ctx, "u1", msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)

	repo.SetDB(nil)
	_, err = repo.FindByID(ctx, "u1", msg.ID)
	assert.ErrorIs(t, err, ErrDBNotReady)
}
