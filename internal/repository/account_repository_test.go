package repository

import (
	"context"
	"testing"

	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAccountRepository(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewAccountRepository(gdb)
	ctx := context.Background()

	a := seedAccount(t, gdb, "u1", "twitter", "@a")
	b := seedAccount(t, gdb, "u1", "instagram", "b")
	foreign := seedAccount(t, gdb, "u2", "twitter", "@c")

	require.NoError(t, repo.SetActive(ctx, "u1", a.ID, false))
	got, err := repo.FindByID(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, repo.SetActive(ctx, "u1", foreign.ID, false), gorm.ErrRecordNotFound)

	n, err := repo.TouchSynced(ctx, "u1", []string{a.ID, b.ID, foreign.ID}, baseTime)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	var untouched model.SocialAccount
	require.NoError(t, gdb.First(&untouched, "id = ?", foreign.ID).Error)
	assert.Nil(t, untouched.LastSyncedAt)

	assert.ErrorIs(t, repo.Delete(ctx, "u1", foreign.ID), gorm.ErrRecordNotFound)
	require.NoError(t, repo.Delete(ctx, "u1", b.ID))
	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestAIConfigRepositorySaveDefaultUpserts(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewAIConfigRepository(gdb)
	ctx := context.Background()

	none, err := repo.FindDefault(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, none)

	cfg := &model.AIConfiguration{
		UserID:         "u1",
		IsEnabled:      false,
		ResponseTone:   model.ToneFriendly,
		FilterKeywords: model.FilterKeywords{Include: []string{"refund"}, Exclude: []string{}},
	}
	require.NoError(t, repo.SaveDefault(ctx, cfg))
	firstID := cfg.ID

	update := &model.AIConfiguration{UserID: "u1", IsEnabled: true, ResponseTone: model.ToneCasual}
	require.NoError(t, repo.SaveDefault(ctx, update))
	assert.Equal(t, firstID, update.ID)

	got, err := repo.FindDefault(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.ToneCasual, got.ResponseTone)
	assert.True(t, got.IsEnabled)

	var count int64
	require.NoError(t, gdb.Model(&model.AIConfiguration{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
