package repository

import (
	"context"
	"testing"

	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewProfileRepository(gdb)
	ctx := context.Background()

	got, err := repo.Find(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	p := &model.Profile{ID: "u1", Email: "a@example.com", FullName: "Ada"}
	require.NoError(t, repo.Save(ctx, p))

	p.FullName = "Ada L."
	p.AvatarURL = "https://cdn.example.com/ada.png"
	require.NoError(t, repo.Save(ctx, p))

	got, err = repo.Find(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada L.", got.FullName)
	assert.Equal(t, "https://cdn.example.com/ada.png", got.AvatarURL)
	assert.Equal(t, "a@example.com", got.Email)

	var n int64
	require.NoError(t, gdb.Model(&model.Profile{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	_, err = NewProfileRepository(nil).Find(ctx, "u1")
	assert.ErrorIs(t, err, ErrDBNotReady)
}
