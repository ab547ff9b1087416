package ai

import (
	"context"
	"errors"

	"github.com/shinyyama/social-inbox/internal/model"
)

var ErrEmptyDraft = errors.New("empty_draft")

// DraftGenerator produces an editable reply suggestion for a message. It must
// not persist anything. cfg may be nil when the user has no AI configuration.
type DraftGenerator interface {
	Draft(ctx context.Context, msg *model.Message, cfg *model.AIConfiguration) (string, error)
}

// DraftFunc adapts a plain function to DraftGenerator.
type DraftFunc func(ctx context.Context, msg *model.Message, cfg *model.AIConfiguration) (string, error)

func (f DraftFunc) Draft(ctx context.Context, msg *model.Message, cfg *model.AIConfiguration) (string, error) {
	return f(ctx, msg, cfg)
}
