package reqctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RID(ctx))
	assert.Empty(t, UID(ctx))
	assert.Empty(t, Fields(ctx))

	ctx = WithUID(WithRID(ctx, "r-1"), "u-1")
	assert.Equal(t, "r-1", RID(ctx))
	assert.Equal(t, "u-1", UID(ctx))
	assert.Len(t, Fields(ctx), 2)
}
