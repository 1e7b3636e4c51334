package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserIDRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithUserID(context.Background(), id)

	got, ok := UserIDFromCtx(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestUserIDAbsent(t *testing.T) {
	_, ok := UserIDFromCtx(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromCtx(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromCtx(ctx))
	assert.Empty(t, RequestIDFromCtx(context.Background()))
}
