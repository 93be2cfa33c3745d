package repository

import (
	"context"
	"testing"
	"time"

	"dialab-go/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConversationRepo(t *testing.T) ConversationRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewConversationRepository(client)
}

func TestConversationRepository_RoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestConversationRepo(t)
	ctx := context.Background()

	convID, err := repo.GetOrCreateConversationID(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, convID)

	// 同一用户再次获取应拿到同一个会话
	again, err := repo.GetOrCreateConversationID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, convID, again)

	history, err := repo.GetConversationHistory(ctx, convID)
	require.NoError(t, err)
	assert.Empty(t, history)

	msgs := []model.ChatMessage{
		{Role: "user", Content: "hello", Timestamp: time.Now()},
		{Role: "assistant", Content: "hi there", Timestamp: time.Now()},
	}
	require.NoError(t, repo.UpdateConversationHistory(ctx, convID, msgs))

	history, err = repo.GetConversationHistory(ctx, convID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, "hi there", history[1].Content)
}

func TestConversationRepository_TrimsHistory(t *testing.T) {
	t.Parallel()

	repo := newTestConversationRepo(t)
	ctx := context.Background()

	convID, err := repo.GetOrCreateConversationID(ctx, 2)
	require.NoError(t, err)

	var msgs []model.ChatMessage
	for i := 0; i < 30; i++ {
		msgs = append(msgs, model.ChatMessage{Role: "user", Content: "m", Timestamp: time.Now()})
	}
	require.NoError(t, repo.UpdateConversationHistory(ctx, convID, msgs))

	history, err := repo.GetConversationHistory(ctx, convID)
	require.NoError(t, err)
	assert.Len(t, history, 20)
}

func TestConversationRepository_Reset(t *testing.T) {
	t.Parallel()

	repo := newTestConversationRepo(t)
	ctx := context.Background()

	convID, err := repo.GetOrCreateConversationID(ctx, 3)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateConversationHistory(ctx, convID, []model.ChatMessage{
		{Role: "user", Content: "hello", Timestamp: time.Now()},
	}))

	require.NoError(t, repo.ResetConversation(ctx, 3))

	// 重置后会开启一个全新的会话
	fresh, err := repo.GetOrCreateConversationID(ctx, 3)
	require.NoError(t, err)
	assert.NotEqual(t, convID, fresh)

	history, err := repo.GetConversationHistory(ctx, fresh)
	require.NoError(t, err)
	assert.Empty(t, history)

	// 重复重置是幂等的
	require.NoError(t, repo.ResetConversation(ctx, 3))
}
