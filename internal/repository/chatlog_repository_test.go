package repository

import (
	"context"
	"testing"

	"dialab-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestChatLogRepository_AppendAndList(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	logs := NewChatLogRepository(db)
	ctx := context.Background()

	bob := mustCreateUser(t, users, "bob")

	require.NoError(t, logs.Append(ctx, bob.ID, model.TurnRoleUser, "hello", "model-x", nil, nil))
	require.NoError(t, logs.Append(ctx, bob.ID, model.TurnRoleAssistant, "hi there", "model-x", intPtr(3), intPtr(2)))

	entries, err := logs.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, model.TurnRoleUser, entries[0].Role)
	assert.Equal(t, "hello", entries[0].Content)
	assert.Nil(t, entries[0].InputTokens)
	assert.Nil(t, entries[0].OutputTokens)

	assert.Equal(t, model.TurnRoleAssistant, entries[1].Role)
	assert.Equal(t, "hi there", entries[1].Content)
	require.NotNil(t, entries[1].InputTokens)
	require.NotNil(t, entries[1].OutputTokens)
	assert.Equal(t, 3, *entries[1].InputTokens)
	assert.Equal(t, 2, *entries[1].OutputTokens)
}

func TestChatLogRepository_OrderingTieBrokenByID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	logs := NewChatLogRepository(db)
	ctx := context.Background()

	bob := mustCreateUser(t, users, "bob")

	// 同一秒内的多次写入靠 ID 分配顺序排序
	for i := 0; i < 5; i++ {
		role := model.TurnRoleUser
		if i%2 == 1 {
			role = model.TurnRoleAssistant
		}
		require.NoError(t, logs.Append(ctx, bob.ID, role, "turn", "model-x", nil, nil))
	}

	entries, err := logs.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].ID, entries[i-1].ID)
	}
}

func TestChatLogRepository_InvalidRole(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	logs := NewChatLogRepository(db)
	ctx := context.Background()

	bob := mustCreateUser(t, users, "bob")

	err := logs.Append(ctx, bob.ID, "system", "should not land", "model-x", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRole)

	entries, err := logs.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChatLogRepository_ForeignKeyViolation(t *testing.T) {
	t.Parallel()

	logs := NewChatLogRepository(newTestDB(t))

	err := logs.Append(context.Background(), 9999, model.TurnRoleUser, "orphan", "model-x", nil, nil)
	assert.ErrorIs(t, err, ErrForeignKeyViolation)
}

func TestChatLogRepository_NegativeTokenCount(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	logs := NewChatLogRepository(db)
	bob := mustCreateUser(t, users, "bob")

	err := logs.Append(context.Background(), bob.ID, model.TurnRoleAssistant, "x", "model-x", intPtr(-1), nil)
	assert.ErrorIs(t, err, ErrInvalidTokenCount)
}

func TestChatLogRepository_ListScopedToUser(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	logs := NewChatLogRepository(db)
	ctx := context.Background()

	bob := mustCreateUser(t, users, "bob")
	eve := mustCreateUser(t, users, "eve")

	require.NoError(t, logs.Append(ctx, bob.ID, model.TurnRoleUser, "bob says", "model-x", nil, nil))
	require.NoError(t, logs.Append(ctx, eve.ID, model.TurnRoleUser, "eve says", "model-x", nil, nil))

	entries, err := logs.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bob says", entries[0].Content)
}
