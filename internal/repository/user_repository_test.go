package repository

import (
	"errors"
	"testing"

	"dialab-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(newTestDB(t))
	created := mustCreateUser(t, repo, "alice")
	assert.Equal(t, model.RoleDefault, created.Role)

	found, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "alice", found.Username)
	assert.NotEmpty(t, found.PasswordHash)

	byID, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserRepository_FindByUsername_CaseSensitive(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(newTestDB(t))
	mustCreateUser(t, repo, "alice")

	// 精确匹配：大小写不同视为不存在
	_, err := repo.FindByUsername("Alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewUserRepository(db)
	mustCreateUser(t, repo, "alice")

	err := repo.Create(&model.User{Username: "alice", PasswordHash: "another-hash"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateUsername), "expected ErrDuplicateUsername, got %v", err)

	// 唯一索引保证冲突后表里仍然只有一行 alice
	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUserRepository_FindWithPagination(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository(newTestDB(t))
	for _, name := range []string{"u1", "u2", "u3"} {
		mustCreateUser(t, repo, name)
	}

	page, total, err := repo.FindWithPagination(1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "u2", page[0].Username)
	assert.Equal(t, "u3", page[1].Username)
}
