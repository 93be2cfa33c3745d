package service

import (
	"testing"

	"dialab-go/internal/model"
	"dialab-go/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_CreateAndAuthenticate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := NewAuthService(env.users)

	created, err := svc.CreateUser("bob", "pw123", "")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, model.RoleDefault, created.Role)
	// 存储的是哈希，不是明文
	assert.NotEqual(t, "pw123", created.PasswordHash)

	user, err := svc.Authenticate("bob", "pw123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "bob", user.Username)
}

func TestAuthService_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := NewAuthService(env.users)

	_, err := svc.CreateUser("bob", "pw123", "")
	require.NoError(t, err)

	// 未知用户名与密码错误必须返回同一个错误值
	_, unknownErr := svc.Authenticate("nonexistent", "whatever")
	_, wrongPwErr := svc.Authenticate("bob", "wrong-password")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPwErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongPwErr)
}

func TestAuthService_MalformedStoredHash(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := NewAuthService(env.users)

	// 绕过 service 直接写入一条无法解析的哈希（模拟外来数据）
	require.NoError(t, env.users.Create(&model.User{
		Username:     "legacy",
		PasswordHash: "{SSHA}bXlwYXNzd29yZA==",
	}))

	_, err := svc.Authenticate("legacy", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_DuplicateUsername(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := NewAuthService(env.users)

	_, err := svc.CreateUser("alice", "pw1", "")
	require.NoError(t, err)

	_, err = svc.CreateUser("alice", "pw2", "")
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestAuthService_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := NewAuthService(env.users)

	_, err := svc.CreateUser("", "pw", "")
	assert.Error(t, err)

	_, err = svc.CreateUser("user", "", "")
	assert.Error(t, err)
}

func TestAuthService_RoleLabelStored(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := NewAuthService(env.users)

	created, err := svc.CreateUser("root", "pw123", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, created.Role)
}
