package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("pw123")
	require.NoError(t, err)
	require.NotEmpty(t, h)

	assert.True(t, CheckPasswordHash("pw123", h))
	assert.False(t, CheckPasswordHash("pw124", h))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	// 每次哈希都使用新的盐值，结果不应相同，但都可校验通过。
	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPasswordHash("same-password", h1))
	assert.True(t, CheckPasswordHash("same-password", h2))
}

func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-bcrypt-hash"},
		{"truncated", "$2a$10$abc"},
		{"foreign format", "{SSHA}bXlwYXNzd29yZA=="},
		{"long garbage", strings.Repeat("x", 128)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, CheckPasswordHash("anything", tc.hash))
		})
	}
}
