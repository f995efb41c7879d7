package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, h.Verify("s3cret", hash))
	assert.False(t, h.Verify("wrong", hash))
	assert.False(t, h.Verify("", hash))
}

func TestBcryptHasher_Salted(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("same input")
	require.NoError(t, err)
	second, err := h.Hash("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("same input", first))
	assert.True(t, h.Verify("same input", second))
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, hash := range []string{"", "not-a-hash", "$2a$10$short"} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("anything", hash))
		})
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("x", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = h.Hash(strings.Repeat("x", MaxPasswordBytes))
	assert.NoError(t, err)
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 12, NewBcryptHasher(12).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).Cost())

	hash, err := NewBcryptHasher(bcrypt.MinCost).Hash("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
