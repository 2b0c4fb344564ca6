package accounts_test

import (
	"testing"

	"github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashPassword(t *testing.T) {
	hasher := accounts.NewHasher(bcrypt.MinCost)

	t.Run("hashes a valid password", func(t *testing.T) {
		hash, err := hasher.HashPassword("secretpassword")

		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "secretpassword", hash)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		hash, err := hasher.HashPassword("")

		assert.Error(t, err)
		assert.Empty(t, hash)
		assert.ErrorIs(t, err, accounts.ErrNoEmptyString)
	})

	t.Run("same password produces different hashes", func(t *testing.T) {
		hash1, err := hasher.HashPassword("secretpassword")
		require.NoError(t, err)

		hash2, err := hasher.HashPassword("secretpassword")
		require.NoError(t, err)

		// each hash carries its own salt
		assert.NotEqual(t, hash1, hash2)
	})
}

func TestHasher_ComparePasswordAndHash(t *testing.T) {
	hasher := accounts.NewHasher(bcrypt.MinCost)

	hash, err := hasher.HashPassword("correcthorse")
	require.NoError(t, err)

	t.Run("accepts the original password", func(t *testing.T) {
		err := hasher.ComparePasswordAndHash("correcthorse", hash)
		assert.NoError(t, err)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		err := hasher.ComparePasswordAndHash("batterystaple", hash)

		assert.Error(t, err)
		assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	})

	t.Run("flags an unreadable stored hash", func(t *testing.T) {
		err := hasher.ComparePasswordAndHash("correcthorse", "not-a-bcrypt-hash")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, accounts.ErrInvalidCredentials)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, accounts.TextCodeCorruptHash, richErr.TextCode)
	})

	t.Run("flags an empty stored hash", func(t *testing.T) {
		err := hasher.ComparePasswordAndHash("correcthorse", "")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, accounts.ErrInvalidCredentials)
	})
}

func TestNewHasher_CostRange(t *testing.T) {
	t.Run("falls back to default on out of range cost", func(t *testing.T) {
		hasher := accounts.NewHasher(100)

		hash, err := hasher.HashPassword("secretpassword")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, accounts.DefaultBcryptCost, cost)
	})

	t.Run("honors an explicit cost", func(t *testing.T) {
		hasher := accounts.NewHasher(bcrypt.MinCost)

		hash, err := hasher.HashPassword("secretpassword")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})
}

func TestPackageLevelHelpers(t *testing.T) {
	hash, err := accounts.HashPassword("secretpassword")
	require.NoError(t, err)

	assert.NoError(t, accounts.ComparePasswordAndHash("secretpassword", hash))
	assert.ErrorIs(t, accounts.ComparePasswordAndHash("wrong", hash), accounts.ErrInvalidCredentials)
}
