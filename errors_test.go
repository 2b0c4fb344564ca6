package accounts_test

import (
	"fmt"
	"testing"

	"github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("resolution failures are auth errors", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuth, accounts.ErrInvalidCredentials.Category)
		assert.Equal(t, goerrors.CategoryAuth, accounts.ErrTokenExpired.Category)
		assert.Equal(t, goerrors.CategoryAuth, accounts.ErrTokenMalformed.Category)
		assert.Equal(t, goerrors.CategoryAuth, accounts.ErrMalformedSubject.Category)
		assert.Equal(t, goerrors.CategoryAuth, accounts.ErrPrincipalNotFound.Category)
	})

	t.Run("guard rejection is an authz error", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryAuthz, accounts.ErrForbidden.Category)
		assert.Equal(t, accounts.TextCodeForbidden, accounts.ErrForbidden.TextCode)
	})

	t.Run("infrastructure faults keep their own categories", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryInternal, accounts.ErrCorruptHash.Category)
		assert.Equal(t, goerrors.CategoryOperation, accounts.ErrStorageUnavailable.Category)
	})

	t.Run("input rejections are validation errors", func(t *testing.T) {
		assert.Equal(t, goerrors.CategoryValidation, accounts.ErrNoEmptyString.Category)
		assert.Equal(t, goerrors.CategoryValidation, accounts.ErrInvalidRole.Category)
	})

	t.Run("text codes are distinct", func(t *testing.T) {
		codes := []string{
			accounts.ErrInvalidCredentials.TextCode,
			accounts.ErrTokenExpired.TextCode,
			accounts.ErrTokenMalformed.TextCode,
			accounts.ErrMalformedSubject.TextCode,
			accounts.ErrPrincipalNotFound.TextCode,
			accounts.ErrForbidden.TextCode,
			accounts.ErrCorruptHash.TextCode,
			accounts.ErrStorageUnavailable.TextCode,
		}

		seen := map[string]bool{}
		for _, code := range codes {
			assert.False(t, seen[code], code)
			seen[code] = true
		}
	})
}

func TestIsUnauthenticated(t *testing.T) {
	assert.True(t, accounts.IsUnauthenticated(accounts.ErrInvalidCredentials))
	assert.True(t, accounts.IsUnauthenticated(accounts.ErrTokenExpired))
	assert.True(t, accounts.IsUnauthenticated(accounts.ErrTokenMalformed))
	assert.True(t, accounts.IsUnauthenticated(accounts.ErrMalformedSubject))
	assert.True(t, accounts.IsUnauthenticated(accounts.ErrPrincipalNotFound))

	// errors produced by wrapping a cause and stamping the stage's text
	// code classify the same as the sentinel itself
	wrappedMalformed := goerrors.Wrap(assert.AnError, accounts.ErrTokenMalformed.Category, accounts.ErrTokenMalformed.Message).
		WithTextCode(accounts.ErrTokenMalformed.TextCode)
	assert.True(t, accounts.IsUnauthenticated(wrappedMalformed))
	assert.True(t, accounts.IsMalformedError(wrappedMalformed))

	assert.False(t, accounts.IsUnauthenticated(nil))
	assert.False(t, accounts.IsUnauthenticated(accounts.ErrForbidden))
	assert.False(t, accounts.IsUnauthenticated(accounts.ErrStorageUnavailable))
	assert.False(t, accounts.IsUnauthenticated(assert.AnError))
}

func TestIsStorageUnavailable(t *testing.T) {
	assert.True(t, accounts.IsStorageUnavailable(accounts.ErrStorageUnavailable))

	wrapped := goerrors.Wrap(assert.AnError, accounts.ErrStorageUnavailable.Category, accounts.ErrStorageUnavailable.Message).
		WithTextCode(accounts.ErrStorageUnavailable.TextCode)
	assert.True(t, accounts.IsStorageUnavailable(wrapped))
	assert.False(t, accounts.IsUnauthenticated(wrapped))

	assert.False(t, accounts.IsStorageUnavailable(nil))
	assert.False(t, accounts.IsStorageUnavailable(accounts.ErrInvalidCredentials))
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, accounts.IsTokenExpiredError(accounts.ErrTokenExpired))
	assert.True(t, accounts.IsTokenExpiredError(fmt.Errorf("jwt says: token is expired")))

	assert.False(t, accounts.IsTokenExpiredError(nil))
	assert.False(t, accounts.IsTokenExpiredError(accounts.ErrTokenMalformed))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, accounts.IsMalformedError(accounts.ErrTokenMalformed))
	assert.True(t, accounts.IsMalformedError(fmt.Errorf("missing or malformed JWT")))

	assert.False(t, accounts.IsMalformedError(nil))
	assert.False(t, accounts.IsMalformedError(accounts.ErrTokenExpired))
}
