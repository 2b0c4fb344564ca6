package accounts

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients alongside the HTTP status.
// TextCodeUnauthenticated is the only code a 401 body ever carries; the
// per-stage codes below stay in logs and error values.
const (
	TextCodeUnauthenticated    = "UNAUTHENTICATED"
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeMalformedSubject   = "MALFORMED_SUBJECT"
	TextCodePrincipalNotFound  = "PRINCIPAL_NOT_FOUND"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeCorruptHash        = "CORRUPT_HASH"
	TextCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeInvalidRole        = "INVALID_ROLE"
)

// ErrInvalidCredentials is the uniform login failure. Unknown identifier,
// wrong password, and unreadable stored hash all collapse into this value so
// the response never reveals which check failed.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token's expiry instant has been reached
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures, truncated payloads, and any other
// token the codec cannot verify
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrMalformedSubject means the token verified but its subject claim is not a
// well formed principal identifier
var ErrMalformedSubject = errors.New("token subject is not a valid principal id", errors.CategoryAuth).
	WithTextCode(TextCodeMalformedSubject).
	WithCode(errors.CodeUnauthorized)

// ErrPrincipalNotFound means the subject parsed but no matching principal
// exists, e.g. the account was deleted after the token was issued
var ErrPrincipalNotFound = errors.New("principal not found", errors.CategoryAuth).
	WithTextCode(TextCodePrincipalNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden is the guard rejection: the principal resolved fine but lacks
// the required role or identity
var ErrForbidden = errors.New("insufficient permissions", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrCorruptHash flags a stored password hash the hasher cannot decode.
// Callers treat it as an authentication failure; the provider logs it as an
// integrity warning since it indicates external data corruption.
var ErrCorruptHash = errors.New("stored password hash is unreadable", errors.CategoryInternal).
	WithTextCode(TextCodeCorruptHash)

// ErrStorageUnavailable keeps infrastructure failure distinct from bad
// credentials; the boundary maps it to a service-unavailable response.
var ErrStorageUnavailable = errors.New("principal storage is unavailable", errors.CategoryOperation).
	WithTextCode(TextCodeStorageUnavailable)

// ErrNoEmptyString rejects empty passwords before they reach the hasher
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrInvalidRole rejects role values outside the closed set at the boundary
var ErrInvalidRole = errors.New("unknown or invalid role", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidRole).
	WithCode(errors.CodeBadRequest)

// textCodeOf extracts the text code from a rich error in err's chain.
// Wrapped errors keep their stage's text code even when the sentinel value
// itself is not in the chain, so classification goes by code, not identity.
func textCodeOf(err error) string {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode
	}
	return ""
}

// IsUnauthenticated reports whether err is one of the resolution failures the
// boundary collapses into a 401. The taxonomy exists for observability; the
// response treats all of them identically.
func IsUnauthenticated(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrMalformedSubject) ||
		errors.Is(err, ErrPrincipalNotFound) {
		return true
	}
	switch textCodeOf(err) {
	case TextCodeInvalidCreds, TextCodeTokenExpired, TextCodeTokenMalformed,
		TextCodeMalformedSubject, TextCodePrincipalNotFound:
		return true
	}
	return false
}

// IsStorageUnavailable reports whether err is an infrastructure failure
// rather than a credential one
func IsStorageUnavailable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrStorageUnavailable) ||
		textCodeOf(err) == TextCodeStorageUnavailable
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) || textCodeOf(err) == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) || textCodeOf(err) == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
