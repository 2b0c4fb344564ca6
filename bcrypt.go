package accounts

import (
	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost balances login latency against brute-force resistance.
// The cost is process-wide immutable configuration; raising it only affects
// hashes created afterwards since each hash encodes its own cost and salt.
const DefaultBcryptCost = 12

// Hasher performs one-way credential hashing with a fixed cost factor
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost, falling back to
// DefaultBcryptCost when the value is outside bcrypt's supported range.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return Hasher{cost: cost}
}

// HashPassword will generate a password hash. The output string encodes
// algorithm, cost, and salt so verification needs no side channel.
func (h Hasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}
	return string(hashed), nil
}

// ComparePasswordAndHash will validate the given cleartext password against
// the hashed password. A mismatch returns ErrInvalidCredentials; a hash value
// bcrypt cannot decode returns ErrCorruptHash so callers can log the
// integrity problem without changing the outward outcome.
func (h Hasher) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if goerrors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return goerrors.Wrap(err, ErrCorruptHash.Category, ErrCorruptHash.Message).
			WithTextCode(ErrCorruptHash.TextCode)
	}
	return nil
}

var _ PasswordAuthenticator = Hasher{}

// HashPassword hashes with the default cost
func HashPassword(password string) (string, error) {
	return NewHasher(DefaultBcryptCost).HashPassword(password)
}

// ComparePasswordAndHash verifies with the parameters encoded in the hash
func ComparePasswordAndHash(password, hash string) error {
	return NewHasher(DefaultBcryptCost).ComparePasswordAndHash(password, hash)
}
