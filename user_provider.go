package accounts

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// UserStore is the storage lookup interface the provider consumes. At most
// one record matches either lookup; uniqueness of the login identifier is a
// storage invariant.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// UserProvider resolves identities against the user store
type UserProvider struct {
	store  UserStore
	hasher PasswordAuthenticator
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		hasher: NewHasher(DefaultBcryptCost),
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// WithHasher overrides the password verifier, e.g. to honor a configured cost
func (u *UserProvider) WithHasher(h PasswordAuthenticator) *UserProvider {
	if h != nil {
		u.hasher = h
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Unknown identifier, wrong password, and corrupt stored hash all
// return ErrInvalidCredentials: the caller must not be able to tell which
// path failed. Timing differences from the lookup step are an accepted,
// lesser leak.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		// record-not-found carries the repository's own category, which the
		// generic not-found check does not cover
		if repository.IsRecordNotFound(err) || errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, ErrStorageUnavailable.Category, ErrStorageUnavailable.Message).
			WithTextCode(ErrStorageUnavailable.TextCode)
	}

	if err := u.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrCorruptHash) || !errors.Is(err, ErrInvalidCredentials) {
			// data corruption in the store, not a bad login; the outward
			// outcome stays identical to a wrong password
			u.logger.Warn("unreadable password hash for stored principal", "user_id", user.ID.String())
		}
		return nil, ErrInvalidCredentials
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByID loads a principal by its parsed identifier
func (u *UserProvider) FindIdentityByID(ctx context.Context, id uuid.UUID) (Identity, error) {
	user, err := u.store.GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) || errors.IsNotFound(err) {
			return nil, ErrPrincipalNotFound
		}
		return nil, errors.Wrap(err, ErrStorageUnavailable.Category, ErrStorageUnavailable.Message).
			WithTextCode(ErrStorageUnavailable.TextCode)
	}

	return NewIdentityFromUser(user), nil
}

var _ IdentityProvider = (*UserProvider)(nil)
