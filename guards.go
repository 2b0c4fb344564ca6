package accounts

import (
	"github.com/google/uuid"
)

// Guard is a pure predicate over an already resolved principal. Guards run
// only after successful resolution; a request that fails resolution never
// reaches a guard. They are order-independent and hold no state.
type Guard func(identity Identity) error

// RequireAdmin succeeds iff the principal carries the admin role
func RequireAdmin() Guard {
	return func(identity Identity) error {
		if identity == nil {
			return ErrForbidden
		}
		if !UserRole(identity.Role()).IsAdmin() {
			return ErrForbidden
		}
		return nil
	}
}

// RequireSelfOrAdmin succeeds iff the principal is an admin or is the target
// principal itself. The role change escalation rule builds on RequireAdmin at
// the mutation site; this guard alone never grants role edits.
func RequireSelfOrAdmin(targetID uuid.UUID) Guard {
	return func(identity Identity) error {
		if identity == nil {
			return ErrForbidden
		}
		if UserRole(identity.Role()).IsAdmin() {
			return nil
		}
		if identity.ID() == targetID.String() {
			return nil
		}
		return ErrForbidden
	}
}

// RequireRole succeeds iff the principal's role is at least the given role
func RequireRole(minRole UserRole) Guard {
	return func(identity Identity) error {
		if identity == nil {
			return ErrForbidden
		}
		if !UserRole(identity.Role()).IsAtLeast(minRole) {
			return ErrForbidden
		}
		return nil
	}
}

// Authorize applies guards in order and short-circuits on the first
// rejection, returning the principal unchanged on success.
func Authorize(identity Identity, guards ...Guard) (Identity, error) {
	for _, guard := range guards {
		if guard == nil {
			continue
		}
		if err := guard(identity); err != nil {
			return nil, err
		}
	}
	return identity, nil
}
