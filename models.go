package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the principal record. PasswordHash is never serialized and never
// logged; it only flows between the store and the hasher.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          UserRole   `bun:"user_role,notnull" json:"role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// EnsureRole normalizes a missing role to the default non-privileged role
func (u *User) EnsureRole() {
	if u.Role == "" {
		u.Role = RoleUser
	}
}

// Item is a per-user owned resource. Every operation on items is scoped to
// the owner; other principals cannot observe whether a foreign item exists.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:itm"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	OwnerID       uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	Owner         *User      `bun:"rel:belongs-to,join:owner_id=id" json:"owner,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
