package accounts

// UserRole is the user's role
type UserRole string

const (
	// RoleUser is the default role: full access to owned resources only
	RoleUser UserRole = "user"
	// RoleAdmin can manage every account and change roles
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles.
// Unrecognized values are rejected at the storage boundary, never inside
// guards.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin checks if this role carries administrator privileges
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// IsAtLeast checks if this role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleUser:  0,
		RoleAdmin: 1,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleUser,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}
