package entity

// Role represents an authorization role stored on the user record.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole maps a stored value to a Role; unknown or empty values fall back to RoleUser.
func ParseRole(s string) Role {
	r := Role(s)
	if !r.Valid() {
		return RoleUser
	}
	return r
}
