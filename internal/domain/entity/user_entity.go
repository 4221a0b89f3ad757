package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the aggregate root for the storefront account.
// Passwords are stored as bcrypt hashes in Password field.
// CartItems is owned by the user; lines reference products weakly by id.
type User struct {
	ID          string
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Role        Role
	CartItems   []CartLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(r Role) bool {
	return u != nil && u.Role == r
}

// Sanitized returns a copy of the user without the password hash.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Password = ""
	if u.CartItems != nil {
		cp.CartItems = append([]CartLine(nil), u.CartItems...)
	}
	return &cp
}

// NormalizeEmail lower-cases and trims an email so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidID reports whether id is an entity identifier in canonical form:
// 36 characters, lower-case, dashed. Every store compares ids as strings.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}
