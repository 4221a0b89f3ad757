package application

import (
	"fmt"

	"github.com/oksasatya/storefront/internal/domain/entity"
)

// Authorize checks the authenticated user's own role.
func Authorize(u *entity.User, required entity.Role) error {
	if u == nil {
		return ErrUnauthenticated
	}
	if !u.HasRole(required) {
		return fmt.Errorf("%w: requires role %s", ErrForbidden, required)
	}
	return nil
}

// AuthorizeSelf allows access to targetUserID when it is the caller's own id or the caller is admin.
func AuthorizeSelf(u *entity.User, targetUserID string) error {
	if u == nil {
		return ErrUnauthenticated
	}
	if targetUserID == "" || targetUserID == u.ID || u.HasRole(entity.RoleAdmin) {
		return nil
	}
	return fmt.Errorf("%w: cannot act on another user", ErrForbidden)
}
