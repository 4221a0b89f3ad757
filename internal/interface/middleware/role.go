package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/pkg/response"
)

// RequireRole must run after Auth.
func RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			response.Abort(c, http.StatusUnauthorized, "not authorized", response.ErrorBody{Code: "unauthenticated"})
			return
		}
		if err := application.Authorize(u, role); err != nil {
			response.Abort(c, http.StatusForbidden, "access denied", response.ErrorBody{Code: "forbidden"})
			return
		}
		c.Next()
	}
}
