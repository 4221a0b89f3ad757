package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
)

// SessionResolver maps a session token to the live user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.User, error)
}

// Auth reads the session cookie and attaches the user (without password) to the context.
// Invalid sessions clear the cookie.
func Auth(sessions SessionResolver, cookies *helpers.Manager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookies.Read(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "not authorized, no token", response.ErrorBody{Code: "unauthenticated"})
			return
		}

		u, err := sessions.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, application.ErrUnauthenticated) {
				if logger != nil {
					helpers.LogError(logger, "resolve session failed", err, logrus.Fields{"path": c.FullPath()})
				}
				response.Abort(c, http.StatusInternalServerError, "internal server error", response.ErrorBody{Code: "internal"})
				return
			}
			cookies.Clear(c)
			response.Abort(c, http.StatusUnauthorized, sessionFailureMessage(err), response.ErrorBody{Code: "unauthenticated"})
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

func sessionFailureMessage(err error) string {
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		return "user not found"
	case errors.Is(err, helpers.ErrTokenExpired):
		return "session expired"
	default:
		return "not authorized, invalid token"
	}
}

// CurrentUser returns the user attached by Auth, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
