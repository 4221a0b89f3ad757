package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/response"
	"github.com/oksasatya/storefront/pkg/validation"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the first match wins.
var errorMappings = []errorMapping{
	{application.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{application.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{application.ErrForbidden, http.StatusForbidden, "forbidden"},
	{application.ErrInvalidID, http.StatusBadRequest, "invalid_id"},
	{application.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{application.ErrInvalidProduct, http.StatusBadRequest, "invalid_product"},
	{application.ErrInvalidPassword, http.StatusBadRequest, "invalid_password"},
	{application.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{application.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
	{application.ErrItemNotInCart, http.StatusNotFound, "item_not_in_cart"},
	{application.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{application.ErrAlreadyInCart, http.StatusConflict, "already_in_cart"},
}

// writeError renders a service error. Authentication failures also clear the session cookie.
func writeError(c *gin.Context, err error, cookies *helpers.Manager, logger *logrus.Logger) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.status == http.StatusUnauthorized && cookies != nil && errors.Is(err, application.ErrUnauthenticated) {
			cookies.Clear(c)
		}
		response.Error(c, m.status, err.Error(), response.ErrorBody{Code: m.code})
		return
	}
	if logger != nil {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
	}
	response.Error(c, http.StatusInternalServerError, "internal server error", response.ErrorBody{Code: "internal"})
}

func writeBindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", response.ErrorBody{Code: "validation", Details: validation.ToDetails(err)})
}
