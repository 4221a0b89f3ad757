package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/interface/middleware"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/response"
)

type CartHandler struct {
	Carts   *application.CartService
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewCartHandler(carts *application.CartService, cookies *helpers.Manager, logger *logrus.Logger) *CartHandler {
	return &CartHandler{Carts: carts, Cookies: cookies, Logger: logger}
}

// targetUser resolves the cart owner. An explicit userId must match the session unless the caller is admin.
func (h *CartHandler) targetUser(c *gin.Context, requested string) (string, bool) {
	if err := application.AuthorizeSelf(middleware.CurrentUser(c), requested); err != nil {
		writeError(c, err, h.Cookies, h.Logger)
		return "", false
	}
	if requested == "" {
		return c.GetString(middleware.CtxUserIDKey), true
	}
	return requested, true
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	uid, ok := h.targetUser(c, req.UserID)
	if !ok {
		return
	}
	qty := 1
	if req.InitialQuantity != nil {
		qty = *req.InitialQuantity
	}
	if err := h.Carts.AddItem(c.Request.Context(), uid, req.ProductID, req.InputSize, qty); err != nil {
		writeError(c, err, h.Cookies, h.Logger)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "product added to cart", nil)
}

func (h *CartHandler) DeleteFromCart(c *gin.Context) {
	var req deleteFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	uid, ok := h.targetUser(c, req.UserID)
	if !ok {
		return
	}
	lines, err := h.Carts.RemoveItem(c.Request.Context(), uid, req.ProductID)
	if err != nil {
		writeError(c, err, h.Cookies, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cartItem": lines}, "product removed from cart", nil)
}

func (h *CartHandler) GetCartDetails(c *gin.Context) {
	uid, ok := h.targetUser(c, c.Query("userId"))
	if !ok {
		return
	}
	lines, err := h.Carts.ListItems(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err, h.Cookies, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart": lines}, "cart fetched successfully", nil)
}

func (h *CartHandler) UpdateCartDetails(c *gin.Context) {
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	uid, ok := h.targetUser(c, req.UserID)
	if !ok {
		return
	}
	lines, err := h.Carts.UpdateQuantity(c.Request.Context(), uid, req.ProductID, req.Quantity, req.InputSize)
	if err != nil {
		writeError(c, err, h.Cookies, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cartItem": lines}, "cart updated successfully", nil)
}
