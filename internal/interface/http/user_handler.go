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

type UserHandler struct {
	Users   *application.UserService
	Carts   *application.CartService
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewUserHandler(users *application.UserService, carts *application.CartService, cookies *helpers.Manager, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Carts: carts, Cookies: cookies, Logger: logger}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	u, err := h.Users.Signup(c.Request.Context(), application.SignupInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		writeError(c, err, nil, h.Logger)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": toUserView(u)}, "user created successfully", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	client := application.ClientInfo{IP: middleware.ClientIP(c), UserAgent: c.Request.UserAgent()}
	u, sess, err := h.Users.Login(c.Request.Context(), req.Email, req.Password, client)
	if err != nil {
		writeError(c, err, nil, h.Logger)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.Success(c, http.StatusOK, gin.H{"user": toUserView(u)}, "login successful", gin.H{"expires_at": sess.ExpiresAt})
}

// Logout only clears the cookie; tokens are stateless.
func (h *UserHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "logged out successfully", nil)
}

func (h *UserHandler) Profile(c *gin.Context) {
	u := middleware.CurrentUser(c)
	response.Success(c, http.StatusOK, gin.H{"user": toUserView(u)}, "profile fetched successfully", nil)
}

// UserByID returns a user with the cart resolved. Callers may only read themselves unless admin.
func (h *UserHandler) UserByID(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		id = c.GetString(middleware.CtxUserIDKey)
	}
	if err := application.AuthorizeSelf(middleware.CurrentUser(c), id); err != nil {
		writeError(c, err, h.Cookies, h.Logger)
		return
	}
	uc, err := h.Carts.UserWithCart(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, h.Cookies, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toUserCartView(uc)}, "user profile fetched successfully", nil)
}
