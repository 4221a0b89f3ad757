package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/storefront/internal/interface/http"
	"github.com/oksasatya/storefront/internal/interface/middleware"
)

// UserModule wires account and cart routes under /user.
// Public: signup, login, logout. Everything else needs the session cookie.
type UserModule struct {
	Users  *handlers.UserHandler
	Carts  *handlers.CartHandler
	Auth   gin.HandlerFunc
	Redis  *redis.Client
	Limits RateLimits
}

// RateLimits are requests per minute. Zero disables a limit.
type RateLimits struct {
	Auth         int
	Cart         int
	AllowPrivate bool
}

func NewUserModule(users *handlers.UserHandler, carts *handlers.CartHandler, auth gin.HandlerFunc, rdb *redis.Client, limits RateLimits) *UserModule {
	return &UserModule{Users: users, Carts: carts, Auth: auth, Redis: rdb, Limits: limits}
}

func (m *UserModule) allow() middleware.AllowFunc {
	if m.Limits.AllowPrivate {
		return nil
	}
	return middleware.AllowPrivateIP()
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	authLimiter := middleware.RateLimit(m.Redis, m.Limits.Auth, time.Minute, middleware.KeyByIPAndPath(), m.allow())
	cartLimiter := middleware.RateLimit(m.Redis, m.Limits.Cart, time.Minute, middleware.KeyByUserID(), m.allow())

	g := rg.Group("/user")
	g.POST("/signup", authLimiter, m.Users.Signup)
	g.POST("/login", authLimiter, m.Users.Login)
	g.POST("/logout", m.Users.Logout)

	auth := g.Group("")
	auth.Use(m.Auth)
	{
		auth.GET("/profile", m.Users.Profile)
		auth.GET("/userById", m.Users.UserByID)
		auth.GET("/getCartDetails", m.Carts.GetCartDetails)
		auth.POST("/addToCart", cartLimiter, m.Carts.AddToCart)
		auth.POST("/deleteFromCart", cartLimiter, m.Carts.DeleteFromCart)
		auth.PUT("/updateCartDetails", cartLimiter, m.Carts.UpdateCartDetails)
	}
}
