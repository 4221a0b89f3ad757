package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront/internal/domain/entity"
	handlers "github.com/oksasatya/storefront/internal/interface/http"
	"github.com/oksasatya/storefront/internal/interface/middleware"
)

// AdminModule mounts catalog and user management under /admin for the admin role.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Auth    gin.HandlerFunc
}

func NewAdminModule(h *handlers.AdminHandler, auth gin.HandlerFunc) *AdminModule {
	return &AdminModule{Handler: h, Auth: auth}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/admin")
	g.Use(m.Auth, middleware.RequireRole(entity.RoleAdmin))
	{
		g.GET("/products", m.Handler.ListProducts)
		g.GET("/products/:id", m.Handler.GetProduct)
		g.POST("/products", m.Handler.CreateProduct)
		g.DELETE("/products/:id", m.Handler.DeleteProduct)
		g.POST("/products/images", m.Handler.UploadImages)
		g.GET("/users", m.Handler.ListUsers)
		g.GET("/users/:id", m.Handler.GetUser)
	}
}
