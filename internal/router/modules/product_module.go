package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/storefront/internal/interface/http"
)

// ProductModule serves the public catalog under /product.
type ProductModule struct {
	Handler *handlers.ProductHandler
}

func NewProductModule(h *handlers.ProductHandler) *ProductModule {
	return &ProductModule{Handler: h}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/product")
	g.GET("/getallproduct", m.Handler.GetAll)
	g.GET("/productbyid", m.Handler.GetByID)
	g.GET("/search", m.Handler.Search)
}
