package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/pkg/response"
)

type ProductHandler struct {
	Products *application.ProductService
	Logger   *logrus.Logger
}

func NewProductHandler(products *application.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Products: products, Logger: logger}
}

func (h *ProductHandler) GetAll(c *gin.Context) {
	products, err := h.Products.List(c.Request.Context())
	if err != nil {
		writeError(c, err, nil, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"products": products}, "products fetched successfully", gin.H{"count": len(products)})
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	p, err := h.Products.Get(c.Request.Context(), c.Query("id"))
	if err != nil {
		writeError(c, err, nil, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": p}, "product fetched successfully", nil)
}

func (h *ProductHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	q := repository.ProductQuery{
		Text:     c.Query("q"),
		Category: c.Query("category"),
		Size:     c.Query("size"),
		Limit:    limit,
	}
	products, err := h.Products.SearchProducts(c.Request.Context(), q)
	if err != nil {
		writeError(c, err, nil, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"products": products}, "search results", gin.H{"count": len(products)})
}
