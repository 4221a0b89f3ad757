package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/pkg/response"
)

const maxUploadFiles = 10

type AdminHandler struct {
	Products *application.ProductService
	Users    *application.UserService
	Logger   *logrus.Logger
}

func NewAdminHandler(products *application.ProductService, users *application.UserService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Products: products, Users: users, Logger: logger}
}

func (h *AdminHandler) ListProducts(c *gin.Context) {
	products, err := h.Products.List(c.Request.Context())
	if err != nil {
		writeError(c, err, nil, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"products": products}, "products fetched successfully", gin.H{"count": len(products)})
}

func (h *AdminHandler) GetProduct(c *gin.Context) {
	p, err := h.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, nil, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": p}, "product fetched successfully", nil)
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	p := req.toEntity()
	if err := h.Products.Create(c.Request.Context(), p); err != nil {
		writeError(c, err, nil, h.Logger)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"product": p}, "product added successfully", nil)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	p, err := h.Products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, nil, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"product": p}, "product deleted successfully", nil)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err, nil, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": toUserViews(users)}, "users fetched successfully", gin.H{"count": len(users)})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	u, err := h.Users.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, nil, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toUserView(u)}, "user fetched successfully", nil)
}

// UploadImages accepts multipart "images" files. Storage failures yield an empty list, not an error.
func (h *AdminHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		writeBindError(c, err)
		return
	}
	headers := form.File["images"]
	if len(headers) > maxUploadFiles {
		headers = headers[:maxUploadFiles]
	}
	files := make([]application.ImageFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, application.ImageFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Open:        openPart(fh),
		})
	}
	urls := h.Products.UploadImages(c.Request.Context(), files)
	response.Success(c, http.StatusOK, gin.H{"images": urls}, "images uploaded", gin.H{"requested": len(files), "uploaded": len(urls)})
}

func openPart(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) { return fh.Open() }
}
