package handlers

import (
	"time"

	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/domain/entity"
)

// userView is the public shape of a user. The password hash never leaves the service.
type userView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	PhoneNumber string            `json:"phoneNumber,omitempty"`
	Role        entity.Role       `json:"role"`
	CartItem    []entity.CartLine `json:"cartItem"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func toUserView(u *entity.User) userView {
	lines := u.CartItems
	if lines == nil {
		lines = []entity.CartLine{}
	}
	return userView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		CartItem:    lines,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toUserViews(users []*entity.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toUserView(u))
	}
	return out
}

// userCartView is a user whose cartItem entries carry the resolved product.
type userCartView struct {
	userView
	CartItem  []entity.ResolvedCartLine `json:"cartItem"`
	CartTotal float64                   `json:"cartTotal"`
}

func toUserCartView(uc *application.UserCart) userCartView {
	return userCartView{
		userView:  toUserView(uc.User),
		CartItem:  uc.Items,
		CartTotal: uc.Total,
	}
}

type signupRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,pwd"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type addToCartRequest struct {
	UserID          string `json:"userId"`
	ProductID       string `json:"productId" binding:"required"`
	InputSize       string `json:"InputSize" binding:"omitempty,size"`
	InitialQuantity *int   `json:"initialQuantity" binding:"omitempty,max=999"`
}

type deleteFromCartRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId" binding:"required"`
}

type updateCartRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"max=999"`
	InputSize string `json:"InputSize" binding:"omitempty,size"`
}

type createProductRequest struct {
	Name             string                `json:"name"`
	Price            float64               `json:"price"`
	OriginalPrice    float64               `json:"originalPrice"`
	Description      string                `json:"description"`
	Images           []string              `json:"images"`
	Sizes            []string              `json:"sizes"`
	VarietyOfProduct []string              `json:"varietyOfProduct"`
	Colors           []entity.Color        `json:"colors"`
	Category         string                `json:"category"`
	IsNew            bool                  `json:"isNew"`
	OnSale           bool                  `json:"onSale"`
	Rating           float64               `json:"rating" binding:"gte=0,lte=5"`
	Reviews          int                   `json:"reviews" binding:"gte=0"`
	Features         []string              `json:"features"`
	Specifications   entity.Specifications `json:"specifications"`
}

func (r createProductRequest) toEntity() *entity.Product {
	return &entity.Product{
		Name:             r.Name,
		Price:            r.Price,
		OriginalPrice:    r.OriginalPrice,
		Description:      r.Description,
		Images:           r.Images,
		Sizes:            r.Sizes,
		VarietyOfProduct: r.VarietyOfProduct,
		Colors:           r.Colors,
		Category:         r.Category,
		IsNew:            r.IsNew,
		OnSale:           r.OnSale,
		Rating:           r.Rating,
		Reviews:          r.Reviews,
		Features:         r.Features,
		Specifications:   r.Specifications,
	}
}
