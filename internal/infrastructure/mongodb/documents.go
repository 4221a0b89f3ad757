package mongodb

import (
	"time"

	"github.com/oksasatya/storefront/internal/domain/entity"
)

type cartLineDocument struct {
	ProductID string    `bson:"productId"`
	Quantity  int       `bson:"quantity"`
	Size      string    `bson:"size"`
	AddedAt   time.Time `bson:"addedAt"`
}

type userDocument struct {
	ID          string             `bson:"_id"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	Password    string             `bson:"password"`
	PhoneNumber string             `bson:"phoneNumber,omitempty"`
	Role        string             `bson:"role"`
	CartItem    []cartLineDocument `bson:"cartItem"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type productDocument struct {
	ID               string                `bson:"_id"`
	Name             string                `bson:"name"`
	Price            float64               `bson:"price"`
	OriginalPrice    float64               `bson:"originalPrice"`
	Description      string                `bson:"description"`
	Images           []string              `bson:"images"`
	Sizes            []string              `bson:"sizes"`
	VarietyOfProduct []string              `bson:"varietyOfProduct"`
	Colors           []entity.Color        `bson:"colors"`
	Category         string                `bson:"category"`
	IsNew            bool                  `bson:"isNew"`
	OnSale           bool                  `bson:"onSale"`
	Rating           float64               `bson:"rating"`
	Reviews          int                   `bson:"reviews"`
	Features         []string              `bson:"features"`
	Specifications   entity.Specifications `bson:"specifications"`
	CreatedAt        time.Time             `bson:"createdAt"`
	UpdatedAt        time.Time             `bson:"updatedAt"`
}

func toLineDocument(l entity.CartLine) cartLineDocument {
	return cartLineDocument{ProductID: l.ProductID, Quantity: l.Quantity, Size: l.Size, AddedAt: l.AddedAt}
}

func toLines(docs []cartLineDocument) []entity.CartLine {
	out := make([]entity.CartLine, 0, len(docs))
	for _, d := range docs {
		out = append(out, entity.CartLine{ProductID: d.ProductID, Quantity: d.Quantity, Size: d.Size, AddedAt: d.AddedAt})
	}
	return out
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:          d.ID,
		Name:        d.Name,
		Email:       d.Email,
		Password:    d.Password,
		PhoneNumber: d.PhoneNumber,
		Role:        entity.ParseRole(d.Role),
		CartItems:   toLines(d.CartItem),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toProductDocument(p *entity.Product) productDocument {
	return productDocument{
		ID:               p.ID,
		Name:             p.Name,
		Price:            p.Price,
		OriginalPrice:    p.OriginalPrice,
		Description:      p.Description,
		Images:           p.Images,
		Sizes:            p.Sizes,
		VarietyOfProduct: p.VarietyOfProduct,
		Colors:           p.Colors,
		Category:         p.Category,
		IsNew:            p.IsNew,
		OnSale:           p.OnSale,
		Rating:           p.Rating,
		Reviews:          p.Reviews,
		Features:         p.Features,
		Specifications:   p.Specifications,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (d *productDocument) toEntity() *entity.Product {
	return &entity.Product{
		ID:               d.ID,
		Name:             d.Name,
		Price:            d.Price,
		OriginalPrice:    d.OriginalPrice,
		Description:      d.Description,
		Images:           d.Images,
		Sizes:            d.Sizes,
		VarietyOfProduct: d.VarietyOfProduct,
		Colors:           d.Colors,
		Category:         d.Category,
		IsNew:            d.IsNew,
		OnSale:           d.OnSale,
		Rating:           d.Rating,
		Reviews:          d.Reviews,
		Features:         d.Features,
		Specifications:   d.Specifications,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}
