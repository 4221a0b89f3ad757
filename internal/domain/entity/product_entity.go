package entity

import (
	"strings"
	"time"
)

type Color struct {
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

type Specifications struct {
	Material string `json:"Material" bson:"Material"`
	Weight   string `json:"Weight" bson:"Weight"`
	Fit      string `json:"Fit" bson:"Fit"`
	Care     string `json:"Care" bson:"Care"`
}

// Product is a catalog entry. Carts only reference it; they never own it.
type Product struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Price            float64        `json:"price"`
	OriginalPrice    float64        `json:"originalPrice"`
	Description      string         `json:"description"`
	Images           []string       `json:"images"`
	Sizes            []string       `json:"sizes"`
	VarietyOfProduct []string       `json:"varietyOfProduct"`
	Colors           []Color        `json:"colors"`
	Category         string         `json:"category"`
	IsNew            bool           `json:"isNew"`
	OnSale           bool           `json:"onSale"`
	Rating           float64        `json:"rating"`
	Reviews          int            `json:"reviews"`
	Features         []string       `json:"features"`
	Specifications   Specifications `json:"specifications"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// MissingFields lists the required fields that are empty.
func (p *Product) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if p.Price <= 0 {
		missing = append(missing, "price")
	}
	if strings.TrimSpace(p.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(p.Category) == "" {
		missing = append(missing, "category")
	}
	if len(p.Images) == 0 {
		missing = append(missing, "images")
	}
	if len(p.Sizes) == 0 {
		missing = append(missing, "sizes")
	}
	if len(p.VarietyOfProduct) == 0 {
		missing = append(missing, "varietyOfProduct")
	}
	if len(p.Colors) == 0 {
		missing = append(missing, "colors")
	}
	if strings.TrimSpace(p.Specifications.Material) == "" {
		missing = append(missing, "specifications.Material")
	}
	return missing
}

// Matches is a case-insensitive substring match over name, description and category.
func (p *Product) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, s := range []string{p.Name, p.Description, p.Category} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
