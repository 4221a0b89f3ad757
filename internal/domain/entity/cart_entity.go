package entity

import (
	"errors"
	"strings"
	"time"
)

// DefaultSize is used when a cart line is added without a size.
const DefaultSize = "M"

// MaxQuantity bounds a single cart line.
const MaxQuantity = 999

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 999")
	ErrEmptyProductID  = errors.New("product id cannot be empty")
)

// CartLine is one product reference inside a user's cart.
type CartLine struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size"`
	AddedAt   time.Time `json:"addedAt"`
}

// NewCartLine validates the input and applies the default size.
func NewCartLine(productID, size string, quantity int) (CartLine, error) {
	if productID == "" {
		return CartLine{}, ErrEmptyProductID
	}
	if !ValidQuantity(quantity) {
		return CartLine{}, ErrInvalidQuantity
	}
	size = strings.TrimSpace(size)
	if size == "" {
		size = DefaultSize
	}
	return CartLine{
		ProductID: productID,
		Quantity:  quantity,
		Size:      size,
		AddedAt:   time.Now().UTC(),
	}, nil
}

// ValidQuantity reports whether q fits a cart line.
func ValidQuantity(q int) bool {
	return q >= 1 && q <= MaxQuantity
}

// ResolvedCartLine is a cart line with its product reference loaded for display.
// Product is nil when the referenced product no longer exists.
type ResolvedCartLine struct {
	ProductID string   `json:"productId"`
	Product   *Product `json:"product"`
	Quantity  int      `json:"quantity"`
	Size      string   `json:"size"`
}

// Subtotal is price * quantity, or zero for a dangling reference.
func (l ResolvedCartLine) Subtotal() float64 {
	if l.Product == nil {
		return 0
	}
	return l.Product.Price * float64(l.Quantity)
}

// CartTotal sums the subtotals of all resolved lines.
func CartTotal(lines []ResolvedCartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// FindLine returns the index of the line referencing productID, or -1.
func FindLine(lines []CartLine, productID string) int {
	for i, l := range lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
