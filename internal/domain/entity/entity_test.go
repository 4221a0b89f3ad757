package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartLine(t *testing.T) {
	l, err := NewCartLine("p1", "", 1)
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, l.Size)
	assert.Equal(t, 1, l.Quantity)
	assert.False(t, l.AddedAt.IsZero())

	l, err = NewCartLine("p1", " XL ", 2)
	require.NoError(t, err)
	assert.Equal(t, "XL", l.Size)

	_, err = NewCartLine("p1", "M", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewCartLine("p1", "M", MaxQuantity+1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewCartLine("", "M", 1)
	assert.ErrorIs(t, err, ErrEmptyProductID)
}

func TestCartTotal_SkipsDanglingLines(t *testing.T) {
	lines := []ResolvedCartLine{
		{ProductID: "a", Product: &Product{Price: 10}, Quantity: 3},
		{ProductID: "b", Product: nil, Quantity: 5},
		{ProductID: "c", Product: &Product{Price: 2.5}, Quantity: 2},
	}
	assert.InDelta(t, 35.0, CartTotal(lines), 1e-9)
}

func TestFindLine(t *testing.T) {
	lines := []CartLine{{ProductID: "a"}, {ProductID: "b"}}
	assert.Equal(t, 1, FindLine(lines, "b"))
	assert.Equal(t, -1, FindLine(lines, "z"))
}

func TestUser_SanitizedDropsPassword(t *testing.T) {
	u := &User{ID: "1", Password: "hash", CartItems: []CartLine{{ProductID: "a"}}}
	s := u.Sanitized()
	assert.Empty(t, s.Password)
	assert.Equal(t, "hash", u.Password)

	s.CartItems[0].ProductID = "changed"
	assert.Equal(t, "a", u.CartItems[0].ProductID)

	var nilUser *User
	assert.Nil(t, nilUser.Sanitized())
}

func TestRoleAndIDs(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleUser, ParseRole("root"))
	assert.Equal(t, RoleUser, ParseRole(""))

	assert.True(t, ValidID(NewID()))
	assert.False(t, ValidID("123"))
	assert.False(t, ValidID(""))

	id := NewID()
	assert.False(t, ValidID(strings.ToUpper(id)))
	assert.False(t, ValidID("{"+id+"}"))
	assert.False(t, ValidID("urn:uuid:"+id))
	assert.False(t, ValidID(strings.ReplaceAll(id, "-", "")))

	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}

func TestProduct_MissingFieldsAndMatches(t *testing.T) {
	p := &Product{Name: "Linen Shirt", Category: "Tops", Description: "breezy"}
	missing := p.MissingFields()
	assert.Contains(t, missing, "price")
	assert.Contains(t, missing, "images")
	assert.NotContains(t, missing, "name")

	assert.True(t, p.Matches("linen"))
	assert.True(t, p.Matches("TOPS"))
	assert.True(t, p.Matches(""))
	assert.False(t, p.Matches("boots"))
}
