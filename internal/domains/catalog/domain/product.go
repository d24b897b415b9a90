package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("product is invalid")
)

// Product is a catalog entry as served by the content backend.
type Product struct {
	ID          string
	Title       string
	Description string
	Category    string
	Price       decimal.Decimal
	Images      []string
}

// Validate enforces the minimum a product needs to be sellable.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Title) == "" {
		return ErrInvalidProduct
	}
	if p.Price.IsNegative() {
		return ErrInvalidProduct
	}
	return nil
}

// CartItem converts the product into a cart entry. The first image, if any,
// travels as the item's image reference.
func (p Product) CartItem() (cartdomain.Item, error) {
	var meta map[string]string
	if len(p.Images) > 0 {
		meta = map[string]string{cartdomain.MetadataImage: p.Images[0]}
	}
	if p.Category != "" {
		if meta == nil {
			meta = map[string]string{}
		}
		meta["category"] = p.Category
	}
	return cartdomain.NewItem(p.ID, p.Title, p.Price, meta)
}
