package mapper

import (
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

// Product represents the transport-layer shape of a catalog product.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       string   `json:"price"`
	Images      []string `json:"images"`
}

// FromDomainProduct converts a domain product to the transport representation.
func FromDomainProduct(p catalogdomain.Product) Product {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price.StringFixed(2),
		Images:      images,
	}
}

func FromDomainProducts(list []catalogdomain.Product) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		out = append(out, FromDomainProduct(p))
	}
	return out
}
