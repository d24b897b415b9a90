package mapper

import (
	"strings"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
)

const (
	// ShippingFree is shown while shipping is not priced.
	ShippingFree = "FREE"
	// TaxPending is shown until a zipcode based tax estimate exists.
	TaxPending = "-"
)

// Item is the transport shape of a single cart entry.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
	Image string `json:"image,omitempty"`
}

// Line is one grouped row of the cart, the basis of the checkout page.
type Line struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Image     string `json:"image,omitempty"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

// Cart is the transport view of a cart with its derived values.
type Cart struct {
	Items     []Item `json:"items"`
	Lines     []Line `json:"lines"`
	ItemCount int    `json:"itemCount"`
	Subtotal  string `json:"subtotal"`
	Shipping  string `json:"shipping"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
	Currency  string `json:"currency"`
	Removed   *bool  `json:"removed,omitempty"`
}

// FromDomainCart renders the cart snapshot for HTTP responses.
func FromDomainCart(cart cartdomain.Cart, currency string) Cart {
	items := cart.Items()
	out := Cart{
		Items:     make([]Item, 0, len(items)),
		ItemCount: len(items),
		Subtotal:  cart.Total().StringFixed(2),
		Shipping:  ShippingFree,
		Tax:       TaxPending,
		Total:     cart.Total().StringFixed(2),
		Currency:  strings.ToUpper(currency),
	}
	for _, item := range items {
		out.Items = append(out.Items, Item{
			ID:    item.ID,
			Title: item.Title,
			Price: item.Price.StringFixed(2),
			Image: item.Image(),
		})
	}
	lines := cart.Lines()
	out.Lines = make([]Line, 0, len(lines))
	for _, line := range lines {
		out.Lines = append(out.Lines, Line{
			ID:        line.ID,
			Title:     line.Title,
			Image:     line.Image,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal.StringFixed(2),
		})
	}
	return out
}

// FromRemoval renders the cart and flags whether the remove request matched.
func FromRemoval(cart cartdomain.Cart, removed bool, currency string) Cart {
	out := FromDomainCart(cart, currency)
	out.Removed = &removed
	return out
}
