package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidItemID = errors.New("invalid item id")
	ErrNegativePrice = errors.New("item price must not be negative")
)

// MetadataImage is the metadata key carrying the catalog image reference.
const MetadataImage = "image"

// Item is one entry of a cart. Quantity is expressed by repeating entries that
// share the same ID.
type Item struct {
	ID       string
	Title    string
	Price    decimal.Decimal
	Metadata map[string]string
}

// NewItem validates catalog data before it enters a cart.
func NewItem(id, title string, price decimal.Decimal, metadata map[string]string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrInvalidItemID
	}
	if price.IsNegative() {
		return Item{}, ErrNegativePrice
	}
	return Item{ID: id, Title: title, Price: price, Metadata: metadata}.clone(), nil
}

// Image returns the image reference, if any.
func (i Item) Image() string {
	return i.Metadata[MetadataImage]
}

func (i Item) clone() Item {
	if i.Metadata == nil {
		return i
	}
	meta := make(map[string]string, len(i.Metadata))
	for k, v := range i.Metadata {
		meta[k] = v
	}
	i.Metadata = meta
	return i
}
