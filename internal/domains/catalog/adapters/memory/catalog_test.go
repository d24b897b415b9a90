package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

func TestDefaultCatalogLoads(t *testing.T) {
	catalog, err := NewDefaultCatalog()
	require.NoError(t, err)

	products, err := catalog.List(context.Background(), "")
	require.NoError(t, err)
	require.NotEmpty(t, products)
	assert.Equal(t, "prod-iphone-14", products[0].ID)
	assert.Contains(t, catalog.Categories(context.Background()), "mac")
}

func TestLoadCatalog_FiltersByCategory(t *testing.T) {
	doc := `
products:
  - id: a
    title: A
    category: phones
    price: "1.50"
  - id: b
    title: B
    category: laptops
    price: "2"
`
	catalog, err := LoadCatalog(strings.NewReader(doc))
	require.NoError(t, err)

	phones, err := catalog.List(context.Background(), "PHONES")
	require.NoError(t, err)
	require.Len(t, phones, 1)
	assert.True(t, phones[0].Price.Equal(decimal.RequireFromString("1.5")))
}

func TestLoadCatalog_RejectsBadPrice(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("products:\n  - id: a\n    title: A\n    price: abc\n"))
	require.Error(t, err)

	_, err = LoadCatalog(strings.NewReader("products:\n  - id: a\n    title: A\n    price: \"-1\"\n"))
	require.ErrorIs(t, err, domain.ErrInvalidProduct)
}

func TestGet_MissingProduct(t *testing.T) {
	catalog := NewCatalog()
	_, err := catalog.Get(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductCartItemCarriesImage(t *testing.T) {
	catalog, err := NewDefaultCatalog()
	require.NoError(t, err)
	product, err := catalog.Get(context.Background(), "prod-airpods-pro")
	require.NoError(t, err)

	item, err := product.CartItem()
	require.NoError(t, err)
	assert.Equal(t, "image-airpods-pro", item.Image())
	assert.True(t, item.Price.Equal(decimal.NewFromInt(249)))
}
