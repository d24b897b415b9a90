package storefrontserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	cataloghttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

// CatalogAPI serves the read-only product listing.
type CatalogAPI struct {
	catalog catalogports.Catalog
}

func NewCatalogAPI(catalog catalogports.Catalog) CatalogAPI {
	return CatalogAPI{catalog: catalog}
}

// Get /v1/products
// Lists products, optionally filtered by category
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	products, err := api.catalog.List(c.Request.Context(), strings.TrimSpace(c.Query("category")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainProducts(products))
}

// Get /v1/products/:productId
// Find product by ID
func (api *CatalogAPI) GetProduct(c *gin.Context) {
	product, err := api.catalog.Get(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cataloghttpmapper.FromDomainProduct(product))
}

// Get /v1/categories
func (api *CatalogAPI) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, api.catalog.Categories(c.Request.Context()))
}
