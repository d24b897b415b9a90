package storefrontserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/http/mapper"
	cartports "github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// CartAPI exposes the shopper's cart. Items are resolved through the catalog
// so clients cannot set prices.
type CartAPI struct {
	cart     cartports.Service
	catalog  catalogports.Catalog
	currency string
}

func NewCartAPI(cart cartports.Service, catalog catalogports.Catalog, currency string) CartAPI {
	return CartAPI{cart: cart, catalog: catalog, currency: currency}
}

// AddCartItemRequest is the body of POST /v1/cart/items.
type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// Get /v1/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	cart, err := api.cart.Cart(c.Request.Context(), ShoppingSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart, api.currency))
}

// Post /v1/cart/items
// Adds one unit of a catalog product to the cart
func (api *CartAPI) AddCartItem(c *gin.Context) {
	var payload AddCartItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	productID := strings.TrimSpace(payload.ProductID)
	if productID == "" {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"productId": "must not be blank"}))
		return
	}
	ctx := c.Request.Context()
	product, err := api.catalog.Get(ctx, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	item, err := product.CartItem()
	if err != nil {
		respondError(c, err)
		return
	}
	cart, err := api.cart.AddItem(ctx, ShoppingSession(c), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart, api.currency))
}

// Delete /v1/cart/items/:itemId
// Removes one unit. Removing an item that is not in the cart leaves it unchanged.
func (api *CartAPI) RemoveCartItem(c *gin.Context) {
	removal, err := api.cart.RemoveItem(c.Request.Context(), ShoppingSession(c), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromRemoval(removal.Cart, removal.Removed, api.currency))
}

// Delete /v1/cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	cart, err := api.cart.Clear(c.Request.Context(), ShoppingSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart, api.currency))
}
