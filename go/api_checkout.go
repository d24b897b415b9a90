package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartports "github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
	checkouthttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/http/mapper"
	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

// CheckoutAPI hands the shopper's cart off to the payment collaborator.
type CheckoutAPI struct {
	cart     cartports.Service
	checkout checkoutports.Service
}

func NewCheckoutAPI(cart cartports.Service, checkout checkoutports.Service) CheckoutAPI {
	return CheckoutAPI{cart: cart, checkout: checkout}
}

// Post /v1/checkout
// Creates a payment session for the current cart and returns the redirect target
func (api *CheckoutAPI) StartCheckout(c *gin.Context) {
	ctx := c.Request.Context()
	session := ShoppingSession(c)
	cart, err := api.cart.Cart(ctx, session)
	if err != nil {
		respondError(c, err)
		return
	}
	handoff, err := api.checkout.Checkout(ctx, session, cart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkouthttpmapper.FromHandoff(handoff))
}

// Get /v1/checkout
func (api *CheckoutAPI) GetCheckoutStatus(c *gin.Context) {
	status := api.checkout.Status(c.Request.Context(), ShoppingSession(c))
	c.JSON(http.StatusOK, checkouthttpmapper.FromStatus(status))
}

// Get /v1/checkout/attempts
// Lists this session's checkout attempts, newest first
func (api *CheckoutAPI) ListCheckoutAttempts(c *gin.Context) {
	attempts, err := api.checkout.Attempts(c.Request.Context(), ShoppingSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkouthttpmapper.FromAttempts(attempts))
}

// Delete /v1/session
// Ends the shopping session, discarding its cart and checkout state
func (api *CheckoutAPI) EndSession(c *gin.Context) {
	ctx := c.Request.Context()
	session := ShoppingSession(c)
	if !api.checkout.Forget(ctx, session) {
		respondError(c, checkoutdomain.ErrCheckoutInProgress)
		return
	}
	if err := api.cart.EndSession(ctx, session); err != nil {
		respondError(c, err)
		return
	}
	expireSession(c)
	c.Status(http.StatusNoContent)
}
