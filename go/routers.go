package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Session marks routes that act on the shopper's session.
	Session bool
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the storefront routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	session := SessionMiddleware()
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Session {
			handlers = append([]gin.HandlerFunc{session}, handlers...)
		}
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the CatalogAPI part of the API
	CatalogAPI CatalogAPI
	// Routes for the CartAPI part of the API
	CartAPI CartAPI
	// Routes for the CheckoutAPI part of the API
	CheckoutAPI CheckoutAPI
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	routes := []Route{
		{
			Name:        "Healthz",
			Method:      http.MethodGet,
			Pattern:     "/healthz",
			HandlerFunc: Healthz,
		},
		{
			Name:        "ListProducts",
			Method:      http.MethodGet,
			Pattern:     "/v1/products",
			HandlerFunc: handleFunctions.CatalogAPI.ListProducts,
		},
		{
			Name:        "GetProduct",
			Method:      http.MethodGet,
			Pattern:     "/v1/products/:productId",
			HandlerFunc: handleFunctions.CatalogAPI.GetProduct,
		},
		{
			Name:        "ListCategories",
			Method:      http.MethodGet,
			Pattern:     "/v1/categories",
			HandlerFunc: handleFunctions.CatalogAPI.ListCategories,
		},
		{
			Name:        "GetCart",
			Method:      http.MethodGet,
			Pattern:     "/v1/cart",
			HandlerFunc: handleFunctions.CartAPI.GetCart,
			Session:     true,
		},
		{
			Name:        "AddCartItem",
			Method:      http.MethodPost,
			Pattern:     "/v1/cart/items",
			HandlerFunc: handleFunctions.CartAPI.AddCartItem,
			Session:     true,
		},
		{
			Name:        "RemoveCartItem",
			Method:      http.MethodDelete,
			Pattern:     "/v1/cart/items/:itemId",
			HandlerFunc: handleFunctions.CartAPI.RemoveCartItem,
			Session:     true,
		},
		{
			Name:        "ClearCart",
			Method:      http.MethodDelete,
			Pattern:     "/v1/cart",
			HandlerFunc: handleFunctions.CartAPI.ClearCart,
			Session:     true,
		},
		{
			Name:        "StartCheckout",
			Method:      http.MethodPost,
			Pattern:     "/v1/checkout",
			HandlerFunc: handleFunctions.CheckoutAPI.StartCheckout,
			Session:     true,
		},
		{
			Name:        "GetCheckoutStatus",
			Method:      http.MethodGet,
			Pattern:     "/v1/checkout",
			HandlerFunc: handleFunctions.CheckoutAPI.GetCheckoutStatus,
			Session:     true,
		},
		{
			Name:        "ListCheckoutAttempts",
			Method:      http.MethodGet,
			Pattern:     "/v1/checkout/attempts",
			HandlerFunc: handleFunctions.CheckoutAPI.ListCheckoutAttempts,
			Session:     true,
		},
		{
			Name:        "EndSession",
			Method:      http.MethodDelete,
			Pattern:     "/v1/session",
			HandlerFunc: handleFunctions.CheckoutAPI.EndSession,
			Session:     true,
		},
	}
	if handleFunctions.Metrics != nil {
		routes = append(routes, Route{
			Name:        "Metrics",
			Method:      http.MethodGet,
			Pattern:     "/metrics",
			HandlerFunc: gin.WrapH(handleFunctions.Metrics),
		})
	}
	return routes
}

// Get /healthz
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
