package storefrontserver

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

var problems = apierrors.NewResponder("",
	apierrors.Sentinel(catalogdomain.ErrProductNotFound, apierrors.ErrNotFound),
	apierrors.Sentinel(cartapp.ErrInvalidInput, apierrors.ErrValidation),
	apierrors.Sentinel(cartapp.ErrSessionRequired, apierrors.ErrBadRequest),
	apierrors.Sentinel(checkoutapp.ErrSessionRequired, apierrors.ErrBadRequest),
	apierrors.Sentinel(checkoutdomain.ErrCheckoutInProgress, apierrors.ErrCheckoutInProgress),
	apierrors.Sentinel(checkoutdomain.ErrSessionCreationFailed, apierrors.ErrSessionCreationFailed),
	apierrors.Sentinel(checkoutdomain.ErrRedirectFailed, apierrors.ErrRedirectFailed),
)

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	problems.Respond(c, problem)
}

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}
