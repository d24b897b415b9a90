package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	paymentsclient "github.com/Apurer/go-gin-storefront/internal/clients/http/payments"
	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

var (
	_ checkoutports.PaymentSessions = (*Gateway)(nil)
	_ checkoutports.Redirector      = (*Gateway)(nil)
)

// Gateway adapts the payments HTTP client to the checkout ports.
type Gateway struct {
	client   *paymentsclient.Client
	currency string
}

func NewGateway(client *paymentsclient.Client, currency string) *Gateway {
	if strings.TrimSpace(currency) == "" {
		currency = "usd"
	}
	return &Gateway{client: client, currency: currency}
}

// CreateSession requests a hosted checkout session. Provider-side rejections,
// including a 200 response carrying a server error indicator, come back as a
// rejected result; only transport failures are returned as errors.
func (g *Gateway) CreateSession(ctx context.Context, req checkoutdomain.SessionRequest) (checkoutdomain.SessionResult, error) {
	if g == nil || g.client == nil {
		return checkoutdomain.SessionResult{}, errors.New("payments gateway not configured")
	}
	session, err := g.client.CreateCheckoutSession(ctx, toCreateRequest(req, g.currency),
		paymentsclient.WithIdempotencyKey(req.AttemptID))
	if err != nil {
		var apiErr *paymentsclient.APIError
		if errors.As(err, &apiErr) {
			return checkoutdomain.SessionRejected(sessionError(apiErr.StatusCode, apiErr.Message, "payment session request rejected")), nil
		}
		return checkoutdomain.SessionResult{}, err
	}
	if session.ServerError() {
		return checkoutdomain.SessionRejected(sessionError(session.StatusCode, session.Message, "payment provider error")), nil
	}
	if strings.TrimSpace(session.ID) == "" {
		return checkoutdomain.SessionRejected(sessionError(session.StatusCode, session.Message, "payment session response carried no session id")), nil
	}
	return checkoutdomain.SessionCreated(session.ID), nil
}

// Redirect resolves the hosted payment page for the session.
func (g *Gateway) Redirect(ctx context.Context, paymentSessionID string) checkoutdomain.RedirectResult {
	if g == nil || g.client == nil {
		return checkoutdomain.RedirectFailed("payments gateway not configured")
	}
	if strings.HasPrefix(paymentSessionID, SandboxSessionPrefix) {
		return checkoutdomain.RedirectFailed(fmt.Sprintf(errMixedGateways, paymentSessionID, "sandbox"))
	}
	session, err := g.client.RetrieveCheckoutSession(ctx, paymentSessionID)
	if err != nil {
		return checkoutdomain.RedirectFailed(err.Error())
	}
	if session.ServerError() {
		return checkoutdomain.RedirectFailed(sessionError(session.StatusCode, session.Message, "payment provider error").Error())
	}
	return checkoutdomain.Redirected(strings.TrimSpace(session.URL))
}
