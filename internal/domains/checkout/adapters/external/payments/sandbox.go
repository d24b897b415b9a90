package payments

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

// SandboxSessionPrefix marks payment session ids issued by the Sandbox.
const SandboxSessionPrefix = "cs_sandbox_"

// errMixedGateways is reported when the worker and the API disagree on
// PAYMENTS_BASE_URL and a session id reaches the other gateway.
const errMixedGateways = "payment session %q was created by the %s gateway; the worker and the API must share PAYMENTS_BASE_URL"

var (
	_ checkoutports.PaymentSessions = (*Sandbox)(nil)
	_ checkoutports.Redirector      = (*Sandbox)(nil)
)

// Sandbox stands in for the payment provider in local runs. It rejects empty
// carts the way the hosted provider does and redirects to a local page.
type Sandbox struct {
	redirectBase string
}

func NewSandbox(redirectBase string) *Sandbox {
	redirectBase = strings.TrimRight(strings.TrimSpace(redirectBase), "/")
	if redirectBase == "" {
		redirectBase = "/sandbox/checkout"
	}
	return &Sandbox{redirectBase: redirectBase}
}

func (s *Sandbox) CreateSession(_ context.Context, req checkoutdomain.SessionRequest) (checkoutdomain.SessionResult, error) {
	if len(req.Items) == 0 {
		return checkoutdomain.SessionRejected(checkoutdomain.SessionError{
			StatusCode: http.StatusInternalServerError,
			Message:    "a checkout session needs at least one line item",
		}), nil
	}
	return checkoutdomain.SessionCreated(SandboxSessionPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")), nil
}

func (s *Sandbox) Redirect(_ context.Context, paymentSessionID string) checkoutdomain.RedirectResult {
	if !strings.HasPrefix(paymentSessionID, SandboxSessionPrefix) {
		return checkoutdomain.RedirectFailed(fmt.Sprintf(errMixedGateways, paymentSessionID, "hosted"))
	}
	return checkoutdomain.Redirected(s.redirectBase + "/" + paymentSessionID)
}
