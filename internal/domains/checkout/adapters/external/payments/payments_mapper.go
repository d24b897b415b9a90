package payments

import (
	"strings"

	"github.com/shopspring/decimal"

	paymentsclient "github.com/Apurer/go-gin-storefront/internal/clients/http/payments"
	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

var hundred = decimal.NewFromInt(100)

// toCreateRequest converts a session request into the payment API payload,
// one line per cart entry.
func toCreateRequest(req checkoutdomain.SessionRequest, currency string) paymentsclient.CreateSessionRequest {
	currency = strings.ToLower(strings.TrimSpace(currency))
	items := make([]paymentsclient.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, paymentsclient.LineItem{
			ID:         item.ID,
			Title:      item.Title,
			Price:      item.Price.StringFixed(2),
			UnitAmount: item.Price.Mul(hundred).Round(0).IntPart(),
			Currency:   currency,
			Image:      item.Image(),
		})
	}
	return paymentsclient.CreateSessionRequest{Items: items}
}

func sessionError(statusCode int, message, fallback string) checkoutdomain.SessionError {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return checkoutdomain.SessionError{StatusCode: statusCode, Message: message}
}
