//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	paymentsclient "github.com/Apurer/go-gin-storefront/internal/clients/http/payments"
	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	paymentsgateway "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/external/payments"
	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	pacttest "github.com/Apurer/go-gin-storefront/test/pact"
)

const paymentsAPIKey = "sk_pact"

func TestPaymentsProviderContract(t *testing.T) {
	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ProviderName,
		Provider: pacttest.PaymentsProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	pact.AddInteraction().
		Given(pacttest.StatePaymentsAccepts).
		UponReceiving("a request to create a checkout session").
		WithRequest("POST", "/api/checkout_sessions", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", matchers.S("Bearer "+paymentsAPIKey))
			b.Header("Idempotency-Key", matchers.Like("attempt-pact-1"))
			b.JSONBody(matchers.Map{
				"items": matchers.EachLike(matchers.Map{
					"id":         matchers.Like(pacttest.ExistingProductID),
					"title":      matchers.Like("iPhone 14"),
					"price":      matchers.Term(pacttest.ExistingPrice, `^\d+\.\d{2}$`),
					"unitAmount": matchers.Like(79900),
					"currency":   matchers.Term("usd", `^[a-z]{3}$`),
				}, 1),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.JSONBody(matchers.Map{"id": matchers.S(pacttest.PaymentSessionID)})
		})

	pact.AddInteraction().
		Given(pacttest.StatePaymentsSession).
		UponReceiving("a request to retrieve a checkout session").
		WithRequest("GET", "/api/checkout_sessions/"+pacttest.PaymentSessionID, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", matchers.S("Bearer "+paymentsAPIKey))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.JSONBody(matchers.Map{
				"id":  matchers.S(pacttest.PaymentSessionID),
				"url": matchers.Term(pacttest.PaymentsRedirect, `^https://.+$`),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		client, err := paymentsclient.NewClient(
			fmt.Sprintf("http://%s:%d", host, config.Port),
			&http.Client{Timeout: 10 * time.Second},
			paymentsclient.WithAPIKey(paymentsAPIKey),
		)
		if err != nil {
			return err
		}
		gateway := paymentsgateway.NewGateway(client, "usd")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		item, err := cartdomain.NewItem(pacttest.ExistingProductID, "iPhone 14", decimal.RequireFromString(pacttest.ExistingPrice), nil)
		if err != nil {
			return err
		}
		result, err := gateway.CreateSession(ctx, checkoutdomain.NewSessionRequest("attempt-pact-1", cartdomain.Empty().Add(item)))
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		if reason, failed := result.Failure(); failed {
			return fmt.Errorf("session rejected: %s", reason.Error())
		}

		redirect := gateway.Redirect(ctx, result.SessionID)
		if msg, failed := redirect.Failure(); failed {
			return fmt.Errorf("redirect failed: %s", msg)
		}
		if redirect.URL != pacttest.PaymentsRedirect {
			return fmt.Errorf("unexpected redirect %q", redirect.URL)
		}
		return nil
	})
	require.NoError(t, err)
}
