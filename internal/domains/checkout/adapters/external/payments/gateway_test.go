package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentsclient "github.com/Apurer/go-gin-storefront/internal/clients/http/payments"
	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	checkoutdomain "github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := paymentsclient.NewClient(server.URL, server.Client())
	require.NoError(t, err)
	return NewGateway(client, "USD")
}

func sessionRequest(t *testing.T) checkoutdomain.SessionRequest {
	t.Helper()
	item, err := cartdomain.NewItem("A", "Item A", decimal.RequireFromString("19.99"), map[string]string{cartdomain.MetadataImage: "img-a"})
	require.NoError(t, err)
	return checkoutdomain.NewSessionRequest("attempt-1", cartdomain.Empty().Add(item).Add(item))
}

func TestGateway_CreateSessionMapsItems(t *testing.T) {
	var body paymentsclient.CreateSessionRequest
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "attempt-1", r.Header.Get("Idempotency-Key"))
		_, _ = w.Write([]byte(`{"id":"cs_test_1"}`))
	})

	result, err := gateway.CreateSession(context.Background(), sessionRequest(t))

	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", result.SessionID)
	require.Len(t, body.Items, 2)
	assert.EqualValues(t, 1999, body.Items[0].UnitAmount)
	assert.Equal(t, "usd", body.Items[0].Currency)
	assert.Equal(t, "img-a", body.Items[0].Image)
}

func TestGateway_EmbeddedServerErrorIsRejection(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"statusCode":500,"message":"Invalid API Key"}`))
	})

	result, err := gateway.CreateSession(context.Background(), sessionRequest(t))

	require.NoError(t, err)
	reason, failed := result.Failure()
	require.True(t, failed)
	assert.Equal(t, 500, reason.StatusCode)
	assert.Equal(t, "Invalid API Key", reason.Message)
}

func TestGateway_HTTPErrorIsRejection(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	result, err := gateway.CreateSession(context.Background(), sessionRequest(t))

	require.NoError(t, err)
	reason, failed := result.Failure()
	require.True(t, failed)
	assert.Equal(t, http.StatusUnauthorized, reason.StatusCode)
}

func TestGateway_TransportErrorIsReturned(t *testing.T) {
	client, err := paymentsclient.NewClient("http://127.0.0.1:1", nil)
	require.NoError(t, err)
	gateway := NewGateway(client, "usd")

	_, err = gateway.CreateSession(context.Background(), sessionRequest(t))
	require.Error(t, err)

	redirect := gateway.Redirect(context.Background(), "cs_1")
	_, failed := redirect.Failure()
	assert.True(t, failed)
	require.NotNil(t, redirect.Error)
}

func TestGateway_RedirectUsesHostedURL(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/checkout_sessions/cs_test_1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"cs_test_1","url":"https://pay.example/c/cs_test_1"}`))
	})

	redirect := gateway.Redirect(context.Background(), "cs_test_1")

	_, failed := redirect.Failure()
	assert.False(t, failed)
	assert.Equal(t, "https://pay.example/c/cs_test_1", redirect.URL)
}

func TestGateway_RedirectWithoutURLHasNoErrorObject(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"cs_test_1"}`))
	})

	redirect := gateway.Redirect(context.Background(), "cs_test_1")

	assert.Nil(t, redirect.Error)
	_, failed := redirect.Failure()
	assert.True(t, failed)
}

func TestSandbox_RejectsEmptyCart(t *testing.T) {
	sandbox := NewSandbox("")

	result, err := sandbox.CreateSession(context.Background(), checkoutdomain.NewSessionRequest("a", cartdomain.Empty()))
	require.NoError(t, err)
	_, failed := result.Failure()
	assert.True(t, failed)

	result, err = sandbox.CreateSession(context.Background(), sessionRequest(t))
	require.NoError(t, err)
	require.NotEmpty(t, result.SessionID)
	assert.Equal(t, "/sandbox/checkout/"+result.SessionID, sandbox.Redirect(context.Background(), result.SessionID).URL)
}

func TestGateway_RedirectRejectsSandboxSession(t *testing.T) {
	var requests int
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(`{"id":"x","url":"https://pay.example/c/x"}`))
	})

	redirect := gateway.Redirect(context.Background(), SandboxSessionPrefix+"abc")

	msg, failed := redirect.Failure()
	require.True(t, failed)
	assert.Contains(t, msg, "PAYMENTS_BASE_URL")
	assert.Zero(t, requests)
}

func TestSandbox_RedirectRejectsHostedSession(t *testing.T) {
	redirect := NewSandbox("").Redirect(context.Background(), "cs_live_1")

	msg, failed := redirect.Failure()
	require.True(t, failed)
	assert.Contains(t, msg, "PAYMENTS_BASE_URL")
}
