//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-web"

	// PaymentsProviderName is the hosted checkout provider the API calls.
	PaymentsProviderName = "payments-provider"

	StateCatalogSeeded = "catalog seeded"
	StateCartEmpty     = "cart for pact-shopper is empty"
	StateCartHasPhone  = "cart for pact-shopper holds one iPhone 14"

	StatePaymentsAccepts = "payment provider accepts sessions"
	StatePaymentsSession = "checkout session cs_pact_1 exists"
)

const (
	ShopperSession = "pact-shopper"

	ExistingProductID = "prod-iphone-14"
	MissingProductID  = "prod-missing"
	ExistingPrice     = "799.00"

	PaymentSessionID  = "cs_pact_1"
	PaymentsRedirect  = "https://pay.example/c/" + PaymentSessionID
	SandboxRedirectTo = "https://pay.example/c"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file path for the storefront web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload is the catalog entry seeded for the provider states.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":       ExistingProductID,
		"title":    "iPhone 14",
		"category": "iphone",
		"price":    ExistingPrice,
		"images":   []string{"image-iphone-14-front"},
	}
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
