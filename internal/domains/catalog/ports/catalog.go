package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

// Catalog is the read-only product source. An empty category lists everything.
type Catalog interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	Categories(ctx context.Context) []string
}
