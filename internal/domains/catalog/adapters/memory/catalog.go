package memory

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var _ ports.Catalog = (*Catalog)(nil)

// Catalog serves products from memory, seeded from a YAML document.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	order    []string
}

type catalogFile struct {
	Products []productRecord `yaml:"products"`
}

type productRecord struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Price       string   `yaml:"price"`
	Images      []string `yaml:"images"`
}

func NewCatalog() *Catalog {
	return &Catalog{products: map[string]domain.Product{}}
}

// NewDefaultCatalog loads the bundled sample catalog.
func NewDefaultCatalog() (*Catalog, error) {
	return LoadCatalog(strings.NewReader(string(defaultCatalog)))
}

// LoadCatalogFile loads products from a YAML file on disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// LoadCatalog decodes a YAML catalog document.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := NewCatalog()
	for _, rec := range file.Products {
		product, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		if err := c.Put(product); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Put adds or replaces a product.
func (c *Catalog) Put(product domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %q", err, product.ID)
	}
	product.Images = append([]string(nil), product.Images...)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.products[product.ID]; !exists {
		c.order = append(c.order, product.ID)
	}
	c.products[product.ID] = product
	return nil
}

func (c *Catalog) List(_ context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		product := c.products[id]
		if category != "" && !strings.EqualFold(product.Category, category) {
			continue
		}
		product.Images = append([]string(nil), product.Images...)
		list = append(list, product)
	}
	return list, nil
}

func (c *Catalog) Get(_ context.Context, id string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	product, ok := c.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	product.Images = append([]string(nil), product.Images...)
	return product, nil
}

// Categories lists the distinct categories, sorted.
func (c *Catalog) Categories(_ context.Context) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, product := range c.products {
		if product.Category != "" {
			seen[product.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for category := range seen {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

func (r productRecord) toDomain() (domain.Product, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %q price: %w", r.ID, err)
	}
	return domain.Product{
		ID:          strings.TrimSpace(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Price:       price,
		Images:      r.Images,
	}, nil
}
