package api

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	platformconfig "github.com/Apurer/go-gin-storefront/internal/platform/config"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	PostgresDSN       string        `env:"POSTGRES_DSN"`
	TemporalAddress   string        `env:"TEMPORAL_ADDRESS" envDefault:"localhost:7233"`
	TemporalNamespace string        `env:"TEMPORAL_NAMESPACE" envDefault:"default"`
	TemporalDisabled  bool          `env:"TEMPORAL_DISABLED"`
	PaymentsBaseURL   string        `env:"PAYMENTS_BASE_URL"`
	PaymentsAPIKey    string        `env:"PAYMENTS_API_KEY"`
	PaymentsTimeout   time.Duration `env:"PAYMENTS_TIMEOUT" envDefault:"0s"`
	CheckoutCurrency  string        `env:"CHECKOUT_CURRENCY" envDefault:"usd"`
	CatalogFile       string        `env:"CATALOG_FILE"`
	RabbitMQURL       string        `env:"RABBITMQ_URL"`
	CartSessionTTL    time.Duration `env:"CART_SESSION_TTL" envDefault:"30m"`
	CartReapInterval  time.Duration `env:"CART_REAP_INTERVAL" envDefault:"1m"`
	AttemptRetention  time.Duration `env:"ATTEMPT_RETENTION" envDefault:"720h"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := platformconfig.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	c.PostgresDSN = strings.TrimSpace(c.PostgresDSN)
	c.PaymentsBaseURL = strings.TrimSpace(c.PaymentsBaseURL)
	c.PaymentsAPIKey = strings.TrimSpace(c.PaymentsAPIKey)
	c.CheckoutCurrency = strings.ToLower(strings.TrimSpace(c.CheckoutCurrency))
	c.CatalogFile = strings.TrimSpace(c.CatalogFile)
	c.RabbitMQURL = strings.TrimSpace(c.RabbitMQURL)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a TCP port, got %q", c.Port))
	}
	if c.PaymentsBaseURL != "" {
		u, err := url.Parse(c.PaymentsBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("PAYMENTS_BASE_URL must be an absolute URL, got %q", c.PaymentsBaseURL))
		}
	}
	if c.PaymentsTimeout < 0 {
		errs = append(errs, errors.New("PAYMENTS_TIMEOUT must not be negative"))
	}
	if len(c.CheckoutCurrency) != 3 {
		errs = append(errs, fmt.Errorf("CHECKOUT_CURRENCY must be a 3-letter ISO code, got %q", c.CheckoutCurrency))
	}
	if c.CartSessionTTL <= 0 {
		errs = append(errs, errors.New("CART_SESSION_TTL must be positive"))
	}
	if c.CartReapInterval <= 0 {
		errs = append(errs, errors.New("CART_REAP_INTERVAL must be positive"))
	}
	if c.AttemptRetention <= 0 {
		errs = append(errs, errors.New("ATTEMPT_RETENTION must be positive"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
