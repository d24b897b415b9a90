package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
)

var (
	// ErrInvalidInput signals the request violated a cart invariant.
	ErrInvalidInput = errors.New("invalid cart input")
	// ErrSessionRequired is returned when no shopping session identifies the cart.
	ErrSessionRequired = errors.New("shopping session id is required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidItemID) || errors.Is(err, domain.ErrNegativePrice) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func validateSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrSessionRequired
	}
	return nil
}
