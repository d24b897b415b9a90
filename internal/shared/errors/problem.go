// Package errors renders RFC 7807 problem details for the storefront API.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is an RFC 7807 problem document.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property. The
// receiver's map is never mutated.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

const (
	TypeValidation            = "/problems/validation-error"
	TypeNotFound              = "/problems/not-found"
	TypeBadRequest            = "/problems/bad-request"
	TypeInternal              = "/problems/internal-error"
	TypeCheckoutInProgress    = "/problems/checkout-in-progress"
	TypeSessionCreationFailed = "/problems/session-creation-failed"
	TypeRedirectFailed        = "/problems/redirect-failed"
)

var (
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}

	// ErrCheckoutInProgress rejects a second checkout while one is loading.
	ErrCheckoutInProgress = ProblemDetail{
		Type:   TypeCheckoutInProgress,
		Title:  "Checkout In Progress",
		Status: http.StatusConflict,
	}

	// ErrSessionCreationFailed reports that the payment collaborator did not
	// produce a session.
	ErrSessionCreationFailed = ProblemDetail{
		Type:   TypeSessionCreationFailed,
		Title:  "Payment Session Creation Failed",
		Status: http.StatusBadGateway,
	}

	// ErrRedirectFailed reports that the hosted payment page could not be reached.
	ErrRedirectFailed = ProblemDetail{
		Type:   TypeRedirectFailed,
		Title:  "Payment Redirect Failed",
		Status: http.StatusBadGateway,
	}
)

// NewValidationProblem creates a validation error with field-level details.
func NewValidationProblem(fieldErrors map[string]string) ProblemDetail {
	return ErrValidation.WithExtension("fields", fieldErrors)
}

// NewNotFoundProblem creates a not found error for a specific resource.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	return ErrNotFound.
		WithDetail(fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType).
		WithExtension("identifier", identifier)
}
