package payments

import (
	"fmt"
	"strings"
)

// LineItem is one cart entry as the payment API expects it. Repeated entries
// stand for quantity.
type LineItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Price      string `json:"price"`
	UnitAmount int64  `json:"unitAmount"`
	Currency   string `json:"currency"`
	Image      string `json:"image,omitempty"`
}

// CreateSessionRequest is the body of a checkout session request.
type CreateSessionRequest struct {
	Items []LineItem `json:"items"`
}

// Session is the payment API's session response. A failed creation may still
// arrive with HTTP 200 and carry StatusCode and Message instead of an ID.
type Session struct {
	ID         string `json:"id,omitempty"`
	URL        string `json:"url,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ServerError reports whether the body carries the embedded server error indicator.
func (s *Session) ServerError() bool {
	return s != nil && s.StatusCode >= 500
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "unexpected response"
	}
	return fmt.Sprintf("payments API error: %s (status %d)", msg, e.StatusCode)
}

type errorBody struct {
	Message    string `json:"message"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}
