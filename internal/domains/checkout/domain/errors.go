package domain

import "errors"

var (
	ErrSessionCreationFailed = errors.New("checkout session creation failed")
	ErrRedirectFailed        = errors.New("redirect to payment page failed")
	ErrCheckoutInProgress    = errors.New("checkout already in progress")
)
