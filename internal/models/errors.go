package models

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration     = errors.New("configuration error")
	ErrTransport         = errors.New("transport error")
	ErrValidation        = errors.New("validation error")
	ErrSDKUnavailable    = errors.New("sdk unavailable")
	ErrProcessorDeclined = errors.New("processor declined")
	ErrSessionRejected   = errors.New("session rejected")
	ErrNotFound          = errors.New("not found")
)

const (
	GenericErrorMessage = "There was a problem processing your payment. Please check your billing address and payment details or use a different payment method."
	ProductErrorMessage = "There is a problem with one of the products in your cart. Please contact the merchant for more information."
)

// CheckoutError separates what the shopper is told (Public) from what is
// logged for the merchant (Reason).
type CheckoutError struct {
	Kind   error
	Public string
	Reason string
	Err    error
}

func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *CheckoutError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func NewCheckoutError(kind error, reason string, err error) *CheckoutError {
	return &CheckoutError{
		Kind:   kind,
		Public: GenericErrorMessage,
		Reason: reason,
		Err:    err,
	}
}

func ValidationError(reason string) *CheckoutError {
	return NewCheckoutError(ErrValidation, reason, nil)
}

func ProductError(reason string) *CheckoutError {
	e := NewCheckoutError(ErrValidation, reason, nil)
	e.Public = ProductErrorMessage
	return e
}

// PublicMessage returns the shopper-facing text for err.
func PublicMessage(err error) string {
	var checkoutErr *CheckoutError
	if errors.As(err, &checkoutErr) && checkoutErr.Public != "" {
		return checkoutErr.Public
	}
	return GenericErrorMessage
}
