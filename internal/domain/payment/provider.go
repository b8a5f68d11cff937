// internal/domain/payment/provider.go
package payment

import (
	"context"
	"fmt"
)

// Mode is the kind of payment session requested
type Mode string

const (
	// ModePayment is a one-time payment
	ModePayment Mode = "payment"
)

// LineItem is a priced line sent to the provider
type LineItem struct {
	Name       string
	Images     []string
	UnitAmount int64 // smallest currency unit
	Quantity   int64
}

// ShippingRate is a fixed-amount shipping option with a delivery estimate in business days
type ShippingRate struct {
	DisplayName string
	Amount      int64
	MinDays     int64
	MaxDays     int64
}

// SessionRequest is everything needed to open a hosted payment session
type SessionRequest struct {
	Currency           string
	PaymentMethodTypes []string
	Mode               Mode
	LineItems          []LineItem
	SuccessURL         string
	CancelURL          string
	AllowedCountries   []string
	ShippingRates      []ShippingRate
}

// Session is the provider-side handle; only its redirect URL matters here
type Session struct {
	ID  string
	URL string
}

// Provider creates hosted payment sessions
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req *SessionRequest) (*Session, error)
}

// ProviderError reports a failed call to the payment provider. Message is the
// provider's human-readable reason when it sent one.
type ProviderError struct {
	Op      string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("payment provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
