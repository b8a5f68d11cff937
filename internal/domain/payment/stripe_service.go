// internal/domain/payment/stripe_service.go
package payment

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/your-org/storefront/internal/config"
)

const (
	shippingRateTypeFixedAmount = "fixed_amount"
	deliveryUnitBusinessDay     = "business_day"
)

// StripeProvider creates Stripe Checkout sessions
type StripeProvider struct {
	sessions session.Client
}

// NewStripeProvider creates a provider talking to the Stripe API. The SDK logs
// through logger.
func NewStripeProvider(cfg config.StripeConfig, logger *logrus.Logger) *StripeProvider {
	backendConfig := &stripe.BackendConfig{
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		LeveledLogger:     logger,
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIURL != "" {
		backendConfig.URL = stripe.String(cfg.APIURL)
	}

	return &StripeProvider{
		sessions: session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
			Key: cfg.SecretKey,
		},
	}
}

// CreateCheckoutSession opens a hosted checkout session and returns its redirect URL
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice(req.PaymentMethodTypes),
		Mode:               stripe.String(string(req.Mode)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(req.AllowedCountries),
		},
	}
	params.Context = ctx

	for _, item := range req.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if len(item.Images) > 0 {
			productData.Images = stripe.StringSlice(item.Images)
		}

		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	for _, rate := range req.ShippingRates {
		params.ShippingOptions = append(params.ShippingOptions, &stripe.CheckoutSessionShippingOptionParams{
			ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
				Type:        stripe.String(shippingRateTypeFixedAmount),
				DisplayName: stripe.String(rate.DisplayName),
				FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
					Amount:   stripe.Int64(rate.Amount),
					Currency: stripe.String(req.Currency),
				},
				DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
					Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
						Unit:  stripe.String(deliveryUnitBusinessDay),
						Value: stripe.Int64(rate.MinDays),
					},
					Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
						Unit:  stripe.String(deliveryUnitBusinessDay),
						Value: stripe.Int64(rate.MaxDays),
					},
				},
			},
		})
	}

	s, err := p.sessions.New(params)
	if err != nil {
		return nil, newProviderError("create checkout session", err)
	}

	return &Session{ID: s.ID, URL: s.URL}, nil
}

func newProviderError(op string, err error) *ProviderError {
	providerErr := &ProviderError{Op: op, Err: err}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		providerErr.Message = stripeErr.Msg
	}
	return providerErr
}

// StripeVerifier checks the Stripe-Signature header of webhook deliveries
type StripeVerifier struct {
	secret string
}

// NewStripeVerifier creates a verifier for the endpoint's signing secret
func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

// VerifyEvent verifies payload against the signature header and decodes it.
// payload must be the exact bytes received.
func (v *StripeVerifier) VerifyEvent(payload []byte, signature string) (*Event, error) {
	if v.secret == "" {
		return nil, &VerificationError{Err: ErrWebhookSecretMissing}
	}

	evt, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, &VerificationError{Err: err}
	}

	event := &Event{
		ID:   evt.ID,
		Type: string(evt.Type),
	}
	if evt.Data != nil {
		event.Data = evt.Data.Raw
	}
	return event, nil
}
