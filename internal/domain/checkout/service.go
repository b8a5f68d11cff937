// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/payment"
)

// ErrNoItems is returned when a checkout request carries nothing to buy
var ErrNoItems = errors.New("No items provided")

var hundred = decimal.NewFromInt(100)

// Item is a cart line as submitted by the client
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	Quantity int64           `json:"quantity"`
}

// Request is the body of a checkout session request
type Request struct {
	Items []Item `json:"items"`
}

// Service turns client carts into hosted payment sessions
type Service struct {
	provider payment.Provider
	config   config.CheckoutConfig
	logger   logrus.FieldLogger
}

// NewService creates a new checkout service
func NewService(provider payment.Provider, cfg config.CheckoutConfig, logger logrus.FieldLogger) *Service {
	return &Service{
		provider: provider,
		config:   cfg,
		logger:   logger,
	}
}

// CreateSession validates the request and asks the provider for a session.
// origin is the scheme and host the customer is redirected back to.
func (s *Service) CreateSession(ctx context.Context, req *Request, origin string) (*payment.Session, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	sessionReq := s.BuildSessionRequest(req.Items, origin)

	session, err := s.provider.CreateCheckoutSession(ctx, sessionReq)
	if err != nil {
		s.logger.WithError(err).WithField("line_items", len(sessionReq.LineItems)).Error("Failed to create checkout session")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"line_items": len(sessionReq.LineItems),
	}).Info("Checkout session created")

	return session, nil
}

// BuildSessionRequest applies the store's checkout policy to the submitted items
func (s *Service) BuildSessionRequest(items []Item, origin string) *payment.SessionRequest {
	origin = strings.TrimRight(origin, "/")

	lineItems := make([]payment.LineItem, 0, len(items))
	for _, item := range items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}

		var images []string
		if item.Image != "" {
			images = []string{item.Image}
		}

		lineItems = append(lineItems, payment.LineItem{
			Name:       item.Name,
			Images:     images,
			UnitAmount: ToMinorUnits(item.Price),
			Quantity:   quantity,
		})
	}

	return &payment.SessionRequest{
		Currency:           s.config.Currency,
		PaymentMethodTypes: s.config.PaymentMethods,
		Mode:               payment.ModePayment,
		LineItems:          lineItems,
		SuccessURL:         origin + s.config.SuccessPath,
		CancelURL:          origin + s.config.CancelPath,
		AllowedCountries:   s.config.AllowedCountries,
		ShippingRates:      s.ShippingRates(),
	}
}

// ShippingRates returns the configured tiers, standard first
func (s *Service) ShippingRates() []payment.ShippingRate {
	tiers := []config.ShippingRateConfig{s.config.Standard, s.config.Express}

	rates := make([]payment.ShippingRate, 0, len(tiers))
	for _, tier := range tiers {
		rates = append(rates, payment.ShippingRate{
			DisplayName: tier.DisplayName,
			Amount:      tier.Amount,
			MinDays:     tier.MinDays,
			MaxDays:     tier.MaxDays,
		})
	}
	return rates
}

// ToMinorUnits converts a major-unit price to cents, rounding half away from zero
func ToMinorUnits(price decimal.Decimal) int64 {
	return price.Mul(hundred).Round(0).IntPart()
}
