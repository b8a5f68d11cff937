// internal/domain/payment/webhook.go
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// EventCheckoutSessionCompleted is sent once a customer has paid
const EventCheckoutSessionCompleted = "checkout.session.completed"

// ErrWebhookSecretMissing means no signing secret is configured, so nothing can be trusted
var ErrWebhookSecretMissing = errors.New("webhook signing secret not configured")

// Event is a verified provider notification. Data holds the event's object.
type Event struct {
	ID   string
	Type string
	Data json.RawMessage
}

// EventVerifier authenticates raw webhook deliveries
type EventVerifier interface {
	VerifyEvent(payload []byte, signature string) (*Event, error)
}

// VerificationError means a delivery could not be authenticated
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	return e.Err.Error()
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Address is a postal address collected at checkout
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ShippingDetails is the recipient collected at checkout
type ShippingDetails struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone,omitempty"`
	Address Address `json:"address"`
}

// CompletedCheckout is what fulfillment needs from a paid session
type CompletedCheckout struct {
	SessionID     string           `json:"session_id"`
	CustomerEmail string           `json:"customer_email"`
	CustomerName  string           `json:"customer_name"`
	Shipping      *ShippingDetails `json:"shipping,omitempty"`
	AmountTotal   int64            `json:"amount_total"`
	Currency      string           `json:"currency"`
}

type sessionObject struct {
	ID              string `json:"id"`
	AmountTotal     int64  `json:"amount_total"`
	Currency        string `json:"currency"`
	CustomerDetails *struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
	ShippingDetails      *ShippingDetails `json:"shipping_details"`
	CollectedInformation *struct {
		ShippingDetails *ShippingDetails `json:"shipping_details"`
	} `json:"collected_information"`
}

// DecodeCompletedCheckout extracts customer and shipping details from a
// checkout.session.completed event
func DecodeCompletedCheckout(event *Event) (*CompletedCheckout, error) {
	if event.Type != EventCheckoutSessionCompleted {
		return nil, fmt.Errorf("unexpected event type %q", event.Type)
	}
	if len(event.Data) == 0 {
		return nil, fmt.Errorf("event %s has no data object", event.ID)
	}

	var obj sessionObject
	if err := json.Unmarshal(event.Data, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session: %w", err)
	}

	completed := &CompletedCheckout{
		SessionID:   obj.ID,
		AmountTotal: obj.AmountTotal,
		Currency:    obj.Currency,
		Shipping:    obj.ShippingDetails,
	}
	if obj.CustomerDetails != nil {
		completed.CustomerEmail = obj.CustomerDetails.Email
		completed.CustomerName = obj.CustomerDetails.Name
	}
	// Newer API versions moved shipping under collected_information
	if completed.Shipping == nil && obj.CollectedInformation != nil {
		completed.Shipping = obj.CollectedInformation.ShippingDetails
	}

	return completed, nil
}

// WebhookService consumes verified events. It holds no state, so repeated or
// reordered deliveries are harmless.
type WebhookService struct {
	logger logrus.FieldLogger
}

// NewWebhookService creates a webhook service
func NewWebhookService(logger logrus.FieldLogger) *WebhookService {
	return &WebhookService{logger: logger}
}

// Handle processes one verified event
func (s *WebhookService) Handle(ctx context.Context, event *Event) error {
	entry := s.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	switch event.Type {
	case EventCheckoutSessionCompleted:
		completed, err := DecodeCompletedCheckout(event)
		if err != nil {
			return err
		}

		// Fulfillment is not automated; the log line is the hand-off
		entry.WithFields(logrus.Fields{
			"session_id":     completed.SessionID,
			"customer_email": completed.CustomerEmail,
			"customer_name":  completed.CustomerName,
			"shipping":       completed.Shipping,
			"amount_total":   completed.AmountTotal,
			"currency":       completed.Currency,
		}).Info("Payment successful for session")
		return nil

	default:
		entry.Debug("Ignoring webhook event")
		return nil
	}
}
