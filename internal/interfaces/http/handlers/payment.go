// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/payment"
	"github.com/your-org/storefront/internal/pkg/metrics"
)

const signatureHeader = "Stripe-Signature"

// EventHandler consumes verified payment events
type EventHandler interface {
	Handle(ctx context.Context, event *payment.Event) error
}

// PaymentHandler handles payment provider endpoints
type PaymentHandler struct {
	verifier       payment.EventVerifier
	events         EventHandler
	publishableKey string
	metrics        *metrics.Metrics
	logger         logrus.FieldLogger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(verifier payment.EventVerifier, events EventHandler, publishableKey string, m *metrics.Metrics, logger logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{
		verifier:       verifier,
		events:         events,
		publishableKey: publishableKey,
		metrics:        m,
		logger:         logger,
	}
}

// Webhook handles POST /webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	// The signature covers the exact bytes, so read before any decoding
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.reject(c, err)
		return
	}

	event, err := h.verifier.VerifyEvent(body, c.GetHeader(signatureHeader))
	if err != nil {
		h.reject(c, err)
		return
	}

	if err := h.events.Handle(c.Request.Context(), event); err != nil {
		// Acknowledge anyway: redelivery would fail the same way
		h.logger.WithError(err).WithFields(logrus.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
		}).Error("Failed to process webhook event")
	}

	h.metrics.WebhookEvents.WithLabelValues(event.Type, "accepted").Inc()
	c.JSON(http.StatusOK, gin.H{
		"received": true,
	})
}

func (h *PaymentHandler) reject(c *gin.Context, err error) {
	h.logger.WithError(err).Warn("Webhook verification failed")
	h.metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
	c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
}

// Config handles GET /config
func (h *PaymentHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"publishableKey": h.publishableKey,
	})
}
