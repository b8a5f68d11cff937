// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/payment"
	"github.com/your-org/storefront/internal/pkg/metrics"
)

// SessionCreator opens payment sessions for submitted carts
type SessionCreator interface {
	CreateSession(ctx context.Context, req *checkout.Request, origin string) (*payment.Session, error)
}

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	service     SessionCreator
	metrics     *metrics.Metrics
	logger      logrus.FieldLogger
	showDetails bool
}

// NewCheckoutHandler creates a new checkout handler. showDetails adds the error
// chain and stack to failure responses.
func NewCheckoutHandler(service SessionCreator, m *metrics.Metrics, logger logrus.FieldLogger, showDetails bool) *CheckoutHandler {
	return &CheckoutHandler{
		service:     service,
		metrics:     m,
		logger:      logger,
		showDetails: showDetails,
	}
}

// CreateCheckoutSession handles POST /create-checkout-session
func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.CheckoutSessions.WithLabelValues("invalid").Inc()
		h.fail(c, fmt.Errorf("%w: %v", checkout.ErrNoItems, err))
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), &req, requestOrigin(c))
	if err != nil {
		if errors.Is(err, checkout.ErrNoItems) {
			h.metrics.CheckoutSessions.WithLabelValues("invalid").Inc()
		} else {
			h.metrics.CheckoutSessions.WithLabelValues("provider_error").Inc()
		}
		h.fail(c, err)
		return
	}

	h.metrics.CheckoutSessions.WithLabelValues("created").Inc()
	c.JSON(http.StatusOK, gin.H{
		"url": session.URL,
	})
}

// fail answers 500 with a message the storefront can show
func (h *CheckoutHandler) fail(c *gin.Context, err error) {
	message := err.Error()
	if errors.Is(err, checkout.ErrNoItems) {
		message = checkout.ErrNoItems.Error()
	}

	h.logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("Checkout session request failed")

	body := gin.H{"error": message}
	if h.showDetails {
		body["details"] = fmt.Sprintf("%+v\n%s", err, debug.Stack())
	}
	c.JSON(http.StatusInternalServerError, body)
}

// requestOrigin rebuilds the scheme and host the customer used
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	} else if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
