// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
)

// SetupCheckoutRoutes sets up the routes the storefront calls
func SetupCheckoutRoutes(r gin.IRouter, checkoutHandler *handlers.CheckoutHandler, paymentHandler *handlers.PaymentHandler, rateLimit gin.HandlerFunc) {
	r.POST("/create-checkout-session", rateLimit, checkoutHandler.CreateCheckoutSession)
	r.GET("/config", paymentHandler.Config)
}

// SetupWebhookRoutes sets up payment provider callbacks. They are never rate
// limited so provider retries are not dropped.
func SetupWebhookRoutes(r gin.IRouter, paymentHandler *handlers.PaymentHandler) {
	r.POST("/webhook", paymentHandler.Webhook)
}
