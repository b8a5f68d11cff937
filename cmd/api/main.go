// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/payment"
	"github.com/your-org/storefront/internal/infrastructure/database/redis"
	"github.com/your-org/storefront/internal/interfaces/http"
	"github.com/your-org/storefront/internal/pkg/logger"
	"github.com/your-org/storefront/internal/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Logging)
	decimal.MarshalJSONWithoutQuotes = true

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Infof("Starting %s", cfg.App.Name)

	// Never log the secrets themselves
	log.WithFields(logrus.Fields{
		"stripe_key_present":     cfg.External.Stripe.SecretKey != "",
		"webhook_secret_present": cfg.External.Stripe.WebhookSecret != "",
	}).Info("Payment provider configuration")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	provider := payment.NewStripeProvider(cfg.External.Stripe, log)

	deps := http.Dependencies{
		Sessions: checkout.NewService(provider, cfg.Checkout, log),
		Verifier: payment.NewStripeVerifier(cfg.External.Stripe.WebhookSecret),
		Events:   payment.NewWebhookService(log),
		Metrics:  m,
	}

	// Redis only backs rate limiting, so the server runs without it
	if cfg.Security.RateLimitEnabled {
		redisClient, err := redis.NewConnection(context.Background(), cfg.Redis, log)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, rate limiting disabled")
		} else {
			defer redisClient.Close()
			deps.RateLimiter = redis.NewRateLimiter(redisClient, time.Minute)
			deps.Redis = redisClient
		}
	}

	// Create and start HTTP server
	server := http.NewServer(cfg, log, deps)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Fatal("HTTP server failed")
		}
		return
	case <-quit:
	}

	log.Info("Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}
