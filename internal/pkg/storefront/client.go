// Package storefront is the HTTP client the cart uses to reach the checkout server.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/checkout"
)

const checkoutSessionPath = "/create-checkout-session"

// APIError is a non-2xx answer from the checkout server
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("checkout server returned %d", e.Status)
	}
	return e.Message
}

// Client talks to the checkout server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL. A nil httpClient gets a
// client with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type sessionResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CreateCheckoutSession posts the items and returns the payment page URL
func (c *Client) CreateCheckoutSession(ctx context.Context, items []checkout.Item) (string, error) {
	body, err := json.Marshal(checkout.Request{Items: items})
	if err != nil {
		return "", fmt.Errorf("failed to encode checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+checkoutSessionPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read checkout response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload errorResponse
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Error
			apiErr.Details = payload.Details
		}
		return "", apiErr
	}

	var session sessionResponse
	if err := json.Unmarshal(raw, &session); err != nil {
		return "", fmt.Errorf("failed to decode checkout response: %w", err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("checkout response has no url")
	}

	return session.URL, nil
}

// ItemsFromCart converts cart lines to the checkout wire shape
func ItemsFromCart(lines []cart.LineItem) []checkout.Item {
	items := make([]checkout.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, checkout.Item{
			ID:       line.ID,
			Name:     line.Name,
			Price:    line.Price,
			Image:    line.Image,
			Quantity: int64(line.Quantity),
		})
	}
	return items
}
