// Package payment wraps the hosted payment gateway: creating a payment
// page for a checkout and issuing refunds. Handlers depend on the Gateway
// interface so tests can substitute a fake.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

type Gateway interface {
	CreatePayment(ctx context.Context, req CreateRequest) (*Intent, error)
	Refund(ctx context.Context, paymentRef string, amountCents int64) error
}

type CreateRequest struct {
	OrderNumber string
	AmountCents int64
	Currency    string
	Description string
	Email       string
}

// Intent is the gateway's handle for a created payment: the reference to
// reconcile webhooks against and the hosted page URL for the customer.
type Intent struct {
	Ref string `json:"ref"`
	URL string `json:"url"`
}

type Config struct {
	StoreID int
	AuthKey string
	APIURL  string
	Mode    string // "live" or "sandbox"
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

type apiResponse struct {
	Order *Intent `json:"order,omitempty"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) testFlag() int {
	if c.cfg.Mode == "sandbox" || c.cfg.Mode == "dev" {
		return 1
	}
	return 0
}

func (c *Client) CreatePayment(ctx context.Context, req CreateRequest) (*Intent, error) {
	payload := map[string]interface{}{
		"method":  "create",
		"store":   c.cfg.StoreID,
		"authkey": c.cfg.AuthKey,
		"order": map[string]interface{}{
			"cartid":      req.OrderNumber,
			"test":        c.testFlag(),
			"amount":      formatAmount(req.AmountCents),
			"currency":    req.Currency,
			"description": req.Description,
		},
		"customer": map[string]interface{}{
			"email": req.Email,
		},
	}

	resp, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}
	if resp.Order == nil || resp.Order.URL == "" {
		return nil, fmt.Errorf("gateway returned no payment URL")
	}
	return resp.Order, nil
}

func (c *Client) Refund(ctx context.Context, paymentRef string, amountCents int64) error {
	payload := map[string]interface{}{
		"method":  "refund",
		"store":   c.cfg.StoreID,
		"authkey": c.cfg.AuthKey,
		"order": map[string]interface{}{
			"ref":    paymentRef,
			"test":   c.testFlag(),
			"amount": formatAmount(amountCents),
		},
	}

	_, err := c.post(ctx, payload)
	return err
}

func (c *Client) post(ctx context.Context, payload map[string]interface{}) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway error (%d): %s", resp.StatusCode, string(raw))
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("payment gateway: %s", parsed.Error.Message)
	}
	return &parsed, nil
}

// formatAmount renders minor units as the decimal string the gateway
// expects, e.g. 1050 -> "10.50".
func formatAmount(cents int64) string {
	return strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
}
