package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/einadid/microtask-server/services"
)

// StripeClient talks to the payment intents endpoints of a Stripe-compatible API.
type StripeClient struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

// NewStripeClientFromEnv reads STRIPE_SECRET_KEY and STRIPE_BASE_URL. It
// returns nil when no key is configured.
func NewStripeClientFromEnv() *StripeClient {
	key := strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY"))
	if key == "" {
		return nil
	}
	base := strings.TrimRight(os.Getenv("STRIPE_BASE_URL"), "/")
	if base == "" {
		base = "https://api.stripe.com"
	}
	return &StripeClient{
		BaseURL:    base,
		SecretKey:  key,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type stripeIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Metadata     map[string]string `json:"metadata"`
}

type stripeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *StripeClient) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*services.Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}
	var out stripeIntent
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, &out); err != nil {
		return nil, err
	}
	return out.toIntent(), nil
}

func (c *StripeClient) GetIntent(ctx context.Context, id string) (*services.Intent, error) {
	if id == "" || strings.ContainsAny(id, "/?#") {
		return nil, fmt.Errorf("invalid payment intent id")
	}
	var out stripeIntent
	if err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.toIntent(), nil
}

func (c *StripeClient) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.SecretKey, "")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("stripe read body: %w", err)
	}
	if resp.StatusCode >= 300 {
		var se stripeErrorBody
		if json.Unmarshal(raw, &se) == nil && se.Error.Message != "" {
			return fmt.Errorf("stripe %d: %s", resp.StatusCode, se.Error.Message)
		}
		return fmt.Errorf("stripe %d", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("stripe decode: %w", err)
	}
	return nil
}

func (s stripeIntent) toIntent() *services.Intent {
	return &services.Intent{
		ID:           s.ID,
		ClientSecret: s.ClientSecret,
		Status:       s.Status,
		Amount:       s.Amount,
		Currency:     s.Currency,
		Metadata:     s.Metadata,
	}
}
