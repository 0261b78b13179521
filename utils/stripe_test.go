package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeClient_CreateAndGetIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		if !ok || user != "sk_test" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key"}}`))
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/payment_intents":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "2000", r.PostForm.Get("amount"))
			assert.Equal(t, "b@example.com", r.PostForm.Get("metadata[email]"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "pi_123", "client_secret": "pi_123_secret", "status": "requires_payment_method",
				"amount": 2000, "currency": "usd", "metadata": map[string]string{"email": "b@example.com", "coins": "500"},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/payment_intents/pi_123":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "pi_123", "status": "succeeded", "amount": 2000, "currency": "usd",
				"metadata": map[string]string{"email": "b@example.com", "coins": "500"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"No such payment_intent"}}`))
		}
	}))
	defer srv.Close()

	c := &StripeClient{BaseURL: srv.URL, SecretKey: "sk_test", HTTPClient: srv.Client()}
	ctx := context.Background()

	in, err := c.CreateIntent(ctx, 2000, "usd", map[string]string{"email": "b@example.com", "coins": "500"})
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret", in.ClientSecret)

	got, err := c.GetIntent(ctx, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, "succeeded", got.Status)
	assert.Equal(t, int64(2000), got.Amount)
	assert.Equal(t, "500", got.Metadata["coins"])

	_, err = c.GetIntent(ctx, "pi_missing")
	assert.ErrorContains(t, err, "No such payment_intent")

	_, err = c.GetIntent(ctx, "../v1/charges")
	assert.Error(t, err)

	bad := &StripeClient{BaseURL: srv.URL, SecretKey: "wrong", HTTPClient: srv.Client()}
	_, err = bad.GetIntent(ctx, "pi_123")
	assert.ErrorContains(t, err, "Invalid API Key")
}

func TestNewStripeClientFromEnv(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	assert.Nil(t, NewStripeClientFromEnv())
	t.Setenv("STRIPE_SECRET_KEY", "sk_live")
	c := NewStripeClientFromEnv()
	require.NotNil(t, c)
	assert.Equal(t, "https://api.stripe.com", c.BaseURL)
}
