package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munch/config"
	domainerrors "munch/internal/domain/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Payment: &config.PaymentConfig{
			SecretKey:      "sk_test_secret",
			PublishableKey: "pk_test_publishable",
			Currency:       "usd",
			APIBase:        server.URL,
		},
	}

	svc := NewClient(cfg, slog.New(slog.DiscardHandler))
	require.NotNil(t, svc)

	return svc.(*client)
}

func TestNewClient_DisabledWithoutSecretKey(t *testing.T) {
	cfg := &config.Config{}
	assert.Nil(t, NewClient(cfg, slog.New(slog.DiscardHandler)))

	cfg.Payment = &config.PaymentConfig{PublishableKey: "pk_only"}
	assert.Nil(t, NewClient(cfg, slog.New(slog.DiscardHandler)))
}

func TestClient_CreateIntent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "1998", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "pi_123",
			"client_secret": "pi_123_secret_abc",
			"amount":        1998,
			"currency":      "usd",
			"status":        "requires_payment_method",
		})
	})

	intent, err := c.CreateIntent(context.Background(), 1998, "usd")
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
	assert.Equal(t, "pk_test_publishable", intent.PublishableKey)
	assert.Equal(t, int64(1998), intent.Amount)
	assert.Equal(t, "usd", intent.Currency)
}

func TestClient_CreateIntent_RejectsNonPositiveAmount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.CreateIntent(context.Background(), 0, "usd")
	assert.Error(t, err)
}

func TestClient_CreateIntent_PlatformError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "card_error",
				"code":    "card_declined",
				"message": "Your card was declined.",
			},
		})
	})

	_, err := c.CreateIntent(context.Background(), 500, "usd")
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAYMENT_FAILED", appErr.ErrorCode())
	assert.Equal(t, "Your card was declined.", appErr.Details())
}

func TestClient_CreateIntent_FailureIsNotRetried(t *testing.T) {
	var requests int
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "rate_limit_error",
				"message": "Too many requests.",
			},
		})
	})

	_, err := c.CreateIntent(context.Background(), 500, "usd")
	require.Error(t, err)

	// A second request would mint a second live intent on the platform.
	assert.Equal(t, 1, requests)
}

func TestClient_CancelIntent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_intents/pi_123/cancel", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "pi_123",
			"status": "canceled",
		})
	})

	assert.NoError(t, c.CancelIntent(context.Background(), "pi_123"))
}

func TestClient_CancelIntent_EmptyIDIsNoop(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.NoError(t, c.CancelIntent(context.Background(), ""))
}
