// Package payment implements the hosted payment platform client.
package payment

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"munch/config"
	domainerrors "munch/internal/domain/errors"
	"munch/internal/domain/service"
	"munch/internal/errors"
)

const defaultAPIBase = "https://api.stripe.com/v1"

// client talks to the payment platform's REST API with form-encoded requests.
type client struct {
	rest           *resty.Client
	publishableKey string
	logger         *slog.Logger
}

// intentResponse mirrors the subset of the intent object the storefront needs.
type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient is the constructor for the payment platform client.
// A nil payment section in the config disables payments; callers get a nil
// service and must treat checkout as cash-only.
func NewClient(cfg *config.Config, logger *slog.Logger) service.PaymentService {
	if cfg.Payment == nil || cfg.Payment.SecretKey == "" {
		return nil
	}

	apiBase := cfg.Payment.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}

	// Intent creation is not idempotent, so a failed request surfaces to the
	// caller instead of being retried.
	rest := resty.New().
		SetBaseURL(apiBase).
		SetTimeout(15 * time.Second).
		SetAuthToken(cfg.Payment.SecretKey)

	return &client{
		rest:           rest,
		publishableKey: cfg.Payment.PublishableKey,
		logger:         logger,
	}
}

// CreateIntent creates a payment intent for the given amount in minor units.
func (c *client) CreateIntent(ctx context.Context, amount int64, currency string) (*service.PaymentIntent, error) {
	if amount <= 0 {
		return nil, errors.Errorf("invalid payment amount: %d", amount)
	}

	var intent intentResponse
	var apiErr errorResponse

	resp, err := c.rest.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"amount":                             strconv.FormatInt(amount, 10),
			"currency":                           currency,
			"automatic_payment_methods[enabled]": "true",
		}).
		SetResult(&intent).
		SetError(&apiErr).
		Post("/payment_intents")
	if err != nil {
		c.logger.ErrorContext(ctx, "payment intent request failed", slog.Any("error", err))

		return nil, domainerrors.ErrPaymentUnavailable.WithDetails(err.Error())
	}

	if resp.IsError() {
		c.logger.WarnContext(ctx, "payment intent rejected",
			slog.Int("status", resp.StatusCode()),
			slog.String("code", apiErr.Error.Code),
			slog.String("message", apiErr.Error.Message))

		return nil, domainerrors.ErrPaymentFailed.WithDetails(apiErr.Error.Message)
	}

	return &service.PaymentIntent{
		ID:             intent.ID,
		ClientSecret:   intent.ClientSecret,
		PublishableKey: c.publishableKey,
		Amount:         intent.Amount,
		Currency:       intent.Currency,
	}, nil
}

// CancelIntent cancels a previously created intent, releasing any hold.
func (c *client) CancelIntent(ctx context.Context, intentID string) error {
	if intentID == "" {
		return nil
	}

	var apiErr errorResponse

	resp, err := c.rest.R().
		SetContext(ctx).
		SetError(&apiErr).
		Post("/payment_intents/" + intentID + "/cancel")
	if err != nil {
		c.logger.ErrorContext(ctx, "payment intent cancel failed", slog.Any("error", err))

		return domainerrors.ErrPaymentUnavailable.WithDetails(err.Error())
	}

	if resp.IsError() {
		// A cancel that races the platform's own expiry is not actionable.
		c.logger.WarnContext(ctx, "payment intent cancel rejected",
			slog.Int("status", resp.StatusCode()),
			slog.String("message", apiErr.Error.Message))

		return domainerrors.ErrPaymentFailed.WithDetails(apiErr.Error.Message)
	}

	return nil
}
