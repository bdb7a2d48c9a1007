package service

import "context"

// PaymentIntent is the hosted payment platform's handle for a pending charge.
// The client secret is handed to the storefront so it can drive the hosted
// payment sheet; the server keeps only the intent id.
type PaymentIntent struct {
	ID             string // Platform-side intent identifier.
	ClientSecret   string // Secret consumed by the client-side payment sheet.
	PublishableKey string // Public API key the client initializes the sheet with.
	Amount         int64  // Amount in minor units (e.g. cents).
	Currency       string // Lowercase ISO currency code.
}

// PaymentService brokers payment intents with the hosted payment platform.
type PaymentService interface {
	// CreateIntent creates a payment intent for the given amount in minor
	// units and currency.
	CreateIntent(ctx context.Context, amount int64, currency string) (*PaymentIntent, error)

	// CancelIntent cancels a previously created intent, releasing any hold.
	CancelIntent(ctx context.Context, intentID string) error
}
