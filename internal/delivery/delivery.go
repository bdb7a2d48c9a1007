// Package delivery defines the inbound transport surfaces of the application.
package delivery

import "context"

// Delivery is a long-running inbound server. Implementations are collected
// into the "deliveries" group and started together.
type Delivery interface {
	Serve(ctx context.Context) error
}
