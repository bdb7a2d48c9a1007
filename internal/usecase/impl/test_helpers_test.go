package impl

import (
	"io"
	"log/slog"

	"munch/internal/domain/entity"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestUser(role entity.Role) *entity.User {
	id := uuid.New()

	return &entity.User{
		ID:    id,
		Email: "shopper@example.com",
		Name:  "Test Shopper",
		Profile: &entity.Profile{
			UserID: id,
			Role:   role,
		},
	}
}

func newTestProduct(name string, price float64) *entity.Product {
	return &entity.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: price,
		SizePrices: map[entity.Size]float64{
			entity.SizeS: price - 2,
			entity.SizeL: price + 2,
		},
	}
}
