package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func margherita() *Product {
	return &Product{
		ID:    uuid.New(),
		Name:  "Margherita",
		Price: 9.99,
	}
}

func TestCart_AddItem_MergesSameProductAndSize(t *testing.T) {
	product := margherita()
	cart := &Cart{}

	cart.AddItem(NewCartItem(product, SizeM, 1))
	cart.AddItem(NewCartItem(product, SizeM, 2))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, product.ID, cart.Items[0].ProductID)
	assert.Equal(t, SizeM, cart.Items[0].Size)
}

func TestCart_AddItem_DifferentSizesStaySeparate(t *testing.T) {
	product := margherita()
	cart := &Cart{}

	cart.AddItem(NewCartItem(product, SizeM, 1))
	cart.AddItem(NewCartItem(product, SizeL, 1))

	assert.Len(t, cart.Items, 2)
}

func TestCart_AddItem_QuantitySumsOverRepeatedAdds(t *testing.T) {
	product := margherita()
	cart := &Cart{}

	for _, qty := range []int{1, 2, 4, 3} {
		cart.AddItem(NewCartItem(product, SizeS, qty))
	}

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 10, cart.Items[0].Quantity)
}

func TestCart_UpdateQuantity_SetsPositiveQuantity(t *testing.T) {
	product := margherita()
	cart := &Cart{}
	cart.AddItem(NewCartItem(product, SizeM, 2))

	line := cart.Items[0]
	line.Quantity = 5
	cart.UpdateQuantity(line)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCart_UpdateQuantity_NonPositiveRemovesLine(t *testing.T) {
	product := margherita()
	cart := &Cart{}
	cart.AddItem(NewCartItem(product, SizeM, 2))

	line := cart.Items[0]
	line.Quantity = 0
	cart.UpdateQuantity(line)

	assert.Empty(t, cart.Items)
}

func TestCart_UpdateQuantity_MissIsNoOp(t *testing.T) {
	product := margherita()
	cart := &Cart{}
	cart.AddItem(NewCartItem(product, SizeM, 2))

	ghost := CartItem{ID: uuid.New(), Size: SizeM, Quantity: 7}
	cart.UpdateQuantity(ghost)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCart_UpdateQuantity_MatchesOnLineIDAndSize(t *testing.T) {
	product := margherita()
	cart := &Cart{}
	cart.AddItem(NewCartItem(product, SizeM, 2))

	// Same line id but a different size must not match.
	line := cart.Items[0]
	line.Size = SizeL
	line.Quantity = 9
	cart.UpdateQuantity(line)

	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCart_RemoveItem(t *testing.T) {
	product := margherita()
	cart := &Cart{}
	cart.AddItem(NewCartItem(product, SizeM, 2))
	cart.AddItem(NewCartItem(product, SizeL, 1))

	cart.RemoveItem(cart.Items[0].ID)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, SizeL, cart.Items[0].Size)
}

func TestCart_RemoveItem_UnknownIDIsNoOp(t *testing.T) {
	product := margherita()
	cart := &Cart{}
	cart.AddItem(NewCartItem(product, SizeM, 2))

	cart.RemoveItem(uuid.New())

	assert.Len(t, cart.Items, 1)
}

func TestCart_Total_MargheritaScenario(t *testing.T) {
	product := margherita()
	cart := &Cart{}

	cart.AddItem(NewCartItem(product, SizeM, 2))

	assert.InDelta(t, 19.98, cart.Total(), 1e-9)
}

func TestCart_Total_AddThenRemoveRestoresPriorTotal(t *testing.T) {
	pizza := margherita()
	drink := &Product{ID: uuid.New(), Name: "Lemonade", Price: 3.50}
	cart := &Cart{}

	cart.AddItem(NewCartItem(pizza, SizeL, 1))
	before := cart.Total()

	extra := NewCartItem(drink, SizeM, 2)
	cart.AddItem(extra)
	cart.RemoveItem(extra.ID)

	assert.InDelta(t, before, cart.Total(), 1e-9)
}

func TestCart_Total_UsesPriceSnapshotAtAddTime(t *testing.T) {
	product := margherita()
	cart := &Cart{}
	cart.AddItem(NewCartItem(product, SizeM, 1))

	// A later admin price change must not affect lines already in the cart.
	product.Price = 12.99

	assert.InDelta(t, 9.99, cart.Total(), 1e-9)
}

func TestCart_Total_UsesSizeTierPrice(t *testing.T) {
	product := margherita()
	product.SizePrices = map[Size]float64{SizeS: 7.99, SizeM: 9.99, SizeL: 11.99, SizeXL: 13.99}
	cart := &Cart{}

	cart.AddItem(NewCartItem(product, SizeXL, 2))

	assert.InDelta(t, 27.98, cart.Total(), 1e-9)
}

func TestCart_Clear(t *testing.T) {
	product := margherita()
	cart := &Cart{}
	cart.AddItem(NewCartItem(product, SizeM, 2))

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.Total())
}

func TestCart_Clone_IsIndependent(t *testing.T) {
	product := margherita()
	cart := &Cart{}
	cart.AddItem(NewCartItem(product, SizeM, 2))

	snapshot := cart.Clone()
	cart.Items[0].Quantity = 99

	assert.Equal(t, 2, snapshot.Items[0].Quantity)
}

func TestOrderItemsFromCart(t *testing.T) {
	pizza := margherita()
	drink := &Product{ID: uuid.New(), Name: "Lemonade", Price: 3.50}
	cart := &Cart{}
	cart.AddItem(NewCartItem(pizza, SizeM, 2))
	cart.AddItem(NewCartItem(drink, SizeS, 1))

	orderID := uuid.New()
	items := OrderItemsFromCart(orderID, cart)

	require.Len(t, items, 2)
	assert.Equal(t, orderID, items[0].OrderID)
	assert.Equal(t, pizza.ID, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.InDelta(t, 9.99, items[0].UnitPrice, 1e-9)
	assert.Equal(t, SizeS, items[1].Size)
}

func TestOrderStatus_ArchivedAndTerminal(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		archived bool
	}{
		{OrderStatusNew, false},
		{OrderStatusCooking, false},
		{OrderStatusDelivering, false},
		{OrderStatusDelivered, true},
		{OrderStatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.archived, tt.status.IsArchived())
			assert.Equal(t, tt.archived, tt.status.IsTerminal())
		})
	}
}

func TestOrder_CanTransitionTo(t *testing.T) {
	order := &Order{Status: OrderStatusNew}

	assert.True(t, order.CanTransitionTo(OrderStatusCooking))
	assert.False(t, order.CanTransitionTo(OrderStatusNew))
	assert.False(t, order.CanTransitionTo(OrderStatus("Burnt")))

	order.Status = OrderStatusDelivered
	assert.False(t, order.CanTransitionTo(OrderStatusCancelled))
}
