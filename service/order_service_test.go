package service

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-configurator/models"
)

func (f *fixture) orderRequest(lines ...models.OrderLineRequest) *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		CustomerID:      f.customer,
		Lines:           lines,
		PaymentMethod:   "Stripe",
		ShippingAddress: "12 Harbour Rd",
	}
}

func TestOrderSnapshotsPrices(t *testing.T) {
	f := newFixture(t)
	intake := f.product("Cold air intake", 100)
	filter := f.product("Oil filter", 25)

	order, err := f.orders.CreateOrder(f.ctx, f.orderRequest(
		models.OrderLineRequest{ProductID: intake.ID, Quantity: 2},
		models.OrderLineRequest{ProductID: filter.ID, Quantity: 1},
		models.OrderLineRequest{ProductID: intake.ID, Quantity: 1},
	))
	require.NoError(t, err)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, intake.ID, order.Lines[0].ProductID)
	assert.Equal(t, 3, order.Lines[0].Quantity)
	assertMoney(t, "300.00", order.Lines[0].LineTotal)
	assertMoney(t, "325.00", order.TotalAmount)
	assert.Equal(t, models.OrderPending, order.OrderStatus)
	assert.Equal(t, models.OrderPaymentPending, order.PaymentStatus)
	assert.Equal(t, models.OrderPaymentStripe, order.PaymentMethod)

	_, err = f.catalog.UpdateProductPrice(f.ctx, intake.ID, decimal.NewFromInt(150))
	require.NoError(t, err)

	stored, err := f.orders.GetOrder(f.ctx, order.ID)
	require.NoError(t, err)
	assertMoney(t, "325.00", stored.TotalAmount)
	assertMoney(t, "100.00", stored.Lines[0].UnitPrice)

	again, err := f.orders.CreateOrder(f.ctx, f.orderRequest(models.OrderLineRequest{ProductID: intake.ID, Quantity: 1}))
	require.NoError(t, err)
	assertMoney(t, "150.00", again.TotalAmount)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	p := f.product("Strut brace", 80)

	tests := []struct {
		name string
		req  *models.CreateOrderRequest
	}{
		{"empty cart", f.orderRequest()},
		{"zero quantity", f.orderRequest(models.OrderLineRequest{ProductID: p.ID, Quantity: 0})},
		{"quantity over cap", f.orderRequest(models.OrderLineRequest{ProductID: p.ID, Quantity: MaxLineQuantity + 1})},
		{"merged quantity over cap", f.orderRequest(
			models.OrderLineRequest{ProductID: p.ID, Quantity: MaxLineQuantity},
			models.OrderLineRequest{ProductID: p.ID, Quantity: 1},
		)},
		{"max int lines", f.orderRequest(
			models.OrderLineRequest{ProductID: p.ID, Quantity: math.MaxInt},
			models.OrderLineRequest{ProductID: p.ID, Quantity: math.MaxInt},
			models.OrderLineRequest{ProductID: p.ID, Quantity: math.MaxInt},
		)},
		{"unknown product", f.orderRequest(models.OrderLineRequest{ProductID: uuid.New(), Quantity: 1})},
		{"bad payment method", func() *models.CreateOrderRequest {
			req := f.orderRequest(models.OrderLineRequest{ProductID: p.ID, Quantity: 1})
			req.PaymentMethod = "cheque"
			return req
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.CreateOrder(f.ctx, tt.req)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}

	list, err := f.orders.ListOrders(f.ctx, &f.customer, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrderStatusMovesForwardOnly(t *testing.T) {
	f := newFixture(t)
	p := f.product("Coilovers", 1200)
	order, err := f.orders.CreateOrder(f.ctx, f.orderRequest(models.OrderLineRequest{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	order, err = f.orders.UpdateOrderStatus(f.ctx, order.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.OrderStatus)

	_, err = f.orders.UpdateOrderStatus(f.ctx, order.ID, models.OrderProcessing)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	_, err = f.orders.UpdateOrderStatus(f.ctx, order.ID, models.OrderShipped)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	order, err = f.orders.UpdateOrderStatus(f.ctx, order.ID, models.OrderDelivered)
	require.NoError(t, err)

	_, err = f.orders.UpdateOrderStatus(f.ctx, order.ID, models.OrderCancelled)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	_, err = f.orders.UpdateOrderStatus(f.ctx, order.ID, "Lost")
	assert.ErrorIs(t, err, models.ErrValidation)

	stored, err := f.orders.GetOrder(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, stored.OrderStatus)
}

func TestOrderCanBeCancelledBeforeDelivery(t *testing.T) {
	f := newFixture(t)
	p := f.product("Coilovers", 1200)
	order, err := f.orders.CreateOrder(f.ctx, f.orderRequest(models.OrderLineRequest{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	order, err = f.orders.UpdateOrderStatus(f.ctx, order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.OrderStatus)

	cancelled := models.OrderCancelled
	list, err := f.orders.ListOrders(f.ctx, nil, &cancelled)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOrderPaymentStatus(t *testing.T) {
	f := newFixture(t)
	p := f.product("Exhaust", 900)
	order, err := f.orders.CreateOrder(f.ctx, f.orderRequest(models.OrderLineRequest{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	order, err = f.orders.UpdatePaymentStatus(f.ctx, order.ID, models.OrderPaymentFailed)
	require.NoError(t, err)
	order, err = f.orders.UpdatePaymentStatus(f.ctx, order.ID, models.OrderPaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaymentPaid, order.PaymentStatus)

	_, err = f.orders.UpdatePaymentStatus(f.ctx, order.ID, models.OrderPaymentPending)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	assert.Equal(t, []string{"OrderCreated", "OrderPaymentStatusChanged", "OrderPaymentStatusChanged"}, f.dispatcher.types())
}

func TestOrderedProductCannotBeDeleted(t *testing.T) {
	f := newFixture(t)
	p := f.product("Exhaust", 900)
	_, err := f.orders.CreateOrder(f.ctx, f.orderRequest(models.OrderLineRequest{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	err = f.catalog.DeleteProduct(f.ctx, p.ID)
	assert.ErrorIs(t, err, models.ErrReferentialConflict)
}
