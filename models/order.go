package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment status of an order
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// orderProgress ranks the fulfillment steps; Cancelled sits outside it.
var orderProgress = map[OrderStatus]int{
	OrderPending:    0,
	OrderProcessing: 1,
	OrderShipped:    2,
	OrderDelivered:  3,
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderProgress[s]
	return ok || s == OrderCancelled
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo allows forward moves (skips included) and cancellation
// from any non-terminal status.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() || !target.IsValid() {
		return false
	}
	if target == OrderCancelled {
		return true
	}
	return orderProgress[target] > orderProgress[s]
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	trimmed := strings.TrimSpace(raw)
	for status := range orderProgress {
		if strings.EqualFold(string(status), trimmed) {
			return status, nil
		}
	}
	if strings.EqualFold(string(OrderCancelled), trimmed) {
		return OrderCancelled, nil
	}
	return "", errors.Wrapf(ErrValidation, "invalid order status %q", raw)
}

// OrderPaymentMethod is how an order is paid
type OrderPaymentMethod string

const (
	OrderPaymentStripe OrderPaymentMethod = "Stripe"
	OrderPaymentCOD    OrderPaymentMethod = "cod"
)

func ParseOrderPaymentMethod(raw string) (OrderPaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "stripe":
		return OrderPaymentStripe, nil
	case "cod":
		return OrderPaymentCOD, nil
	default:
		return "", errors.Wrapf(ErrValidation, "invalid payment method %q", raw)
	}
}

// OrderPaymentStatus is the payment sub-state of an order
type OrderPaymentStatus string

const (
	OrderPaymentPending OrderPaymentStatus = "Pending"
	OrderPaymentPaid    OrderPaymentStatus = "Paid"
	OrderPaymentFailed  OrderPaymentStatus = "Failed"
)

var orderPaymentTransitions = map[OrderPaymentStatus][]OrderPaymentStatus{
	OrderPaymentPending: {OrderPaymentPaid, OrderPaymentFailed},
	OrderPaymentFailed:  {OrderPaymentPending, OrderPaymentPaid},
	OrderPaymentPaid:    {},
}

func (s OrderPaymentStatus) CanTransitionTo(target OrderPaymentStatus) bool {
	for _, allowed := range orderPaymentTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func ParseOrderPaymentStatus(raw string) (OrderPaymentStatus, error) {
	trimmed := strings.TrimSpace(raw)
	for status := range orderPaymentTransitions {
		if strings.EqualFold(string(status), trimmed) {
			return status, nil
		}
	}
	return "", errors.Wrapf(ErrValidation, "invalid payment status %q", raw)
}

// OrderLine is a product line frozen at order time
type OrderLine struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Order is a purchased product cart
type Order struct {
	ID              uuid.UUID          `json:"id"`
	CustomerID      uuid.UUID          `json:"customerId"`
	Lines           []OrderLine        `json:"products"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	ShippingAddress string             `json:"shippingAddress,omitempty"`
	OrderDate       time.Time          `json:"orderDate"`
	OrderStatus     OrderStatus        `json:"orderStatus"`
	PaymentMethod   OrderPaymentMethod `json:"paymentMethod"`
	PaymentStatus   OrderPaymentStatus `json:"paymentStatus"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// OrderLineRequest is one cart entry
type OrderLineRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// CreateOrderRequest represents the request body for POST /orders
// Example: {
//   "customerId": "5d1e...",
//   "products": [{"productId": "c3d4...", "quantity": 2}],
//   "paymentMethod": "Stripe",
//   "shippingAddress": "12 Harbour Rd"
// }
type CreateOrderRequest struct {
	CustomerID      uuid.UUID          `json:"customerId"`
	Lines           []OrderLineRequest `json:"products"`
	PaymentMethod   string             `json:"paymentMethod"`
	ShippingAddress string             `json:"shippingAddress,omitempty"`
}

// UpdateOrderStatusRequest represents the body of PUT /orders/{id}/status
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderPaymentRequest represents the body of PUT /orders/{id}/payment
type UpdateOrderPaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}
