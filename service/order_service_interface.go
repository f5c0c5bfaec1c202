package service

import (
	"context"

	"github.com/google/uuid"

	"carmod-configurator/models"
)

// OrderServiceInterface defines the product order workflow
type OrderServiceInterface interface {
	// CreateOrder snapshots current product prices into the order lines
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.OrderPaymentStatus) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, customerID *uuid.UUID, status *models.OrderStatus) ([]models.Order, error)
}
