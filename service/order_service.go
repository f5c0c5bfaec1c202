package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/events"
	"carmod-configurator/models"
	"carmod-configurator/pricing"
	"carmod-configurator/repository"
	"carmod-configurator/utils"
)

// OrderService turns product carts into orders and tracks their fulfillment.
// Implements OrderServiceInterface
type OrderService struct {
	store      repository.Store
	engine     *pricing.Engine
	dispatcher events.Dispatcher
	timeout    time.Duration
	now        func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(store repository.Store, engine *pricing.Engine, dispatcher events.Dispatcher, timeout time.Duration) *OrderService {
	return &OrderService{
		store:      store,
		engine:     engine,
		dispatcher: dispatcher,
		timeout:    timeout,
		now:        utcNow,
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)

// MaxLineQuantity caps the merged quantity of one product in an order
const MaxLineQuantity = 10000

// mergeLines sums quantities of repeated products, keeping first-seen order.
func mergeLines(in []models.OrderLineRequest) ([]models.OrderLine, error) {
	if len(in) == 0 {
		return nil, errors.Wrap(models.ErrValidation, "an order needs at least one product")
	}
	index := make(map[uuid.UUID]int, len(in))
	lines := make([]models.OrderLine, 0, len(in))
	for _, req := range in {
		if err := requireID(req.ProductID, "productId"); err != nil {
			return nil, err
		}
		if req.Quantity < 1 || req.Quantity > MaxLineQuantity {
			return nil, errors.Wrapf(models.ErrValidation, "quantity for product %s must be between 1 and %d", req.ProductID, MaxLineQuantity)
		}
		if i, ok := index[req.ProductID]; ok {
			// compared by subtraction so the sum cannot overflow
			if lines[i].Quantity > MaxLineQuantity-req.Quantity {
				return nil, errors.Wrapf(models.ErrValidation, "total quantity for product %s exceeds %d", req.ProductID, MaxLineQuantity)
			}
			lines[i].Quantity += req.Quantity
			continue
		}
		index[req.ProductID] = len(lines)
		lines = append(lines, models.OrderLine{ProductID: req.ProductID, Quantity: req.Quantity})
	}
	return lines, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	log.Infof("📦 CreateOrder: customer=%s lines=%d", req.CustomerID, len(req.Lines))

	if err := requireID(req.CustomerID, "customerId"); err != nil {
		return nil, err
	}
	method, err := models.ParseOrderPaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	lines, err := mergeLines(req.Lines)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		ID:              uuid.New(),
		CustomerID:      req.CustomerID,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		OrderDate:       now,
		OrderStatus:     models.OrderPending,
		PaymentMethod:   method,
		PaymentStatus:   models.OrderPaymentPending,
		UpdatedAt:       now,
	}

	err = s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		ids := make([]uuid.UUID, len(lines))
		for i, line := range lines {
			ids[i] = line.ProductID
		}
		products, err := repos.Products.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		for i := range lines {
			product, ok := byID[lines[i].ProductID]
			if !ok {
				return errors.Wrapf(models.ErrValidation, "product %s does not exist", lines[i].ProductID)
			}
			lines[i].Name = product.Name
			lines[i].UnitPrice = product.Price
		}

		breakdown, err := s.engine.PriceOrder(lines)
		if err != nil {
			return err
		}
		order.Lines = lines
		order.TotalAmount = breakdown.Total
		return repos.Orders.Insert(ctx, order)
	})
	if err != nil {
		log.Errorf("❌ CreateOrder: Error creating order for customer %s: %v", req.CustomerID, err)
		return nil, err
	}

	log.Infof("✅ CreateOrder: Successfully created order id=%s total=%s", order.ID, utils.FormatMoney(order.TotalAmount, s.engine.Currency()))
	events.Publish(ctx, s.dispatcher, events.OrderCreated{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
	})
	return order, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if !status.IsValid() {
		return nil, errors.Wrapf(models.ErrValidation, "invalid order status %q", status)
	}

	var (
		order *models.Order
		from  models.OrderStatus
	)
	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		var err error
		if order, err = repos.Orders.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		from = order.OrderStatus
		if !from.CanTransitionTo(status) {
			return errors.Wrapf(models.ErrIllegalTransition, "order %s cannot move from %s to %s", id, from, status)
		}
		order.OrderStatus = status
		order.UpdatedAt = s.now()
		return repos.Orders.UpdateState(ctx, order)
	})
	if err != nil {
		log.Errorf("❌ UpdateOrderStatus: Error updating order %s: %v", id, err)
		return nil, err
	}

	log.Infof("✅ UpdateOrderStatus: order=%s %s -> %s", id, from, status)
	events.Publish(ctx, s.dispatcher, events.OrderStatusChanged{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		From:       from,
		To:         status,
	})
	return order, nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.OrderPaymentStatus) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := models.ParseOrderPaymentStatus(string(status)); err != nil {
		return nil, err
	}

	var (
		order *models.Order
		from  models.OrderPaymentStatus
	)
	err := s.store.RunInTx(ctx, func(repos *repository.Repositories) error {
		var err error
		if order, err = repos.Orders.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		from = order.PaymentStatus
		if !from.CanTransitionTo(status) {
			return errors.Wrapf(models.ErrIllegalTransition, "order %s payment cannot move from %s to %s", id, from, status)
		}
		order.PaymentStatus = status
		order.UpdatedAt = s.now()
		return repos.Orders.UpdateState(ctx, order)
	})
	if err != nil {
		log.Errorf("❌ UpdatePaymentStatus: Error updating payment of order %s: %v", id, err)
		return nil, err
	}

	log.Infof("✅ UpdatePaymentStatus: order=%s payment %s -> %s", id, from, status)
	events.Publish(ctx, s.dispatcher, events.OrderPaymentStatusChanged{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		From:       from,
		To:         status,
	})
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.store.Repositories().Orders.GetByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, customerID *uuid.UUID, status *models.OrderStatus) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if status != nil && !status.IsValid() {
		return nil, errors.Wrapf(models.ErrValidation, "invalid order status %q", *status)
	}
	list, err := s.store.Repositories().Orders.List(ctx, repository.OrderFilter{CustomerID: customerID, Status: status})
	if err != nil {
		log.Errorf("❌ ListOrders: Error listing orders: %v", err)
		return nil, err
	}
	log.Debugf("📋 ListOrders: found=%d", len(list))
	return list, nil
}
