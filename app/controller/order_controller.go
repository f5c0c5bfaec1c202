package controller

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"carmod-configurator/models"
	"carmod-configurator/service"
)

// OrderController handles HTTP requests for product orders
type OrderController struct {
	orders service.OrderServiceInterface
}

// NewOrderController creates a new OrderController
func NewOrderController(orders service.OrderServiceInterface) *OrderController {
	return &OrderController{orders: orders}
}

// Create handles POST /orders
// Example request:
// {
//   "customerId": "5d1e...",
//   "products": [{"productId": "c3d4...", "quantity": 2}],
//   "paymentMethod": "Stripe",
//   "shippingAddress": "12 Harbour Rd"
// }
// Example response:
// {
//   "id": "a1b2...",
//   "products": [{"productId": "c3d4...", "name": "Cold air intake", "unitPrice": "349.99", "quantity": 2, "lineTotal": "699.98"}],
//   "totalAmount": "699.98",
//   "orderStatus": "Pending",
//   "paymentMethod": "Stripe",
//   "paymentStatus": "Pending"
// }
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	create(w, r, "CreateOrder", c.orders.CreateOrder)
}

// List handles GET /orders?customerId=&status=
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	const op = "ListOrders"
	log.Debugf("📥 %s: Received %s request to %s", op, r.Method, r.URL.String())

	customerID, err := optionalQueryID(r, "customerId")
	if err != nil {
		writeError(w, op, err)
		return
	}
	var status *models.OrderStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		parsed, err := models.ParseOrderStatus(raw)
		if err != nil {
			writeError(w, op, err)
			return
		}
		status = &parsed
	}

	orders, err := c.orders.ListOrders(r.Context(), customerID, status)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, orders)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	getByID(w, r, "GetOrder", c.orders.GetOrder)
}

// UpdateStatus handles PUT /orders/{id}/status
// Example request: {"status": "Shipped"}
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	const op = "UpdateOrderStatus"
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	var req models.UpdateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, op, err)
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		writeError(w, op, err)
		return
	}
	order, err := c.orders.UpdateOrderStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, order)
}

// UpdatePayment handles PUT /orders/{id}/payment
// Example request: {"paymentStatus": "Paid"}
func (c *OrderController) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	const op = "UpdateOrderPayment"
	log.Infof("📥 %s: Received %s request to %s", op, r.Method, r.URL.Path)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, op, err)
		return
	}
	var req models.UpdateOrderPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, op, err)
		return
	}
	status, err := models.ParseOrderPaymentStatus(req.PaymentStatus)
	if err != nil {
		writeError(w, op, err)
		return
	}
	order, err := c.orders.UpdatePaymentStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, op, err)
		return
	}
	writeJSON(w, op, http.StatusOK, order)
}
