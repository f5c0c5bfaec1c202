package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmod-configurator/app/controller"
	"carmod-configurator/config"
	"carmod-configurator/models"
	"carmod-configurator/seed"
)

type testServer struct {
	t       *testing.T
	app     *App
	catalog *seed.Result
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Store:                 config.StoreMemory,
		RequestTimeout:        time.Second,
		CompatibilityCacheTTL: time.Minute,
		Currency:              "USD",
	}
	a, err := Initialize(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	res, err := seed.Run(context.Background(), a.Catalog, a.Compatibility)
	require.NoError(t, err)
	require.False(t, res.Skipped)
	return &testServer{t: t, app: a, catalog: res}
}

// do sends body as JSON and decodes the response into out when out is not nil
func (s *testServer) do(method, path string, body any, out any) int {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.app.Handler.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (s *testServer) expectError(method, path string, body any, status int, code string) {
	s.t.Helper()
	var resp controller.ErrorResponse
	assert.Equal(s.t, status, s.do(method, path, body, &resp))
	assert.Equal(s.t, code, resp.Code)
	assert.NotEmpty(s.t, resp.Error)
}

// supra2022 returns the seeded Supra 2022 year
func (s *testServer) supra2022() models.Year {
	for _, y := range s.catalog.Years {
		if y.ModelID == s.catalog.Models[0].ID && y.Year == 2022 {
			return y
		}
	}
	s.t.Fatal("seeded Supra 2022 missing")
	return models.Year{}
}

func (s *testServer) saveRequest(customer uuid.UUID, year models.Year, options ...models.OptionSelection) models.SaveConfigurationRequest {
	return models.SaveConfigurationRequest{
		CustomerID: customer,
		MakeID:     s.catalog.Make.ID,
		ModelID:    year.ModelID,
		YearID:     year.ID,
		Selections: models.Selections{Options: options},
	}
}

func (s *testServer) optionFor(slot models.SlotKind) models.CustomizationOption {
	var options []models.CustomizationOption
	require.Equal(s.t, http.StatusOK, s.do(http.MethodGet, "/catalog/options?slot="+string(slot), nil, &options))
	require.NotEmpty(s.t, options)
	return options[0]
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/ping", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestConfigurationBookingFlow(t *testing.T) {
	s := newTestServer(t)
	customer := uuid.New()
	year := s.supra2022()
	hood := s.optionFor(models.SlotExteriorHood)
	wheels := s.optionFor(models.SlotExteriorWheels)

	var cfg models.Configuration
	req := s.saveRequest(customer, year, models.OptionSelection{Slot: hood.Slot, OptionID: hood.ID})
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/configurations", req, &cfg))
	assert.True(t, decimal.NewFromInt(5000).Equal(cfg.TotalAmount), cfg.TotalAmount.String())
	assert.Equal(t, models.ConfigurationSaved, cfg.BookingStatus)

	path := "/configurations/" + cfg.ID.String()
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, path+"/options",
		models.SelectOptionRequest{CustomerID: customer, OptionID: wheels.ID}, &cfg))
	assert.True(t, decimal.NewFromInt(7000).Equal(cfg.TotalAmount), cfg.TotalAmount.String())

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete,
		fmt.Sprintf("%s/options/%s?customerId=%s", path, hood.Slot, customer), nil, &cfg))
	assert.True(t, decimal.NewFromInt(2000).Equal(cfg.TotalAmount), cfg.TotalAmount.String())

	var booking models.Booking
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/bookings", models.CreateBookingRequest{
		CustomerID:      customer,
		ConfigurationID: &cfg.ID,
		TimeSlot:        time.Now().Add(48 * time.Hour),
		ShippingAddress: "12 Harbour Rd",
	}, &booking))
	assert.Equal(t, "Supra", booking.Model)
	assert.Equal(t, 2022, booking.Year)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, path, nil, &cfg))
	assert.Equal(t, models.ConfigurationPending, cfg.BookingStatus)

	bookingPath := "/bookings/" + booking.ID.String()
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, bookingPath,
		models.UpdateBookingRequest{Field: "bookingStatus", Value: "confirmed"}, &booking))
	assert.Equal(t, models.BookingConfirmed, booking.BookingStatus)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, path, nil, &cfg))
	assert.Equal(t, models.ConfigurationConfirmed, cfg.BookingStatus)

	// confirmed is terminal
	s.expectError(http.MethodPut, bookingPath,
		models.UpdateBookingRequest{Field: "bookingStatus", Value: "cancelled"},
		http.StatusConflict, "IllegalTransition")
	s.expectError(http.MethodPut, path+"/options",
		models.SelectOptionRequest{CustomerID: customer, OptionID: hood.ID},
		http.StatusConflict, "InvalidState")

	var list []models.Configuration
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/configurations?customerId="+customer.String(), nil, &list))
	assert.Len(t, list, 1)
}

func TestBookingUpdateRejectsUnknownField(t *testing.T) {
	s := newTestServer(t)
	var booking models.Booking
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/bookings", models.CreateBookingRequest{
		CustomerID:      uuid.New(),
		Vehicle:         models.BookingVehicle{Model: "Supra", Year: 2022},
		TimeSlot:        time.Now().Add(24 * time.Hour),
		ShippingAddress: "12 Harbour Rd",
	}, &booking))

	path := "/bookings/" + booking.ID.String()
	s.expectError(http.MethodPut, path, models.UpdateBookingRequest{Field: "customerId", Value: uuid.NewString()},
		http.StatusBadRequest, "ValidationError")
	s.expectError(http.MethodPut, path, models.UpdateBookingRequest{Field: "paymentStatus", Value: "paid"},
		http.StatusConflict, "InvalidState")

	require.Equal(t, http.StatusOK, s.do(http.MethodPut, path,
		models.UpdateBookingRequest{Field: "paymentMethod", Value: "stripe"}, &booking))
	require.NotNil(t, booking.PaymentStatus)
	assert.Equal(t, models.PaymentPending, *booking.PaymentStatus)
}

func TestConfigurationErrors(t *testing.T) {
	s := newTestServer(t)
	customer := uuid.New()
	year := s.supra2022()

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/configurations", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		s.app.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown configuration", func(t *testing.T) {
		s.expectError(http.MethodGet, "/configurations/"+uuid.NewString(), nil, http.StatusNotFound, "NotFound")
	})

	t.Run("bad id", func(t *testing.T) {
		s.expectError(http.MethodGet, "/configurations/not-a-uuid", nil, http.StatusBadRequest, "ValidationError")
	})

	t.Run("option not offered", func(t *testing.T) {
		gr86 := s.catalog.Years[len(s.catalog.Years)-1]
		hood := s.optionFor(models.SlotExteriorHood)
		req := s.saveRequest(customer, gr86, models.OptionSelection{Slot: hood.Slot, OptionID: hood.ID})
		s.expectError(http.MethodPost, "/configurations", req, http.StatusUnprocessableEntity, "IncompatibleOption")
	})

	t.Run("wrong owner", func(t *testing.T) {
		var cfg models.Configuration
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/configurations", s.saveRequest(customer, year), &cfg))
		s.expectError(http.MethodPost, "/configurations/"+cfg.ID.String()+"/cancel",
			models.CustomerRequest{CustomerID: uuid.New()}, http.StatusBadRequest, "ValidationError")
	})

	t.Run("list needs customer", func(t *testing.T) {
		s.expectError(http.MethodGet, "/configurations", nil, http.StatusBadRequest, "ValidationError")
	})
}

func TestOversizedBodyIsRejected(t *testing.T) {
	s := newTestServer(t)
	body := `{"name":"` + strings.Repeat("a", controller.MaxBodyBytes) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/catalog/makes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.app.Handler.ServeHTTP(rec, req)

	var resp controller.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PayloadTooLarge", resp.Code)

	var makes []models.Make
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/catalog/makes", nil, &makes))
	assert.Len(t, makes, 1)
}

func TestCompatibilityRoutes(t *testing.T) {
	s := newTestServer(t)
	intake := s.catalog.Products[0]
	coilovers := s.catalog.Products[1]
	supra := s.catalog.Models[0]

	query := fmt.Sprintf("productId=%s&makeId=%s&modelId=%s", coilovers.ID, s.catalog.Make.ID, supra.ID)

	var check models.CompatibilityCheck
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/compatibility/check?"+query+"&year=2021", nil, &check))
	assert.False(t, check.Compatible)
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/compatibility/check?"+query+"&year=2023", nil, &check))
	assert.True(t, check.Compatible)

	var years struct {
		Years []int `json:"years"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/compatibility/years?"+query, nil, &years))
	assert.Equal(t, []int{2022, 2023}, years.Years)

	var products []models.Product
	require.Equal(t, http.StatusOK, s.do(http.MethodGet,
		fmt.Sprintf("/compatibility/products?makeId=%s&modelId=%s&year=2021", s.catalog.Make.ID, supra.ID), nil, &products))
	require.Len(t, products, 1)
	assert.Equal(t, intake.ID, products[0].ID)

	s.expectError(http.MethodDelete, "/catalog/products/"+intake.ID.String(), nil, http.StatusConflict, "ReferentialConflict")
}

func TestOrderRoutes(t *testing.T) {
	s := newTestServer(t)
	customer := uuid.New()
	intake := s.catalog.Products[0]

	var order models.Order
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/orders", models.CreateOrderRequest{
		CustomerID:    customer,
		Lines:         []models.OrderLineRequest{{ProductID: intake.ID, Quantity: 2}},
		PaymentMethod: "Stripe",
	}, &order))
	assert.True(t, decimal.RequireFromString("699.98").Equal(order.TotalAmount), order.TotalAmount.String())
	assert.Equal(t, models.OrderPending, order.OrderStatus)

	// repricing the catalog keeps the placed order's snapshot
	var product models.Product
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/catalog/products/"+intake.ID.String()+"/price",
		map[string]string{"price": "399.99"}, &product))

	path := "/orders/" + order.ID.String()
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, path, nil, &order))
	assert.True(t, decimal.RequireFromString("699.98").Equal(order.TotalAmount))

	require.Equal(t, http.StatusOK, s.do(http.MethodPut, path+"/status",
		models.UpdateOrderStatusRequest{Status: "Shipped"}, &order))
	assert.Equal(t, models.OrderShipped, order.OrderStatus)
	s.expectError(http.MethodPut, path+"/status", models.UpdateOrderStatusRequest{Status: "Processing"},
		http.StatusConflict, "IllegalTransition")

	require.Equal(t, http.StatusOK, s.do(http.MethodPut, path+"/payment",
		models.UpdateOrderPaymentRequest{PaymentStatus: "Paid"}, &order))
	assert.Equal(t, models.OrderPaymentPaid, order.PaymentStatus)

	var orders []models.Order
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/orders?customerId="+customer.String(), nil, &orders))
	assert.Len(t, orders, 1)
}

func TestStatusFor(t *testing.T) {
	status, code := controller.StatusFor(fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal", code)

	status, code = controller.StatusFor(models.ErrTimeout)
	assert.Equal(t, http.StatusGatewayTimeout, status)
	assert.Equal(t, "Timeout", code)
}
