package router

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"carmod-configurator/app/controller"
)

type Controllers struct {
	Catalog       *controller.CatalogController
	Compatibility *controller.CompatibilityController
	Configuration *controller.ConfigurationController
	Booking       *controller.BookingController
	Order         *controller.OrderController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// NewRouter registers every route and wraps them with recovery and request logging
func NewRouter(c *Controllers) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)

	// Catalog routes
	catalog := r.PathPrefix("/catalog").Subrouter()
	catalog.HandleFunc("/makes", c.Catalog.CreateMake).Methods(http.MethodPost)
	catalog.HandleFunc("/makes", c.Catalog.ListMakes).Methods(http.MethodGet)
	catalog.HandleFunc("/makes/{id}", c.Catalog.GetMake).Methods(http.MethodGet)
	catalog.HandleFunc("/makes/{id}", c.Catalog.DeleteMake).Methods(http.MethodDelete)
	catalog.HandleFunc("/makes/{id}/models", c.Catalog.ListModelsByMake).Methods(http.MethodGet)

	catalog.HandleFunc("/models", c.Catalog.CreateModel).Methods(http.MethodPost)
	catalog.HandleFunc("/models/{id}", c.Catalog.GetModel).Methods(http.MethodGet)
	catalog.HandleFunc("/models/{id}", c.Catalog.DeleteModel).Methods(http.MethodDelete)
	catalog.HandleFunc("/models/{id}/years", c.Catalog.ListYearsByModel).Methods(http.MethodGet)

	catalog.HandleFunc("/years", c.Catalog.CreateYear).Methods(http.MethodPost)
	catalog.HandleFunc("/years/{id}", c.Catalog.GetYear).Methods(http.MethodGet)
	catalog.HandleFunc("/years/{id}", c.Catalog.DeleteYear).Methods(http.MethodDelete)
	catalog.HandleFunc("/years/{id}/offerings", c.Catalog.SetYearOfferings).Methods(http.MethodPut)

	catalog.HandleFunc("/options", c.Catalog.CreateOption).Methods(http.MethodPost)
	catalog.HandleFunc("/options", c.Catalog.ListOptions).Methods(http.MethodGet)
	catalog.HandleFunc("/options/{id}", c.Catalog.GetOption).Methods(http.MethodGet)
	catalog.HandleFunc("/options/{id}", c.Catalog.DeleteOption).Methods(http.MethodDelete)

	catalog.HandleFunc("/packages", c.Catalog.CreatePackage).Methods(http.MethodPost)
	catalog.HandleFunc("/packages", c.Catalog.ListPackages).Methods(http.MethodGet)
	catalog.HandleFunc("/packages/{id}", c.Catalog.GetPackage).Methods(http.MethodGet)
	catalog.HandleFunc("/packages/{id}", c.Catalog.DeletePackage).Methods(http.MethodDelete)

	catalog.HandleFunc("/stickers", c.Catalog.CreateSticker).Methods(http.MethodPost)
	catalog.HandleFunc("/stickers", c.Catalog.ListStickers).Methods(http.MethodGet)
	catalog.HandleFunc("/stickers/{id}", c.Catalog.GetSticker).Methods(http.MethodGet)
	catalog.HandleFunc("/stickers/{id}", c.Catalog.DeleteSticker).Methods(http.MethodDelete)

	catalog.HandleFunc("/products", c.Catalog.CreateProduct).Methods(http.MethodPost)
	catalog.HandleFunc("/products", c.Catalog.ListProducts).Methods(http.MethodGet)
	catalog.HandleFunc("/products/{id}", c.Catalog.GetProduct).Methods(http.MethodGet)
	catalog.HandleFunc("/products/{id}", c.Catalog.DeleteProduct).Methods(http.MethodDelete)
	catalog.HandleFunc("/products/{id}/price", c.Catalog.UpdateProductPrice).Methods(http.MethodPut)

	// Compatibility routes (fixed paths before {id})
	r.HandleFunc("/compatibility", c.Compatibility.AddCompatibility).Methods(http.MethodPost)
	r.HandleFunc("/compatibility", c.Compatibility.List).Methods(http.MethodGet)
	r.HandleFunc("/compatibility/check", c.Compatibility.Check).Methods(http.MethodGet)
	r.HandleFunc("/compatibility/years", c.Compatibility.Years).Methods(http.MethodGet)
	r.HandleFunc("/compatibility/products", c.Compatibility.Products).Methods(http.MethodGet)
	r.HandleFunc("/compatibility/{id}", c.Compatibility.Delete).Methods(http.MethodDelete)

	// Configuration routes
	r.HandleFunc("/configurations", c.Configuration.Create).Methods(http.MethodPost)
	r.HandleFunc("/configurations", c.Configuration.List).Methods(http.MethodGet)
	r.HandleFunc("/configurations/{id}", c.Configuration.Get).Methods(http.MethodGet)
	r.HandleFunc("/configurations/{id}", c.Configuration.Update).Methods(http.MethodPut)
	r.HandleFunc("/configurations/{id}", c.Configuration.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/configurations/{id}/options", c.Configuration.SelectOption).Methods(http.MethodPut)
	r.HandleFunc("/configurations/{id}/options/{slot}", c.Configuration.ClearSlot).Methods(http.MethodDelete)
	r.HandleFunc("/configurations/{id}/cancel", c.Configuration.Cancel).Methods(http.MethodPost)

	// Booking routes
	r.HandleFunc("/bookings", c.Booking.Create).Methods(http.MethodPost)
	r.HandleFunc("/bookings", c.Booking.List).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{id}", c.Booking.Get).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{id}", c.Booking.Update).Methods(http.MethodPut)

	// Order routes
	r.HandleFunc("/orders", c.Order.Create).Methods(http.MethodPost)
	r.HandleFunc("/orders", c.Order.List).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", c.Order.Get).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/status", c.Order.UpdateStatus).Methods(http.MethodPut)
	r.HandleFunc("/orders/{id}/payment", c.Order.UpdatePayment).Methods(http.MethodPut)

	r.Use(recoverMiddleware, controller.LimitBody)
	return logMiddleware(r)
}

// statusRecorder remembers the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL.String(),
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"remoteAddr": r.RemoteAddr,
		}).Info("🌐 request")
	})
}

// recoverMiddleware turns a handler panic into a 500 for that request only
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				log.WithField("url", r.URL.String()).Errorf("❌ panic: %v\n%s", p, debug.Stack())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"internal error","code":"Internal"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
