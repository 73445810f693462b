package router

import (
	"net/http"
	"strings"

	"swiftcart/internal/handler"
	"swiftcart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	orderHandler *handler.OrderHandler,
	addressHandler *handler.AddressHandler,
	paymentHandler *handler.PaymentHandler,
	webhookHandler *handler.WebhookHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product routes
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetByID(w, r)
			return
		}
		productHandler.GetAll(w, r)
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Cart routes
	mux.HandleFunc("/api/cart", cartHandler.Cart)
	mux.HandleFunc("/api/cart/items", cartHandler.AddItem)
	mux.HandleFunc("/api/cart/items/", cartHandler.Item)

	// Checkout routes
	mux.HandleFunc("/api/checkout/orders", checkoutHandler.CreateOrder)
	mux.HandleFunc("/api/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/intention") {
			checkoutHandler.CreateIntention(w, r)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	})
	mux.HandleFunc("/api/checkout/confirm", checkoutHandler.ConfirmPayment)
	mux.HandleFunc("/api/checkout/redirect", checkoutHandler.Redirect)

	// Order routes
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/" {
			orderHandler.List(w, r)
			return
		}
		orderHandler.ByID(w, r)
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Address routes
	mux.HandleFunc("/api/addresses", addressHandler.Addresses)
	mux.HandleFunc("/api/addresses/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/default") {
			addressHandler.SetDefault(w, r)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	})

	// Payment routes
	mux.HandleFunc("/api/payment/methods", paymentHandler.Methods)
	mux.HandleFunc("/api/payment/webhook", webhookHandler.Handle)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
