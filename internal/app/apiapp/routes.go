package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/auth"
	catalogsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/catalog"
	checkoutsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/checkout"
	fulfillsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/fulfillment"
	orderssvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/orders"
	ratesvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/rate"
	"github.com/LV27VELASCO/ApiFamaYa/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService        *authsvc.Service
	CatalogService     *catalogsvc.Service
	CheckoutService    *checkoutsvc.Service
	FulfillmentService *fulfillsvc.Service
	OrdersService      *orderssvc.Service
	RateLimiter        *ratesvc.Limiter
	WebhookSecret      string
	Logger             *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	catalogHandler := handlers.NewCatalogHandler(deps.CatalogService)
	checkoutHandler := handlers.NewCheckoutHandler(deps.CheckoutService)
	webhookHandler := handlers.NewWebhookHandler(deps.FulfillmentService, deps.WebhookSecret, deps.Logger)
	ordersHandler := handlers.NewOrdersHandler(deps.OrdersService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	rateMW := RateLimitMiddleware(deps.RateLimiter, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/api", func(r chi.Router) {
		r.With(rateMW).Get("/token", authHandler.Token)

		r.With(authMW).Get("/services/{slug}", catalogHandler.ServiceBySlug)
		r.With(authMW).Get("/all-services", catalogHandler.AllServices)

		// Checkout is reachable without a token so an expired session
		// does not lose the cart at the payment step.
		r.Post("/checkout-session", checkoutHandler.Create)

		r.With(authMW).Get("/get-orders", ordersHandler.BySession)
		r.With(authMW).Get("/consult-order", ordersHandler.Consult)
	})

	r.Post("/webhook", webhookHandler.Stripe)
}
