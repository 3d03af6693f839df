package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/LV27VELASCO/ApiFamaYa/internal/config"
	"github.com/LV27VELASCO/ApiFamaYa/internal/infra/httpclient"
	"github.com/LV27VELASCO/ApiFamaYa/internal/infra/smm"
	"github.com/LV27VELASCO/ApiFamaYa/internal/infra/stripeinfra"
	pgrepo "github.com/LV27VELASCO/ApiFamaYa/internal/repo/postgres"
	redrepo "github.com/LV27VELASCO/ApiFamaYa/internal/repo/redis"
	authsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/auth"
	catalogsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/catalog"
	checkoutsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/checkout"
	fulfillsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/fulfillment"
	orderssvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/orders"
	ratesvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/rate"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rateRepo := redrepo.NewRateRepo(redisClient)
	catalogRepo := pgrepo.NewCatalogRepo(pool)
	orderRepo := pgrepo.NewOrderRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := authsvc.NewService(jwtManager)
	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.TokenPerMinute, cfg.Limits.TokenPerHour)
	catalogService := catalogsvc.NewService(catalogRepo)

	var stripeClient *stripeinfra.Client
	if c, err := stripeinfra.NewClient(stripeinfra.Config{
		SecretKey:  cfg.Stripe.SecretKey,
		SuccessURL: cfg.Stripe.SuccessURL,
		CancelURL:  cfg.Stripe.CancelURL,
		Currency:   cfg.Stripe.Currency,
	}); err != nil {
		log.Warn("stripe init failed, checkout disabled", zap.Error(err))
	} else {
		stripeClient = c
	}

	smmClient := smm.NewClient(httpclient.New(cfg.SMM.Timeout), cfg.SMM.APIURL, cfg.SMM.APIKey)

	var sessionCreator checkoutsvc.SessionCreator
	if stripeClient != nil {
		sessionCreator = stripeClient
	}
	checkoutService := checkoutsvc.NewService(catalogRepo, sessionCreator, log)
	fulfillmentService := fulfillsvc.NewService(smmClient, orderRepo, log)
	ordersService := orderssvc.NewService(orderRepo, smmClient, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:        authService,
		CatalogService:     catalogService,
		CheckoutService:    checkoutService,
		FulfillmentService: fulfillmentService,
		OrdersService:      ordersService,
		RateLimiter:        rateLimiter,
		WebhookSecret:      cfg.Stripe.WebhookSecret,
		Logger:             log,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
