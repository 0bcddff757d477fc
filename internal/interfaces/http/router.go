package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"grapplay/internal/application/settlement/usecases"
	"grapplay/internal/domain/subscription"
	"grapplay/internal/infrastructure/config"
	"grapplay/internal/infrastructure/gateway"
	"grapplay/internal/infrastructure/ratelimit"
	"grapplay/internal/infrastructure/repository"
	"grapplay/internal/interfaces/http/handlers"
	"grapplay/internal/interfaces/http/middleware"
	"grapplay/internal/interfaces/http/routes"
	shareddb "grapplay/internal/shared/db"
	"grapplay/internal/shared/logger"
)

// Router wires the settlement engine's HTTP surface.
type Router struct {
	engine            *gin.Engine
	settlementHandler *handlers.SettlementHandler
	webhookHandler    *handlers.WebhookHandler
	healthHandler     *handlers.HealthHandler
	rateLimit         gin.HandlerFunc
	log               logger.Interface
}

// NewRouter builds the full dependency graph: repositories over the shared
// gorm handle, the gateway client, the settlement usecases, and the
// handlers on top. redisClient may be nil; rate limiting is skipped then.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()

	paymentRepo := repository.NewPaymentRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	entitlementStore := repository.NewEntitlementStore(db)
	ledgerRepo := repository.NewRevenueLedgerRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	userFlagStore := repository.NewUserFlagStore(db)
	failureRepo := repository.NewScheduleFailureRepository(db)
	notificationStore := repository.NewNotificationStore(db)

	gatewayClient := gateway.NewPortOneClient(&cfg.Gateway, log)

	verifier, err := gateway.NewWebhookVerifier(cfg.Gateway.WebhookSecret)
	if err != nil {
		return nil, err
	}

	plans := make([]subscription.Plan, 0, len(cfg.Plans))
	for _, p := range cfg.Plans {
		plans = append(plans, subscription.Plan{
			ID:          p.ID,
			Tier:        subscription.Tier(p.Tier),
			Interval:    subscription.Interval(p.Interval),
			AmountMinor: p.AmountMinor,
		})
	}
	planCatalog := subscription.NewStaticPlanCatalog(plans)

	currency := cfg.Gateway.Currency

	resolveUC := usecases.NewResolvePaymentUseCase(gatewayClient, currency, log)
	fulfillUC := usecases.NewFulfillEntitlementsUseCase(entitlementStore, catalogRepo, log)
	recognizeUC := usecases.NewRecognizeRevenueUseCase(ledgerRepo, catalogRepo, cfg.Revenue.PlatformFeeRate, log)
	activateUC := usecases.NewActivateSubscriptionUseCase(subscriptionRepo, userFlagStore, planCatalog, gatewayClient, currency, log)
	activateUC.SetScheduleFailureRecorder(failureRepo)

	settleUC := usecases.NewSettlePurchaseUseCase(paymentRepo, resolveUC, fulfillUC, activateUC, recognizeUC, log)

	webhookUC := usecases.NewProcessRenewalWebhookUseCase(
		subscriptionRepo, userFlagStore, paymentRepo, ledgerRepo, activateUC, currency, log,
	)
	webhookUC.SetPaymentFailureNotifier(notificationStore)
	webhookUC.SetTransactionRunner(shareddb.NewTransactionManager(db))

	var rateLimitMW gin.HandlerFunc
	if cfg.RateLimit.Enabled && redisClient != nil {
		limiter := ratelimit.NewRedisRateLimiter(redisClient)
		rateLimitMW = middleware.RateLimit(limiter, ratelimit.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			RequestsPerHour:   cfg.RateLimit.RequestsPerHour,
		})
	}

	return &Router{
		engine:            engine,
		settlementHandler: handlers.NewSettlementHandler(settleUC, log),
		webhookHandler:    handlers.NewWebhookHandler(verifier, webhookUC, log),
		healthHandler:     handlers.NewHealthHandler(db),
		rateLimit:         rateLimitMW,
		log:               log,
	}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS())

	r.engine.GET("/health", r.healthHandler.Check)

	routes.SetupSettlementRoutes(r.engine, &routes.SettlementRouteConfig{
		SettlementHandler: r.settlementHandler,
		WebhookHandler:    r.webhookHandler,
		RateLimit:         r.rateLimit,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
