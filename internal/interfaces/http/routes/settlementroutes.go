package routes

import (
	"github.com/gin-gonic/gin"

	"grapplay/internal/interfaces/http/handlers"
)

// SettlementRouteConfig holds dependencies for settlement routes.
type SettlementRouteConfig struct {
	SettlementHandler *handlers.SettlementHandler
	WebhookHandler    *handlers.WebhookHandler
	RateLimit         gin.HandlerFunc
}

// SetupSettlementRoutes configures settlement and webhook routes.
func SetupSettlementRoutes(engine *gin.Engine, cfg *SettlementRouteConfig) {
	settlements := engine.Group("/settlements")
	{
		if cfg.RateLimit != nil {
			settlements.POST("/verify", cfg.RateLimit, cfg.SettlementHandler.Settle)
		} else {
			settlements.POST("/verify", cfg.SettlementHandler.Settle)
		}
	}

	webhooks := engine.Group("/webhooks")
	{
		webhooks.POST("/portone", cfg.WebhookHandler.HandleRenewal)
	}
}
