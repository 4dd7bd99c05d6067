package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/modelzoo-market/mz-indexer/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Catalog endpoints (public read access)
		v1.GET("/models", handler.ListModels)
		v1.GET("/models/:chain/:asset_id", handler.GetModel)

		// Cache refresh triggers (requires authentication)
		v1.POST("/models/:chain/:asset_id/refresh", middleware.Auth(authCfg), handler.RefreshModel)
		v1.POST("/models/:chain/:asset_id/resync", middleware.Auth(authCfg), handler.ResyncModel)
		v1.POST("/models/resync", middleware.Auth(authCfg), handler.ResyncModels)

		// Entitlement resolution (public read access; answers come from the
		// ledger, never from the cache)
		v1.GET("/entitlements/:chain/:asset_id", handler.GetEntitlement)

		// Slug resolution (public read access)
		v1.GET("/slugs/:owner/:slug", handler.ResolveSlug)

		// Settlement endpoints. Mutations require a JWT whose subject is the
		// caller's ledger address.
		settlement := v1.Group("/settlement")
		{
			settlement.GET("/splits/:asset_id/quote", handler.QuoteSplit)
			settlement.GET("/balances/:address", handler.GetBalance)

			authed := settlement.Group("", middleware.Auth(authCfg))
			{
				authed.POST("/splits", handler.ConfigureSplit)
				authed.POST("/distribute", handler.DistributePayment)
				authed.POST("/withdraw", handler.Withdraw)
				authed.POST("/marketplace-wallet/request", handler.RequestMarketplaceWallet)
				authed.POST("/marketplace-wallet/execute", handler.ExecuteMarketplaceWallet)
				authed.POST("/marketplace-wallet/cancel", handler.CancelMarketplaceWallet)
				authed.POST("/payout-wallet/request", handler.RequestPayoutWallet)
				authed.POST("/payout-wallet/execute", handler.ExecutePayoutWallet)
				authed.POST("/authorized-callers", handler.SetAuthorizedCaller)
				authed.POST("/pause", handler.Pause)
				authed.POST("/unpause", handler.Unpause)
			}
		}
	}
}
