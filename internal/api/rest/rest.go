package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/ascribe/spool-engine/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Capability queries (requires authentication)
		v1.GET("/capabilities/pieces/:piece_id", middleware.Auth(authCfg), handler.GetCapabilities)
		v1.GET("/capabilities/users/:user_id/pieces", middleware.Auth(authCfg), handler.ListPiecesByCapability)
		v1.GET("/capabilities/users/:user_id/editions", middleware.Auth(authCfg), handler.ListEditionsByCapability)

		// Registration (requires authentication)
		v1.POST("/pieces", middleware.Auth(authCfg), handler.RegisterPiece)
		v1.POST("/pieces/:piece_id/editions", middleware.Auth(authCfg), handler.RegisterEditions)

		// Ownership actions (requires authentication). Edition-level and
		// piece-level variants of loan and share share an endpoint; the
		// presence of edition_id selects the level.
		ownerships := v1.Group("/ownerships", middleware.Auth(authCfg))
		{
			ownerships.POST("/transfer", handler.Transfer)
			ownerships.POST("/transfer/withdraw", handler.WithdrawTransfer)

			ownerships.POST("/consign", handler.Consign)
			ownerships.POST("/consign/confirm", handler.ConfirmConsign)
			ownerships.POST("/consign/deny", handler.DenyConsign)
			ownerships.POST("/consign/withdraw", handler.WithdrawConsign)
			ownerships.POST("/unconsign/request", handler.RequestUnconsign)
			ownerships.POST("/unconsign", handler.Unconsign)

			ownerships.POST("/loan", handler.Loan)
			ownerships.POST("/loan/confirm", handler.ConfirmLoan)
			ownerships.POST("/loan/deny", handler.DenyLoan)

			ownerships.POST("/share", handler.Share)
			ownerships.POST("/unshare", handler.Unshare)
		}

		// Inbound chain watcher events (HMAC-verified, no bearer auth)
		v1.POST("/webhooks/blockchain", handler.BlockchainWebhook)
	}
}
