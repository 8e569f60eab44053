package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ascribe/spool-engine/internal/broadcaster"
	"github.com/ascribe/spool-engine/internal/ownership"
	"github.com/ascribe/spool-engine/internal/providers/temporal"
	"github.com/ascribe/spool-engine/internal/store"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// RegisterPiece registers a new piece and anchors it on chain
	// POST /api/v1/pieces
	RegisterPiece(c *gin.Context)

	// RegisterEditions declares the number of editions for a piece
	// POST /api/v1/pieces/:piece_id/editions
	RegisterEditions(c *gin.Context)

	// Transfer moves an edition to a new owner
	// POST /api/v1/ownerships/transfer
	Transfer(c *gin.Context)

	// WithdrawTransfer cancels a pending email-invite transfer
	// POST /api/v1/ownerships/transfer/withdraw
	WithdrawTransfer(c *gin.Context)

	// Consign offers custody of an edition to a consignee
	// POST /api/v1/ownerships/consign
	Consign(c *gin.Context)

	// ConfirmConsign accepts a pending consignment, signing as the owner's
	// delegate
	// POST /api/v1/ownerships/consign/confirm
	ConfirmConsign(c *gin.Context)

	// DenyConsign rejects a pending consignment
	// POST /api/v1/ownerships/consign/deny
	DenyConsign(c *gin.Context)

	// WithdrawConsign cancels a pending consignment before the consignee
	// answers
	// POST /api/v1/ownerships/consign/withdraw
	WithdrawConsign(c *gin.Context)

	// RequestUnconsign is the owner asking the consignee to return custody
	// POST /api/v1/ownerships/unconsign/request
	RequestUnconsign(c *gin.Context)

	// Unconsign is the consignee returning custody to the owner
	// POST /api/v1/ownerships/unconsign
	Unconsign(c *gin.Context)

	// Loan offers an edition or piece on loan for a date range
	// POST /api/v1/ownerships/loan
	Loan(c *gin.Context)

	// ConfirmLoan accepts a pending loan
	// POST /api/v1/ownerships/loan/confirm
	ConfirmLoan(c *gin.Context)

	// DenyLoan rejects a pending loan
	// POST /api/v1/ownerships/loan/deny
	DenyLoan(c *gin.Context)

	// Share grants read access to an edition or piece
	// POST /api/v1/ownerships/share
	Share(c *gin.Context)

	// Unshare removes a shared edition or piece from the actor's collection
	// POST /api/v1/ownerships/unshare
	Unshare(c *gin.Context)

	// GetCapabilities returns a user's capability snapshot for a piece or
	// edition
	// GET /api/v1/capabilities/pieces/:piece_id?user_id=<id>&edition_id=<id>
	GetCapabilities(c *gin.Context)

	// ListPiecesByCapability lists piece ids where the user holds flags
	// GET /api/v1/capabilities/users/:user_id/pieces?flags=<f1>,<f2>
	ListPiecesByCapability(c *gin.Context)

	// ListEditionsByCapability lists edition ids where the user holds flags
	// GET /api/v1/capabilities/users/:user_id/editions?flags=<f1>,<f2>
	ListEditionsByCapability(c *gin.Context)

	// BlockchainWebhook ingests HMAC-signed transaction confirmation events
	// POST /api/v1/webhooks/blockchain
	BlockchainWebhook(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	ownership     *ownership.Service
	store         store.Store
	broadcaster   *broadcaster.Broadcaster
	orchestrator  temporal.TemporalOrchestrator
	taskQueue     string
	webhookSecret string
}

// NewHandler creates a new REST API handler
func NewHandler(
	svc *ownership.Service,
	st store.Store,
	bc *broadcaster.Broadcaster,
	orchestrator temporal.TemporalOrchestrator,
	taskQueue string,
	webhookSecret string,
) Handler {
	return &handler{
		ownership:     svc,
		store:         st,
		broadcaster:   bc,
		orchestrator:  orchestrator,
		taskQueue:     taskQueue,
		webhookSecret: webhookSecret,
	}
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthCheckResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}
