package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	enums "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/ownership"
	"github.com/ascribe/spool-engine/internal/store/schema"
	"github.com/ascribe/spool-engine/internal/workflows"
)

// startBroadcast kicks off the workflow that anchors an event on chain. The
// workflow id is derived from the event, so a retried API call lands on the
// already-running workflow instead of double-broadcasting.
func (h *handler) startBroadcast(c *gin.Context, event *schema.Ownership, password string) error {
	options := client.StartWorkflowOptions{
		ID:                    workflows.OwnershipWorkflowID(event.ID),
		TaskQueue:             h.taskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
	}

	_, err := h.orchestrator.ExecuteWorkflow(c.Request.Context(), options, "BroadcastOwnershipTx", event.ID, password)
	if err != nil {
		logger.Error(fmt.Errorf("failed to start broadcast workflow"),
			zap.Error(err),
			zap.Uint64("ownershipID", event.ID),
		)
	}
	return err
}

// respondEvent looks up the actor's post-action capability snapshot and
// writes the event response. Snapshot failures degrade to an empty map
// rather than failing an action that already committed.
func (h *handler) respondEvent(c *gin.Context, status int, event *schema.Ownership, actorID int64) {
	capabilities, err := h.ownership.CapabilitySnapshot(c.Request.Context(), actorID, event.PieceID, event.EditionID)
	if err != nil {
		logger.Warn("Failed to load capability snapshot",
			zap.Error(err),
			zap.Int64("userID", actorID),
			zap.Uint64("pieceID", event.PieceID),
		)
		capabilities = map[string]bool{}
	}
	c.JSON(status, newOwnershipEventResponse(event, capabilities))
}

// RegisterPiece registers a new piece and anchors it on chain
func (h *handler) RegisterPiece(c *gin.Context) {
	var req RegisterPieceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	event, err := h.ownership.RegisterPiece(c.Request.Context(), ownership.RegisterPieceParams{
		RegistreeID:         req.RegistreeID,
		Title:               req.Title,
		ArtistName:          req.ArtistName,
		HashAddress:         req.HashAddress,
		HashMetadataAddress: req.HashMetadataAddress,
		Password:            req.Password,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.startBroadcast(c, event, req.Password); err != nil {
		respondInternalError(c, err, "Failed to schedule broadcast")
		return
	}

	h.respondEvent(c, http.StatusCreated, event, req.RegistreeID)
}

// RegisterEditions declares the number of editions for a piece
func (h *handler) RegisterEditions(c *gin.Context) {
	pieceID, err := strconv.ParseUint(c.Param("piece_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid piece id")
		return
	}

	var req RegisterEditionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.NumEditions < 1 {
		respondValidationError(c, "num_editions must be at least 1")
		return
	}

	event, err := h.ownership.RegisterEditions(c.Request.Context(), pieceID, req.ActorID, req.NumEditions, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.startBroadcast(c, event, req.Password); err != nil {
		respondInternalError(c, err, "Failed to schedule broadcast")
		return
	}

	h.respondEvent(c, http.StatusCreated, event, req.ActorID)
}

// Transfer moves an edition to a new owner
func (h *handler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	event, err := h.ownership.Transfer(c.Request.Context(), ownership.TransferParams{
		EditionID:      req.EditionID,
		ActorID:        req.ActorID,
		RecipientID:    req.RecipientID,
		RecipientEmail: req.RecipientEmail,
		Password:       req.Password,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.startBroadcast(c, event, req.Password); err != nil {
		respondInternalError(c, err, "Failed to schedule broadcast")
		return
	}

	h.respondEvent(c, http.StatusCreated, event, req.ActorID)
}

// WithdrawTransfer cancels a pending email-invite transfer
func (h *handler) WithdrawTransfer(c *gin.Context) {
	var req EventActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	event, err := h.ownership.WithdrawTransfer(c.Request.Context(), req.OwnershipID, req.ActorID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondEvent(c, http.StatusOK, event, req.ActorID)
}

// Consign offers custody of an edition to a consignee. The transaction is
// not broadcast until the consignee confirms.
func (h *handler) Consign(c *gin.Context) {
	var req ConsignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	event, err := h.ownership.Consign(c.Request.Context(), req.EditionID, req.ActorID, req.ConsigneeID, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondEvent(c, http.StatusCreated, event, req.ActorID)
}

// ConfirmConsign accepts a pending consignment and broadcasts it
func (h *handler) ConfirmConsign(c *gin.Context) {
	var req EventActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.Password == "" {
		respondValidationError(c, "password is required")
		return
	}

	event, err := h.ownership.ConfirmConsign(c.Request.Context(), req.OwnershipID, req.ActorID, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.startBroadcast(c, event, req.Password); err != nil {
		respondInternalError(c, err, "Failed to schedule broadcast")
		return
	}

	h.respondEvent(c, http.StatusOK, event, req.ActorID)
}

// DenyConsign rejects a pending consignment
func (h *handler) DenyConsign(c *gin.Context) {
	var req EventActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	event, err := h.ownership.DenyConsign(c.Request.Context(), req.OwnershipID, req.ActorID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondEvent(c, http.StatusOK, event, req.ActorID)
}

// WithdrawConsign cancels a pending consignment before the consignee answers
func (h *handler) WithdrawConsign(c *gin.Context) {
	var req EventActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	event, err := h.ownership.WithdrawConsign(c.Request.Context(), req.OwnershipID, req.ActorID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondEvent(c, http.StatusOK, event, req.ActorID)
}

// RequestUnconsign is the owner asking the consignee to return custody.
// The request itself never touches the chain.
func (h *handler) RequestUnconsign(c *gin.Context) {
	var req EditionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	event, err := h.ownership.RequestUnconsign(c.Request.Context(), req.EditionID, req.ActorID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondEvent(c, http.StatusCreated, event, req.ActorID)
}

// Unconsign is the consignee returning custody to the owner
func (h *handler) Unconsign(c *gin.Context) {
	var req EditionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.Password == "" {
		respondValidationError(c, "password is required")
		return
	}

	event, err := h.ownership.Unconsign(c.Request.Context(), req.EditionID, req.ActorID, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.startBroadcast(c, event, req.Password); err != nil {
		respondInternalError(c, err, "Failed to schedule broadcast")
		return
	}

	h.respondEvent(c, http.StatusOK, event, req.ActorID)
}

// Loan offers an edition or, with edition_id unset, the whole piece on loan
func (h *handler) Loan(c *gin.Context) {
	var req LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	event, err := h.ownership.Loan(c.Request.Context(), ownership.LoanParams{
		PieceID:   req.PieceID,
		EditionID: req.EditionID,
		ActorID:   req.ActorID,
		LoaneeID:  req.LoaneeID,
		Range:     domain.DateRange{From: req.StartsAt, To: req.EndsAt},
		Password:  req.Password,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondEvent(c, http.StatusCreated, event, req.ActorID)
}

// ConfirmLoan accepts a pending loan and broadcasts it
func (h *handler) ConfirmLoan(c *gin.Context) {
	var req EventActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.Password == "" {
		respondValidationError(c, "password is required")
		return
	}

	event, err := h.ownership.ConfirmLoan(c.Request.Context(), req.OwnershipID, req.ActorID, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.startBroadcast(c, event, req.Password); err != nil {
		respondInternalError(c, err, "Failed to schedule broadcast")
		return
	}

	h.respondEvent(c, http.StatusOK, event, req.ActorID)
}

// DenyLoan rejects a pending loan
func (h *handler) DenyLoan(c *gin.Context) {
	var req EventActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	event, err := h.ownership.DenyLoan(c.Request.Context(), req.OwnershipID, req.ActorID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondEvent(c, http.StatusOK, event, req.ActorID)
}

// Share grants a sharee read access to an edition or, with edition_id
// unset, a whole piece. Shares never touch the chain.
func (h *handler) Share(c *gin.Context) {
	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	var event *schema.Ownership
	var err error
	if req.EditionID != nil {
		event, err = h.ownership.Share(c.Request.Context(), *req.EditionID, req.ActorID, req.ShareeID)
	} else {
		event, err = h.ownership.SharePiece(c.Request.Context(), req.PieceID, req.ActorID, req.ShareeID)
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondEvent(c, http.StatusCreated, event, req.ActorID)
}

// Unshare removes a shared edition or piece from the actor's own collection
func (h *handler) Unshare(c *gin.Context) {
	var req UnshareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	var err error
	if req.EditionID != nil {
		err = h.ownership.Unshare(c.Request.Context(), *req.EditionID, req.ActorID)
	} else {
		err = h.ownership.UnsharePiece(c.Request.Context(), req.PieceID, req.ActorID)
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
