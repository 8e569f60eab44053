package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	enums "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/webhook"
	"github.com/ascribe/spool-engine/internal/workflows"
)

const (
	headerSignature = "X-Signature"
	headerTimestamp = "X-Timestamp"
	headerEventID   = "X-Event-Id"
)

// BlockchainWebhook ingests transaction events pushed by the chain watcher.
// Delivery is at least once; OnConfirmation's edge-triggered transition makes
// redelivery harmless, so a replayed event acknowledges as unprocessed.
func (h *handler) BlockchainWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "Failed to read request body")
		return
	}

	eventID := c.GetHeader(headerEventID)
	timestamp, err := strconv.ParseInt(c.GetHeader(headerTimestamp), 10, 64)
	if err != nil {
		respondWithError(c, http.StatusUnauthorized, errCodeUnauthorized, "Missing or malformed timestamp header")
		return
	}

	if err := webhook.Verify(h.webhookSecret, c.GetHeader(headerSignature), timestamp, eventID, body, time.Now()); err != nil {
		logger.Warn("Rejected webhook delivery",
			zap.Error(err),
			zap.String("eventID", eventID),
		)
		respondWithError(c, http.StatusUnauthorized, errCodeUnauthorized, "Invalid webhook signature")
		return
	}

	var event webhook.Event
	if err := json.Unmarshal(body, &event); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid event payload: %v", err))
		return
	}

	switch event.EventType {
	case webhook.EventTypeTransaction:
		processed, err := h.handleTransactionEvent(c, &event)
		if err != nil {
			respondInternalError(c, err, "Failed to process transaction event",
				zap.String("txHash", event.Data.Hash),
			)
			return
		}
		c.JSON(http.StatusOK, WebhookAckResponse{EventID: eventID, Processed: processed})

	case webhook.EventTypeBlock:
		// Block events carry no per-transaction state; the poll loop and the
		// sweeper own confirmation sweeps.
		c.JSON(http.StatusOK, WebhookAckResponse{EventID: eventID, Processed: false})

	default:
		respondValidationError(c, fmt.Sprintf("Unknown event type %q", event.EventType))
	}
}

// handleTransactionEvent applies one confirmation observation. Negative
// confirmation counts mean the transaction was displaced by a conflicting
// spend.
func (h *handler) handleTransactionEvent(c *gin.Context, event *webhook.Event) (bool, error) {
	ctx := c.Request.Context()

	tx, err := h.store.GetBitcoinTransactionByHash(ctx, event.Data.Hash)
	if err != nil {
		return false, err
	}
	if tx == nil {
		// Not ours. The watcher feed is wider than the engine's wallet.
		return false, nil
	}

	if event.Data.Confirmations < 0 {
		if err := h.broadcaster.HandleRejection(ctx, tx.ID); err != nil {
			return false, err
		}
		return true, nil
	}

	result, err := h.broadcaster.OnConfirmation(ctx, event.Data.Hash, event.Data.Confirmations)
	if err != nil {
		return false, err
	}
	if !result.Transitioned {
		return false, nil
	}

	if result.DependentTxID != nil {
		h.startDependentBroadcast(c, *result.DependentTxID)
	}
	return true, nil
}

// startDependentBroadcast hands a confirmed transaction's continuation to
// the worker. The deterministic id makes the start idempotent against the
// reconcile sweep racing the same transaction; failure is tolerable because
// the sweep will pick it up.
func (h *handler) startDependentBroadcast(c *gin.Context, txID uint64) {
	options := client.StartWorkflowOptions{
		ID:                    workflows.BroadcastWorkflowID(txID),
		TaskQueue:             h.taskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}

	if _, err := h.orchestrator.ExecuteWorkflow(c.Request.Context(), options, "BroadcastTransaction", txID, ""); err != nil {
		logger.Warn("Failed to start dependent broadcast workflow",
			zap.Error(err),
			zap.Uint64("txID", txID),
		)
	}
}
