package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// ReconcileTransactions restores broadcast progress after a restart. Every
// unconfirmed or pending transaction gets a broadcast workflow under its
// deterministic id; transactions that already have a live workflow are
// skipped by the duplicate-rejection policy.
//
// Recovered submissions run without a password: custody and funding-signed
// transactions re-push on their own, while password-bound ones stay pending
// until the user retries the action.
func (w *workerOwnership) ReconcileTransactions(ctx workflow.Context) error {
	logger.InfoWf(ctx, "Starting transaction reconciliation")

	listOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	listCtx := workflow.WithActivityOptions(ctx, listOptions)

	// Refresh the funding pool from the node before re-submitting anything.
	importOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	importCtx := workflow.WithActivityOptions(ctx, importOptions)
	var imported int
	if err := workflow.ExecuteActivity(importCtx, w.executor.ImportFundingUnspents).Get(importCtx, &imported); err != nil {
		logger.WarnWf(ctx, "Funding unspent import failed",
			zap.Error(err),
		)
	}

	started := 0
	for _, status := range []schema.TxStatus{schema.TxStatusUnconfirmed, schema.TxStatusPending} {
		var snapshots []TxSnapshot
		if err := workflow.ExecuteActivity(listCtx, w.executor.ListTransactionsByStatus, status).Get(listCtx, &snapshots); err != nil {
			logger.ErrorWf(ctx,
				fmt.Errorf("failed to list transactions"),
				zap.Error(err),
				zap.String("status", string(status)),
			)
			return err
		}

		for _, snapshot := range snapshots {
			childOptions := workflow.ChildWorkflowOptions{
				WorkflowID:            BroadcastWorkflowID(snapshot.ID),
				TaskQueue:             w.config.OwnershipTaskQueue,
				WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
				ParentClosePolicy:     enums.PARENT_CLOSE_POLICY_ABANDON, // Fire and forget
			}
			childCtx := workflow.WithChildOptions(ctx, childOptions)

			future := workflow.ExecuteChildWorkflow(childCtx, w.BroadcastTransaction, snapshot.ID, "")
			if err := future.GetChildWorkflowExecution().Get(childCtx, nil); err != nil {
				// Already running or already completed under this id.
				logger.DebugWf(ctx, "Broadcast workflow not restarted",
					zap.Uint64("txID", snapshot.ID),
					zap.Error(err),
				)
				continue
			}
			started++
		}
	}

	logger.InfoWf(ctx, "Transaction reconciliation finished",
		zap.Int("started", started),
	)
	return nil
}
