package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/broadcaster"
	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// maxPollsPerRun bounds the confirmation poll loop in a single workflow run
// so history stays small; the workflow continues as new past it
const maxPollsPerRun = 720

// BroadcastWorkflowID returns the deterministic workflow id that drives a
// transaction to confirmation. Starting a second workflow under the same id
// is rejected, so a transaction is never raced by two poll loops.
func BroadcastWorkflowID(txID uint64) string {
	return fmt.Sprintf("broadcast-tx-%d", txID)
}

// OwnershipWorkflowID returns the deterministic workflow id that anchors an
// ownership event on chain. One workflow per event, no matter how many times
// the API is asked.
func OwnershipWorkflowID(ownershipID uint64) string {
	return fmt.Sprintf("broadcast-ownership-%d", ownershipID)
}

// BroadcastOwnershipTx builds, migrates if needed, and broadcasts the
// transaction chain for an ownership event until every link confirms
func (w *workerOwnership) BroadcastOwnershipTx(ctx workflow.Context, ownershipID uint64, password string) error {
	logger.InfoWf(ctx, "Starting ownership broadcast",
		zap.Uint64("ownershipID", ownershipID),
	)

	buildOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	buildCtx := workflow.WithActivityOptions(ctx, buildOptions)

	var txID uint64
	if err := workflow.ExecuteActivity(buildCtx, w.executor.BuildTransaction, ownershipID).Get(buildCtx, &txID); err != nil {
		logger.ErrorWf(ctx,
			fmt.Errorf("failed to build transaction"),
			zap.Error(err),
			zap.Uint64("ownershipID", ownershipID),
		)
		return err
	}

	// The password may have rotated since the event's source address was
	// funded. When it did, a migrate transaction takes the head of the chain
	// and the original rides behind it as a dependent.
	if err := workflow.ExecuteActivity(buildCtx, w.executor.ReconcileSpendable, ownershipID, password).Get(buildCtx, &txID); err != nil {
		logger.ErrorWf(ctx,
			fmt.Errorf("failed to reconcile spendable address"),
			zap.Error(err),
			zap.Uint64("ownershipID", ownershipID),
		)
		return err
	}

	return w.BroadcastTransaction(ctx, txID, password)
}

// BroadcastTransaction submits a built transaction and follows its dependent
// chain to confirmation
func (w *workerOwnership) BroadcastTransaction(ctx workflow.Context, txID uint64, password string) error {
	for {
		result, err := w.broadcastOne(ctx, txID, password)
		if err != nil {
			return err
		}
		if result == nil || result.DependentTxID == nil {
			return nil
		}

		logger.InfoWf(ctx, "Continuing with dependent transaction",
			zap.Uint64("txID", txID),
			zap.Uint64("dependentTxID", *result.DependentTxID),
		)
		txID = *result.DependentTxID
	}
}

// broadcastOne drives a single transaction from pending to confirmed and
// returns the confirmation result, nil when the transaction was already
// settled before this run
func (w *workerOwnership) broadcastOne(ctx workflow.Context, txID uint64, password string) (*broadcaster.ConfirmationResult, error) {
	readOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	readCtx := workflow.WithActivityOptions(ctx, readOptions)

	var snapshot TxSnapshot
	if err := workflow.ExecuteActivity(readCtx, w.executor.GetTransactionSnapshot, txID).Get(readCtx, &snapshot); err != nil {
		return nil, err
	}

	switch snapshot.Status {
	case schema.TxStatusConfirmed, schema.TxStatusRejected:
		// Nothing left to drive. A confirmed transaction's dependent, if
		// any, has its own workflow started by the reconcile loop.
		logger.InfoWf(ctx, "Transaction already settled",
			zap.Uint64("txID", txID),
			zap.String("status", string(snapshot.Status)),
		)
		return nil, nil
	}

	txHash := snapshot.TxHash
	if snapshot.Status == schema.TxStatusPending {
		submitOptions := workflow.ActivityOptions{
			StartToCloseTimeout: 2 * time.Minute,
			RetryPolicy: &temporal.RetryPolicy{
				InitialInterval:    w.config.SubmitInitialInterval,
				MaximumInterval:    w.config.SubmitMaximumInterval,
				BackoffCoefficient: 1.2,
				MaximumAttempts:    w.config.SubmitMaximumAttempts,
			},
		}
		submitCtx := workflow.WithActivityOptions(ctx, submitOptions)

		// A failed push leaves the transaction pending; restart
		// reconciliation picks it up again later.
		if err := workflow.ExecuteActivity(submitCtx, w.executor.SubmitTransaction, txID, password).Get(submitCtx, &txHash); err != nil {
			logger.ErrorWf(ctx,
				fmt.Errorf("failed to submit transaction"),
				zap.Error(err),
				zap.Uint64("txID", txID),
			)
			return nil, err
		}

		logger.InfoWf(ctx, "Transaction submitted",
			zap.Uint64("txID", txID),
			zap.String("txHash", txHash),
		)
	}

	return w.pollConfirmation(ctx, txID, txHash, password)
}

// pollConfirmation waits for the network to confirm a broadcast transaction
// and applies the confirmation edge exactly once
func (w *workerOwnership) pollConfirmation(ctx workflow.Context, txID uint64, txHash, password string) (*broadcaster.ConfirmationResult, error) {
	pollOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	pollCtx := workflow.WithActivityOptions(ctx, pollOptions)

	for polls := 0; ; polls++ {
		if polls >= maxPollsPerRun {
			return nil, workflow.NewContinueAsNewError(ctx, "BroadcastTransaction", txID, password)
		}

		if err := workflow.Sleep(ctx, w.config.PollInterval); err != nil {
			return nil, err
		}

		var confirmations int
		if err := workflow.ExecuteActivity(pollCtx, w.executor.GetConfirmations, txHash).Get(pollCtx, &confirmations); err != nil {
			logger.WarnWf(ctx, "Confirmation poll failed",
				zap.Error(err),
				zap.String("txHash", txHash),
			)
			continue
		}

		if confirmations < 0 {
			// Conflicted: a competing spend of the same outputs confirmed
			// instead.
			logger.ErrorWf(ctx,
				fmt.Errorf("transaction conflicted"),
				zap.Uint64("txID", txID),
				zap.String("txHash", txHash),
			)
			if err := workflow.ExecuteActivity(pollCtx, w.executor.RejectTransaction, txID).Get(pollCtx, nil); err != nil {
				return nil, err
			}
			return nil, nil
		}
		if confirmations < 1 {
			continue
		}

		var result *broadcaster.ConfirmationResult
		if err := workflow.ExecuteActivity(pollCtx, w.executor.ApplyConfirmation, txHash, confirmations).Get(pollCtx, &result); err != nil {
			logger.ErrorWf(ctx,
				fmt.Errorf("failed to apply confirmation"),
				zap.Error(err),
				zap.String("txHash", txHash),
			)
			return nil, err
		}

		logger.InfoWf(ctx, "Transaction confirmed",
			zap.Uint64("txID", txID),
			zap.String("txHash", txHash),
			zap.Int("confirmations", confirmations),
		)
		return result, nil
	}
}
