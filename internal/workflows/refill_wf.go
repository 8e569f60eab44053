package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/logger"
)

// RefillFunding broadcasts a fuel transaction that splits fresh fee and
// token outputs into the funding pool. Fuel is unowned: no ownership event
// advances when it confirms, the outputs just become selectable.
func (w *workerOwnership) RefillFunding(ctx workflow.Context, fees, tokens int) error {
	logger.InfoWf(ctx, "Starting funding refill",
		zap.Int("fees", fees),
		zap.Int("tokens", tokens),
	)

	// Refills are operator-initiated, so fail fast instead of retrying.
	buildOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	buildCtx := workflow.WithActivityOptions(ctx, buildOptions)

	var txID uint64
	if err := workflow.ExecuteActivity(buildCtx, w.executor.BuildFuelTransaction, fees, tokens).Get(buildCtx, &txID); err != nil {
		logger.ErrorWf(ctx,
			fmt.Errorf("failed to build fuel transaction"),
			zap.Error(err),
		)
		return err
	}

	return w.BroadcastTransaction(ctx, txID, "")
}
