package sweeper

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	enums "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/adapter"
	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/providers/temporal"
	"github.com/ascribe/spool-engine/internal/spool"
	"github.com/ascribe/spool-engine/internal/store"
)

// reconcileWorkflowID is fixed so overlapping sweep cycles cannot run two
// reconcile passes at once; a start attempt while the previous run is still
// open is rejected and skipped.
const reconcileWorkflowID = "reconcile-transactions"

// lowFundingFloor is the spendable balance below which the funding pool
// audit starts warning. Ten transfers' worth of fees and tokens.
const lowFundingFloor = 10 * (3*spool.Dust + spool.MiningFee)

// ReconcileSweeperConfig holds configuration for the reconcile sweeper
type ReconcileSweeperConfig struct {
	Interval       time.Duration // Time between sweep cycles
	WorkerPoolSize int           // Concurrent maintenance tasks per cycle
	QueueSize      int
	TaskQueue      string // Temporal task queue the ownership worker listens on
	FundingAddress string // Funding wallet address audited for balance, empty disables the audit
}

// reconcileSweeper implements the Sweeper interface for transaction
// reconciliation. Every cycle it hands stuck transactions back to the
// ownership worker and audits the funding pool.
type reconcileSweeper struct {
	config       *ReconcileSweeperConfig
	store        store.Store
	orchestrator temporal.TemporalOrchestrator
	clock        adapter.Clock
	pool         pond.Pool
	running      atomic.Bool
	stopChan     chan struct{}
	stoppedCh    chan struct{}
}

// NewReconcileSweeper creates a new reconcile sweeper
func NewReconcileSweeper(
	config *ReconcileSweeperConfig,
	st store.Store,
	orchestrator temporal.TemporalOrchestrator,
	clock adapter.Clock,
) Sweeper {
	return &reconcileSweeper{
		config:       config,
		store:        st,
		orchestrator: orchestrator,
		clock:        clock,
		stopChan:     make(chan struct{}),
		stoppedCh:    make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *reconcileSweeper) Name() string {
	return "reconcile-sweeper"
}

// Start begins the sweeper's main loop
func (s *reconcileSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting reconcile sweeper",
		zap.Duration("interval", s.config.Interval),
		zap.String("task_queue", s.config.TaskQueue),
	)

	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.QueueSize),
		pond.WithContext(ctx),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Reconcile sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			s.cleanup()
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Reconcile sweeper stop requested")
			s.cleanup()
			return nil
		default:
			s.runSweepCycle(ctx)
			if !s.sleep(ctx, s.config.Interval) {
				s.cleanup()
				return nil
			}
		}
	}
}

// cleanup stops the worker pool and waits for tasks to complete
func (s *reconcileSweeper) cleanup() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *reconcileSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping reconcile sweeper")
	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Reconcile sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Reconcile sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle submits this cycle's maintenance tasks to the pool and waits
// for them. Tasks are independent; a failed one logs and the cycle goes on.
func (s *reconcileSweeper) runSweepCycle(ctx context.Context) {
	startTime := s.clock.Now()
	logger.InfoCtx(ctx, "Starting sweep cycle")

	group := s.pool.NewGroup()
	group.Submit(func() {
		s.startReconcileWorkflow(ctx)
	})
	if s.config.FundingAddress != "" {
		group.Submit(func() {
			s.auditFundingBalance(ctx)
		})
	}
	_ = group.Wait()

	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", s.clock.Since(startTime)),
	)
}

// startReconcileWorkflow starts the reconcile pass on the ownership worker.
// A pass still running from a previous cycle is left alone.
func (s *reconcileSweeper) startReconcileWorkflow(ctx context.Context) {
	workflowOptions := client.StartWorkflowOptions{
		ID:                    reconcileWorkflowID,
		TaskQueue:             s.config.TaskQueue,
		WorkflowRunTimeout:    30 * time.Minute,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}

	workflowRun, err := s.orchestrator.ExecuteWorkflow(ctx, workflowOptions, "ReconcileTransactions")
	if err != nil {
		logger.WarnCtx(ctx, "Reconcile workflow not started, previous run may still be open",
			zap.Error(err),
		)
		return
	}

	// Handle nil workflowRun from tests
	if workflowRun != nil {
		logger.InfoCtx(ctx, "Reconcile workflow started",
			zap.String("workflow_id", workflowRun.GetID()),
			zap.String("run_id", workflowRun.GetRunID()),
		)
	}
}

// auditFundingBalance warns when the shared funding pool runs low. Refills
// are operator-initiated, so a warning is all the sweeper does.
func (s *reconcileSweeper) auditFundingBalance(ctx context.Context) {
	balance, err := s.store.GetSpendableBalance(ctx, s.config.FundingAddress)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to audit funding balance: %w", err))
		return
	}

	if balance < lowFundingFloor {
		logger.WarnCtx(ctx, "Funding pool is running low",
			zap.Int64("balance", balance),
			zap.Int64("floor", lowFundingFloor),
			zap.String("address", s.config.FundingAddress),
		)
		return
	}

	logger.InfoCtx(ctx, "Funding pool audited",
		zap.Int64("balance", balance),
	)
}

// sleep sleeps for the given duration but can be interrupted by context
// cancellation or a stop request. Returns true if sleep completed normally.
func (s *reconcileSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}
