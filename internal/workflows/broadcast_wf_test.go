package workflows_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/ascribe/spool-engine/internal/broadcaster"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/mocks"
	"github.com/ascribe/spool-engine/internal/store/schema"
	"github.com/ascribe/spool-engine/internal/workflows"
)

// BroadcastWorkflowTestSuite is the test suite for broadcast workflow tests
type BroadcastWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env      *testsuite.TestWorkflowEnvironment
	ctrl     *gomock.Controller
	executor *mocks.MockExecutor
	worker   workflows.WorkerOwnership
}

// SetupTest is called before each test
func (s *BroadcastWorkflowTestSuite) SetupTest() {
	_ = logger.Initialize(logger.Config{
		Debug: true,
	})

	s.env = s.NewTestWorkflowEnvironment()
	s.ctrl = gomock.NewController(s.T())
	s.executor = mocks.NewMockExecutor(s.ctrl)
	s.worker = workflows.NewWorkerOwnership(s.executor, workflows.WorkerOwnershipConfig{
		PollInterval:          time.Minute,
		SubmitInitialInterval: time.Second,
		SubmitMaximumInterval: 2 * time.Second,
		SubmitMaximumAttempts: 2,
		OwnershipTaskQueue:    "ownership-task-queue",
	})
}

// TearDownTest is called after each test
func (s *BroadcastWorkflowTestSuite) TearDownTest() {
	s.env.AssertExpectations(s.T())
	s.ctrl.Finish()
}

// TestBroadcastWorkflowTestSuite runs the test suite
func TestBroadcastWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(BroadcastWorkflowTestSuite))
}

func (s *BroadcastWorkflowTestSuite) TestBroadcastOwnershipTx_Success() {
	ownershipID := uint64(9)
	txID := uint64(31)
	txHash := "aa55aa55"

	s.env.OnActivity(s.executor.BuildTransaction, mock.Anything, ownershipID).Return(txID, nil)

	// No migration needed; reconcile hands back the event's own transaction
	s.env.OnActivity(s.executor.ReconcileSpendable, mock.Anything, ownershipID, "pw").Return(txID, nil)

	s.env.OnActivity(s.executor.GetTransactionSnapshot, mock.Anything, txID).Return(
		&workflows.TxSnapshot{ID: txID, Status: schema.TxStatusPending}, nil)
	s.env.OnActivity(s.executor.SubmitTransaction, mock.Anything, txID, "pw").Return(txHash, nil)
	s.env.OnActivity(s.executor.GetConfirmations, mock.Anything, txHash).Return(1, nil)
	s.env.OnActivity(s.executor.ApplyConfirmation, mock.Anything, txHash, 1).Return(
		&broadcaster.ConfirmationResult{Transitioned: true}, nil)

	s.env.ExecuteWorkflow(s.worker.BroadcastOwnershipTx, ownershipID, "pw")

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *BroadcastWorkflowTestSuite) TestBroadcastOwnershipTx_MigrationChain() {
	ownershipID := uint64(9)
	originalTxID := uint64(31)
	migrateTxID := uint64(32)
	migrateHash := "bb66bb66"
	originalHash := "cc77cc77"

	s.env.OnActivity(s.executor.BuildTransaction, mock.Anything, ownershipID).Return(originalTxID, nil)

	// The source address went stale, so the migrate transaction takes the
	// head of the chain and the original rides behind it.
	s.env.OnActivity(s.executor.ReconcileSpendable, mock.Anything, ownershipID, "new pw").Return(migrateTxID, nil)

	s.env.OnActivity(s.executor.GetTransactionSnapshot, mock.Anything, migrateTxID).Return(
		&workflows.TxSnapshot{ID: migrateTxID, Status: schema.TxStatusPending}, nil)
	s.env.OnActivity(s.executor.SubmitTransaction, mock.Anything, migrateTxID, "new pw").Return(migrateHash, nil)
	s.env.OnActivity(s.executor.GetConfirmations, mock.Anything, migrateHash).Return(1, nil)
	s.env.OnActivity(s.executor.ApplyConfirmation, mock.Anything, migrateHash, 1).Return(
		&broadcaster.ConfirmationResult{DependentTxID: &originalTxID}, nil)

	s.env.OnActivity(s.executor.GetTransactionSnapshot, mock.Anything, originalTxID).Return(
		&workflows.TxSnapshot{ID: originalTxID, Status: schema.TxStatusPending}, nil)
	s.env.OnActivity(s.executor.SubmitTransaction, mock.Anything, originalTxID, "new pw").Return(originalHash, nil)
	s.env.OnActivity(s.executor.GetConfirmations, mock.Anything, originalHash).Return(1, nil)
	s.env.OnActivity(s.executor.ApplyConfirmation, mock.Anything, originalHash, 1).Return(
		&broadcaster.ConfirmationResult{Transitioned: true}, nil)

	s.env.ExecuteWorkflow(s.worker.BroadcastOwnershipTx, ownershipID, "new pw")

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *BroadcastWorkflowTestSuite) TestBroadcastOwnershipTx_BuildError() {
	ownershipID := uint64(9)
	expectedError := errors.New("database error")

	// Track retry attempts - MaximumAttempts: 3 (2 retries)
	var activityCallCount int
	s.env.OnActivity(s.executor.BuildTransaction, mock.Anything, ownershipID).Return(
		func(ctx context.Context, ownershipID uint64) (uint64, error) {
			activityCallCount++
			return 0, expectedError
		},
	)

	s.env.ExecuteWorkflow(s.worker.BroadcastOwnershipTx, ownershipID, "pw")

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
	s.Equal(3, activityCallCount, "Activity should be attempted 3 times (initial + 2 retries)")
}

func (s *BroadcastWorkflowTestSuite) TestBroadcastTransaction_AlreadyConfirmed() {
	txID := uint64(31)

	// A settled transaction has nothing left to drive; no submit, no poll
	s.env.OnActivity(s.executor.GetTransactionSnapshot, mock.Anything, txID).Return(
		&workflows.TxSnapshot{ID: txID, Status: schema.TxStatusConfirmed, TxHash: "aa55aa55"}, nil)

	s.env.ExecuteWorkflow(s.worker.BroadcastTransaction, txID, "pw")

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *BroadcastWorkflowTestSuite) TestBroadcastTransaction_ResumesPollingWithoutResubmit() {
	txID := uint64(31)
	txHash := "aa55aa55"

	// The push already happened in an earlier run; only the poll loop
	// re-attaches.
	s.env.OnActivity(s.executor.GetTransactionSnapshot, mock.Anything, txID).Return(
		&workflows.TxSnapshot{ID: txID, Status: schema.TxStatusUnconfirmed, TxHash: txHash}, nil)
	s.env.OnActivity(s.executor.GetConfirmations, mock.Anything, txHash).Return(2, nil)
	s.env.OnActivity(s.executor.ApplyConfirmation, mock.Anything, txHash, 2).Return(
		&broadcaster.ConfirmationResult{Transitioned: true}, nil)

	s.env.ExecuteWorkflow(s.worker.BroadcastTransaction, txID, "pw")

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *BroadcastWorkflowTestSuite) TestBroadcastTransaction_PollsUntilConfirmed() {
	txID := uint64(31)
	txHash := "aa55aa55"

	s.env.OnActivity(s.executor.GetTransactionSnapshot, mock.Anything, txID).Return(
		&workflows.TxSnapshot{ID: txID, Status: schema.TxStatusPending}, nil)
	s.env.OnActivity(s.executor.SubmitTransaction, mock.Anything, txID, "pw").Return(txHash, nil)

	// Unseen for two polls, then one confirmation
	var polls int
	s.env.OnActivity(s.executor.GetConfirmations, mock.Anything, txHash).Return(
		func(ctx context.Context, txHash string) (int, error) {
			polls++
			if polls < 3 {
				return 0, nil
			}
			return 1, nil
		},
	)
	s.env.OnActivity(s.executor.ApplyConfirmation, mock.Anything, txHash, 1).Return(
		&broadcaster.ConfirmationResult{Transitioned: true}, nil)

	s.env.ExecuteWorkflow(s.worker.BroadcastTransaction, txID, "pw")

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.Equal(3, polls)
}

func (s *BroadcastWorkflowTestSuite) TestBroadcastTransaction_ConflictedRejects() {
	txID := uint64(31)
	txHash := "aa55aa55"

	s.env.OnActivity(s.executor.GetTransactionSnapshot, mock.Anything, txID).Return(
		&workflows.TxSnapshot{ID: txID, Status: schema.TxStatusPending}, nil)
	s.env.OnActivity(s.executor.SubmitTransaction, mock.Anything, txID, "pw").Return(txHash, nil)

	// A competing spend of the same outputs confirmed instead
	s.env.OnActivity(s.executor.GetConfirmations, mock.Anything, txHash).Return(-1, nil)
	s.env.OnActivity(s.executor.RejectTransaction, mock.Anything, txID).Return(nil)

	s.env.ExecuteWorkflow(s.worker.BroadcastTransaction, txID, "pw")

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *BroadcastWorkflowTestSuite) TestBroadcastTransaction_WrongPasswordDoesNotRetry() {
	txID := uint64(31)

	s.env.OnActivity(s.executor.GetTransactionSnapshot, mock.Anything, txID).Return(
		&workflows.TxSnapshot{ID: txID, Status: schema.TxStatusPending}, nil)

	// Key errors do not heal with time; the submit retry policy must not
	// spin on them.
	var activityCallCount int
	s.env.OnActivity(s.executor.SubmitTransaction, mock.Anything, txID, "bad pw").Return(
		func(ctx context.Context, txID uint64, password string) (string, error) {
			activityCallCount++
			return "", temporal.NewNonRetryableApplicationError(
				"wrong password", domain.ErrWrongPassword.Error(), domain.ErrWrongPassword)
		},
	)

	s.env.ExecuteWorkflow(s.worker.BroadcastTransaction, txID, "bad pw")

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
	s.Equal(1, activityCallCount, "Submit should be attempted 1 time (non-retryable)")
}

func (s *BroadcastWorkflowTestSuite) TestBroadcastTransaction_ContinuesAsNewPastPollLimit() {
	txID := uint64(31)
	txHash := "aa55aa55"

	s.env.OnActivity(s.executor.GetTransactionSnapshot, mock.Anything, txID).Return(
		&workflows.TxSnapshot{ID: txID, Status: schema.TxStatusPending}, nil)
	s.env.OnActivity(s.executor.SubmitTransaction, mock.Anything, txID, "pw").Return(txHash, nil)

	// Never confirms inside this run
	s.env.OnActivity(s.executor.GetConfirmations, mock.Anything, txHash).Return(0, nil)

	s.env.ExecuteWorkflow(s.worker.BroadcastTransaction, txID, "pw")

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)
	s.True(workflow.IsContinueAsNewError(err), "expected continue-as-new, got %v", err)
}
