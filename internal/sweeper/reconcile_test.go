package sweeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/mocks"
	"github.com/ascribe/spool-engine/internal/sweeper"
)

const testFundingAddress = "1FundingWallet"

// testSweeperMocks contains all the mocks needed for testing the sweeper
type testSweeperMocks struct {
	ctrl         *gomock.Controller
	store        *mocks.MockStore
	clock        *mocks.MockClock
	orchestrator *mocks.MockTemporalOrchestrator
	sweeper      sweeper.Sweeper
}

// setupTestSweeper creates all the mocks and sweeper for testing
func setupTestSweeper(t *testing.T, fundingAddress string) *testSweeperMocks {
	err := logger.Initialize(logger.Config{
		Debug: true,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctrl := gomock.NewController(t)

	tm := &testSweeperMocks{
		ctrl:         ctrl,
		store:        mocks.NewMockStore(ctrl),
		clock:        mocks.NewMockClock(ctrl),
		orchestrator: mocks.NewMockTemporalOrchestrator(ctrl),
	}

	config := &sweeper.ReconcileSweeperConfig{
		Interval:       time.Minute,
		WorkerPoolSize: 2,
		QueueSize:      10,
		TaskQueue:      "test-task-queue",
		FundingAddress: fundingAddress,
	}

	tm.sweeper = sweeper.NewReconcileSweeper(
		config,
		tm.store,
		tm.orchestrator,
		tm.clock,
	)

	// Clock expectations shared by every cycle
	now := time.Now()
	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.clock.EXPECT().Since(now).Return(time.Second).AnyTimes()
	// Make After return a channel that fires after a brief delay so Stop can
	// interrupt the sleep
	tm.clock.EXPECT().After(gomock.Any()).DoAndReturn(func(d time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		go func() {
			time.Sleep(50 * time.Millisecond)
			ch <- time.Now()
		}()
		return ch
	}).AnyTimes()

	return tm
}

// tearDownTestSweeper cleans up the test mocks
func tearDownTestSweeper(mocks *testSweeperMocks) {
	mocks.ctrl.Finish()
}

// runOneCycle starts the sweeper, lets at least one cycle run, and stops it
func runOneCycle(t *testing.T, tm *testSweeperMocks) {
	ctx := context.Background()

	go func() {
		time.Sleep(200 * time.Millisecond)
		_ = tm.sweeper.Stop(ctx)
	}()

	err := tm.sweeper.Start(ctx)
	require.NoError(t, err)
}

func TestReconcileSweeper_Name(t *testing.T) {
	tm := setupTestSweeper(t, testFundingAddress)
	defer tearDownTestSweeper(tm)

	assert.Equal(t, "reconcile-sweeper", tm.sweeper.Name())
}

func TestReconcileSweeper_StartsReconcileWorkflow(t *testing.T) {
	tm := setupTestSweeper(t, testFundingAddress)
	defer tearDownTestSweeper(tm)

	// Every cycle kicks the reconcile pass under its fixed workflow id
	tm.orchestrator.EXPECT().
		ExecuteWorkflow(gomock.Any(), gomock.Any(), "ReconcileTransactions").
		DoAndReturn(func(_ context.Context, options client.StartWorkflowOptions, _ interface{}, _ ...interface{}) (client.WorkflowRun, error) {
			assert.Equal(t, "reconcile-transactions", options.ID)
			assert.Equal(t, "test-task-queue", options.TaskQueue)
			return nil, nil
		}).
		MinTimes(1)

	// A healthy pool logs and moves on
	tm.store.EXPECT().
		GetSpendableBalance(gomock.Any(), testFundingAddress).
		Return(int64(1_000_000), nil).
		MinTimes(1)

	runOneCycle(t, tm)
}

func TestReconcileSweeper_OpenWorkflowIsSkipped(t *testing.T) {
	tm := setupTestSweeper(t, testFundingAddress)
	defer tearDownTestSweeper(tm)

	// A previous pass still running rejects the duplicate start; the cycle
	// carries on without error.
	tm.orchestrator.EXPECT().
		ExecuteWorkflow(gomock.Any(), gomock.Any(), "ReconcileTransactions").
		Return(nil, errors.New("workflow execution already started")).
		MinTimes(1)

	tm.store.EXPECT().
		GetSpendableBalance(gomock.Any(), testFundingAddress).
		Return(int64(1_000_000), nil).
		MinTimes(1)

	runOneCycle(t, tm)
}

func TestReconcileSweeper_LowFundingBalanceWarns(t *testing.T) {
	tm := setupTestSweeper(t, testFundingAddress)
	defer tearDownTestSweeper(tm)

	tm.orchestrator.EXPECT().
		ExecuteWorkflow(gomock.Any(), gomock.Any(), "ReconcileTransactions").
		Return(nil, nil).
		MinTimes(1)

	// Below the floor the audit warns but never fails the cycle
	tm.store.EXPECT().
		GetSpendableBalance(gomock.Any(), testFundingAddress).
		Return(int64(5000), nil).
		MinTimes(1)

	runOneCycle(t, tm)
}

func TestReconcileSweeper_NoFundingAddressSkipsAudit(t *testing.T) {
	tm := setupTestSweeper(t, "")
	defer tearDownTestSweeper(tm)

	tm.orchestrator.EXPECT().
		ExecuteWorkflow(gomock.Any(), gomock.Any(), "ReconcileTransactions").
		Return(nil, nil).
		MinTimes(1)

	// No GetSpendableBalance expectation: the audit must not run

	runOneCycle(t, tm)
}

func TestReconcileSweeper_BalanceErrorDoesNotStopTheLoop(t *testing.T) {
	tm := setupTestSweeper(t, testFundingAddress)
	defer tearDownTestSweeper(tm)

	tm.orchestrator.EXPECT().
		ExecuteWorkflow(gomock.Any(), gomock.Any(), "ReconcileTransactions").
		Return(nil, nil).
		MinTimes(1)

	tm.store.EXPECT().
		GetSpendableBalance(gomock.Any(), testFundingAddress).
		Return(int64(0), errors.New("database unavailable")).
		MinTimes(1)

	runOneCycle(t, tm)
}

func TestReconcileSweeper_DoubleStartRejected(t *testing.T) {
	tm := setupTestSweeper(t, testFundingAddress)
	defer tearDownTestSweeper(tm)

	tm.orchestrator.EXPECT().
		ExecuteWorkflow(gomock.Any(), gomock.Any(), "ReconcileTransactions").
		Return(nil, nil).
		AnyTimes()
	tm.store.EXPECT().
		GetSpendableBalance(gomock.Any(), testFundingAddress).
		Return(int64(1_000_000), nil).
		AnyTimes()

	ctx := context.Background()
	started := make(chan struct{})
	go func() {
		close(started)
		_ = tm.sweeper.Start(ctx)
	}()
	<-started
	time.Sleep(100 * time.Millisecond)

	err := tm.sweeper.Start(ctx)
	assert.Error(t, err)

	require.NoError(t, tm.sweeper.Stop(ctx))
}

func TestReconcileSweeper_StopWithoutStart(t *testing.T) {
	tm := setupTestSweeper(t, testFundingAddress)
	defer tearDownTestSweeper(tm)

	// Stopping an idle sweeper is a no-op
	assert.NoError(t, tm.sweeper.Stop(context.Background()))
}

func TestReconcileSweeper_ContextCancellationStops(t *testing.T) {
	tm := setupTestSweeper(t, testFundingAddress)
	defer tearDownTestSweeper(tm)

	tm.orchestrator.EXPECT().
		ExecuteWorkflow(gomock.Any(), gomock.Any(), "ReconcileTransactions").
		Return(nil, nil).
		AnyTimes()
	tm.store.EXPECT().
		GetSpendableBalance(gomock.Any(), testFundingAddress).
		Return(int64(1_000_000), nil).
		AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	err := tm.sweeper.Start(ctx)
	require.NoError(t, err)
}
