package workflows

import (
	"time"

	"go.temporal.io/sdk/workflow"
)

// WorkerOwnership defines the interface for driving ownership transactions
// through the blockchain
//
//go:generate mockgen -source=worker.go -destination=../mocks/worker_ownership.go -package=mocks -mock_names=WorkerOwnership=MockOwnershipWorker
type WorkerOwnership interface {
	// BroadcastOwnershipTx builds, migrates if needed, and broadcasts the
	// transaction chain for an ownership event until every link confirms
	BroadcastOwnershipTx(ctx workflow.Context, ownershipID uint64, password string) error

	// BroadcastTransaction submits an already-built transaction and follows
	// its dependent chain to confirmation
	BroadcastTransaction(ctx workflow.Context, txID uint64, password string) error

	// ReconcileTransactions re-attaches poll loops to unconfirmed
	// transactions and re-submits pending ones after a restart
	ReconcileTransactions(ctx workflow.Context) error

	// RefillFunding broadcasts a fuel transaction that splits fresh fee and
	// token outputs into the funding pool
	RefillFunding(ctx workflow.Context, fees, tokens int) error
}

type WorkerOwnershipConfig struct {
	// PollInterval is how long to wait between confirmation polls
	PollInterval time.Duration
	// SubmitInitialInterval is the first retry delay for a failed push
	SubmitInitialInterval time.Duration
	// SubmitMaximumInterval caps the retry delay for a failed push
	SubmitMaximumInterval time.Duration
	// SubmitMaximumAttempts bounds push retries before the transaction is
	// left pending for a later reconcile
	SubmitMaximumAttempts int32
	// OwnershipTaskQueue is the task queue broadcast workflows run on
	OwnershipTaskQueue string
}

// DefaultWorkerOwnershipConfig returns the production settings
func DefaultWorkerOwnershipConfig(taskQueue string) WorkerOwnershipConfig {
	return WorkerOwnershipConfig{
		PollInterval:          time.Minute,
		SubmitInitialInterval: 100 * time.Second,
		SubmitMaximumInterval: 120 * time.Second,
		SubmitMaximumAttempts: 5,
		OwnershipTaskQueue:    taskQueue,
	}
}

// workerOwnership is the concrete implementation of WorkerOwnership
type workerOwnership struct {
	config   WorkerOwnershipConfig
	executor Executor
}

// NewWorkerOwnership creates a new ownership worker instance
func NewWorkerOwnership(executor Executor, config WorkerOwnershipConfig) WorkerOwnership {
	return &workerOwnership{
		executor: executor,
		config:   config,
	}
}
