package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/bitcoin"
	"github.com/ascribe/spool-engine/internal/broadcaster"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/migration"
	"github.com/ascribe/spool-engine/internal/spool"
	"github.com/ascribe/spool-engine/internal/store"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// TxSnapshot is the activity-side view of a transaction's lifecycle state
type TxSnapshot struct {
	ID     uint64          `json:"id"`
	Status schema.TxStatus `json:"status"`
	TxHash string          `json:"tx_hash"`
}

// Executor defines the interface for executing activities
//
//go:generate mockgen -source=executor.go -destination=../mocks/executor.go -package=mocks -mock_names=Executor=MockExecutor
type Executor interface {
	// BuildTransaction constructs and persists the transaction for an
	// ownership event, returning its id. Idempotent: an event that already
	// carries a transaction returns the existing id.
	BuildTransaction(ctx context.Context, ownershipID uint64) (uint64, error)

	// ReconcileSpendable runs the migration check for an event and returns
	// the id of the transaction to broadcast next, which is the inserted
	// migrate transaction when the event's source address went stale
	ReconcileSpendable(ctx context.Context, ownershipID uint64, password string) (uint64, error)

	// SubmitTransaction signs and pushes a transaction, returning the
	// network hash
	SubmitTransaction(ctx context.Context, txID uint64, password string) (string, error)

	// GetConfirmations polls the node for a transaction's confirmation
	// count; zero while unseen or in the mempool
	GetConfirmations(ctx context.Context, txHash string) (int, error)

	// ApplyConfirmation drives the confirmation edge for an observed
	// transaction
	ApplyConfirmation(ctx context.Context, txHash string, confirmations int) (*broadcaster.ConfirmationResult, error)

	// RejectTransaction marks a transaction rejected by the network
	RejectTransaction(ctx context.Context, txID uint64) error

	// GetTransactionSnapshot reads a transaction's current lifecycle state
	GetTransactionSnapshot(ctx context.Context, txID uint64) (*TxSnapshot, error)

	// ListTransactionsByStatus lists transactions in a lifecycle state for
	// restart reconciliation
	ListTransactionsByStatus(ctx context.Context, status schema.TxStatus) ([]TxSnapshot, error)

	// BuildFuelTransaction constructs an unowned refill transaction for the
	// funding pool
	BuildFuelTransaction(ctx context.Context, fees, tokens int) (uint64, error)

	// ImportFundingUnspents pulls the node's view of the funding wallet into
	// the pool, returning the number of outputs seen
	ImportFundingUnspents(ctx context.Context) (int, error)
}

// executor is the concrete implementation of Executor
type executor struct {
	store       store.Store
	builder     *spool.Builder
	reconciler  *migration.Reconciler
	broadcaster *broadcaster.Broadcaster
	node        bitcoin.Client
	funding     domain.Address
}

// NewExecutor creates a new executor instance
func NewExecutor(st store.Store, builder *spool.Builder, reconciler *migration.Reconciler, bc *broadcaster.Broadcaster, node bitcoin.Client, funding domain.Address) Executor {
	return &executor{
		store:       st,
		builder:     builder,
		reconciler:  reconciler,
		broadcaster: bc,
		node:        node,
		funding:     funding,
	}
}

func (e *executor) BuildTransaction(ctx context.Context, ownershipID uint64) (uint64, error) {
	tx, err := e.builder.Build(ctx, ownershipID)
	if err != nil {
		return 0, asActivityError(err)
	}
	return tx.ID, nil
}

func (e *executor) ReconcileSpendable(ctx context.Context, ownershipID uint64, password string) (uint64, error) {
	tx, err := e.reconciler.EnsureSpendable(ctx, ownershipID, password)
	if err != nil {
		return 0, asActivityError(err)
	}
	return tx.ID, nil
}

func (e *executor) SubmitTransaction(ctx context.Context, txID uint64, password string) (string, error) {
	txHash, err := e.broadcaster.Submit(ctx, txID, password)
	if err != nil {
		return "", asActivityError(err)
	}
	return txHash, nil
}

func (e *executor) GetConfirmations(ctx context.Context, txHash string) (int, error) {
	confirmations, err := e.node.GetConfirmations(ctx, txHash)
	if err != nil {
		if errors.Is(err, bitcoin.ErrTxNotFound) {
			// The node has not seen the broadcast yet; the workflow keeps
			// polling.
			return 0, nil
		}
		return 0, err
	}
	return confirmations, nil
}

func (e *executor) ApplyConfirmation(ctx context.Context, txHash string, confirmations int) (*broadcaster.ConfirmationResult, error) {
	return e.broadcaster.OnConfirmation(ctx, txHash, confirmations)
}

func (e *executor) RejectTransaction(ctx context.Context, txID uint64) error {
	return e.broadcaster.HandleRejection(ctx, txID)
}

func (e *executor) GetTransactionSnapshot(ctx context.Context, txID uint64) (*TxSnapshot, error) {
	tx, err := e.store.GetBitcoinTransactionByID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, asActivityError(fmt.Errorf("transaction %d: %w", txID, domain.ErrOwnershipNotFound))
	}
	snapshot := &TxSnapshot{ID: tx.ID, Status: tx.Status}
	if tx.TxHash != nil {
		snapshot.TxHash = *tx.TxHash
	}
	return snapshot, nil
}

func (e *executor) ListTransactionsByStatus(ctx context.Context, status schema.TxStatus) ([]TxSnapshot, error) {
	txs, err := e.store.ListTransactionsByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	snapshots := make([]TxSnapshot, 0, len(txs))
	for _, tx := range txs {
		snapshot := TxSnapshot{ID: tx.ID, Status: tx.Status}
		if tx.TxHash != nil {
			snapshot.TxHash = *tx.TxHash
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func (e *executor) BuildFuelTransaction(ctx context.Context, fees, tokens int) (uint64, error) {
	tx, err := e.builder.BuildFuel(ctx, e.funding, fees, tokens)
	if err != nil {
		return 0, asActivityError(err)
	}
	return tx.ID, nil
}

func (e *executor) ImportFundingUnspents(ctx context.Context) (int, error) {
	unspents, err := e.node.ListUnspent(ctx, e.funding.Btc())
	if err != nil {
		return 0, err
	}

	rows := make([]schema.UnspentOutput, 0, len(unspents))
	for _, u := range unspents {
		rows = append(rows, schema.UnspentOutput{
			TxHash:       u.TxHash,
			Vout:         u.Vout,
			Amount:       u.Amount,
			Address:      u.Address,
			ScriptPubKey: u.ScriptPubKey,
		})
	}
	if err := e.store.ImportUnspentOutputs(ctx, rows); err != nil {
		return 0, err
	}

	logger.InfoCtx(ctx, "imported funding unspents",
		zap.String("address", e.funding.Btc()),
		zap.Int("count", len(rows)))
	return len(rows), nil
}

// asActivityError keeps protocol-level failures from being retried by the
// activity retry policy. Validation, funds, and key errors do not heal with
// time; transient node errors do.
func asActivityError(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		domain.ErrInsufficientFunds,
		domain.ErrInvalidAddress,
		domain.ErrWrongPassword,
		domain.ErrNotAllowed,
		domain.ErrInvalidEventState,
		domain.ErrOwnershipNotFound,
	} {
		if errors.Is(err, sentinel) {
			return temporal.NewNonRetryableApplicationError(err.Error(), sentinel.Error(), err)
		}
	}
	return err
}
