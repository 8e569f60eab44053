package store

import (
	"context"
	"time"

	"github.com/ascribe/spool-engine/internal/acl"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetActionControl retrieves the capability record for a (user, piece,
	// edition) tuple; editionID nil addresses the piece-level record.
	// Returns nil when no relationship exists.
	GetActionControl(ctx context.Context, userID int64, pieceID uint64, editionID *uint64) (*schema.ActionControl, error)

	// UpsertActionControl creates or fully overwrites a capability record
	// with the given flag set. All flags are written atomically; there is no
	// partial update path.
	UpsertActionControl(ctx context.Context, userID int64, pieceID uint64, editionID *uint64, caps acl.Capabilities) error

	// DeleteActionControl removes a capability record. Only used when a
	// transfer to an invited recipient is withdrawn before acceptance.
	DeleteActionControl(ctx context.Context, userID int64, pieceID uint64, editionID *uint64) error

	// ListPieceIDsByCapability lists pieces where the user's piece-level
	// record satisfies every flag in the predicate
	ListPieceIDsByCapability(ctx context.Context, userID int64, predicate map[string]bool) ([]uint64, error)

	// ListEditionIDsByCapability lists editions where the user's
	// edition-level record satisfies every flag in the predicate
	ListEditionIDsByCapability(ctx context.Context, userID int64, predicate map[string]bool) ([]uint64, error)

	// CreatePiece persists a new piece
	CreatePiece(ctx context.Context, piece *schema.Piece) error

	// GetPieceByID retrieves a piece by its internal ID, nil when absent
	GetPieceByID(ctx context.Context, pieceID uint64) (*schema.Piece, error)

	// SetPieceNumEditions moves the piece's edition count off the unset
	// sentinel once an editions registration confirms
	SetPieceNumEditions(ctx context.Context, pieceID uint64, numEditions int) error

	// CreateEditions persists the numbered editions of a piece in one batch
	CreateEditions(ctx context.Context, editions []schema.Edition) error

	// GetEditionByID retrieves an edition by its internal ID, nil when absent
	GetEditionByID(ctx context.Context, editionID uint64) (*schema.Edition, error)

	// GetEdition retrieves an edition by piece and edition number
	GetEdition(ctx context.Context, pieceID uint64, editionNumber int) (*schema.Edition, error)

	// UpdateEditionOwner moves an edition to a new owner and address chain head
	UpdateEditionOwner(ctx context.Context, editionID uint64, ownerID int64, address domain.Address) error

	// SetEditionConsignee records or clears the active consignee
	SetEditionConsignee(ctx context.Context, editionID uint64, consigneeID *int64) error

	// CreateOwnership persists a new ownership event
	CreateOwnership(ctx context.Context, ownership *schema.Ownership) error

	// GetOwnershipByID retrieves an ownership event, nil when absent
	GetOwnershipByID(ctx context.Context, ownershipID uint64) (*schema.Ownership, error)

	// GetOwnershipByBtcTxID retrieves the event owning a transaction, nil for
	// unowned transactions (fuel)
	GetOwnershipByBtcTxID(ctx context.Context, txID uint64) (*schema.Ownership, error)

	// GetOpenOwnership retrieves the single open (pending or confirmed) event
	// of a type for an edition, nil when there is none
	GetOpenOwnership(ctx context.Context, editionID uint64, ownershipType schema.OwnershipType) (*schema.Ownership, error)

	// UpdateOwnershipStatus moves an event to a new lifecycle state
	UpdateOwnershipStatus(ctx context.Context, ownershipID uint64, status schema.OwnershipStatus, respondedAt *time.Time) error

	// LinkOwnershipTx attaches a built transaction to its owning event
	LinkOwnershipTx(ctx context.Context, ownershipID uint64, txID uint64) error

	// UpdateOwnershipPrevAddress re-anchors an event's source address after a
	// migration moved the funds
	UpdateOwnershipPrevAddress(ctx context.Context, ownershipID uint64, address domain.Address) error

	// UpdateOwnershipNewAddress records the destination address once the
	// counterparty allocates it
	UpdateOwnershipNewAddress(ctx context.Context, ownershipID uint64, address domain.Address) error

	// SetOwnershipWIF replaces the sealed signing key, used when a migration
	// re-anchors an event to a freshly derived address
	SetOwnershipWIF(ctx context.Context, ownershipID uint64, ciphertext string) error

	// ClearOwnershipWIF erases the sealed signing key once the anchoring
	// transaction confirmed. Idempotent.
	ClearOwnershipWIF(ctx context.Context, ownershipID uint64) error

	// CreateBitcoinTransaction persists a built transaction
	CreateBitcoinTransaction(ctx context.Context, tx *schema.BitcoinTransaction) error

	// GetBitcoinTransactionByID retrieves a transaction, nil when absent
	GetBitcoinTransactionByID(ctx context.Context, txID uint64) (*schema.BitcoinTransaction, error)

	// GetBitcoinTransactionByHash retrieves a transaction by its network id
	GetBitcoinTransactionByHash(ctx context.Context, txHash string) (*schema.BitcoinTransaction, error)

	// MarkTransactionBroadcast records the network transaction id and moves
	// the row pending -> unconfirmed
	MarkTransactionBroadcast(ctx context.Context, txID uint64, txHash string) error

	// MarkTransactionConfirmed moves a transaction to confirmed and reports
	// whether this call performed the transition. A transaction already
	// confirmed (or rejected) is untouched and reports false; ACL and event
	// mutation must only happen on the transition edge.
	MarkTransactionConfirmed(ctx context.Context, txHash string, confirmations int) (bool, *schema.BitcoinTransaction, error)

	// MarkTransactionRejected moves a non-confirmed transaction to rejected
	MarkTransactionRejected(ctx context.Context, txID uint64) error

	// SetTransactionFromAddress re-anchors a pending transaction's source
	// address after a migration
	SetTransactionFromAddress(ctx context.Context, txID uint64, address domain.Address) error

	// SetTransactionDependent persists the continuation pointer: dependentID
	// may only be pushed after txID confirms
	SetTransactionDependent(ctx context.Context, txID uint64, dependentID uint64) error

	// ListTransactionsByStatus lists transactions in a lifecycle state, used
	// by restart reconciliation
	ListTransactionsByStatus(ctx context.Context, status schema.TxStatus) ([]*schema.BitcoinTransaction, error)

	// SelectAndSpendUnspents atomically selects one unused funding output per
	// requested amount and marks them spent by the given transaction. Runs
	// under a row-level exclusive lock; returns domain.ErrInsufficientFunds
	// when the pool cannot satisfy every requested denomination.
	SelectAndSpendUnspents(ctx context.Context, address string, amounts []int64, spendingTxID uint64) ([]schema.UnspentOutput, error)

	// ImportUnspentOutputs adds funding outputs to the pool, skipping any
	// (tx_hash, vout) already known
	ImportUnspentOutputs(ctx context.Context, outputs []schema.UnspentOutput) error

	// GetSpendableBalance sums the unspent funding outputs held by an address
	GetSpendableBalance(ctx context.Context, address string) (int64, error)

	// GetKeyValue retrieves an operational state value, empty when unset
	GetKeyValue(ctx context.Context, key string) (string, error)

	// SetKeyValue stores an operational state value
	SetKeyValue(ctx context.Context, key string, value string) error
}
