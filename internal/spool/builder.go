package spool

import (
	"context"
	"fmt"

	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// Protocol amount constants, in satoshi. These match the on-chain SPOOL
// conventions; changing them breaks compatibility with external indexers
// and the funding-pool denominations.
const (
	// Dust is the value of every token output
	Dust int64 = 3000
	// MiningFee is the flat fee attached to every transaction
	MiningFee int64 = 30000
)

// EstimateSize returns the byte-size estimate used for fee sanity checks
func EstimateSize(inputs, outputs int) int {
	return 10 + 148*inputs + 34*(outputs+1)
}

// Config holds the builder's explicit wallet dependencies. The funding
// wallet is passed in, never looked up by convention.
type Config struct {
	// FundingAddress is the engine's fee/funding wallet; registrations and
	// fuel transactions spend from it
	FundingAddress domain.Address
}

// Builder constructs unsigned transaction descriptors from ownership
// events. Building is deterministic and network-free; the only side effect
// is persisting the constructed row and linking it to the event.
type Builder struct {
	config Config
	store  store.Store
}

// NewBuilder creates a new transaction builder
func NewBuilder(config Config, st store.Store) *Builder {
	return &Builder{config: config, store: st}
}

// Build constructs, persists, and links the transaction for an ownership
// event. Malformed event state (missing addresses) is an internal invariant
// violation: address derivation completes earlier in the protocol, so these
// are never surfaced as user errors.
func (b *Builder) Build(ctx context.Context, ownershipID uint64) (*schema.BitcoinTransaction, error) {
	event, err := b.store.GetOwnershipByID(ctx, ownershipID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("ownership %d: %w", ownershipID, domain.ErrOwnershipNotFound)
	}
	if event.BtcTxID != nil {
		// Already built; rebuilding would detach the persisted row.
		return b.store.GetBitcoinTransactionByID(ctx, *event.BtcTxID)
	}

	piece, err := b.store.GetPieceByID(ctx, event.PieceID)
	if err != nil {
		return nil, err
	}
	if piece == nil {
		return nil, fmt.Errorf("piece %d for ownership %d: %w", event.PieceID, ownershipID, domain.ErrOwnershipNotFound)
	}

	verb, outputs, fromAddress, err := b.describe(ctx, event, piece)
	if err != nil {
		return nil, err
	}

	encoded, err := schema.EncodeOutputs(outputs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outputs: %w", err)
	}

	tx := &schema.BitcoinTransaction{
		FromAddress: fromAddress,
		Outputs:     encoded,
		SpoolVerb:   verb.String(),
		Fee:         MiningFee,
		Status:      schema.TxStatusPending,
	}
	if err := b.store.CreateBitcoinTransaction(ctx, tx); err != nil {
		return nil, err
	}
	if err := b.store.LinkOwnershipTx(ctx, event.ID, tx.ID); err != nil {
		return nil, err
	}
	return tx, nil
}

// BuildFuel constructs the unowned refill transaction that replenishes the
// funding pool with fee and token denominations. Fuel rows are deliberately
// not linked to any ownership event.
func (b *Builder) BuildFuel(ctx context.Context, toAddress domain.Address, fees, tokens int) (*schema.BitcoinTransaction, error) {
	if !toAddress.Valid() {
		return nil, fmt.Errorf("fuel destination %q: %w", toAddress, domain.ErrInvalidEventState)
	}

	outputs := make([]schema.TxOutput, 0, fees+tokens)
	for i := 0; i < fees; i++ {
		outputs = append(outputs, schema.TxOutput{Amount: MiningFee, Address: toAddress.Btc()})
	}
	for i := 0; i < tokens; i++ {
		outputs = append(outputs, schema.TxOutput{Amount: Dust, Address: toAddress.Btc()})
	}

	encoded, err := schema.EncodeOutputs(outputs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outputs: %w", err)
	}

	tx := &schema.BitcoinTransaction{
		FromAddress: b.config.FundingAddress,
		Outputs:     encoded,
		SpoolVerb:   Verb{Action: ActionFuel}.String(),
		Fee:         MiningFee,
		Status:      schema.TxStatusPending,
	}
	if err := b.store.CreateBitcoinTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// describe derives the verb, output list, and spending address for an event
func (b *Builder) describe(ctx context.Context, event *schema.Ownership, piece *schema.Piece) (Verb, []schema.TxOutput, domain.Address, error) {
	editionNumber := 0
	if event.EditionID != nil {
		edition, err := b.store.GetEditionByID(ctx, *event.EditionID)
		if err != nil {
			return Verb{}, nil, "", err
		}
		if edition == nil {
			return Verb{}, nil, "", fmt.Errorf("edition %d for ownership %d: %w",
				*event.EditionID, event.ID, domain.ErrOwnershipNotFound)
		}
		editionNumber = edition.EditionNumber
	}

	recipient := event.NewBtcAddress
	if recipient == "" {
		// Self-directed actions (registration, editions, migration targets)
		// anchor to the piece address.
		recipient = piece.BitcoinAddress
	}
	if !recipient.Valid() {
		return Verb{}, nil, "", fmt.Errorf("ownership %d has no valid recipient address: %w",
			event.ID, domain.ErrInvalidEventState)
	}

	switch event.Type {
	case schema.OwnershipTypeRegistration:
		// A piece registered before any editions exist carries the PIECE
		// marker; the unset edition-count sentinel drives the distinction.
		verb := Verb{Action: ActionPiece}
		if piece.NumEditions != schema.NumEditionsUnset {
			verb = Verb{Action: ActionRegister, Num: 0}
		}
		return verb, b.hashOutputs(piece, recipient), b.config.FundingAddress, nil

	case schema.OwnershipTypeEditionRegistration:
		return Verb{Action: ActionRegister, Num: editionNumber},
			b.hashOutputs(piece, recipient), b.config.FundingAddress, nil

	case schema.OwnershipTypeEditions:
		return Verb{Action: ActionEditions, Num: piece.NumEditions},
			[]schema.TxOutput{
				{Amount: Dust, Address: piece.HashAddress},
				{Amount: Dust, Address: recipient.Btc()},
			}, b.config.FundingAddress, nil

	case schema.OwnershipTypeTransfer, schema.OwnershipTypeConsignment,
		schema.OwnershipTypeUnconsignment, schema.OwnershipTypeMigration:
		fromAddress := event.PrevBtcAddress
		if !fromAddress.Valid() {
			return Verb{}, nil, "", fmt.Errorf("ownership %d has no valid source address: %w",
				event.ID, domain.ErrInvalidEventState)
		}
		verb := Verb{Num: editionNumber}
		switch event.Type {
		case schema.OwnershipTypeTransfer:
			verb.Action = ActionTransfer
		case schema.OwnershipTypeConsignment:
			verb.Action = ActionConsign
		case schema.OwnershipTypeUnconsignment:
			verb.Action = ActionUnconsign
		case schema.OwnershipTypeMigration:
			verb.Action = ActionMigrate
			if event.EditionID == nil {
				verb = Verb{Action: ActionMigratePiece}
			}
		}
		return verb,
			[]schema.TxOutput{{Amount: Dust, Address: recipient.Btc()}},
			fromAddress, nil

	case schema.OwnershipTypeLoan, schema.OwnershipTypeLoanPiece:
		fromAddress := event.PrevBtcAddress
		if !fromAddress.Valid() {
			return Verb{}, nil, "", fmt.Errorf("ownership %d has no valid source address: %w",
				event.ID, domain.ErrInvalidEventState)
		}
		loanRange, ok := event.LoanRange()
		if !ok {
			return Verb{}, nil, "", fmt.Errorf("ownership %d loan has no date range: %w",
				event.ID, domain.ErrInvalidEventState)
		}
		verb := NewLoanVerb(editionNumber, loanRange)
		if event.Type == schema.OwnershipTypeLoanPiece {
			verb = NewLoanPieceVerb(loanRange)
		}
		return verb,
			[]schema.TxOutput{{Amount: Dust, Address: recipient.Btc()}},
			fromAddress, nil

	default:
		// Shares never touch the chain; there is nothing to build.
		return Verb{}, nil, "", fmt.Errorf("ownership type %q has no on-chain form: %w",
			event.Type, domain.ErrInvalidEventState)
	}
}

// hashOutputs is the registration output shape: both content-hash addresses
// followed by the recipient, three dust outputs in all.
func (b *Builder) hashOutputs(piece *schema.Piece, recipient domain.Address) []schema.TxOutput {
	return []schema.TxOutput{
		{Amount: Dust, Address: piece.HashAddress},
		{Amount: Dust, Address: piece.HashMetadataAddress},
		{Amount: Dust, Address: recipient.Btc()},
	}
}
