package broadcaster

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/adapter"
	"github.com/ascribe/spool-engine/internal/bitcoin"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/messaging"
	"github.com/ascribe/spool-engine/internal/store"
	"github.com/ascribe/spool-engine/internal/store/schema"
	"github.com/ascribe/spool-engine/internal/wallet"
)

// ConfirmationHandler applies the domain effects of a confirmed ownership
// transaction
//
//go:generate mockgen -source=broadcaster.go -destination=../mocks/broadcaster.go -package=mocks -mock_names=ConfirmationHandler=MockConfirmationHandler
type ConfirmationHandler interface {
	OnTxConfirmed(ctx context.Context, event *schema.Ownership, txHash string) error
}

// Config holds the broadcaster's wallet dependencies. Everything is
// explicit; there is no process-global wallet lookup.
type Config struct {
	// FundingAddress is the engine's fee/funding wallet address
	FundingAddress domain.Address
	// FundingWIF is the funding wallet's signing key in WIF encoding
	FundingWIF string
	// FederationPassword derives custody-namespace keys
	FederationPassword string
}

// Broadcaster signs and submits built transactions and drives the
// confirmation edge. Unspent selection runs under the store's row lock, the
// system's only hard mutual exclusion: two concurrent submissions must
// never draw the same funding output.
type Broadcaster struct {
	config    Config
	store     store.Store
	wallet    *wallet.Wallet
	node      bitcoin.Client
	handler   ConfirmationHandler
	publisher messaging.Publisher
	clock     adapter.Clock
}

// NewBroadcaster creates a new broadcaster
func NewBroadcaster(cfg Config, st store.Store, w *wallet.Wallet, node bitcoin.Client, handler ConfirmationHandler, publisher messaging.Publisher, clock adapter.Clock) *Broadcaster {
	return &Broadcaster{
		config:    cfg,
		store:     st,
		wallet:    w,
		node:      node,
		handler:   handler,
		publisher: publisher,
		clock:     clock,
	}
}

// Submit signs and pushes a built transaction, returning its network hash.
// Calling Submit again for a transaction that already left the pending
// state returns the recorded hash without touching the chain.
//
// Error taxonomy: domain.ErrInsufficientFunds when the funding pool cannot
// cover the denominations, domain.ErrInvalidAddress for malformed
// addresses, domain.ErrBroadcastFailed for node-side rejection. Nothing was
// spent when an error is returned before the push step; the selected
// unspents stay bound to this transaction id and are reused on retry.
func (b *Broadcaster) Submit(ctx context.Context, txID uint64, password string) (string, error) {
	tx, err := b.store.GetBitcoinTransactionByID(ctx, txID)
	if err != nil {
		return "", err
	}
	if tx == nil {
		return "", fmt.Errorf("transaction %d: %w", txID, domain.ErrOwnershipNotFound)
	}
	if tx.Status != schema.TxStatusPending && tx.TxHash != nil {
		return *tx.TxHash, nil
	}

	event, err := b.store.GetOwnershipByBtcTxID(ctx, txID)
	if err != nil {
		return "", err
	}
	outputs, err := tx.DecodeOutputs()
	if err != nil {
		return "", err
	}
	if len(outputs) == 0 {
		return "", fmt.Errorf("transaction %d has no outputs: %w", txID, domain.ErrInvalidEventState)
	}

	fromWIF, err := b.resolveKey(tx, event, password)
	if err != nil {
		return "", err
	}
	fundingWIF, err := btcutil.DecodeWIF(b.config.FundingWIF)
	if err != nil {
		return "", fmt.Errorf("funding wif is malformed: %w", err)
	}

	// Token inputs come from the spending address; the flat fee is drawn
	// from the funding pool unless the spending address is the funding
	// wallet itself.
	var inputs []schema.UnspentOutput
	fromBtc := tx.FromAddress.Btc()
	amounts := outputAmounts(outputs)
	if fromBtc == b.config.FundingAddress.Btc() {
		inputs, err = b.store.SelectAndSpendUnspents(ctx, fromBtc, append(amounts, tx.Fee), txID)
		if err != nil {
			return "", err
		}
	} else {
		tokenInputs, err := b.store.SelectAndSpendUnspents(ctx, fromBtc, amounts, txID)
		if err != nil {
			return "", err
		}
		feeInputs, err := b.store.SelectAndSpendUnspents(ctx, b.config.FundingAddress.Btc(), []int64{tx.Fee}, txID)
		if err != nil {
			return "", err
		}
		inputs = append(tokenInputs, feeInputs...)
	}

	change := sumInputs(inputs) - sumOutputs(outputs) - tx.Fee
	if change < 0 {
		return "", fmt.Errorf("inputs do not cover outputs and fee for transaction %d: %w", txID, domain.ErrInsufficientFunds)
	}

	msgTx, err := assembleTx(b.wallet.Params(), inputs, outputs, tx.SpoolVerb, b.config.FundingAddress.Btc(), change)
	if err != nil {
		return "", err
	}

	keys := map[string]*btcutil.WIF{fromBtc: fromWIF, b.config.FundingAddress.Btc(): fundingWIF}
	if err := signTx(msgTx, inputs, keys); err != nil {
		return "", err
	}
	raw, err := serializeTx(msgTx)
	if err != nil {
		return "", err
	}

	txHash, err := b.node.PushTransaction(ctx, raw)
	if err != nil {
		return "", err
	}

	logger.InfoCtx(ctx, "broadcast transaction",
		zap.Uint64("tx_id", txID),
		zap.String("tx_hash", txHash),
		zap.String("spool_verb", tx.SpoolVerb))

	if err := b.store.MarkTransactionBroadcast(ctx, txID, txHash); err != nil {
		return "", err
	}
	if err := b.trackOutputs(ctx, txHash, outputs, change); err != nil {
		return "", err
	}
	return txHash, nil
}

// ConfirmationResult reports what a confirmation observation changed
type ConfirmationResult struct {
	// Transitioned is true only for the observation that performed the
	// unconfirmed-to-confirmed edge
	Transitioned bool
	// DependentTxID is the continuation to submit next, set only on the
	// transition edge
	DependentTxID *uint64
	// OwnershipID identifies the owning event, nil for fuel transactions
	OwnershipID *uint64
}

// OnConfirmation handles a confirmation observation for a transaction.
// Idempotent under at-least-once delivery: only the observation that
// performs the status transition clears the sealed key, applies capability
// effects, publishes, and surfaces the dependent transaction.
func (b *Broadcaster) OnConfirmation(ctx context.Context, txHash string, confirmations int) (*ConfirmationResult, error) {
	if confirmations < 1 {
		return &ConfirmationResult{}, nil
	}

	transitioned, tx, err := b.store.MarkTransactionConfirmed(ctx, txHash, confirmations)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return &ConfirmationResult{}, nil
	}

	result := &ConfirmationResult{Transitioned: true, DependentTxID: tx.DependentTxID}

	event, err := b.store.GetOwnershipByBtcTxID(ctx, tx.ID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		// Fuel transactions are unowned; confirmation only settles the pool.
		logger.InfoCtx(ctx, "fuel transaction confirmed", zap.String("tx_hash", txHash))
		return result, nil
	}
	result.OwnershipID = &event.ID

	if err := b.handler.OnTxConfirmed(ctx, event, txHash); err != nil {
		return nil, err
	}
	b.publish(ctx, event, domain.NotificationConfirmed, &txHash)
	return result, nil
}

// HandleRejection marks a transaction rejected. The owning event stays
// pending and visible for administrative retry; a rejected transaction is
// terminal.
func (b *Broadcaster) HandleRejection(ctx context.Context, txID uint64) error {
	logger.WarnCtx(ctx, "transaction rejected by the network", zap.Uint64("tx_id", txID))
	return b.store.MarkTransactionRejected(ctx, txID)
}

// resolveKey produces the signing key for the transaction's source address
func (b *Broadcaster) resolveKey(tx *schema.BitcoinTransaction, event *schema.Ownership, password string) (*btcutil.WIF, error) {
	fromBtc := tx.FromAddress.Btc()
	if fromBtc == b.config.FundingAddress.Btc() {
		return btcutil.DecodeWIF(b.config.FundingWIF)
	}

	path := tx.FromAddress.Path()
	if wallet.IsCustodyPath(path) {
		derived, wif, err := b.wallet.Derive(b.config.FederationPassword, path)
		if err != nil {
			return nil, err
		}
		if derived != tx.FromAddress {
			return nil, fmt.Errorf("custody address %s does not derive: %w", fromBtc, domain.ErrInvalidEventState)
		}
		return wif, nil
	}

	derived, wif, err := b.wallet.Derive(password, path)
	if err != nil {
		return nil, err
	}
	if derived == tx.FromAddress {
		return wif, nil
	}

	// Password changed since the address was issued; the migration
	// reconciler re-anchors such transactions before they reach Submit, so
	// hitting this path means the sealed key is the only way in.
	if event == nil || event.CiphertextWIF == "" {
		return nil, fmt.Errorf("address %s does not derive and carries no sealed key: %w", fromBtc, domain.ErrWrongPassword)
	}
	return b.wallet.UnsealWIF(event.CiphertextWIF, b.config.FederationPassword)
}

// trackOutputs records this transaction's value outputs as pool unspents.
// SPOOL chains spend zero-confirmation outputs, so tracking happens at
// broadcast, not confirmation.
func (b *Broadcaster) trackOutputs(ctx context.Context, txHash string, outputs []schema.TxOutput, change int64) error {
	rows := make([]schema.UnspentOutput, 0, len(outputs)+1)
	for i, out := range outputs {
		script, err := payToAddrScript(out.Address, b.wallet.Params())
		if err != nil {
			return err
		}
		rows = append(rows, schema.UnspentOutput{
			TxHash:       txHash,
			Vout:         uint32(i),
			Amount:       out.Amount,
			Address:      out.Address,
			ScriptPubKey: hex.EncodeToString(script),
		})
	}
	if change > 0 {
		script, err := payToAddrScript(b.config.FundingAddress.Btc(), b.wallet.Params())
		if err != nil {
			return err
		}
		rows = append(rows, schema.UnspentOutput{
			TxHash:       txHash,
			Vout:         uint32(len(outputs)),
			Amount:       change,
			Address:      b.config.FundingAddress.Btc(),
			ScriptPubKey: hex.EncodeToString(script),
		})
	}
	return b.store.ImportUnspentOutputs(ctx, rows)
}

func (b *Broadcaster) publish(ctx context.Context, event *schema.Ownership, kind domain.NotificationKind, txHash *string) {
	if b.publisher == nil {
		return
	}
	notification := &domain.OwnershipNotification{
		EventID:     ulid.Make().String(),
		Kind:        kind,
		OwnershipID: event.ID,
		PieceID:     event.PieceID,
		EditionID:   event.EditionID,
		PrevOwnerID: event.PrevOwnerID,
		NewOwnerID:  event.NewOwnerID,
		TxHash:      txHash,
		Timestamp:   b.clock.Now(),
	}
	if err := b.publisher.PublishNotification(ctx, notification); err != nil {
		// Notifications are best-effort; the protocol state is already
		// durable.
		logger.ErrorCtx(ctx, err, zap.Uint64("ownership_id", event.ID))
	}
}

func outputAmounts(outputs []schema.TxOutput) []int64 {
	amounts := make([]int64, 0, len(outputs))
	for _, out := range outputs {
		amounts = append(amounts, out.Amount)
	}
	return amounts
}

func sumInputs(inputs []schema.UnspentOutput) int64 {
	var total int64
	for _, in := range inputs {
		total += in.Amount
	}
	return total
}

func sumOutputs(outputs []schema.TxOutput) int64 {
	var total int64
	for _, out := range outputs {
		total += out.Amount
	}
	return total
}
