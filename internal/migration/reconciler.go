package migration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/spool"
	"github.com/ascribe/spool-engine/internal/store"
	"github.com/ascribe/spool-engine/internal/store/schema"
	"github.com/ascribe/spool-engine/internal/wallet"
)

// Reconciler repairs the address chain of events funded before a password
// change. The ADDRESS a password derives moves with the password, so a stale
// event's source address no longer matches fresh derivation even though the
// escrowed signing key (sealed under the federation password) still opens.
// The reconciler moves the funds to a freshly derived address and re-anchors
// the event, invisibly to the user.
type Reconciler struct {
	store              store.Store
	wallet             *wallet.Wallet
	builder            *spool.Builder
	federationPassword string
}

// NewReconciler creates a new migration reconciler
func NewReconciler(st store.Store, w *wallet.Wallet, builder *spool.Builder, federationPassword string) *Reconciler {
	return &Reconciler{store: st, wallet: w, builder: builder, federationPassword: federationPassword}
}

// EnsureSpendable checks that an event's source address still derives from
// the supplied password and, when it does not, inserts a compensating
// migrate transaction ahead of the event's own transaction. On return the
// event spends from an address the current password controls, either way.
//
// The returned transaction is the one to broadcast next: the migrate
// transaction when one was inserted, otherwise the event's own.
func (r *Reconciler) EnsureSpendable(ctx context.Context, ownershipID uint64, password string) (*schema.BitcoinTransaction, error) {
	event, err := r.store.GetOwnershipByID(ctx, ownershipID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("ownership %d: %w", ownershipID, domain.ErrOwnershipNotFound)
	}
	if event.BtcTxID == nil {
		return nil, fmt.Errorf("ownership %d has no transaction to reconcile: %w", ownershipID, domain.ErrInvalidEventState)
	}
	original, err := r.store.GetBitcoinTransactionByID(ctx, *event.BtcTxID)
	if err != nil {
		return nil, err
	}

	fromAddress := event.PrevBtcAddress
	if fromAddress == "" || wallet.IsCustodyPath(fromAddress.Path()) {
		// Custody and funding-wallet spends never depend on a user password.
		return original, nil
	}
	if password == "" {
		// Recovered submissions carry no password; derivation cannot be
		// checked, so the transaction goes out against its recorded address.
		return original, nil
	}

	match, err := r.wallet.Verify(password, fromAddress)
	if err != nil {
		return nil, err
	}
	if match {
		return original, nil
	}

	// The chain head predates a password change. The escrowed key still
	// opens under the federation password, so the stale address remains
	// spendable exactly once, here.
	staleWIF, err := r.wallet.UnsealWIF(event.CiphertextWIF, r.federationPassword)
	if err != nil {
		return nil, err
	}

	freshAddress, freshWIF, err := r.wallet.Derive(password, wallet.NewPath(event.CreatedAt, event.ID))
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "inserting migrate transaction for stale address",
		zap.Uint64("ownership_id", event.ID),
		zap.String("stale", fromAddress.Btc()),
		zap.String("fresh", freshAddress.Btc()))

	sealedStale, err := r.wallet.SealWIF(staleWIF, r.federationPassword)
	if err != nil {
		return nil, err
	}
	migration := &schema.Ownership{
		Type:           schema.OwnershipTypeMigration,
		Status:         schema.OwnershipStatusPending,
		PieceID:        event.PieceID,
		EditionID:      event.EditionID,
		PrevOwnerID:    event.PrevOwnerID,
		NewOwnerID:     event.PrevOwnerID,
		PrevBtcAddress: fromAddress,
		NewBtcAddress:  freshAddress,
		CiphertextWIF:  sealedStale,
	}
	if err := r.store.CreateOwnership(ctx, migration); err != nil {
		return nil, err
	}

	migrateTx, err := r.builder.Build(ctx, migration.ID)
	if err != nil {
		return nil, err
	}

	// The original transaction may only be pushed once the migration lands.
	if err := r.store.SetTransactionDependent(ctx, migrateTx.ID, original.ID); err != nil {
		return nil, err
	}

	// Re-anchor the original onto the fresh address, which the current
	// password derives directly.
	if err := r.store.UpdateOwnershipPrevAddress(ctx, event.ID, freshAddress); err != nil {
		return nil, err
	}
	if err := r.store.SetTransactionFromAddress(ctx, original.ID, freshAddress); err != nil {
		return nil, err
	}
	sealedFresh, err := r.wallet.SealWIF(freshWIF, r.federationPassword)
	if err != nil {
		return nil, err
	}
	if err := r.store.SetOwnershipWIF(ctx, event.ID, sealedFresh); err != nil {
		return nil, err
	}

	return migrateTx, nil
}
