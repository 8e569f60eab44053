package migration_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/logger"
	"github.com/ascribe/spool-engine/internal/migration"
	"github.com/ascribe/spool-engine/internal/mocks"
	"github.com/ascribe/spool-engine/internal/spool"
	"github.com/ascribe/spool-engine/internal/store/schema"
	"github.com/ascribe/spool-engine/internal/wallet"
)

const federationPassword = "federation secret"

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testReconcilerMocks struct {
	ctrl       *gomock.Controller
	store      *mocks.MockStore
	wallet     *wallet.Wallet
	reconciler *migration.Reconciler

	fundingAddress domain.Address
}

func setupTestReconciler(t *testing.T) *testReconcilerMocks {
	ctrl := gomock.NewController(t)

	w, err := wallet.New(domain.NetworkRegtest, []byte("0123456789abcdef"))
	require.NoError(t, err)
	fundingAddress, _, err := w.Derive(federationPassword, "funding/0")
	require.NoError(t, err)

	st := mocks.NewMockStore(ctrl)
	builder := spool.NewBuilder(spool.Config{FundingAddress: fundingAddress}, st)

	return &testReconcilerMocks{
		ctrl:           ctrl,
		store:          st,
		wallet:         w,
		reconciler:     migration.NewReconciler(st, w, builder, federationPassword),
		fundingAddress: fundingAddress,
	}
}

// pendingTransfer builds an event whose chain head derives from the given
// password at a fixed path, together with its built transaction.
func (tm *testReconcilerMocks) pendingTransfer(t *testing.T, password string) (*schema.Ownership, *schema.BitcoinTransaction) {
	chainHead, chainWIF, err := tm.wallet.Derive(password, "2015/3/7/1200/0")
	require.NoError(t, err)
	sealed, err := tm.wallet.SealWIF(chainWIF, federationPassword)
	require.NoError(t, err)

	recipient, _, err := tm.wallet.Derive("recipient password", "2015/9/2/100/0")
	require.NoError(t, err)
	outputs, err := schema.EncodeOutputs([]schema.TxOutput{
		{Amount: spool.Dust, Address: recipient.Btc()},
	})
	require.NoError(t, err)

	txID := uint64(31)
	editionID := uint64(21)
	owner := int64(42)
	tx := &schema.BitcoinTransaction{
		ID:          txID,
		FromAddress: chainHead,
		Outputs:     outputs,
		SpoolVerb:   "ASCRIBESPOOL01TRANSFER1",
		Fee:         spool.MiningFee,
		Status:      schema.TxStatusPending,
	}
	event := &schema.Ownership{
		ID:             9,
		Type:           schema.OwnershipTypeTransfer,
		Status:         schema.OwnershipStatusPending,
		PieceID:        11,
		EditionID:      &editionID,
		PrevOwnerID:    &owner,
		PrevBtcAddress: chainHead,
		NewBtcAddress:  recipient,
		CiphertextWIF:  sealed,
		BtcTxID:        &txID,
		CreatedAt:      time.Date(2015, 3, 7, 12, 0, 0, 0, time.UTC),
	}
	return event, tx
}

func TestEnsureSpendable_AddressStillDerives(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event, tx := tm.pendingTransfer(t, "user password")
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(9)).Return(event, nil)
	tm.store.EXPECT().GetBitcoinTransactionByID(gomock.Any(), uint64(31)).Return(tx, nil)

	// Password unchanged; no migration, the original goes out as built.
	next, err := tm.reconciler.EnsureSpendable(context.Background(), 9, "user password")
	require.NoError(t, err)
	assert.Same(t, tx, next)
}

func TestEnsureSpendable_StaleAddressGetsMigration(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event, tx := tm.pendingTransfer(t, "old password")
	staleHead := event.PrevBtcAddress

	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(9)).Return(event, nil)
	tm.store.EXPECT().GetBitcoinTransactionByID(gomock.Any(), uint64(31)).Return(tx, nil)

	// The reconciler inserts a migration event and asks the builder for its
	// transaction.
	var migrationEvent *schema.Ownership
	tm.store.EXPECT().
		CreateOwnership(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *schema.Ownership) error {
			e.ID = 10
			migrationEvent = e
			return nil
		})
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(10)).
		DoAndReturn(func(_ context.Context, _ uint64) (*schema.Ownership, error) {
			return migrationEvent, nil
		})
	tm.store.EXPECT().GetPieceByID(gomock.Any(), uint64(11)).
		Return(&schema.Piece{ID: 11, BitcoinAddress: staleHead}, nil)
	tm.store.EXPECT().GetEditionByID(gomock.Any(), uint64(21)).
		Return(&schema.Edition{ID: 21, PieceID: 11, EditionNumber: 1}, nil)
	var migrateTx *schema.BitcoinTransaction
	tm.store.EXPECT().
		CreateBitcoinTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, mtx *schema.BitcoinTransaction) error {
			mtx.ID = 32
			migrateTx = mtx
			return nil
		})
	tm.store.EXPECT().LinkOwnershipTx(gomock.Any(), uint64(10), uint64(32)).Return(nil)

	// Continuation pointer: the original may only follow the migration
	tm.store.EXPECT().SetTransactionDependent(gomock.Any(), uint64(32), uint64(31)).Return(nil)

	var freshAddress domain.Address
	tm.store.EXPECT().
		UpdateOwnershipPrevAddress(gomock.Any(), uint64(9), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, address domain.Address) error {
			freshAddress = address
			return nil
		})
	tm.store.EXPECT().
		SetTransactionFromAddress(gomock.Any(), uint64(31), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, address domain.Address) error {
			assert.Equal(t, freshAddress, address)
			return nil
		})
	var resealed string
	tm.store.EXPECT().
		SetOwnershipWIF(gomock.Any(), uint64(9), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, ciphertext string) error {
			resealed = ciphertext
			return nil
		})

	// The user changed their password; the stored chain head no longer
	// derives from it.
	next, err := tm.reconciler.EnsureSpendable(context.Background(), 9, "new password")
	require.NoError(t, err)
	require.Same(t, migrateTx, next)

	// The migrate transaction spends the stale head and pays the fresh one
	assert.Equal(t, staleHead, migrateTx.FromAddress)
	assert.Equal(t, "ASCRIBESPOOL01MIGRATE1", migrateTx.SpoolVerb)
	outputs, err := migrateTx.DecodeOutputs()
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, freshAddress.Btc(), outputs[0].Address)

	// The fresh address derives from the new password
	ok, err := tm.wallet.Verify("new password", freshAddress)
	require.NoError(t, err)
	assert.True(t, ok)

	// The re-sealed key signs for the fresh address
	wif, err := tm.wallet.UnsealWIF(resealed, federationPassword)
	require.NoError(t, err)
	fromWIF, err := tm.wallet.AddressForWIF(wif)
	require.NoError(t, err)
	assert.Equal(t, freshAddress.Btc(), fromWIF)

	// The migration event escrows the stale key so the broadcaster can
	// still spend the old head exactly once.
	require.NotNil(t, migrationEvent)
	assert.Equal(t, schema.OwnershipTypeMigration, migrationEvent.Type)
	staleWIF, err := tm.wallet.UnsealWIF(migrationEvent.CiphertextWIF, federationPassword)
	require.NoError(t, err)
	fromStale, err := tm.wallet.AddressForWIF(staleWIF)
	require.NoError(t, err)
	assert.Equal(t, staleHead.Btc(), fromStale)
}

func TestEnsureSpendable_CustodyAddressSkipsCheck(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	custodyHead, _, err := tm.wallet.Derive(federationPassword, wallet.CustodyPath(42, time.Date(2015, 3, 7, 12, 0, 0, 0, time.UTC), 1))
	require.NoError(t, err)

	txID := uint64(31)
	event := &schema.Ownership{
		ID:             9,
		Type:           schema.OwnershipTypeTransfer,
		PrevBtcAddress: custodyHead,
		BtcTxID:        &txID,
	}
	tx := &schema.BitcoinTransaction{ID: txID, FromAddress: custodyHead}
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(9)).Return(event, nil)
	tm.store.EXPECT().GetBitcoinTransactionByID(gomock.Any(), txID).Return(tx, nil)

	// Custody addresses derive from the federation password; a user
	// password change can never strand them.
	next, err := tm.reconciler.EnsureSpendable(context.Background(), 9, "whatever password")
	require.NoError(t, err)
	assert.Same(t, tx, next)
}

func TestEnsureSpendable_EmptyPasswordSkipsCheck(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event, tx := tm.pendingTransfer(t, "user password")
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(9)).Return(event, nil)
	tm.store.EXPECT().GetBitcoinTransactionByID(gomock.Any(), uint64(31)).Return(tx, nil)

	// Restart reconciliation has no password to verify against
	next, err := tm.reconciler.EnsureSpendable(context.Background(), 9, "")
	require.NoError(t, err)
	assert.Same(t, tx, next)
}

func TestEnsureSpendable_EventWithoutTransaction(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(9)).
		Return(&schema.Ownership{ID: 9}, nil)

	_, err := tm.reconciler.EnsureSpendable(context.Background(), 9, "user password")
	assert.ErrorIs(t, err, domain.ErrInvalidEventState)
}
