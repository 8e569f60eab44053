package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascribe/spool-engine/internal/acl"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestPiece creates a test piece owned by the given registrant
func buildTestPiece(registreeID int64, title string) *schema.Piece {
	return &schema.Piece{
		Title:               title,
		ArtistName:          "Test Artist",
		RegistreeID:         registreeID,
		BitcoinAddress:      domain.NewAddress("2015/3/7/1200/0", "1Piece"+title),
		HashAddress:         "1Hash" + title,
		HashMetadataAddress: "1HashMeta" + title,
		NumEditions:         schema.NumEditionsUnset,
	}
}

// createTestPiece persists a piece and returns it
func createTestPiece(t *testing.T, store Store, registreeID int64, title string) *schema.Piece {
	piece := buildTestPiece(registreeID, title)
	require.NoError(t, store.CreatePiece(context.Background(), piece))
	require.NotZero(t, piece.ID)
	return piece
}

// createTestEdition persists one numbered edition of a piece
func createTestEdition(t *testing.T, store Store, pieceID uint64, number int, ownerID int64) *schema.Edition {
	editions := []schema.Edition{{
		PieceID:        pieceID,
		EditionNumber:  number,
		OwnerID:        ownerID,
		BitcoinAddress: domain.NewAddress("2015/3/7/1200/1", fmt.Sprintf("1Edition%d", number)),
	}}
	require.NoError(t, store.CreateEditions(context.Background(), editions))

	edition, err := store.GetEdition(context.Background(), pieceID, number)
	require.NoError(t, err)
	require.NotNil(t, edition)
	return edition
}

// buildTestTransaction creates an unpersisted pending transaction row
func buildTestTransaction(t *testing.T, from domain.Address, recipient string) *schema.BitcoinTransaction {
	outputs, err := schema.EncodeOutputs([]schema.TxOutput{
		{Amount: 3000, Address: recipient},
	})
	require.NoError(t, err)
	return &schema.BitcoinTransaction{
		FromAddress: from,
		Outputs:     outputs,
		SpoolVerb:   "ASCRIBESPOOL01TRANSFER1",
		Fee:         30000,
		Status:      schema.TxStatusPending,
	}
}

// =============================================================================
// Test: ActionControl
// =============================================================================

func testActionControl(t *testing.T, store Store) {
	ctx := context.Background()
	piece := createTestPiece(t, store, 42, "ACL")
	editionID := uint64(1)

	t.Run("get before any grant returns nil without error", func(t *testing.T) {
		record, err := store.GetActionControl(ctx, 42, piece.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("upsert creates the record with the exact flag set", func(t *testing.T) {
		caps := acl.Capabilities{View: true, Edit: true, Transfer: true}
		require.NoError(t, store.UpsertActionControl(ctx, 42, piece.ID, nil, caps))

		record, err := store.GetActionControl(ctx, 42, piece.ID, nil)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, caps, record.Capabilities())
	})

	t.Run("upsert overwrites every flag, never merges", func(t *testing.T) {
		require.NoError(t, store.UpsertActionControl(ctx, 42, piece.ID, nil,
			acl.Capabilities{View: true}))

		record, err := store.GetActionControl(ctx, 42, piece.ID, nil)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, acl.Capabilities{View: true}, record.Capabilities())
		assert.False(t, record.ACLTransfer)
	})

	t.Run("piece-level overwrite updates in place, never duplicates", func(t *testing.T) {
		require.NoError(t, store.UpsertActionControl(ctx, 7, piece.ID, nil,
			acl.Capabilities{View: true, Edit: true, Transfer: true}))
		require.NoError(t, store.UpsertActionControl(ctx, 7, piece.ID, nil,
			acl.Capabilities{View: true}))

		record, err := store.GetActionControl(ctx, 7, piece.ID, nil)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, acl.Capabilities{View: true}, record.Capabilities())
		assert.False(t, record.ACLEdit)
		assert.False(t, record.ACLTransfer)

		pg, ok := store.(*pgStore)
		require.True(t, ok)
		var count int64
		require.NoError(t, pg.db.Model(&schema.ActionControl{}).
			Where("user_id = ? AND piece_id = ? AND edition_id IS NULL", int64(7), piece.ID).
			Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("piece and edition scope are distinct records", func(t *testing.T) {
		require.NoError(t, store.UpsertActionControl(ctx, 42, piece.ID, &editionID,
			acl.Capabilities{View: true, Loan: true}))

		pieceRecord, err := store.GetActionControl(ctx, 42, piece.ID, nil)
		require.NoError(t, err)
		require.NotNil(t, pieceRecord)
		assert.False(t, pieceRecord.ACLLoan)

		editionRecord, err := store.GetActionControl(ctx, 42, piece.ID, &editionID)
		require.NoError(t, err)
		require.NotNil(t, editionRecord)
		assert.True(t, editionRecord.ACLLoan)
	})

	t.Run("delete removes only the scoped record", func(t *testing.T) {
		require.NoError(t, store.DeleteActionControl(ctx, 42, piece.ID, &editionID))

		editionRecord, err := store.GetActionControl(ctx, 42, piece.ID, &editionID)
		require.NoError(t, err)
		assert.Nil(t, editionRecord)

		pieceRecord, err := store.GetActionControl(ctx, 42, piece.ID, nil)
		require.NoError(t, err)
		assert.NotNil(t, pieceRecord)
	})
}

func testListByCapability(t *testing.T, store Store) {
	ctx := context.Background()
	visible := createTestPiece(t, store, 42, "Visible")
	hidden := createTestPiece(t, store, 42, "Hidden")
	edition := createTestEdition(t, store, visible.ID, 1, 42)

	require.NoError(t, store.UpsertActionControl(ctx, 42, visible.ID, nil,
		acl.Capabilities{View: true, Edit: true}))
	require.NoError(t, store.UpsertActionControl(ctx, 42, hidden.ID, nil,
		acl.Capabilities{}))
	require.NoError(t, store.UpsertActionControl(ctx, 42, visible.ID, &edition.ID,
		acl.Capabilities{View: true}))

	t.Run("piece listing honors the predicate and ignores edition records", func(t *testing.T) {
		pieceIDs, err := store.ListPieceIDsByCapability(ctx, 42, map[string]bool{"acl_view": true})
		require.NoError(t, err)
		assert.Equal(t, []uint64{visible.ID}, pieceIDs)
	})

	t.Run("multi-flag predicate narrows the result", func(t *testing.T) {
		pieceIDs, err := store.ListPieceIDsByCapability(ctx, 42,
			map[string]bool{"acl_view": true, "acl_edit": false})
		require.NoError(t, err)
		assert.Empty(t, pieceIDs)
	})

	t.Run("edition listing sees only edition records", func(t *testing.T) {
		editionIDs, err := store.ListEditionIDsByCapability(ctx, 42, map[string]bool{"acl_view": true})
		require.NoError(t, err)
		assert.Equal(t, []uint64{edition.ID}, editionIDs)
	})

	t.Run("unknown flag is rejected before touching the database", func(t *testing.T) {
		_, err := store.ListPieceIDsByCapability(ctx, 42, map[string]bool{"acl_bogus": true})
		assert.Error(t, err)
	})
}

// =============================================================================
// Test: Pieces and Editions
// =============================================================================

func testPiecesAndEditions(t *testing.T, store Store) {
	ctx := context.Background()
	piece := createTestPiece(t, store, 42, "Editions")

	t.Run("new piece carries the unset edition sentinel", func(t *testing.T) {
		loaded, err := store.GetPieceByID(ctx, piece.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, schema.NumEditionsUnset, loaded.NumEditions)
	})

	t.Run("unknown piece returns nil without error", func(t *testing.T) {
		loaded, err := store.GetPieceByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("edition batch insert is idempotent per (piece, number)", func(t *testing.T) {
		require.NoError(t, store.SetPieceNumEditions(ctx, piece.ID, 3))

		editions := make([]schema.Edition, 0, 3)
		for n := 1; n <= 3; n++ {
			editions = append(editions, schema.Edition{
				PieceID:        piece.ID,
				EditionNumber:  n,
				OwnerID:        42,
				BitcoinAddress: domain.NewAddress("2015/3/7/1200/1", fmt.Sprintf("1Ed%d", n)),
			})
		}
		require.NoError(t, store.CreateEditions(ctx, editions))
		// Re-running the declaration must not duplicate rows
		require.NoError(t, store.CreateEditions(ctx, editions))

		second, err := store.GetEdition(ctx, piece.ID, 2)
		require.NoError(t, err)
		require.NotNil(t, second)
		assert.Equal(t, 2, second.EditionNumber)
		assert.Equal(t, int64(42), second.OwnerID)

		loaded, err := store.GetPieceByID(ctx, piece.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.NumEditions)
	})

	t.Run("ownership handoff moves owner and chain head together", func(t *testing.T) {
		edition, err := store.GetEdition(ctx, piece.ID, 1)
		require.NoError(t, err)
		require.NotNil(t, edition)

		newHead := domain.NewAddress("2015/9/2/100/0", "1NewOwner")
		require.NoError(t, store.UpdateEditionOwner(ctx, edition.ID, 77, newHead))

		loaded, err := store.GetEditionByID(ctx, edition.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, int64(77), loaded.OwnerID)
		assert.Equal(t, newHead, loaded.BitcoinAddress)
	})

	t.Run("consignee is set and cleared", func(t *testing.T) {
		edition, err := store.GetEdition(ctx, piece.ID, 1)
		require.NoError(t, err)

		consigneeID := int64(88)
		require.NoError(t, store.SetEditionConsignee(ctx, edition.ID, &consigneeID))

		loaded, err := store.GetEditionByID(ctx, edition.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded.ConsigneeID)
		assert.Equal(t, consigneeID, *loaded.ConsigneeID)

		require.NoError(t, store.SetEditionConsignee(ctx, edition.ID, nil))
		loaded, err = store.GetEditionByID(ctx, edition.ID)
		require.NoError(t, err)
		assert.Nil(t, loaded.ConsigneeID)
	})
}

// =============================================================================
// Test: Ownership Events
// =============================================================================

func testOwnershipEvents(t *testing.T, store Store) {
	ctx := context.Background()
	piece := createTestPiece(t, store, 42, "Ownership")
	edition := createTestEdition(t, store, piece.ID, 1, 42)
	ownerID := int64(42)
	recipientID := int64(77)

	newTransfer := func() *schema.Ownership {
		return &schema.Ownership{
			Type:           schema.OwnershipTypeTransfer,
			Status:         schema.OwnershipStatusPending,
			PieceID:        piece.ID,
			EditionID:      &edition.ID,
			PrevOwnerID:    &ownerID,
			NewOwnerID:     &recipientID,
			PrevBtcAddress: edition.BitcoinAddress,
			NewBtcAddress:  domain.NewAddress("2015/9/2/100/0", "1Recipient"),
			CiphertextWIF:  "sealed",
		}
	}

	t.Run("create and load round-trips the event", func(t *testing.T) {
		event := newTransfer()
		require.NoError(t, store.CreateOwnership(ctx, event))
		require.NotZero(t, event.ID)

		loaded, err := store.GetOwnershipByID(ctx, event.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, schema.OwnershipTypeTransfer, loaded.Type)
		assert.Equal(t, schema.OwnershipStatusPending, loaded.Status)
		assert.Equal(t, recipientID, *loaded.NewOwnerID)
	})

	t.Run("open lookup finds the latest live event and skips closed ones", func(t *testing.T) {
		open, err := store.GetOpenOwnership(ctx, edition.ID, schema.OwnershipTypeTransfer)
		require.NoError(t, err)
		require.NotNil(t, open)

		now := time.Now().UTC()
		require.NoError(t, store.UpdateOwnershipStatus(ctx, open.ID,
			schema.OwnershipStatusWithdrawn, &now))

		gone, err := store.GetOpenOwnership(ctx, edition.ID, schema.OwnershipTypeTransfer)
		require.NoError(t, err)
		assert.Nil(t, gone)

		closed, err := store.GetOwnershipByID(ctx, open.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.OwnershipStatusWithdrawn, closed.Status)
		require.NotNil(t, closed.RespondedAt)
	})

	t.Run("transaction link resolves both directions", func(t *testing.T) {
		event := newTransfer()
		require.NoError(t, store.CreateOwnership(ctx, event))

		tx := buildTestTransaction(t, event.PrevBtcAddress, "1Recipient")
		require.NoError(t, store.CreateBitcoinTransaction(ctx, tx))
		require.NoError(t, store.LinkOwnershipTx(ctx, event.ID, tx.ID))

		byTx, err := store.GetOwnershipByBtcTxID(ctx, tx.ID)
		require.NoError(t, err)
		require.NotNil(t, byTx)
		assert.Equal(t, event.ID, byTx.ID)
		require.NotNil(t, byTx.BtcTxID)
		assert.Equal(t, tx.ID, *byTx.BtcTxID)
	})

	t.Run("re-anchoring rewrites addresses and key material", func(t *testing.T) {
		event := newTransfer()
		require.NoError(t, store.CreateOwnership(ctx, event))

		fresh := domain.NewAddress("2016/1/1/500/9", "1Fresh")
		require.NoError(t, store.UpdateOwnershipPrevAddress(ctx, event.ID, fresh))
		require.NoError(t, store.UpdateOwnershipNewAddress(ctx, event.ID, fresh))
		require.NoError(t, store.SetOwnershipWIF(ctx, event.ID, "resealed"))

		loaded, err := store.GetOwnershipByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, fresh, loaded.PrevBtcAddress)
		assert.Equal(t, fresh, loaded.NewBtcAddress)
		assert.Equal(t, "resealed", loaded.CiphertextWIF)

		require.NoError(t, store.ClearOwnershipWIF(ctx, event.ID))
		loaded, err = store.GetOwnershipByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Empty(t, loaded.CiphertextWIF)
	})
}

// =============================================================================
// Test: Transaction Lifecycle
// =============================================================================

func testTransactionLifecycle(t *testing.T, store Store) {
	ctx := context.Background()
	from := domain.NewAddress("2015/3/7/1200/0", "1From")

	t.Run("status only moves forward through broadcast and confirmation", func(t *testing.T) {
		tx := buildTestTransaction(t, from, "1To")
		require.NoError(t, store.CreateBitcoinTransaction(ctx, tx))

		txHash := "aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55aa55"
		require.NoError(t, store.MarkTransactionBroadcast(ctx, tx.ID, txHash))

		loaded, err := store.GetBitcoinTransactionByHash(ctx, txHash)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, schema.TxStatusUnconfirmed, loaded.Status)

		// A second broadcast of the same row is an illegal transition
		err = store.MarkTransactionBroadcast(ctx, tx.ID, txHash)
		assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

		transitioned, confirmed, err := store.MarkTransactionConfirmed(ctx, txHash, 2)
		require.NoError(t, err)
		assert.True(t, transitioned)
		require.NotNil(t, confirmed)
		assert.Equal(t, schema.TxStatusConfirmed, confirmed.Status)
		assert.Equal(t, 2, confirmed.Confirmations)

		// Re-observing the confirmation is inert
		transitioned, confirmed, err = store.MarkTransactionConfirmed(ctx, txHash, 5)
		require.NoError(t, err)
		assert.False(t, transitioned)
		require.NotNil(t, confirmed)
		assert.Equal(t, 2, confirmed.Confirmations)

		// Confirmed never becomes rejected
		err = store.MarkTransactionRejected(ctx, tx.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	})

	t.Run("rejection closes an unconfirmed transaction", func(t *testing.T) {
		tx := buildTestTransaction(t, from, "1To")
		require.NoError(t, store.CreateBitcoinTransaction(ctx, tx))
		require.NoError(t, store.MarkTransactionBroadcast(ctx, tx.ID,
			"bb66bb66bb66bb66bb66bb66bb66bb66bb66bb66bb66bb66bb66bb66bb66bb66"))

		require.NoError(t, store.MarkTransactionRejected(ctx, tx.ID))

		loaded, err := store.GetBitcoinTransactionByID(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, schema.TxStatusRejected, loaded.Status)
	})

	t.Run("source address moves only while pending", func(t *testing.T) {
		tx := buildTestTransaction(t, from, "1To")
		require.NoError(t, store.CreateBitcoinTransaction(ctx, tx))

		fresh := domain.NewAddress("2016/1/1/500/9", "1Fresh")
		require.NoError(t, store.SetTransactionFromAddress(ctx, tx.ID, fresh))

		loaded, err := store.GetBitcoinTransactionByID(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, fresh, loaded.FromAddress)

		require.NoError(t, store.MarkTransactionBroadcast(ctx, tx.ID,
			"cc77cc77cc77cc77cc77cc77cc77cc77cc77cc77cc77cc77cc77cc77cc77cc77"))
		require.NoError(t, store.SetTransactionFromAddress(ctx, tx.ID, from))

		loaded, err = store.GetBitcoinTransactionByID(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, fresh, loaded.FromAddress, "broadcast transaction must keep its address")
	})

	t.Run("continuation pointer survives the round-trip", func(t *testing.T) {
		first := buildTestTransaction(t, from, "1To")
		second := buildTestTransaction(t, from, "1To")
		require.NoError(t, store.CreateBitcoinTransaction(ctx, first))
		require.NoError(t, store.CreateBitcoinTransaction(ctx, second))

		require.NoError(t, store.SetTransactionDependent(ctx, first.ID, second.ID))

		loaded, err := store.GetBitcoinTransactionByID(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded.DependentTxID)
		assert.Equal(t, second.ID, *loaded.DependentTxID)
	})

	t.Run("listing by status returns rows in id order", func(t *testing.T) {
		pending, err := store.ListTransactionsByStatus(ctx, schema.TxStatusPending)
		require.NoError(t, err)
		for i := 1; i < len(pending); i++ {
			assert.Less(t, pending[i-1].ID, pending[i].ID)
		}
		for _, tx := range pending {
			assert.Equal(t, schema.TxStatusPending, tx.Status)
		}
	})
}

// =============================================================================
// Test: Funding Pool
// =============================================================================

func testFundingPool(t *testing.T, store Store) {
	ctx := context.Background()
	address := "1Funding"

	outputs := []schema.UnspentOutput{
		{TxHash: "f0", Vout: 0, Amount: 3000, Address: address, ScriptPubKey: "76a914"},
		{TxHash: "f0", Vout: 1, Amount: 3000, Address: address, ScriptPubKey: "76a914"},
		{TxHash: "f0", Vout: 2, Amount: 3000, Address: address, ScriptPubKey: "76a914"},
		{TxHash: "f0", Vout: 3, Amount: 30000, Address: address, ScriptPubKey: "76a914"},
	}
	require.NoError(t, store.ImportUnspentOutputs(ctx, outputs))
	// Importing the node's view again must not duplicate the pool
	require.NoError(t, store.ImportUnspentOutputs(ctx, outputs))

	t.Run("balance sums only unspent outputs", func(t *testing.T) {
		balance, err := store.GetSpendableBalance(ctx, address)
		require.NoError(t, err)
		assert.Equal(t, int64(39000), balance)
	})

	t.Run("selection draws one output per denomination and marks it spent", func(t *testing.T) {
		selected, err := store.SelectAndSpendUnspents(ctx, address, []int64{3000, 30000}, 101)
		require.NoError(t, err)
		require.Len(t, selected, 2)
		assert.Equal(t, int64(3000), selected[0].Amount)
		assert.Equal(t, int64(30000), selected[1].Amount)

		balance, err := store.GetSpendableBalance(ctx, address)
		require.NoError(t, err)
		assert.Equal(t, int64(6000), balance)
	})

	t.Run("a retried submission reuses its own outputs", func(t *testing.T) {
		selected, err := store.SelectAndSpendUnspents(ctx, address, []int64{3000, 30000}, 101)
		require.NoError(t, err)
		require.Len(t, selected, 2)

		// The pool did not drain further
		balance, err := store.GetSpendableBalance(ctx, address)
		require.NoError(t, err)
		assert.Equal(t, int64(6000), balance)
	})

	t.Run("two draws of the same denomination pick distinct outputs", func(t *testing.T) {
		selected, err := store.SelectAndSpendUnspents(ctx, address, []int64{3000, 3000}, 102)
		require.NoError(t, err)
		require.Len(t, selected, 2)
		assert.NotEqual(t, selected[0].ID, selected[1].ID)
	})

	t.Run("a missing denomination fails with insufficient funds", func(t *testing.T) {
		_, err := store.SelectAndSpendUnspents(ctx, address, []int64{30000}, 103)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	})
}

// =============================================================================
// Test: Key-Value Store
// =============================================================================

func testKeyValueStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing key reads as empty", func(t *testing.T) {
		value, err := store.GetKeyValue(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		require.NoError(t, store.SetKeyValue(ctx, "refill_floor", "396000"))

		value, err := store.GetKeyValue(ctx, "refill_floor")
		require.NoError(t, err)
		assert.Equal(t, "396000", value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, store.SetKeyValue(ctx, "refill_floor", "792000"))

		value, err := store.GetKeyValue(ctx, "refill_floor")
		require.NoError(t, err)
		assert.Equal(t, "792000", value)
	})
}

// RunStoreTests runs the full store suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"ActionControl", testActionControl},
		{"ListByCapability", testListByCapability},
		{"PiecesAndEditions", testPiecesAndEditions},
		{"OwnershipEvents", testOwnershipEvents},
		{"TransactionLifecycle", testTransactionLifecycle},
		{"FundingPool", testFundingPool},
		{"KeyValueStore", testKeyValueStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
