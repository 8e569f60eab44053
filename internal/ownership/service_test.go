package ownership_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascribe/spool-engine/internal/acl"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/mocks"
	"github.com/ascribe/spool-engine/internal/ownership"
	"github.com/ascribe/spool-engine/internal/store/schema"
	"github.com/ascribe/spool-engine/internal/wallet"
)

const (
	ownerID            = int64(42)
	recipientID        = int64(77)
	federationPassword = "federation secret"
	ownerPassword      = "owner password"
)

var testNow = time.Date(2015, 3, 7, 12, 0, 0, 0, time.UTC)

type testServiceMocks struct {
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	clock   *mocks.MockClock
	wallet  *wallet.Wallet
	service *ownership.Service

	// ownerChainHead derives from ownerPassword, so sealing succeeds for
	// actions the owner signs
	ownerChainHead domain.Address
}

func setupTestService(t *testing.T) *testServiceMocks {
	ctrl := gomock.NewController(t)

	w, err := wallet.New(domain.NetworkRegtest, []byte("0123456789abcdef"))
	require.NoError(t, err)
	chainHead, _, err := w.Derive(ownerPassword, "2015/3/7/1200/0")
	require.NoError(t, err)

	tm := &testServiceMocks{
		ctrl:           ctrl,
		store:          mocks.NewMockStore(ctrl),
		clock:          mocks.NewMockClock(ctrl),
		wallet:         w,
		ownerChainHead: chainHead,
	}
	tm.clock.EXPECT().Now().Return(testNow).AnyTimes()
	tm.service = ownership.NewService(tm.store, w, tm.clock, federationPassword)
	return tm
}

func (tm *testServiceMocks) edition(editionID uint64) (*schema.Edition, *schema.Piece) {
	piece := &schema.Piece{
		ID:             11,
		Title:          "Monarchs of England",
		RegistreeID:    ownerID,
		BitcoinAddress: tm.ownerChainHead,
		NumEditions:    3,
	}
	edition := &schema.Edition{
		ID:             editionID,
		PieceID:        piece.ID,
		EditionNumber:  1,
		OwnerID:        ownerID,
		BitcoinAddress: tm.ownerChainHead,
	}
	return edition, piece
}

func (tm *testServiceMocks) expectLoadEdition(editionID uint64) (*schema.Edition, *schema.Piece) {
	edition, piece := tm.edition(editionID)
	tm.store.EXPECT().GetEditionByID(gomock.Any(), editionID).Return(edition, nil)
	tm.store.EXPECT().GetPieceByID(gomock.Any(), piece.ID).Return(piece, nil)
	return edition, piece
}

func (tm *testServiceMocks) expectCapability(userID int64, pieceID uint64, editionID *uint64, role acl.Role) {
	record := &schema.ActionControl{UserID: userID, PieceID: pieceID, EditionID: editionID}
	record.SetCapabilities(acl.MustTemplate(role))
	tm.store.EXPECT().GetActionControl(gomock.Any(), userID, pieceID, editionID).Return(record, nil)
}

func (tm *testServiceMocks) expectRole(userID int64, pieceID uint64, editionID *uint64, role acl.Role) {
	tm.store.EXPECT().
		UpsertActionControl(gomock.Any(), userID, pieceID, editionID, acl.MustTemplate(role)).
		Return(nil)
}

func TestTransfer(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	recipient := recipientID
	tm.expectLoadEdition(editionID)
	tm.expectCapability(ownerID, 11, &editionID, acl.RoleEditionRegistree)
	tm.store.EXPECT().GetOpenOwnership(gomock.Any(), editionID, schema.OwnershipTypeTransfer).Return(nil, nil)

	var created *schema.Ownership
	tm.store.EXPECT().
		CreateOwnership(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *schema.Ownership) error {
			event.ID = 5
			created = event
			return nil
		})
	tm.expectRole(recipient, 11, &editionID, acl.RoleTransferee)
	tm.expectRole(ownerID, 11, &editionID, acl.RolePrevOwnerPending)

	event, err := tm.service.Transfer(context.Background(), ownership.TransferParams{
		EditionID:   editionID,
		ActorID:     ownerID,
		RecipientID: &recipient,
		Password:    ownerPassword,
	})
	require.NoError(t, err)
	require.Same(t, created, event)

	assert.Equal(t, schema.OwnershipTypeTransfer, event.Type)
	assert.Equal(t, schema.OwnershipStatusPending, event.Status)
	assert.Equal(t, tm.ownerChainHead, event.PrevBtcAddress)
	// The recipient cannot supply a password yet, so their address is held
	// in the engine's custody namespace.
	assert.True(t, wallet.IsCustodyPath(event.NewBtcAddress.Path()))
	// The signing key is sealed for the broadcast step
	assert.NotEmpty(t, event.CiphertextWIF)
	unsealed, err := tm.wallet.UnsealWIF(event.CiphertextWIF, federationPassword)
	require.NoError(t, err)
	fromWIF, err := tm.wallet.AddressForWIF(unsealed)
	require.NoError(t, err)
	assert.Equal(t, tm.ownerChainHead.Btc(), fromWIF)
}

func TestTransfer_RecipientChoiceIsExclusive(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	recipient := recipientID
	email := "invitee@example.com"

	_, err := tm.service.Transfer(context.Background(), ownership.TransferParams{
		EditionID:      21,
		ActorID:        ownerID,
		RecipientID:    &recipient,
		RecipientEmail: &email,
		Password:       ownerPassword,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEventState)

	_, err = tm.service.Transfer(context.Background(), ownership.TransferParams{
		EditionID: 21,
		ActorID:   ownerID,
		Password:  ownerPassword,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEventState)
}

func TestTransfer_RequiresCapability(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	recipient := recipientID
	tm.expectLoadEdition(editionID)
	// A sharee's template has no transfer right
	tm.expectCapability(ownerID, 11, &editionID, acl.RoleSharee)

	_, err := tm.service.Transfer(context.Background(), ownership.TransferParams{
		EditionID:   editionID,
		ActorID:     ownerID,
		RecipientID: &recipient,
		Password:    ownerPassword,
	})
	assert.ErrorIs(t, err, domain.ErrNotAllowed)
}

func TestTransfer_OnePendingTransferPerEdition(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	recipient := recipientID
	tm.expectLoadEdition(editionID)
	tm.expectCapability(ownerID, 11, &editionID, acl.RoleEditionRegistree)
	tm.store.EXPECT().GetOpenOwnership(gomock.Any(), editionID, schema.OwnershipTypeTransfer).
		Return(&schema.Ownership{ID: 9, Status: schema.OwnershipStatusPending}, nil)

	_, err := tm.service.Transfer(context.Background(), ownership.TransferParams{
		EditionID:   editionID,
		ActorID:     ownerID,
		RecipientID: &recipient,
		Password:    ownerPassword,
	})
	assert.ErrorIs(t, err, domain.ErrPendingActionExists)
}

func TestTransfer_WrongPassword(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	recipient := recipientID
	tm.expectLoadEdition(editionID)
	tm.expectCapability(ownerID, 11, &editionID, acl.RoleEditionRegistree)
	tm.store.EXPECT().GetOpenOwnership(gomock.Any(), editionID, schema.OwnershipTypeTransfer).Return(nil, nil)

	_, err := tm.service.Transfer(context.Background(), ownership.TransferParams{
		EditionID:   editionID,
		ActorID:     ownerID,
		RecipientID: &recipient,
		Password:    "not the owner password",
	})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
}

func TestWithdrawTransfer_RemovesRecipientRecord(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	actor := ownerID
	recipient := recipientID
	event := &schema.Ownership{
		ID:          5,
		Type:        schema.OwnershipTypeTransfer,
		Status:      schema.OwnershipStatusPending,
		PieceID:     11,
		EditionID:   &editionID,
		PrevOwnerID: &actor,
		NewOwnerID:  &recipient,
	}
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(5)).Return(event, nil)
	tm.expectCapability(ownerID, 11, &editionID, acl.RolePrevOwnerPending)
	tm.store.EXPECT().
		UpdateOwnershipStatus(gomock.Any(), uint64(5), schema.OwnershipStatusWithdrawn, &testNow).
		Return(nil)
	// The invited recipient never accepted, so the pending row is removed
	// outright rather than flipped to anonymous.
	tm.store.EXPECT().DeleteActionControl(gomock.Any(), recipient, uint64(11), &editionID).Return(nil)
	tm.expectRole(ownerID, 11, &editionID, acl.RoleEditionRegistree)

	_, err := tm.service.WithdrawTransfer(context.Background(), 5, ownerID)
	require.NoError(t, err)
}

func TestWithdrawTransfer_OnlyInitiator(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	actor := ownerID
	event := &schema.Ownership{
		ID:          5,
		Type:        schema.OwnershipTypeTransfer,
		Status:      schema.OwnershipStatusPending,
		PieceID:     11,
		EditionID:   &editionID,
		PrevOwnerID: &actor,
	}
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(5)).Return(event, nil)

	_, err := tm.service.WithdrawTransfer(context.Background(), 5, recipientID)
	assert.ErrorIs(t, err, domain.ErrNotAllowed)
}

func TestConfirmConsign(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	owner := ownerID
	consignee := recipientID
	event := &schema.Ownership{
		ID:          6,
		Type:        schema.OwnershipTypeConsignment,
		Status:      schema.OwnershipStatusPending,
		PieceID:     11,
		EditionID:   &editionID,
		PrevOwnerID: &owner,
		NewOwnerID:  &consignee,
	}
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(6)).Return(event, nil)

	var allocated domain.Address
	tm.store.EXPECT().
		UpdateOwnershipNewAddress(gomock.Any(), uint64(6), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, address domain.Address) error {
			allocated = address
			return nil
		})
	tm.store.EXPECT().
		UpdateOwnershipStatus(gomock.Any(), uint64(6), schema.OwnershipStatusConfirmed, &testNow).
		Return(nil)
	tm.store.EXPECT().SetEditionConsignee(gomock.Any(), editionID, &consignee).Return(nil)
	tm.expectRole(consignee, 11, &editionID, acl.RoleConsignee)
	tm.expectRole(owner, 11, &editionID, acl.RoleConsignOwnerAfterConfirm)

	confirmed, err := tm.service.ConfirmConsign(context.Background(), 6, consignee, "consignee password")
	require.NoError(t, err)

	// The consignee supplied a password, so the receiving address lives in
	// their own wallet, not custody.
	assert.False(t, wallet.IsCustodyPath(allocated.Path()))
	assert.Equal(t, allocated, confirmed.NewBtcAddress)
	ok, err := tm.wallet.Verify("consignee password", allocated)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirmConsign_OnlyConsignee(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	consignee := recipientID
	event := &schema.Ownership{
		ID:         6,
		Type:       schema.OwnershipTypeConsignment,
		Status:     schema.OwnershipStatusPending,
		NewOwnerID: &consignee,
	}
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(6)).Return(event, nil)

	_, err := tm.service.ConfirmConsign(context.Background(), 6, ownerID, "password")
	assert.ErrorIs(t, err, domain.ErrNotAllowed)
}

func TestConfirmConsign_NotPending(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	consignee := recipientID
	event := &schema.Ownership{
		ID:         6,
		Type:       schema.OwnershipTypeConsignment,
		Status:     schema.OwnershipStatusConfirmed,
		NewOwnerID: &consignee,
	}
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(6)).Return(event, nil)

	_, err := tm.service.ConfirmConsign(context.Background(), 6, consignee, "password")
	assert.ErrorIs(t, err, domain.ErrInvalidEventState)
}

func TestDenyConsign_RevokesByFlagFlip(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	owner := ownerID
	consignee := recipientID
	event := &schema.Ownership{
		ID:          6,
		Type:        schema.OwnershipTypeConsignment,
		Status:      schema.OwnershipStatusPending,
		PieceID:     11,
		EditionID:   &editionID,
		PrevOwnerID: &owner,
		NewOwnerID:  &consignee,
	}
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(6)).Return(event, nil)
	tm.store.EXPECT().
		UpdateOwnershipStatus(gomock.Any(), uint64(6), schema.OwnershipStatusDenied, &testNow).
		Return(nil)
	// Denial flips the consignee's flags to the anonymous set; the record
	// stays because the relationship existed.
	tm.expectRole(consignee, 11, &editionID, acl.RoleAnonymous)
	tm.expectRole(owner, 11, &editionID, acl.RoleEditionRegistree)

	_, err := tm.service.DenyConsign(context.Background(), 6, consignee)
	require.NoError(t, err)
}

func TestLoan_EditionOffer(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	loanRange := domain.DateRange{
		From: time.Date(2015, 5, 26, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2015, 5, 28, 0, 0, 0, 0, time.UTC),
	}
	tm.expectLoadEdition(editionID)
	tm.expectCapability(ownerID, 11, &editionID, acl.RoleEditionRegistree)
	tm.store.EXPECT().GetOpenOwnership(gomock.Any(), editionID, schema.OwnershipTypeLoan).Return(nil, nil)
	tm.store.EXPECT().
		CreateOwnership(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *schema.Ownership) error {
			event.ID = 7
			return nil
		})
	// The loanee had no prior relationship, so they get the pending marker
	tm.store.EXPECT().GetActionControl(gomock.Any(), recipientID, uint64(11), &editionID).Return(nil, nil)
	tm.expectRole(recipientID, 11, &editionID, acl.RoleLoaneePending)

	event, err := tm.service.Loan(context.Background(), ownership.LoanParams{
		EditionID: &editionID,
		ActorID:   ownerID,
		LoaneeID:  recipientID,
		Range:     loanRange,
		Password:  ownerPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, schema.OwnershipTypeLoan, event.Type)
	require.NotNil(t, event.LoanFrom)
	require.NotNil(t, event.LoanTo)
	assert.Equal(t, loanRange.From, *event.LoanFrom)
	assert.Equal(t, loanRange.To, *event.LoanTo)
}

func TestLoan_InvalidRange(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	_, err := tm.service.Loan(context.Background(), ownership.LoanParams{
		EditionID: &editionID,
		ActorID:   ownerID,
		LoaneeID:  recipientID,
		Range: domain.DateRange{
			From: time.Date(2015, 5, 28, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2015, 5, 26, 0, 0, 0, 0, time.UTC),
		},
		Password: ownerPassword,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEventState)
}

func TestLoan_ExistingRelationshipUntouched(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	loanRange := domain.DateRange{
		From: time.Date(2015, 5, 26, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2015, 5, 28, 0, 0, 0, 0, time.UTC),
	}
	tm.expectLoadEdition(editionID)
	tm.expectCapability(ownerID, 11, &editionID, acl.RoleEditionRegistree)
	tm.store.EXPECT().GetOpenOwnership(gomock.Any(), editionID, schema.OwnershipTypeLoan).Return(nil, nil)
	tm.store.EXPECT().CreateOwnership(gomock.Any(), gomock.Any()).Return(nil)

	// The loanee is already a sharee; no role assignment happens
	existing := &schema.ActionControl{UserID: recipientID, PieceID: 11, EditionID: &editionID}
	existing.SetCapabilities(acl.MustTemplate(acl.RoleSharee))
	tm.store.EXPECT().GetActionControl(gomock.Any(), recipientID, uint64(11), &editionID).Return(existing, nil)

	_, err := tm.service.Loan(context.Background(), ownership.LoanParams{
		EditionID: &editionID,
		ActorID:   ownerID,
		LoaneeID:  recipientID,
		Range:     loanRange,
		Password:  ownerPassword,
	})
	require.NoError(t, err)
}

func TestDenyLoan_RevokesOnlyTheOfferRecord(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	loanee := recipientID
	event := &schema.Ownership{
		ID:         8,
		Type:       schema.OwnershipTypeLoan,
		Status:     schema.OwnershipStatusPending,
		PieceID:    11,
		EditionID:  &editionID,
		NewOwnerID: &loanee,
	}
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(8)).Return(event, nil)
	tm.store.EXPECT().
		UpdateOwnershipStatus(gomock.Any(), uint64(8), schema.OwnershipStatusDenied, &testNow).
		Return(nil)

	// The record carries exactly the pending-offer template, so the offer
	// created it and the denial erases it.
	record := &schema.ActionControl{UserID: loanee, PieceID: 11, EditionID: &editionID}
	record.SetCapabilities(acl.MustTemplate(acl.RoleLoaneePending))
	tm.store.EXPECT().GetActionControl(gomock.Any(), loanee, uint64(11), &editionID).Return(record, nil)
	tm.expectRole(loanee, 11, &editionID, acl.RoleAnonymous)

	_, err := tm.service.DenyLoan(context.Background(), 8, loanee)
	require.NoError(t, err)
}

func TestDenyLoan_PreexistingRecordSurvives(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	loanee := recipientID
	event := &schema.Ownership{
		ID:         8,
		Type:       schema.OwnershipTypeLoan,
		Status:     schema.OwnershipStatusPending,
		PieceID:    11,
		EditionID:  &editionID,
		NewOwnerID: &loanee,
	}
	tm.store.EXPECT().GetOwnershipByID(gomock.Any(), uint64(8)).Return(event, nil)
	tm.store.EXPECT().
		UpdateOwnershipStatus(gomock.Any(), uint64(8), schema.OwnershipStatusDenied, &testNow).
		Return(nil)

	// A sharee record predated the offer; denying the loan must not revoke it
	record := &schema.ActionControl{UserID: loanee, PieceID: 11, EditionID: &editionID}
	record.SetCapabilities(acl.MustTemplate(acl.RoleSharee))
	tm.store.EXPECT().GetActionControl(gomock.Any(), loanee, uint64(11), &editionID).Return(record, nil)

	_, err := tm.service.DenyLoan(context.Background(), 8, loanee)
	require.NoError(t, err)
}

func TestShare_ExistingShareeUntouched(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	tm.expectLoadEdition(editionID)
	tm.expectCapability(ownerID, 11, &editionID, acl.RoleEditionRegistree)
	tm.store.EXPECT().
		CreateOwnership(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *schema.Ownership) error {
			// Shares never touch the chain; they confirm immediately
			assert.Equal(t, schema.OwnershipStatusConfirmed, event.Status)
			assert.NotNil(t, event.RespondedAt)
			return nil
		})

	existing := &schema.ActionControl{UserID: recipientID, PieceID: 11, EditionID: &editionID}
	existing.SetCapabilities(acl.MustTemplate(acl.RoleSharee))
	tm.store.EXPECT().GetActionControl(gomock.Any(), recipientID, uint64(11), &editionID).Return(existing, nil)

	_, err := tm.service.Share(context.Background(), editionID, ownerID, recipientID)
	require.NoError(t, err)
}

func TestSharePiece_AlwaysReappliesTemplate(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	tm.expectCapability(ownerID, 11, nil, acl.RolePieceRegistreeAfterEditions)
	tm.store.EXPECT().CreateOwnership(gomock.Any(), gomock.Any()).Return(nil)
	// The piece-level variant re-applies the template even for existing
	// sharees; the asymmetry with Share is inherited behavior.
	tm.expectRole(recipientID, 11, nil, acl.RolePieceSharee)

	_, err := tm.service.SharePiece(context.Background(), 11, ownerID, recipientID)
	require.NoError(t, err)
}

func TestUnshare_FlipsToAnonymous(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	editionID := uint64(21)
	tm.expectLoadEdition(editionID)
	tm.expectCapability(recipientID, 11, &editionID, acl.RoleSharee)
	tm.expectRole(recipientID, 11, &editionID, acl.RoleAnonymous)

	err := tm.service.Unshare(context.Background(), editionID, recipientID)
	require.NoError(t, err)
}

func TestCapabilitySnapshot_MissingRecordIsAnonymous(t *testing.T) {
	tm := setupTestService(t)
	defer tm.ctrl.Finish()

	tm.store.EXPECT().GetActionControl(gomock.Any(), recipientID, uint64(11), nil).Return(nil, nil)

	snapshot, err := tm.service.CapabilitySnapshot(context.Background(), recipientID, 11, nil)
	require.NoError(t, err)
	for flag, set := range snapshot {
		assert.False(t, set, "flag %s", flag)
	}
}
