package ownership

import (
	"context"
	"fmt"

	"github.com/ascribe/spool-engine/internal/acl"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// TransferParams carries a transfer request. Exactly one of RecipientID and
// RecipientEmail is set; email recipients are invitees who have not
// registered yet.
type TransferParams struct {
	EditionID      uint64
	ActorID        int64
	RecipientID    *int64
	RecipientEmail *string
	Password       string
}

// Transfer moves an edition to a new owner. The recipient's address is
// allocated in custody, since the recipient's own password is not available
// at transfer time. The actor's signing key is sealed on the event for the
// broadcast step; roles flip to their terminal templates when the
// transaction confirms, but the recipient is granted access immediately and
// the actor drops to the withdrawable prev-owner template.
func (s *Service) Transfer(ctx context.Context, p TransferParams) (*schema.Ownership, error) {
	if (p.RecipientID == nil) == (p.RecipientEmail == nil) {
		return nil, fmt.Errorf("transfer needs exactly one of recipient id and email: %w", domain.ErrInvalidEventState)
	}

	edition, piece, err := s.loadEdition(ctx, p.EditionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCapability(ctx, p.ActorID, piece.ID, &p.EditionID, acl.FlagTransfer); err != nil {
		return nil, err
	}
	if err := s.requireNoOpenEvent(ctx, p.EditionID, schema.OwnershipTypeTransfer); err != nil {
		return nil, err
	}

	ciphertext, err := s.sealChainHead(edition.BitcoinAddress, p.Password)
	if err != nil {
		return nil, err
	}

	event := &schema.Ownership{
		Type:           schema.OwnershipTypeTransfer,
		Status:         schema.OwnershipStatusPending,
		PieceID:        piece.ID,
		EditionID:      &p.EditionID,
		PrevOwnerID:    &p.ActorID,
		NewOwnerID:     p.RecipientID,
		NewOwnerEmail:  p.RecipientEmail,
		PrevBtcAddress: edition.BitcoinAddress,
		CiphertextWIF:  ciphertext,
	}
	if p.RecipientID != nil {
		address, err := s.allocCustodyAddress(*p.RecipientID)
		if err != nil {
			return nil, err
		}
		event.NewBtcAddress = address
	}
	if err := s.store.CreateOwnership(ctx, event); err != nil {
		return nil, err
	}

	if p.RecipientID != nil {
		if err := s.setRole(ctx, *p.RecipientID, piece.ID, &p.EditionID, acl.RoleTransferee); err != nil {
			return nil, err
		}
	}
	if err := s.setRole(ctx, p.ActorID, piece.ID, &p.EditionID, acl.RolePrevOwnerPending); err != nil {
		return nil, err
	}
	return event, nil
}

// WithdrawTransfer cancels a pending transfer before the counterparty side
// resolves. The recipient's capability record is removed entirely and the
// actor is restored to the full edition-registree template. An already
// broadcast transaction is not retracted; on chain it can only be
// superseded.
func (s *Service) WithdrawTransfer(ctx context.Context, ownershipID uint64, actorID int64) (*schema.Ownership, error) {
	event, err := s.loadEvent(ctx, ownershipID)
	if err != nil {
		return nil, err
	}
	if event.Type != schema.OwnershipTypeTransfer || event.Status != schema.OwnershipStatusPending {
		return nil, fmt.Errorf("ownership %d is not a pending transfer: %w", ownershipID, domain.ErrInvalidEventState)
	}
	if event.PrevOwnerID == nil || *event.PrevOwnerID != actorID {
		return nil, fmt.Errorf("user %d did not initiate transfer %d: %w", actorID, ownershipID, domain.ErrNotAllowed)
	}
	if err := s.requireCapability(ctx, actorID, event.PieceID, event.EditionID, acl.FlagWithdrawTransfer); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.store.UpdateOwnershipStatus(ctx, ownershipID, schema.OwnershipStatusWithdrawn, &now); err != nil {
		return nil, err
	}
	if event.NewOwnerID != nil {
		if err := s.store.DeleteActionControl(ctx, *event.NewOwnerID, event.PieceID, event.EditionID); err != nil {
			return nil, err
		}
	}
	if err := s.setRole(ctx, actorID, event.PieceID, event.EditionID, acl.RoleEditionRegistree); err != nil {
		return nil, err
	}
	return event, nil
}
