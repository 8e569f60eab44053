package ownership

import (
	"context"
	"fmt"

	"github.com/ascribe/spool-engine/internal/acl"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// Consign offers custody of an edition to a consignee. No chain transaction
// exists yet; the consign transaction is built only once the consignee
// accepts. The consignee sees the edition immediately on the pending
// template and the owner drops to the withdrawable consign-owner template.
func (s *Service) Consign(ctx context.Context, editionID uint64, actorID int64, consigneeID int64, password string) (*schema.Ownership, error) {
	edition, piece, err := s.loadEdition(ctx, editionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCapability(ctx, actorID, piece.ID, &editionID, acl.FlagConsign); err != nil {
		return nil, err
	}
	if err := s.requireNoOpenEvent(ctx, editionID, schema.OwnershipTypeConsignment); err != nil {
		return nil, err
	}

	ciphertext, err := s.sealChainHead(edition.BitcoinAddress, password)
	if err != nil {
		return nil, err
	}

	event := &schema.Ownership{
		Type:           schema.OwnershipTypeConsignment,
		Status:         schema.OwnershipStatusPending,
		PieceID:        piece.ID,
		EditionID:      &editionID,
		PrevOwnerID:    &actorID,
		NewOwnerID:     &consigneeID,
		PrevBtcAddress: edition.BitcoinAddress,
		CiphertextWIF:  ciphertext,
	}
	if err := s.store.CreateOwnership(ctx, event); err != nil {
		return nil, err
	}

	if err := s.setRole(ctx, consigneeID, piece.ID, &editionID, acl.RoleConsigneePending); err != nil {
		return nil, err
	}
	if err := s.setRole(ctx, actorID, piece.ID, &editionID, acl.RoleConsignOwner); err != nil {
		return nil, err
	}
	return event, nil
}

// ConfirmConsign is the consignee accepting a pending consignment. The
// consignee supplies their own password here, so their receiving address
// comes from their password wallet rather than custody. The event moves to
// confirmed and is ready for its chain transaction; both parties' templates
// advance immediately.
func (s *Service) ConfirmConsign(ctx context.Context, ownershipID uint64, actorID int64, password string) (*schema.Ownership, error) {
	event, err := s.loadEvent(ctx, ownershipID)
	if err != nil {
		return nil, err
	}
	if event.Type != schema.OwnershipTypeConsignment || event.Status != schema.OwnershipStatusPending {
		return nil, fmt.Errorf("ownership %d is not a pending consignment: %w", ownershipID, domain.ErrInvalidEventState)
	}
	if event.NewOwnerID == nil || *event.NewOwnerID != actorID {
		return nil, fmt.Errorf("user %d is not the consignee of %d: %w", actorID, ownershipID, domain.ErrNotAllowed)
	}

	address, _, err := s.allocUserAddress(password)
	if err != nil {
		return nil, err
	}
	event.NewBtcAddress = address
	if err := s.store.UpdateOwnershipNewAddress(ctx, ownershipID, address); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.store.UpdateOwnershipStatus(ctx, ownershipID, schema.OwnershipStatusConfirmed, &now); err != nil {
		return nil, err
	}
	if err := s.store.SetEditionConsignee(ctx, *event.EditionID, &actorID); err != nil {
		return nil, err
	}

	if err := s.setRole(ctx, actorID, event.PieceID, event.EditionID, acl.RoleConsignee); err != nil {
		return nil, err
	}
	if event.PrevOwnerID != nil {
		if err := s.setRole(ctx, *event.PrevOwnerID, event.PieceID, event.EditionID, acl.RoleConsignOwnerAfterConfirm); err != nil {
			return nil, err
		}
	}
	return event, nil
}

// DenyConsign is the consignee rejecting a pending consignment. The
// consignee's record is revoked by flag flip, never deleted, and the owner
// is restored to the full edition-registree template.
func (s *Service) DenyConsign(ctx context.Context, ownershipID uint64, actorID int64) (*schema.Ownership, error) {
	event, err := s.loadEvent(ctx, ownershipID)
	if err != nil {
		return nil, err
	}
	if event.Type != schema.OwnershipTypeConsignment || event.Status != schema.OwnershipStatusPending {
		return nil, fmt.Errorf("ownership %d is not a pending consignment: %w", ownershipID, domain.ErrInvalidEventState)
	}
	if event.NewOwnerID == nil || *event.NewOwnerID != actorID {
		return nil, fmt.Errorf("user %d is not the consignee of %d: %w", actorID, ownershipID, domain.ErrNotAllowed)
	}

	now := s.clock.Now()
	if err := s.store.UpdateOwnershipStatus(ctx, ownershipID, schema.OwnershipStatusDenied, &now); err != nil {
		return nil, err
	}
	if err := s.setRole(ctx, actorID, event.PieceID, event.EditionID, acl.RoleAnonymous); err != nil {
		return nil, err
	}
	if event.PrevOwnerID != nil {
		if err := s.setRole(ctx, *event.PrevOwnerID, event.PieceID, event.EditionID, acl.RoleEditionRegistree); err != nil {
			return nil, err
		}
	}
	return event, nil
}

// WithdrawConsign is the owner cancelling a consignment the consignee has
// not yet accepted
func (s *Service) WithdrawConsign(ctx context.Context, ownershipID uint64, actorID int64) (*schema.Ownership, error) {
	event, err := s.loadEvent(ctx, ownershipID)
	if err != nil {
		return nil, err
	}
	if event.Type != schema.OwnershipTypeConsignment || event.Status != schema.OwnershipStatusPending {
		return nil, fmt.Errorf("ownership %d is not a pending consignment: %w", ownershipID, domain.ErrInvalidEventState)
	}
	if event.PrevOwnerID == nil || *event.PrevOwnerID != actorID {
		return nil, fmt.Errorf("user %d did not initiate consignment %d: %w", actorID, ownershipID, domain.ErrNotAllowed)
	}
	if err := s.requireCapability(ctx, actorID, event.PieceID, event.EditionID, acl.FlagWithdrawConsign); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.store.UpdateOwnershipStatus(ctx, ownershipID, schema.OwnershipStatusWithdrawn, &now); err != nil {
		return nil, err
	}
	if event.NewOwnerID != nil {
		if err := s.setRole(ctx, *event.NewOwnerID, event.PieceID, event.EditionID, acl.RoleAnonymous); err != nil {
			return nil, err
		}
	}
	if err := s.setRole(ctx, actorID, event.PieceID, event.EditionID, acl.RoleEditionRegistree); err != nil {
		return nil, err
	}
	return event, nil
}

// RequestUnconsign is the owner of a confirmed consignment asking for
// custody back. It opens the unconsignment event that the consignee
// completes with Unconsign; the consignee's capability set already carries
// the unconsign right.
func (s *Service) RequestUnconsign(ctx context.Context, editionID uint64, actorID int64) (*schema.Ownership, error) {
	edition, piece, err := s.loadEdition(ctx, editionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCapability(ctx, actorID, piece.ID, &editionID, acl.FlagRequestUnconsign); err != nil {
		return nil, err
	}
	if edition.ConsigneeID == nil {
		return nil, fmt.Errorf("edition %d is not consigned: %w", editionID, domain.ErrInvalidEventState)
	}
	if err := s.requireNoOpenEvent(ctx, editionID, schema.OwnershipTypeUnconsignment); err != nil {
		return nil, err
	}

	event := &schema.Ownership{
		Type:           schema.OwnershipTypeUnconsignment,
		Status:         schema.OwnershipStatusPending,
		PieceID:        piece.ID,
		EditionID:      &editionID,
		PrevOwnerID:    edition.ConsigneeID,
		NewOwnerID:     &actorID,
		PrevBtcAddress: edition.BitcoinAddress,
	}
	if err := s.store.CreateOwnership(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Unconsign is the consignee returning custody to the owner. It can answer
// a pending unconsign request or be initiated directly; either way the
// return address is allocated in the owner's custody namespace and the
// event is ready for its chain transaction. Roles revert when the
// transaction confirms.
func (s *Service) Unconsign(ctx context.Context, editionID uint64, actorID int64, password string) (*schema.Ownership, error) {
	edition, piece, err := s.loadEdition(ctx, editionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCapability(ctx, actorID, piece.ID, &editionID, acl.FlagUnconsign); err != nil {
		return nil, err
	}
	if edition.ConsigneeID == nil || *edition.ConsigneeID != actorID {
		return nil, fmt.Errorf("user %d is not the consignee of edition %d: %w", actorID, editionID, domain.ErrNotAllowed)
	}

	ciphertext, err := s.sealChainHead(edition.BitcoinAddress, password)
	if err != nil {
		return nil, err
	}
	returnAddress, err := s.allocCustodyAddress(edition.OwnerID)
	if err != nil {
		return nil, err
	}

	// Answer the owner's open request when one exists, otherwise open a
	// fresh unconsignment.
	event, err := s.store.GetOpenOwnership(ctx, editionID, schema.OwnershipTypeUnconsignment)
	if err != nil {
		return nil, err
	}
	if event == nil {
		event = &schema.Ownership{
			Type:           schema.OwnershipTypeUnconsignment,
			Status:         schema.OwnershipStatusPending,
			PieceID:        piece.ID,
			EditionID:      &editionID,
			PrevOwnerID:    &actorID,
			NewOwnerID:     &edition.OwnerID,
			PrevBtcAddress: edition.BitcoinAddress,
		}
		if err := s.store.CreateOwnership(ctx, event); err != nil {
			return nil, err
		}
	}

	event.NewBtcAddress = returnAddress
	event.CiphertextWIF = ciphertext
	event.PrevBtcAddress = edition.BitcoinAddress
	if err := s.store.UpdateOwnershipNewAddress(ctx, event.ID, returnAddress); err != nil {
		return nil, err
	}
	if err := s.store.SetOwnershipWIF(ctx, event.ID, ciphertext); err != nil {
		return nil, err
	}
	return event, nil
}
