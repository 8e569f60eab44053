package ownership

import (
	"context"
	"fmt"

	"github.com/ascribe/spool-engine/internal/acl"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// LoanParams carries a loan offer for an edition or, with EditionID nil, a
// whole piece
type LoanParams struct {
	PieceID   uint64
	EditionID *uint64
	ActorID   int64
	LoaneeID  int64
	Range     domain.DateRange
	Password  string
}

// Loan offers an edition or piece on loan for a date range. A loan never
// moves custody rights; the loanee's eventual template is the reduced
// read/share set. Until the loanee answers, their record carries only the
// loan-request marker, and only if they had no prior relationship, so a
// denial can restore them to exactly nothing.
func (s *Service) Loan(ctx context.Context, p LoanParams) (*schema.Ownership, error) {
	if !p.Range.Valid() {
		return nil, fmt.Errorf("loan range %v is invalid: %w", p.Range, domain.ErrInvalidEventState)
	}

	ownershipType := schema.OwnershipTypeLoanPiece
	var fromAddress domain.Address
	if p.EditionID != nil {
		ownershipType = schema.OwnershipTypeLoan
		edition, piece, err := s.loadEdition(ctx, *p.EditionID)
		if err != nil {
			return nil, err
		}
		p.PieceID = piece.ID
		fromAddress = edition.BitcoinAddress
		if err := s.requireCapability(ctx, p.ActorID, piece.ID, p.EditionID, acl.FlagLoan); err != nil {
			return nil, err
		}
		if err := s.requireNoOpenEvent(ctx, *p.EditionID, schema.OwnershipTypeLoan); err != nil {
			return nil, err
		}
	} else {
		piece, err := s.store.GetPieceByID(ctx, p.PieceID)
		if err != nil {
			return nil, err
		}
		if piece == nil {
			return nil, fmt.Errorf("piece %d: %w", p.PieceID, domain.ErrOwnershipNotFound)
		}
		fromAddress = piece.BitcoinAddress
		if err := s.requireCapability(ctx, p.ActorID, p.PieceID, nil, acl.FlagLoan); err != nil {
			return nil, err
		}
	}

	ciphertext, err := s.sealChainHead(fromAddress, p.Password)
	if err != nil {
		return nil, err
	}

	event := &schema.Ownership{
		Type:           ownershipType,
		Status:         schema.OwnershipStatusPending,
		PieceID:        p.PieceID,
		EditionID:      p.EditionID,
		PrevOwnerID:    &p.ActorID,
		NewOwnerID:     &p.LoaneeID,
		PrevBtcAddress: fromAddress,
		CiphertextWIF:  ciphertext,
		LoanFrom:       &p.Range.From,
		LoanTo:         &p.Range.To,
	}
	if err := s.store.CreateOwnership(ctx, event); err != nil {
		return nil, err
	}

	// Pre-existing relationships stay untouched aside from the offer itself.
	existing, err := s.store.GetActionControl(ctx, p.LoaneeID, p.PieceID, p.EditionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := s.setRole(ctx, p.LoaneeID, p.PieceID, p.EditionID, acl.RoleLoaneePending); err != nil {
			return nil, err
		}
	}
	return event, nil
}

// ConfirmLoan is the loanee accepting a pending loan. The loanee's
// receiving address comes from their password wallet; the loan transaction
// follows, and the loanee template is applied when it confirms.
func (s *Service) ConfirmLoan(ctx context.Context, ownershipID uint64, actorID int64, password string) (*schema.Ownership, error) {
	event, err := s.loadEvent(ctx, ownershipID)
	if err != nil {
		return nil, err
	}
	if !isLoan(event.Type) || event.Status != schema.OwnershipStatusPending {
		return nil, fmt.Errorf("ownership %d is not a pending loan: %w", ownershipID, domain.ErrInvalidEventState)
	}
	if event.NewOwnerID == nil || *event.NewOwnerID != actorID {
		return nil, fmt.Errorf("user %d is not the loanee of %d: %w", actorID, ownershipID, domain.ErrNotAllowed)
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
	return event, nil
}

// DenyLoan is the loanee rejecting a pending loan. If the offer created the
// loanee's record it is revoked in full; a record that predated the offer
// is left exactly as it was.
func (s *Service) DenyLoan(ctx context.Context, ownershipID uint64, actorID int64) (*schema.Ownership, error) {
	event, err := s.loadEvent(ctx, ownershipID)
	if err != nil {
		return nil, err
	}
	if !isLoan(event.Type) || event.Status != schema.OwnershipStatusPending {
		return nil, fmt.Errorf("ownership %d is not a pending loan: %w", ownershipID, domain.ErrInvalidEventState)
	}
	if event.NewOwnerID == nil || *event.NewOwnerID != actorID {
		return nil, fmt.Errorf("user %d is not the loanee of %d: %w", actorID, ownershipID, domain.ErrNotAllowed)
	}

	now := s.clock.Now()
	if err := s.store.UpdateOwnershipStatus(ctx, ownershipID, schema.OwnershipStatusDenied, &now); err != nil {
		return nil, err
	}

	record, err := s.store.GetActionControl(ctx, actorID, event.PieceID, event.EditionID)
	if err != nil {
		return nil, err
	}
	if record != nil && record.Capabilities() == acl.MustTemplate(acl.RoleLoaneePending) {
		if err := s.setRole(ctx, actorID, event.PieceID, event.EditionID, acl.RoleAnonymous); err != nil {
			return nil, err
		}
	}
	return event, nil
}

func isLoan(t schema.OwnershipType) bool {
	return t == schema.OwnershipTypeLoan || t == schema.OwnershipTypeLoanPiece
}
