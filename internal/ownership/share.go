package ownership

import (
	"context"
	"fmt"

	"github.com/ascribe/spool-engine/internal/acl"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// Share grants a sharee read access to an edition. Shares never touch the
// chain; the event confirms immediately. An existing sharee record is left
// untouched, which differs from the piece-level variant below; the
// asymmetry is inherited behavior the web layer depends on.
func (s *Service) Share(ctx context.Context, editionID uint64, actorID int64, shareeID int64) (*schema.Ownership, error) {
	_, piece, err := s.loadEdition(ctx, editionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCapability(ctx, actorID, piece.ID, &editionID, acl.FlagShare); err != nil {
		return nil, err
	}

	event, err := s.recordShare(ctx, schema.OwnershipTypeShare, piece.ID, &editionID, actorID, shareeID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetActionControl(ctx, shareeID, piece.ID, &editionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := s.setRole(ctx, shareeID, piece.ID, &editionID, acl.RoleSharee); err != nil {
			return nil, err
		}
	}
	return event, nil
}

// SharePiece grants a sharee read access to a piece. Unlike the edition
// variant, the sharee template is always re-applied.
func (s *Service) SharePiece(ctx context.Context, pieceID uint64, actorID int64, shareeID int64) (*schema.Ownership, error) {
	if err := s.requireCapability(ctx, actorID, pieceID, nil, acl.FlagShare); err != nil {
		return nil, err
	}

	event, err := s.recordShare(ctx, schema.OwnershipTypeSharePiece, pieceID, nil, actorID, shareeID)
	if err != nil {
		return nil, err
	}
	if err := s.setRole(ctx, shareeID, pieceID, nil, acl.RolePieceSharee); err != nil {
		return nil, err
	}
	return event, nil
}

// Unshare is a sharee removing an edition from their own collection.
// Revocation flips the flags to the anonymous set; the record itself stays.
func (s *Service) Unshare(ctx context.Context, editionID uint64, actorID int64) error {
	_, piece, err := s.loadEdition(ctx, editionID)
	if err != nil {
		return err
	}
	if err := s.requireCapability(ctx, actorID, piece.ID, &editionID, acl.FlagUnshare); err != nil {
		return err
	}
	return s.setRole(ctx, actorID, piece.ID, &editionID, acl.RoleAnonymous)
}

// UnsharePiece is a sharee removing a piece from their own collection
func (s *Service) UnsharePiece(ctx context.Context, pieceID uint64, actorID int64) error {
	piece, err := s.store.GetPieceByID(ctx, pieceID)
	if err != nil {
		return err
	}
	if piece == nil {
		return fmt.Errorf("piece %d: %w", pieceID, domain.ErrOwnershipNotFound)
	}
	if err := s.requireCapability(ctx, actorID, pieceID, nil, acl.FlagUnshare); err != nil {
		return err
	}
	return s.setRole(ctx, actorID, pieceID, nil, acl.RoleAnonymous)
}

func (s *Service) recordShare(ctx context.Context, t schema.OwnershipType, pieceID uint64, editionID *uint64, actorID, shareeID int64) (*schema.Ownership, error) {
	now := s.clock.Now()
	event := &schema.Ownership{
		Type:        t,
		Status:      schema.OwnershipStatusConfirmed,
		PieceID:     pieceID,
		EditionID:   editionID,
		PrevOwnerID: &actorID,
		NewOwnerID:  &shareeID,
		RespondedAt: &now,
	}
	if err := s.store.CreateOwnership(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
