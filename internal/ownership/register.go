package ownership

import (
	"context"
	"fmt"

	"github.com/ascribe/spool-engine/internal/acl"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// RegisterPieceParams carries everything needed to register a new piece.
// The hash addresses are computed by the web layer from the digital work
// and its metadata before the engine is involved.
type RegisterPieceParams struct {
	RegistreeID         int64
	Title               string
	ArtistName          string
	HashAddress         string
	HashMetadataAddress string
	Password            string
}

// RegisterPiece creates a piece with a freshly derived registrant address
// and the pending registration event anchoring it to the chain. The
// registration spends from the funding wallet, so no signing key is sealed.
// Capabilities are granted when the transaction confirms.
func (s *Service) RegisterPiece(ctx context.Context, p RegisterPieceParams) (*schema.Ownership, error) {
	if p.HashAddress == "" || p.HashMetadataAddress == "" {
		return nil, fmt.Errorf("piece %q is missing hash addresses: %w", p.Title, domain.ErrInvalidEventState)
	}

	address, _, err := s.allocUserAddress(p.Password)
	if err != nil {
		return nil, err
	}

	piece := &schema.Piece{
		Title:               p.Title,
		ArtistName:          p.ArtistName,
		RegistreeID:         p.RegistreeID,
		BitcoinAddress:      address,
		HashAddress:         p.HashAddress,
		HashMetadataAddress: p.HashMetadataAddress,
		NumEditions:         schema.NumEditionsUnset,
	}
	if err := s.store.CreatePiece(ctx, piece); err != nil {
		return nil, err
	}

	event := &schema.Ownership{
		Type:          schema.OwnershipTypeRegistration,
		Status:        schema.OwnershipStatusPending,
		PieceID:       piece.ID,
		NewOwnerID:    &p.RegistreeID,
		NewBtcAddress: address,
	}
	if err := s.store.CreateOwnership(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// RegisterEditions declares the edition count of a piece and creates the
// numbered edition rows, each on its own derived address. Only the piece
// registrant may do this, and only once; the count moves off the unset
// sentinel here and the creation right is closed when the editions
// transaction confirms.
func (s *Service) RegisterEditions(ctx context.Context, pieceID uint64, actorID int64, numEditions int, password string) (*schema.Ownership, error) {
	if numEditions < 1 {
		return nil, fmt.Errorf("edition count %d must be positive: %w", numEditions, domain.ErrInvalidEventState)
	}
	if err := s.requireCapability(ctx, actorID, pieceID, nil, acl.FlagCreateEditions); err != nil {
		return nil, err
	}

	piece, err := s.store.GetPieceByID(ctx, pieceID)
	if err != nil {
		return nil, err
	}
	if piece == nil {
		return nil, fmt.Errorf("piece %d: %w", pieceID, domain.ErrOwnershipNotFound)
	}
	if piece.NumEditions != schema.NumEditionsUnset {
		return nil, fmt.Errorf("piece %d already has %d editions: %w", pieceID, piece.NumEditions, domain.ErrPendingActionExists)
	}

	editions := make([]schema.Edition, 0, numEditions)
	for n := 1; n <= numEditions; n++ {
		address, _, err := s.allocUserAddress(password)
		if err != nil {
			return nil, err
		}
		editions = append(editions, schema.Edition{
			PieceID:        pieceID,
			EditionNumber:  n,
			OwnerID:        actorID,
			BitcoinAddress: address,
		})
	}
	if err := s.store.CreateEditions(ctx, editions); err != nil {
		return nil, err
	}
	if err := s.store.SetPieceNumEditions(ctx, pieceID, numEditions); err != nil {
		return nil, err
	}

	event := &schema.Ownership{
		Type:          schema.OwnershipTypeEditions,
		Status:        schema.OwnershipStatusPending,
		PieceID:       pieceID,
		NewOwnerID:    &actorID,
		NewBtcAddress: piece.BitcoinAddress,
	}
	if err := s.store.CreateOwnership(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
