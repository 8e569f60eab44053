package ownership

import (
	"context"
	"fmt"

	"github.com/ascribe/spool-engine/internal/acl"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

// OnTxConfirmed applies the confirmation-side effects of an ownership event
// once its anchoring transaction reaches the chain. The broadcaster calls
// this exactly once per transaction, on the unconfirmed-to-confirmed edge,
// so the handlers here may assume single execution; they are still written
// to be safe under a replay.
func (s *Service) OnTxConfirmed(ctx context.Context, event *schema.Ownership, txHash string) error {
	switch event.Type {
	case schema.OwnershipTypeRegistration:
		if event.NewOwnerID == nil {
			return fmt.Errorf("registration %d has no registrant: %w", event.ID, domain.ErrInvalidEventState)
		}
		if err := s.setRole(ctx, *event.NewOwnerID, event.PieceID, nil, acl.RolePieceRegistreeBeforeEditions); err != nil {
			return err
		}

	case schema.OwnershipTypeEditions:
		if event.NewOwnerID == nil {
			return fmt.Errorf("editions event %d has no registrant: %w", event.ID, domain.ErrInvalidEventState)
		}
		if err := s.setRole(ctx, *event.NewOwnerID, event.PieceID, nil, acl.RolePieceRegistreeAfterEditions); err != nil {
			return err
		}
		piece, err := s.store.GetPieceByID(ctx, event.PieceID)
		if err != nil {
			return err
		}
		for n := 1; n <= piece.NumEditions; n++ {
			edition, err := s.store.GetEdition(ctx, event.PieceID, n)
			if err != nil {
				return err
			}
			if edition == nil {
				return fmt.Errorf("piece %d edition %d missing: %w", event.PieceID, n, domain.ErrOwnershipNotFound)
			}
			if err := s.setRole(ctx, *event.NewOwnerID, event.PieceID, &edition.ID, acl.RoleEditionRegistree); err != nil {
				return err
			}
		}

	case schema.OwnershipTypeTransfer:
		if event.EditionID == nil {
			return fmt.Errorf("transfer %d has no edition: %w", event.ID, domain.ErrInvalidEventState)
		}
		if event.PrevOwnerID != nil {
			if err := s.setRole(ctx, *event.PrevOwnerID, event.PieceID, event.EditionID, acl.RolePrevOwner); err != nil {
				return err
			}
		}
		if event.NewOwnerID != nil {
			if err := s.setRole(ctx, *event.NewOwnerID, event.PieceID, event.EditionID, acl.RoleTransferee); err != nil {
				return err
			}
			if err := s.store.UpdateEditionOwner(ctx, *event.EditionID, *event.NewOwnerID, event.NewBtcAddress); err != nil {
				return err
			}
		}

	case schema.OwnershipTypeConsignment:
		// Templates advanced when the consignee accepted; the chain
		// anchoring re-applies them, which is a no-op on replay.
		if event.NewOwnerID != nil {
			if err := s.setRole(ctx, *event.NewOwnerID, event.PieceID, event.EditionID, acl.RoleConsignee); err != nil {
				return err
			}
		}
		if event.PrevOwnerID != nil {
			if err := s.setRole(ctx, *event.PrevOwnerID, event.PieceID, event.EditionID, acl.RoleConsignOwnerAfterConfirm); err != nil {
				return err
			}
		}
		if event.EditionID != nil && event.NewBtcAddress != "" && event.NewOwnerID != nil {
			edition, err := s.store.GetEditionByID(ctx, *event.EditionID)
			if err != nil {
				return err
			}
			if edition != nil {
				// Custody moved; the chain head is now the consignee's
				// address while registered ownership stays put.
				if err := s.store.UpdateEditionOwner(ctx, *event.EditionID, edition.OwnerID, event.NewBtcAddress); err != nil {
					return err
				}
			}
		}

	case schema.OwnershipTypeUnconsignment:
		if event.EditionID == nil {
			return fmt.Errorf("unconsignment %d has no edition: %w", event.ID, domain.ErrInvalidEventState)
		}
		if event.NewOwnerID != nil {
			if err := s.setRole(ctx, *event.NewOwnerID, event.PieceID, event.EditionID, acl.RoleEditionRegistree); err != nil {
				return err
			}
			if err := s.store.UpdateEditionOwner(ctx, *event.EditionID, *event.NewOwnerID, event.NewBtcAddress); err != nil {
				return err
			}
		}
		if event.PrevOwnerID != nil {
			if err := s.setRole(ctx, *event.PrevOwnerID, event.PieceID, event.EditionID, acl.RoleConsigneePending); err != nil {
				return err
			}
		}
		if err := s.store.SetEditionConsignee(ctx, *event.EditionID, nil); err != nil {
			return err
		}

	case schema.OwnershipTypeLoan, schema.OwnershipTypeLoanPiece:
		if event.NewOwnerID != nil {
			if err := s.setRole(ctx, *event.NewOwnerID, event.PieceID, event.EditionID, acl.RoleLoanee); err != nil {
				return err
			}
		}

	case schema.OwnershipTypeMigration:
		// The re-anchoring happened when the migration was created; the
		// chain confirmation carries no capability effect.

	default:
		return fmt.Errorf("ownership type %q has no confirmation effect: %w", event.Type, domain.ErrInvalidEventState)
	}

	now := s.clock.Now()
	if event.Status != schema.OwnershipStatusConfirmed {
		if err := s.store.UpdateOwnershipStatus(ctx, event.ID, schema.OwnershipStatusConfirmed, &now); err != nil {
			return err
		}
	}
	return s.store.ClearOwnershipWIF(ctx, event.ID)
}
