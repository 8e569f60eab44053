package ownership

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/ascribe/spool-engine/internal/acl"
	"github.com/ascribe/spool-engine/internal/adapter"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store"
	"github.com/ascribe/spool-engine/internal/store/schema"
	"github.com/ascribe/spool-engine/internal/wallet"
)

// Service drives the ownership protocol: it validates the actor's
// capability, enforces the per-edition pending-action invariants, creates
// the event row, and applies the creation-side role templates. Templates
// are always applied whole; no handler ever patches individual flags.
type Service struct {
	store  store.Store
	wallet *wallet.Wallet
	clock  adapter.Clock

	// federationPassword derives custody addresses held on behalf of
	// counterparties who have not supplied a password of their own
	federationPassword string

	// seq disambiguates derivation paths allocated in the same second
	seq atomic.Uint64
}

// NewService creates a new ownership service
func NewService(st store.Store, w *wallet.Wallet, clock adapter.Clock, federationPassword string) *Service {
	return &Service{
		store:              st,
		wallet:             w,
		clock:              clock,
		federationPassword: federationPassword,
	}
}

// requireCapability checks that the actor holds a capability flag on a piece
// or edition. A missing record means no relationship was ever established;
// both cases surface as ErrNotAllowed.
func (s *Service) requireCapability(ctx context.Context, userID int64, pieceID uint64, editionID *uint64, flag string) error {
	record, err := s.store.GetActionControl(ctx, userID, pieceID, editionID)
	if err != nil {
		return err
	}
	if record == nil || !record.Capabilities().Has(flag) {
		return fmt.Errorf("user %d lacks %s on piece %d: %w", userID, flag, pieceID, domain.ErrNotAllowed)
	}
	return nil
}

// setRole overwrites the actor's capability record with a role's full
// flag table
func (s *Service) setRole(ctx context.Context, userID int64, pieceID uint64, editionID *uint64, role acl.Role) error {
	caps, err := acl.Template(role)
	if err != nil {
		return err
	}
	return s.store.UpsertActionControl(ctx, userID, pieceID, editionID, caps)
}

// allocUserAddress derives a fresh address in the user's password wallet
func (s *Service) allocUserAddress(password string) (domain.Address, *btcutil.WIF, error) {
	path := wallet.NewPath(s.clock.Now(), s.seq.Add(1))
	return s.wallet.Derive(password, path)
}

// allocCustodyAddress derives a fresh custody address for a counterparty
// who has not supplied a password
func (s *Service) allocCustodyAddress(userID int64) (domain.Address, error) {
	path := wallet.CustodyPath(userID, s.clock.Now(), s.seq.Add(1))
	addr, _, err := s.wallet.Derive(s.federationPassword, path)
	return addr, err
}

// sealChainHead derives and seals the signing key for an address the actor
// controls. For custody addresses the federation signs at broadcast time, so
// no seal is stored. A derivation mismatch on a password address means the
// chain head predates a password change; the engine cannot recover the key
// from the current password alone.
func (s *Service) sealChainHead(address domain.Address, password string) (string, error) {
	if wallet.IsCustodyPath(address.Path()) {
		return "", nil
	}
	derived, wif, err := s.wallet.Derive(password, address.Path())
	if err != nil {
		return "", err
	}
	if derived != address {
		return "", fmt.Errorf("address %s does not derive from the supplied password: %w",
			address.Btc(), domain.ErrWrongPassword)
	}
	// Sealed under the federation password, not the actor's: the broadcast
	// may be triggered by the counterparty's confirmation, and restart
	// reconciliation runs with no user password at all.
	return s.wallet.SealWIF(wif, s.federationPassword)
}

// requireNoOpenEvent enforces the at-most-one-open invariant for an event
// type on an edition
func (s *Service) requireNoOpenEvent(ctx context.Context, editionID uint64, ownershipType schema.OwnershipType) error {
	open, err := s.store.GetOpenOwnership(ctx, editionID, ownershipType)
	if err != nil {
		return err
	}
	if open != nil {
		return fmt.Errorf("edition %d already has an open %s (event %d): %w",
			editionID, ownershipType, open.ID, domain.ErrPendingActionExists)
	}
	return nil
}

// loadEdition fetches an edition and its piece, treating absence as an
// invariant violation
func (s *Service) loadEdition(ctx context.Context, editionID uint64) (*schema.Edition, *schema.Piece, error) {
	edition, err := s.store.GetEditionByID(ctx, editionID)
	if err != nil {
		return nil, nil, err
	}
	if edition == nil {
		return nil, nil, fmt.Errorf("edition %d: %w", editionID, domain.ErrOwnershipNotFound)
	}
	piece, err := s.store.GetPieceByID(ctx, edition.PieceID)
	if err != nil {
		return nil, nil, err
	}
	if piece == nil {
		return nil, nil, fmt.Errorf("piece %d for edition %d: %w", edition.PieceID, editionID, domain.ErrOwnershipNotFound)
	}
	return edition, piece, nil
}

// loadEvent fetches an ownership event, treating absence as an invariant
// violation
func (s *Service) loadEvent(ctx context.Context, ownershipID uint64) (*schema.Ownership, error) {
	event, err := s.store.GetOwnershipByID(ctx, ownershipID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("ownership %d: %w", ownershipID, domain.ErrOwnershipNotFound)
	}
	return event, nil
}

// CapabilitySnapshot returns the actor's resulting flag map for a piece or
// edition, the shape the web layer embeds in action responses. Missing
// records yield the anonymous (all-false) set.
func (s *Service) CapabilitySnapshot(ctx context.Context, userID int64, pieceID uint64, editionID *uint64) (map[string]bool, error) {
	record, err := s.store.GetActionControl(ctx, userID, pieceID, editionID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return acl.MustTemplate(acl.RoleAnonymous).Map(), nil
	}
	return record.Capabilities().Map(), nil
}
