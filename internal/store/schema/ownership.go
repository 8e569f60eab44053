package schema

import (
	"time"

	"github.com/ascribe/spool-engine/internal/domain"
)

// OwnershipType discriminates the kind of ownership-changing action
type OwnershipType string

const (
	// OwnershipTypeRegistration is the initial piece registration
	OwnershipTypeRegistration OwnershipType = "registration"
	// OwnershipTypeEditions declares the number of editions for a piece
	OwnershipTypeEditions OwnershipType = "editions"
	// OwnershipTypeEditionRegistration registers one numbered edition
	OwnershipTypeEditionRegistration OwnershipType = "edition_registration"
	// OwnershipTypeTransfer transfers an edition to a new owner
	OwnershipTypeTransfer OwnershipType = "transfer"
	// OwnershipTypeConsignment delegates custody to a consignee
	OwnershipTypeConsignment OwnershipType = "consignment"
	// OwnershipTypeUnconsignment returns custody to the owner
	OwnershipTypeUnconsignment OwnershipType = "unconsignment"
	// OwnershipTypeLoan loans an edition for a date range
	OwnershipTypeLoan OwnershipType = "loan"
	// OwnershipTypeLoanPiece loans a whole piece for a date range
	OwnershipTypeLoanPiece OwnershipType = "loan_piece"
	// OwnershipTypeShare shares an edition read-only
	OwnershipTypeShare OwnershipType = "share"
	// OwnershipTypeSharePiece shares a piece read-only
	OwnershipTypeSharePiece OwnershipType = "share_piece"
	// OwnershipTypeMigration re-anchors an address chain after a password
	// change invalidated sealed key material
	OwnershipTypeMigration OwnershipType = "migration"
)

// OwnershipStatus is the lifecycle state of an ownership event. The ORM the
// engine replaced used NULL as the pending sentinel; here pending is an
// explicit value.
type OwnershipStatus string

const (
	// OwnershipStatusPending awaits counterparty action or chain confirmation
	OwnershipStatusPending OwnershipStatus = "pending"
	// OwnershipStatusConfirmed is accepted and reflected in capabilities
	OwnershipStatusConfirmed OwnershipStatus = "confirmed"
	// OwnershipStatusDenied was rejected by the counterparty
	OwnershipStatusDenied OwnershipStatus = "denied"
	// OwnershipStatusWithdrawn was cancelled by the initiator before the
	// counterparty confirmed
	OwnershipStatusWithdrawn OwnershipStatus = "withdrawn"
	// OwnershipStatusDeleted is the soft-delete terminal state for superseded
	// events; rows are never physically removed
	OwnershipStatusDeleted OwnershipStatus = "deleted"
)

// Ownership represents the ownerships table - one state-changing action in a
// piece/edition's ownership chain, optionally anchored to a Bitcoin
// transaction.
type Ownership struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Type discriminates the action kind
	Type OwnershipType `gorm:"column:type;not null;type:text;index:idx_ownerships_type_status,priority:1"`
	// Status is the lifecycle state
	Status OwnershipStatus `gorm:"column:status;not null;type:text;default:pending;index:idx_ownerships_type_status,priority:2"`
	// PieceID references the piece the action applies to
	PieceID uint64 `gorm:"column:piece_id;not null;index"`
	// EditionID references the edition, nil for piece-level actions
	EditionID *uint64 `gorm:"column:edition_id;index"`
	// PrevOwnerID is the external user id of the acting party, nil for
	// registrations that create the relationship
	PrevOwnerID *int64 `gorm:"column:prev_owner_id"`
	// NewOwnerID is the external user id of the counterparty (transferee,
	// consignee, sharee, loanee), nil for self-directed actions
	NewOwnerID *int64 `gorm:"column:new_owner_id;index"`
	// NewOwnerEmail is kept for invited recipients who have not registered yet
	NewOwnerEmail *string `gorm:"column:new_owner_email;type:text"`
	// PrevBtcAddress is the on-chain source address in path:btc form
	PrevBtcAddress domain.Address `gorm:"column:prev_btc_address;type:text"`
	// NewBtcAddress is the on-chain destination address in path:btc form
	NewBtcAddress domain.Address `gorm:"column:new_btc_address;type:text"`
	// CiphertextWIF is the password-sealed signing key for this action.
	// Populated only when the action signs with a derived key; cleared the
	// moment the underlying transaction confirms.
	CiphertextWIF string `gorm:"column:ciphertext_wif;type:text"`
	// BtcTxID references the anchoring bitcoin transaction, nil until built
	BtcTxID *uint64 `gorm:"column:btc_tx_id;index"`
	// LoanFrom is the loan period start, loans only
	LoanFrom *time.Time `gorm:"column:loan_from;type:timestamptz"`
	// LoanTo is the loan period end, loans only
	LoanTo *time.Time `gorm:"column:loan_to;type:timestamptz"`
	// RespondedAt is when the counterparty confirmed or denied
	RespondedAt *time.Time `gorm:"column:responded_at;type:timestamptz"`
	// CreatedAt is when the action was initiated
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	BtcTx *BitcoinTransaction `gorm:"foreignKey:BtcTxID"`
}

// TableName specifies the table name for the Ownership model
func (Ownership) TableName() string {
	return "ownerships"
}

// Open reports whether the event still participates in the protocol
func (o *Ownership) Open() bool {
	return o.Status == OwnershipStatusPending || o.Status == OwnershipStatusConfirmed
}

// LoanRange returns the loan period when both bounds are set
func (o *Ownership) LoanRange() (domain.DateRange, bool) {
	if o.LoanFrom == nil || o.LoanTo == nil {
		return domain.DateRange{}, false
	}
	return domain.DateRange{From: *o.LoanFrom, To: *o.LoanTo}, true
}
