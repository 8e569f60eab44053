package rest

import (
	"errors"
	"time"

	"github.com/ascribe/spool-engine/internal/store/schema"
)

// RegisterPieceRequest registers a new piece. The hash addresses are
// computed upstream by the web layer from the digital work and its metadata.
type RegisterPieceRequest struct {
	RegistreeID         int64  `json:"registree_id" binding:"required"`
	Title               string `json:"title" binding:"required"`
	ArtistName          string `json:"artist_name" binding:"required"`
	HashAddress         string `json:"hash_address" binding:"required"`
	HashMetadataAddress string `json:"hash_metadata_address" binding:"required"`
	Password            string `json:"password" binding:"required"`
}

// RegisterEditionsRequest declares the number of editions for a piece
type RegisterEditionsRequest struct {
	ActorID     int64  `json:"actor_id" binding:"required"`
	NumEditions int    `json:"num_editions" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// TransferRequest transfers an edition. Exactly one of RecipientID and
// RecipientEmail must be set; email recipients are unregistered invitees.
type TransferRequest struct {
	EditionID      uint64  `json:"edition_id" binding:"required"`
	ActorID        int64   `json:"actor_id" binding:"required"`
	RecipientID    *int64  `json:"recipient_id"`
	RecipientEmail *string `json:"recipient_email"`
	Password       string  `json:"password" binding:"required"`
}

// Validate checks the recipient constraint
func (r *TransferRequest) Validate() error {
	if (r.RecipientID == nil) == (r.RecipientEmail == nil) {
		return errors.New("exactly one of recipient_id and recipient_email must be set")
	}
	return nil
}

// ConsignRequest offers custody of an edition to a consignee
type ConsignRequest struct {
	EditionID   uint64 `json:"edition_id" binding:"required"`
	ActorID     int64  `json:"actor_id" binding:"required"`
	ConsigneeID int64  `json:"consignee_id" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// EventActionRequest acts on an existing pending ownership event by id.
// Password is required only for actions that sign a transaction
// (confirm_consign, unconsign).
type EventActionRequest struct {
	OwnershipID uint64 `json:"ownership_id" binding:"required"`
	ActorID     int64  `json:"actor_id" binding:"required"`
	Password    string `json:"password"`
}

// EditionActionRequest acts on an edition without a counterparty
// (request_unconsign, unconsign, unshare)
type EditionActionRequest struct {
	EditionID uint64 `json:"edition_id" binding:"required"`
	ActorID   int64  `json:"actor_id" binding:"required"`
	Password  string `json:"password"`
}

// LoanRequest offers an edition or, with EditionID unset, a whole piece on
// loan for an inclusive date range
type LoanRequest struct {
	PieceID   uint64    `json:"piece_id" binding:"required"`
	EditionID *uint64   `json:"edition_id"`
	ActorID   int64     `json:"actor_id" binding:"required"`
	LoaneeID  int64     `json:"loanee_id" binding:"required"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
	EndsAt    time.Time `json:"ends_at" binding:"required"`
	Password  string    `json:"password" binding:"required"`
}

// ShareRequest grants a sharee read access to an edition or piece
type ShareRequest struct {
	PieceID   uint64  `json:"piece_id" binding:"required"`
	EditionID *uint64 `json:"edition_id"`
	ActorID   int64   `json:"actor_id" binding:"required"`
	ShareeID  int64   `json:"sharee_id" binding:"required"`
}

// UnshareRequest removes a shared edition or piece from the actor's own
// collection
type UnshareRequest struct {
	PieceID   uint64  `json:"piece_id" binding:"required"`
	EditionID *uint64 `json:"edition_id"`
	ActorID   int64   `json:"actor_id" binding:"required"`
}

// OwnershipEventResponse is the result of an ownership action. Capabilities
// is the acting user's post-action snapshot for the touched piece/edition.
type OwnershipEventResponse struct {
	OwnershipID  uint64          `json:"ownership_id"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	PieceID      uint64          `json:"piece_id"`
	EditionID    *uint64         `json:"edition_id,omitempty"`
	BtcTxID      *uint64         `json:"btc_tx_id,omitempty"`
	Capabilities map[string]bool `json:"capabilities,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func newOwnershipEventResponse(event *schema.Ownership, capabilities map[string]bool) OwnershipEventResponse {
	return OwnershipEventResponse{
		OwnershipID:  event.ID,
		Type:         string(event.Type),
		Status:       string(event.Status),
		PieceID:      event.PieceID,
		EditionID:    event.EditionID,
		BtcTxID:      event.BtcTxID,
		Capabilities: capabilities,
		CreatedAt:    event.CreatedAt,
	}
}

// CapabilitySnapshotResponse is the flag map for one user on one
// piece/edition
type CapabilitySnapshotResponse struct {
	UserID       int64           `json:"user_id"`
	PieceID      uint64          `json:"piece_id"`
	EditionID    *uint64         `json:"edition_id,omitempty"`
	Capabilities map[string]bool `json:"capabilities"`
}

// CapabilityListResponse lists the pieces or editions where a user holds a
// set of capability flags
type CapabilityListResponse struct {
	UserID int64    `json:"user_id"`
	Flags  []string `json:"flags"`
	IDs    []uint64 `json:"ids"`
}

// WebhookAckResponse acknowledges an inbound blockchain event
type WebhookAckResponse struct {
	EventID   string `json:"event_id"`
	Processed bool   `json:"processed"`
}

// HealthCheckResponse represents the health check response
type HealthCheckResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
