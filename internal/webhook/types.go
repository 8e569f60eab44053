package webhook

import "time"

// Event type constants
const (
	// EventTypeTransaction is fired by the blockchain monitor when a
	// watched transaction gains or loses confirmations
	EventTypeTransaction = "transaction"

	// EventTypeBlock is fired on each new block the monitor sees
	EventTypeBlock = "block"
)

// Event represents an inbound notification from the blockchain monitor
type Event struct {
	// EventID is a unique identifier for this event (ULID for time-sortable uniqueness)
	EventID string `json:"event_id"`
	// EventType is the type of event (e.g., "transaction")
	EventType string `json:"event_type"`
	// Timestamp is when the event was generated
	Timestamp time.Time `json:"timestamp"`
	// Data contains the event-specific payload
	Data EventData `json:"data"`
}

// EventData contains the monitor event payload
type EventData struct {
	// Hash is the transaction hash the notification is about
	Hash string `json:"hash"`
	// Confirmations is the current confirmation count; negative when the
	// transaction was displaced by a conflicting spend
	Confirmations int `json:"confirmations"`
	// BlockHeight is the height of the block containing the transaction,
	// zero while unconfirmed
	BlockHeight uint64 `json:"block_height,omitempty"`
}
