package domain

import (
	"fmt"
	"strings"
	"time"
)

// Network represents the Bitcoin network the engine operates on
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
	NetworkRegtest Network = "regtest"
)

// IsValidNetwork checks if a network is valid
func IsValidNetwork(network Network) bool {
	return network == NetworkMainnet ||
		network == NetworkTestnet ||
		network == NetworkRegtest
}

// Address is a wallet address in the canonical stored format
// "<derivation path>:<btc address>" (e.g. "2015/7/12/1:1HbG7..."). The
// derivation path part ties the address back to the user's wallet tree; the
// Bitcoin part is what goes on chain. The root wallet address has an empty
// path and is stored without the colon prefix.
type Address string

// NewAddress builds an Address from a derivation path and a Bitcoin address
func NewAddress(path string, btc string) Address {
	if path == "" {
		return Address(btc)
	}
	return Address(fmt.Sprintf("%s:%s", path, btc))
}

// Path returns the derivation path component (empty for root addresses)
func (a Address) Path() string {
	idx := strings.LastIndex(string(a), ":")
	if idx < 0 {
		return ""
	}
	return string(a)[:idx]
}

// Btc returns the bare Bitcoin address with the derivation-path prefix
// stripped. This is the form embedded in transaction outputs.
func (a Address) Btc() string {
	idx := strings.LastIndex(string(a), ":")
	return string(a)[idx+1:]
}

// String returns the canonical stored representation
func (a Address) String() string {
	return string(a)
}

// Valid checks that the Bitcoin component is present and plausible.
// Full base58check validation happens in the wallet package; this guards
// against obviously malformed stored values.
func (a Address) Valid() bool {
	btc := a.Btc()
	if len(btc) < 26 || len(btc) > 62 {
		return false
	}
	return !strings.ContainsAny(btc, " \t\n")
}

// DateRange is an inclusive loan period. The chain encoding is two
// concatenated YYMMDD strings, so only the date part is significant.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Valid checks the range is well formed
func (r DateRange) Valid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && !r.To.Before(r.From)
}

// NotificationKind is the type of ownership notification published to NATS
type NotificationKind string

const (
	NotificationConfirmed NotificationKind = "ownership.confirmed"
	NotificationDenied    NotificationKind = "ownership.denied"
	NotificationWithdrawn NotificationKind = "ownership.withdrawn"
)

// OwnershipNotification is the message published to downstream consumers
// (the web layer, mailers) when an ownership event reaches a terminal state.
type OwnershipNotification struct {
	EventID     string           `json:"event_id"` // ULID, unique per notification
	Kind        NotificationKind `json:"kind"`
	OwnershipID uint64           `json:"ownership_id"`
	PieceID     uint64           `json:"piece_id"`
	EditionID   *uint64          `json:"edition_id,omitempty"`
	PrevOwnerID *int64           `json:"prev_owner_id,omitempty"`
	NewOwnerID  *int64           `json:"new_owner_id,omitempty"`
	TxHash      *string          `json:"tx_hash,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}
