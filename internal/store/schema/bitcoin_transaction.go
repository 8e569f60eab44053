package schema

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/ascribe/spool-engine/internal/domain"
)

// TxStatus is the lifecycle state of a bitcoin transaction. Status only
// moves forward pending -> unconfirmed -> confirmed, or to rejected from any
// non-confirmed state.
type TxStatus string

const (
	// TxStatusPending is built but not yet pushed to the network
	TxStatusPending TxStatus = "pending"
	// TxStatusUnconfirmed is pushed and awaiting confirmations
	TxStatusUnconfirmed TxStatus = "unconfirmed"
	// TxStatusConfirmed has at least one confirmation
	TxStatusConfirmed TxStatus = "confirmed"
	// TxStatusRejected was refused by the network or superseded
	TxStatusRejected TxStatus = "rejected"
)

// CanTransition reports whether a status change is legal
func (s TxStatus) CanTransition(to TxStatus) bool {
	switch s {
	case TxStatusPending:
		return to == TxStatusUnconfirmed || to == TxStatusConfirmed || to == TxStatusRejected
	case TxStatusUnconfirmed:
		return to == TxStatusConfirmed || to == TxStatusRejected
	default:
		return false
	}
}

// TxOutput is one (amount, address) pair of a transaction. Outputs are
// persisted as a structured JSON list.
type TxOutput struct {
	// Amount is the output value in satoshi
	Amount int64 `json:"amount"`
	// Address is the bare Bitcoin address, no derivation-path prefix
	Address string `json:"address"`
}

// BitcoinTransaction represents the bitcoin_transactions table - a built or
// broadcast transaction anchoring an ownership event. Exactly one ownership
// event references a given transaction, except the fuel/refill transaction,
// which funds the fee wallet and is not linked to any event.
type BitcoinTransaction struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// FromAddress is the spending address in path:btc form
	FromAddress domain.Address `gorm:"column:from_address;not null;type:text"`
	// Outputs is the serialized []TxOutput list; immutable once signed
	Outputs datatypes.JSON `gorm:"column:outputs;not null;type:jsonb"`
	// SpoolVerb is the protocol marker embedded in the null-data output
	SpoolVerb string `gorm:"column:spool_verb;not null;type:text"`
	// Fee is the mining fee in satoshi
	Fee int64 `gorm:"column:fee;not null"`
	// Status is the lifecycle state
	Status TxStatus `gorm:"column:status;not null;type:text;default:pending;index"`
	// TxHash is the network transaction id once the broadcaster accepted it
	TxHash *string `gorm:"column:tx_hash;type:text;uniqueIndex"`
	// DependentTxID references a transaction that must be pushed only after
	// this one confirms. This is the persisted continuation pointer that lets
	// recovery after a crash be a data query rather than an in-memory replay.
	DependentTxID *uint64 `gorm:"column:dependent_tx_id"`
	// Confirmations is the last observed confirmation count
	Confirmations int `gorm:"column:confirmations;not null;default:0"`
	// CreatedAt is when the transaction was built
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	DependentTx *BitcoinTransaction `gorm:"foreignKey:DependentTxID"`
}

// TableName specifies the table name for the BitcoinTransaction model
func (BitcoinTransaction) TableName() string {
	return "bitcoin_transactions"
}

// DecodeOutputs parses the persisted output list
func (t *BitcoinTransaction) DecodeOutputs() ([]TxOutput, error) {
	var outputs []TxOutput
	if err := json.Unmarshal(t.Outputs, &outputs); err != nil {
		return nil, err
	}
	return outputs, nil
}

// EncodeOutputs serializes an output list for persistence
func EncodeOutputs(outputs []TxOutput) (datatypes.JSON, error) {
	raw, err := json.Marshal(outputs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
