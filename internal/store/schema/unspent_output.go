package schema

import "time"

// UnspentOutput represents the unspent_outputs table - the shared funding
// pool the broadcaster draws fees and tokens from. Selection happens under a
// row-level exclusive lock so no two concurrent submissions ever pick the
// same output; spending the same output twice produces a conflicting,
// rejected transaction.
type UnspentOutput struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TxHash is the funding transaction id
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_unspent_tx_vout,priority:1"`
	// Vout is the output index within the funding transaction
	Vout uint32 `gorm:"column:vout;not null;uniqueIndex:idx_unspent_tx_vout,priority:2"`
	// Amount is the output value in satoshi
	Amount int64 `gorm:"column:amount;not null;index"`
	// Address is the funding wallet address holding this output
	Address string `gorm:"column:address;not null;type:text;index"`
	// ScriptPubKey is the hex-encoded locking script, needed for signing
	ScriptPubKey string `gorm:"column:script_pub_key;type:text"`
	// Spent marks the output as consumed by a submission
	Spent bool `gorm:"column:spent;not null;default:false;index"`
	// SpentByTxID references the bitcoin transaction that consumed it
	SpentByTxID *uint64 `gorm:"column:spent_by_tx_id"`
	// CreatedAt is when the output was imported into the pool
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the UnspentOutput model
func (UnspentOutput) TableName() string {
	return "unspent_outputs"
}
