package schema

import "time"

// KeyValueStore is the key_value_store table, scratch state that has no
// table of its own: funding refill markers, reconcile cursors.
type KeyValueStore struct {
	Key       string    `gorm:"column:key;primaryKey;type:text"`
	Value     string    `gorm:"column:value;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (KeyValueStore) TableName() string {
	return "key_value_store"
}
