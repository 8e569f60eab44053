package schema

import (
	"time"

	"github.com/ascribe/spool-engine/internal/domain"
)

// NumEditionsUnset is the sentinel for a piece that never had editions
// registered. Spoolverb construction distinguishes "no editions yet" (-1)
// from "zero editions declared" and listing endpoints surface it verbatim.
const NumEditionsUnset = -1

// Piece represents the pieces table - a registered artwork. Anything beyond
// ownership identity (files, thumbnails, metadata) lives with the web layer.
type Piece struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Title is the artwork title carried for logging and notifications
	Title string `gorm:"column:title;not null;type:text"`
	// ArtistName is the registered artist name
	ArtistName string `gorm:"column:artist_name;not null;type:text"`
	// RegistreeID is the external user id of the registrant
	RegistreeID int64 `gorm:"column:registree_id;not null;index"`
	// BitcoinAddress is the piece's registration address in path:btc form
	BitcoinAddress domain.Address `gorm:"column:bitcoin_address;not null;type:text"`
	// HashAddress is the digital work's content hash rendered as a Bitcoin
	// address, embedded in registration outputs
	HashAddress string `gorm:"column:hash_address;not null;type:text"`
	// HashMetadataAddress is the metadata hash rendered as a Bitcoin address
	HashMetadataAddress string `gorm:"column:hash_metadata_address;not null;type:text"`
	// NumEditions is the declared edition count, NumEditionsUnset until an
	// editions registration confirms
	NumEditions int `gorm:"column:num_editions;not null;default:-1"`
	// CreatedAt is the timestamp when the piece was registered
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Editions []Edition `gorm:"foreignKey:PieceID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Piece model
func (Piece) TableName() string {
	return "pieces"
}

// Edition represents the editions table - one numbered instance of a piece
// with its own ownership chain.
type Edition struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// PieceID references the parent piece
	PieceID uint64 `gorm:"column:piece_id;not null;uniqueIndex:idx_editions_piece_number,priority:1"`
	// EditionNumber is the 1-based number within the piece
	EditionNumber int `gorm:"column:edition_number;not null;uniqueIndex:idx_editions_piece_number,priority:2"`
	// OwnerID is the external user id of the current owner
	OwnerID int64 `gorm:"column:owner_id;not null;index"`
	// BitcoinAddress is the head of the edition's on-chain address chain in
	// path:btc form; every new ownership action anchors to it
	BitcoinAddress domain.Address `gorm:"column:bitcoin_address;not null;type:text"`
	// ConsigneeID is the external user id of the active consignee, nil when
	// the edition is not consigned
	ConsigneeID *int64 `gorm:"column:consignee_id"`
	// CreatedAt is the timestamp when the edition was registered
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Edition model
func (Edition) TableName() string {
	return "editions"
}
