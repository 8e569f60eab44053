package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ascribe/spool-engine/internal/acl"
	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// AutoMigrate creates or updates the engine's tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Piece{},
		&schema.Edition{},
		&schema.ActionControl{},
		&schema.BitcoinTransaction{},
		&schema.Ownership{},
		&schema.UnspentOutput{},
		&schema.KeyValueStore{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to reasonable defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// editionScope constrains a query to the edition- or piece-level record
func editionScope(q *gorm.DB, editionID *uint64) *gorm.DB {
	if editionID == nil {
		return q.Where("edition_id IS NULL")
	}
	return q.Where("edition_id = ?", *editionID)
}

// GetActionControl retrieves the capability record for a (user, piece, edition) tuple
func (s *pgStore) GetActionControl(ctx context.Context, userID int64, pieceID uint64, editionID *uint64) (*schema.ActionControl, error) {
	var record schema.ActionControl
	q := s.db.WithContext(ctx).Where("user_id = ? AND piece_id = ?", userID, pieceID)
	err := editionScope(q, editionID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get action control: %w", err)
	}
	return &record, nil
}

// aclFlagColumns are the columns a conflicting upsert overwrites
var aclFlagColumns = []string{
	"acl_view", "acl_edit", "acl_download", "acl_delete",
	"acl_create_editions", "acl_view_editions", "acl_share",
	"acl_unshare", "acl_transfer", "acl_withdraw_transfer",
	"acl_consign", "acl_withdraw_consign", "acl_unconsign",
	"acl_request_unconsign", "acl_loan", "acl_coa",
	"acl_loan_request", "updated_at",
}

// UpsertActionControl creates or fully overwrites a capability record. The
// conflict target has to name the partial unique index matching the row's
// scope; a bare (user_id, piece_id, edition_id) target never fires for
// piece-level rows because postgres keeps NULL index entries distinct.
func (s *pgStore) UpsertActionControl(ctx context.Context, userID int64, pieceID uint64, editionID *uint64, caps acl.Capabilities) error {
	record := schema.ActionControl{
		UserID:    userID,
		PieceID:   pieceID,
		EditionID: editionID,
	}
	record.SetCapabilities(caps)

	conflict := clause.OnConflict{
		Columns:     []clause.Column{{Name: "user_id"}, {Name: "piece_id"}, {Name: "edition_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "edition_id IS NOT NULL"}}},
		DoUpdates:   clause.AssignmentColumns(aclFlagColumns),
	}
	if editionID == nil {
		conflict.Columns = []clause.Column{{Name: "user_id"}, {Name: "piece_id"}}
		conflict.TargetWhere = clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "edition_id IS NULL"}}}
	}

	err := s.db.WithContext(ctx).Clauses(conflict).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert action control: %w", err)
	}
	return nil
}

// DeleteActionControl removes a capability record
func (s *pgStore) DeleteActionControl(ctx context.Context, userID int64, pieceID uint64, editionID *uint64) error {
	q := s.db.WithContext(ctx).Where("user_id = ? AND piece_id = ?", userID, pieceID)
	err := editionScope(q, editionID).Delete(&schema.ActionControl{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete action control: %w", err)
	}
	return nil
}

// aclColumns whitelists the flag names usable in capability predicates
var aclColumns = func() map[string]bool {
	valid := make(map[string]bool)
	for flag := range (acl.Capabilities{}).Map() {
		valid[flag] = true
	}
	return valid
}()

// applyPredicate adds one WHERE clause per predicate flag. Flag names are
// checked against the schema before interpolation.
func applyPredicate(q *gorm.DB, predicate map[string]bool) (*gorm.DB, error) {
	for flag, want := range predicate {
		if !aclColumns[flag] {
			return nil, fmt.Errorf("unknown capability flag in predicate: %q", flag)
		}
		q = q.Where(fmt.Sprintf("%s = ?", flag), want)
	}
	return q, nil
}

// ListPieceIDsByCapability lists pieces where the user's piece-level record satisfies the predicate
func (s *pgStore) ListPieceIDsByCapability(ctx context.Context, userID int64, predicate map[string]bool) ([]uint64, error) {
	q := s.db.WithContext(ctx).
		Model(&schema.ActionControl{}).
		Where("user_id = ? AND edition_id IS NULL", userID)
	q, err := applyPredicate(q, predicate)
	if err != nil {
		return nil, err
	}

	var pieceIDs []uint64
	if err := q.Pluck("piece_id", &pieceIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list pieces by capability: %w", err)
	}
	return pieceIDs, nil
}

// ListEditionIDsByCapability lists editions where the user's edition-level record satisfies the predicate
func (s *pgStore) ListEditionIDsByCapability(ctx context.Context, userID int64, predicate map[string]bool) ([]uint64, error) {
	q := s.db.WithContext(ctx).
		Model(&schema.ActionControl{}).
		Where("user_id = ? AND edition_id IS NOT NULL", userID)
	q, err := applyPredicate(q, predicate)
	if err != nil {
		return nil, err
	}

	var editionIDs []uint64
	if err := q.Pluck("edition_id", &editionIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list editions by capability: %w", err)
	}
	return editionIDs, nil
}

// CreatePiece persists a new piece
func (s *pgStore) CreatePiece(ctx context.Context, piece *schema.Piece) error {
	if err := s.db.WithContext(ctx).Create(piece).Error; err != nil {
		return fmt.Errorf("failed to create piece: %w", err)
	}
	return nil
}

// GetPieceByID retrieves a piece by its internal ID
func (s *pgStore) GetPieceByID(ctx context.Context, pieceID uint64) (*schema.Piece, error) {
	var piece schema.Piece
	err := s.db.WithContext(ctx).Where("id = ?", pieceID).First(&piece).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get piece: %w", err)
	}
	return &piece, nil
}

// SetPieceNumEditions records the declared edition count
func (s *pgStore) SetPieceNumEditions(ctx context.Context, pieceID uint64, numEditions int) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Piece{}).
		Where("id = ?", pieceID).
		Update("num_editions", numEditions).Error
	if err != nil {
		return fmt.Errorf("failed to set num editions: %w", err)
	}
	return nil
}

// CreateEditions persists the numbered editions of a piece in one batch
func (s *pgStore) CreateEditions(ctx context.Context, editions []schema.Edition) error {
	if len(editions) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "piece_id"}, {Name: "edition_number"}},
		DoNothing: true,
	}).Create(&editions).Error
	if err != nil {
		return fmt.Errorf("failed to create editions: %w", err)
	}
	return nil
}

// GetEditionByID retrieves an edition by its internal ID
func (s *pgStore) GetEditionByID(ctx context.Context, editionID uint64) (*schema.Edition, error) {
	var edition schema.Edition
	err := s.db.WithContext(ctx).Where("id = ?", editionID).First(&edition).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get edition: %w", err)
	}
	return &edition, nil
}

// GetEdition retrieves an edition by piece and edition number
func (s *pgStore) GetEdition(ctx context.Context, pieceID uint64, editionNumber int) (*schema.Edition, error) {
	var edition schema.Edition
	err := s.db.WithContext(ctx).
		Where("piece_id = ? AND edition_number = ?", pieceID, editionNumber).
		First(&edition).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get edition: %w", err)
	}
	return &edition, nil
}

// UpdateEditionOwner moves an edition to a new owner and address chain head
func (s *pgStore) UpdateEditionOwner(ctx context.Context, editionID uint64, ownerID int64, address domain.Address) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Edition{}).
		Where("id = ?", editionID).
		Updates(map[string]interface{}{
			"owner_id":        ownerID,
			"bitcoin_address": address.String(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update edition owner: %w", err)
	}
	return nil
}

// SetEditionConsignee records or clears the active consignee
func (s *pgStore) SetEditionConsignee(ctx context.Context, editionID uint64, consigneeID *int64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Edition{}).
		Where("id = ?", editionID).
		Update("consignee_id", consigneeID).Error
	if err != nil {
		return fmt.Errorf("failed to set edition consignee: %w", err)
	}
	return nil
}

// CreateOwnership persists a new ownership event
func (s *pgStore) CreateOwnership(ctx context.Context, ownership *schema.Ownership) error {
	if err := s.db.WithContext(ctx).Create(ownership).Error; err != nil {
		return fmt.Errorf("failed to create ownership: %w", err)
	}
	return nil
}

// GetOwnershipByID retrieves an ownership event
func (s *pgStore) GetOwnershipByID(ctx context.Context, ownershipID uint64) (*schema.Ownership, error) {
	var ownership schema.Ownership
	err := s.db.WithContext(ctx).Where("id = ?", ownershipID).First(&ownership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ownership: %w", err)
	}
	return &ownership, nil
}

// GetOwnershipByBtcTxID retrieves the event owning a transaction
func (s *pgStore) GetOwnershipByBtcTxID(ctx context.Context, txID uint64) (*schema.Ownership, error) {
	var ownership schema.Ownership
	err := s.db.WithContext(ctx).Where("btc_tx_id = ?", txID).First(&ownership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ownership by tx: %w", err)
	}
	return &ownership, nil
}

// GetOpenOwnership retrieves the single open event of a type for an edition
func (s *pgStore) GetOpenOwnership(ctx context.Context, editionID uint64, ownershipType schema.OwnershipType) (*schema.Ownership, error) {
	var ownership schema.Ownership
	err := s.db.WithContext(ctx).
		Where("edition_id = ? AND type = ? AND status IN ?",
			editionID, ownershipType,
			[]schema.OwnershipStatus{schema.OwnershipStatusPending, schema.OwnershipStatusConfirmed}).
		Order("id DESC").
		First(&ownership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open ownership: %w", err)
	}
	return &ownership, nil
}

// UpdateOwnershipStatus moves an event to a new lifecycle state
func (s *pgStore) UpdateOwnershipStatus(ctx context.Context, ownershipID uint64, status schema.OwnershipStatus, respondedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if respondedAt != nil {
		updates["responded_at"] = *respondedAt
	}
	err := s.db.WithContext(ctx).
		Model(&schema.Ownership{}).
		Where("id = ?", ownershipID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update ownership status: %w", err)
	}
	return nil
}

// LinkOwnershipTx attaches a built transaction to its owning event
func (s *pgStore) LinkOwnershipTx(ctx context.Context, ownershipID uint64, txID uint64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Ownership{}).
		Where("id = ?", ownershipID).
		Update("btc_tx_id", txID).Error
	if err != nil {
		return fmt.Errorf("failed to link ownership tx: %w", err)
	}
	return nil
}

// UpdateOwnershipPrevAddress re-anchors an event's source address
func (s *pgStore) UpdateOwnershipPrevAddress(ctx context.Context, ownershipID uint64, address domain.Address) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Ownership{}).
		Where("id = ?", ownershipID).
		Update("prev_btc_address", address.String()).Error
	if err != nil {
		return fmt.Errorf("failed to update ownership prev address: %w", err)
	}
	return nil
}

// UpdateOwnershipNewAddress records the destination address
func (s *pgStore) UpdateOwnershipNewAddress(ctx context.Context, ownershipID uint64, address domain.Address) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Ownership{}).
		Where("id = ?", ownershipID).
		Update("new_btc_address", address.String()).Error
	if err != nil {
		return fmt.Errorf("failed to update ownership new address: %w", err)
	}
	return nil
}

// SetOwnershipWIF replaces the sealed signing key
func (s *pgStore) SetOwnershipWIF(ctx context.Context, ownershipID uint64, ciphertext string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Ownership{}).
		Where("id = ?", ownershipID).
		Update("ciphertext_wif", ciphertext).Error
	if err != nil {
		return fmt.Errorf("failed to set ownership wif: %w", err)
	}
	return nil
}

// ClearOwnershipWIF erases the sealed signing key
func (s *pgStore) ClearOwnershipWIF(ctx context.Context, ownershipID uint64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Ownership{}).
		Where("id = ?", ownershipID).
		Update("ciphertext_wif", "").Error
	if err != nil {
		return fmt.Errorf("failed to clear ownership wif: %w", err)
	}
	return nil
}

// CreateBitcoinTransaction persists a built transaction
func (s *pgStore) CreateBitcoinTransaction(ctx context.Context, tx *schema.BitcoinTransaction) error {
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create bitcoin transaction: %w", err)
	}
	return nil
}

// GetBitcoinTransactionByID retrieves a transaction
func (s *pgStore) GetBitcoinTransactionByID(ctx context.Context, txID uint64) (*schema.BitcoinTransaction, error) {
	var tx schema.BitcoinTransaction
	err := s.db.WithContext(ctx).Where("id = ?", txID).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bitcoin transaction: %w", err)
	}
	return &tx, nil
}

// GetBitcoinTransactionByHash retrieves a transaction by its network id
func (s *pgStore) GetBitcoinTransactionByHash(ctx context.Context, txHash string) (*schema.BitcoinTransaction, error) {
	var tx schema.BitcoinTransaction
	err := s.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bitcoin transaction by hash: %w", err)
	}
	return &tx, nil
}

// MarkTransactionBroadcast records the network transaction id and moves the row pending -> unconfirmed
func (s *pgStore) MarkTransactionBroadcast(ctx context.Context, txID uint64, txHash string) error {
	result := s.db.WithContext(ctx).
		Model(&schema.BitcoinTransaction{}).
		Where("id = ? AND status = ?", txID, schema.TxStatusPending).
		Updates(map[string]interface{}{
			"tx_hash": txHash,
			"status":  schema.TxStatusUnconfirmed,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark transaction broadcast: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

// MarkTransactionConfirmed moves a transaction to confirmed on the
// transition edge only. Re-observing an already-confirmed transaction is a
// no-op reporting transitioned=false.
func (s *pgStore) MarkTransactionConfirmed(ctx context.Context, txHash string, confirmations int) (bool, *schema.BitcoinTransaction, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.BitcoinTransaction{}).
		Where("tx_hash = ? AND status IN ?", txHash,
			[]schema.TxStatus{schema.TxStatusPending, schema.TxStatusUnconfirmed}).
		Updates(map[string]interface{}{
			"status":        schema.TxStatusConfirmed,
			"confirmations": confirmations,
		})
	if result.Error != nil {
		return false, nil, fmt.Errorf("failed to mark transaction confirmed: %w", result.Error)
	}

	tx, err := s.GetBitcoinTransactionByHash(ctx, txHash)
	if err != nil {
		return false, nil, err
	}
	return result.RowsAffected > 0, tx, nil
}

// MarkTransactionRejected moves a non-confirmed transaction to rejected
func (s *pgStore) MarkTransactionRejected(ctx context.Context, txID uint64) error {
	result := s.db.WithContext(ctx).
		Model(&schema.BitcoinTransaction{}).
		Where("id = ? AND status <> ?", txID, schema.TxStatusConfirmed).
		Update("status", schema.TxStatusRejected)
	if result.Error != nil {
		return fmt.Errorf("failed to mark transaction rejected: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidStatusTransition
	}
	return nil
}

// SetTransactionFromAddress re-anchors a pending transaction's source address
func (s *pgStore) SetTransactionFromAddress(ctx context.Context, txID uint64, address domain.Address) error {
	err := s.db.WithContext(ctx).
		Model(&schema.BitcoinTransaction{}).
		Where("id = ? AND status = ?", txID, schema.TxStatusPending).
		Update("from_address", address.String()).Error
	if err != nil {
		return fmt.Errorf("failed to set transaction from address: %w", err)
	}
	return nil
}

// SetTransactionDependent persists the continuation pointer
func (s *pgStore) SetTransactionDependent(ctx context.Context, txID uint64, dependentID uint64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.BitcoinTransaction{}).
		Where("id = ?", txID).
		Update("dependent_tx_id", dependentID).Error
	if err != nil {
		return fmt.Errorf("failed to set transaction dependent: %w", err)
	}
	return nil
}

// ListTransactionsByStatus lists transactions in a lifecycle state
func (s *pgStore) ListTransactionsByStatus(ctx context.Context, status schema.TxStatus) ([]*schema.BitcoinTransaction, error) {
	var txs []*schema.BitcoinTransaction
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by status: %w", err)
	}
	return txs, nil
}

// SelectAndSpendUnspents atomically selects one unused funding output per
// requested amount and marks them spent. The SELECT ... FOR UPDATE keeps two
// concurrent submissions from picking the same output.
func (s *pgStore) SelectAndSpendUnspents(ctx context.Context, address string, amounts []int64, spendingTxID uint64) ([]schema.UnspentOutput, error) {
	var selected []schema.UnspentOutput

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pickedIDs := make([]uint64, 0, len(amounts))
		for _, amount := range amounts {
			var output schema.UnspentOutput
			// Outputs already bound to this transaction are reused first, so
			// a retried submission never drains the pool further.
			q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("address = ? AND amount = ? AND (spent = ? OR spent_by_tx_id = ?)",
					address, amount, false, spendingTxID).
				Order("spent desc, id")
			if len(pickedIDs) > 0 {
				q = q.Where("id NOT IN ?", pickedIDs)
			}
			if err := q.First(&output).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("no unspent output of %d satoshi for %s: %w",
						amount, address, domain.ErrInsufficientFunds)
				}
				return fmt.Errorf("failed to select unspent output: %w", err)
			}

			if err := tx.Model(&schema.UnspentOutput{}).
				Where("id = ?", output.ID).
				Updates(map[string]interface{}{
					"spent":          true,
					"spent_by_tx_id": spendingTxID,
				}).Error; err != nil {
				return fmt.Errorf("failed to spend unspent output: %w", err)
			}

			pickedIDs = append(pickedIDs, output.ID)
			selected = append(selected, output)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return selected, nil
}

// ImportUnspentOutputs adds funding outputs to the pool
func (s *pgStore) ImportUnspentOutputs(ctx context.Context, outputs []schema.UnspentOutput) error {
	if len(outputs) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "vout"}},
		DoNothing: true,
	}).Create(&outputs).Error
	if err != nil {
		return fmt.Errorf("failed to import unspent outputs: %w", err)
	}
	return nil
}

// GetSpendableBalance sums the unspent funding outputs held by an address
func (s *pgStore) GetSpendableBalance(ctx context.Context, address string) (int64, error) {
	var balance int64
	err := s.db.WithContext(ctx).Model(&schema.UnspentOutput{}).
		Where("address = ? AND spent = ?", address, false).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum spendable balance: %w", err)
	}
	return balance, nil
}

// GetKeyValue retrieves an operational state value
func (s *pgStore) GetKeyValue(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key value: %w", err)
	}
	return kv.Value, nil
}

// SetKeyValue stores an operational state value
func (s *pgStore) SetKeyValue(ctx context.Context, key string, value string) error {
	kv := schema.KeyValueStore{Key: key, Value: value}
	if err := s.db.WithContext(ctx).Save(&kv).Error; err != nil {
		return fmt.Errorf("failed to set key value: %w", err)
	}
	return nil
}
