package schema

import (
	"time"

	"github.com/ascribe/spool-engine/internal/acl"
)

// ActionControl represents the action_controls table - the per-(user, piece,
// edition) capability record. Edition-scoped rows (edition_id set) carry
// edition-level rights; piece-scoped rows (edition_id null) carry piece-level
// rights. At most one row exists per (user, piece, edition) tuple; because
// postgres treats index NULLs as distinct, the two scopes get separate
// partial unique indexes rather than one composite over the nullable column.
// Rows are never deleted once the relationship existed on chain; revocation
// flips flags (notably acl_view) instead. The single exception is a transfer
// withdrawn before the invited recipient ever accepted, whose pending row is
// removed outright.
type ActionControl struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// UserID is the external user id this record grants capabilities to
	UserID int64 `gorm:"column:user_id;not null;index:idx_acl_edition_scope,unique,priority:1;index:idx_acl_piece_scope,unique,priority:1"`
	// PieceID references the piece this record applies to
	PieceID uint64 `gorm:"column:piece_id;not null;index:idx_acl_edition_scope,unique,priority:2;index:idx_acl_piece_scope,unique,priority:2,where:edition_id IS NULL"`
	// EditionID references the edition, nil for piece-level records
	EditionID *uint64 `gorm:"column:edition_id;index:idx_acl_edition_scope,unique,priority:3,where:edition_id IS NOT NULL"`

	ACLView             bool `gorm:"column:acl_view;not null;default:false"`
	ACLEdit             bool `gorm:"column:acl_edit;not null;default:false"`
	ACLDownload         bool `gorm:"column:acl_download;not null;default:false"`
	ACLDelete           bool `gorm:"column:acl_delete;not null;default:false"`
	ACLCreateEditions   bool `gorm:"column:acl_create_editions;not null;default:false"`
	ACLViewEditions     bool `gorm:"column:acl_view_editions;not null;default:false"`
	ACLShare            bool `gorm:"column:acl_share;not null;default:false"`
	ACLUnshare          bool `gorm:"column:acl_unshare;not null;default:false"`
	ACLTransfer         bool `gorm:"column:acl_transfer;not null;default:false"`
	ACLWithdrawTransfer bool `gorm:"column:acl_withdraw_transfer;not null;default:false"`
	ACLConsign          bool `gorm:"column:acl_consign;not null;default:false"`
	ACLWithdrawConsign  bool `gorm:"column:acl_withdraw_consign;not null;default:false"`
	ACLUnconsign        bool `gorm:"column:acl_unconsign;not null;default:false"`
	ACLRequestUnconsign bool `gorm:"column:acl_request_unconsign;not null;default:false"`
	ACLLoan             bool `gorm:"column:acl_loan;not null;default:false"`
	ACLCoa              bool `gorm:"column:acl_coa;not null;default:false"`
	ACLLoanRequest      bool `gorm:"column:acl_loan_request;not null;default:false"`

	// CreatedAt is the timestamp when the relationship was first established
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last role assignment
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ActionControl model
func (ActionControl) TableName() string {
	return "action_controls"
}

// Capabilities returns the row's flags as a capability value
func (a *ActionControl) Capabilities() acl.Capabilities {
	return acl.Capabilities{
		View:             a.ACLView,
		Edit:             a.ACLEdit,
		Download:         a.ACLDownload,
		Delete:           a.ACLDelete,
		CreateEditions:   a.ACLCreateEditions,
		ViewEditions:     a.ACLViewEditions,
		Share:            a.ACLShare,
		Unshare:          a.ACLUnshare,
		Transfer:         a.ACLTransfer,
		WithdrawTransfer: a.ACLWithdrawTransfer,
		Consign:          a.ACLConsign,
		WithdrawConsign:  a.ACLWithdrawConsign,
		Unconsign:        a.ACLUnconsign,
		RequestUnconsign: a.ACLRequestUnconsign,
		Loan:             a.ACLLoan,
		Coa:              a.ACLCoa,
		LoanRequest:      a.ACLLoanRequest,
	}
}

// SetCapabilities overwrites every flag from a capability value. This is the
// only way flags are written; there is deliberately no per-flag setter.
func (a *ActionControl) SetCapabilities(c acl.Capabilities) {
	a.ACLView = c.View
	a.ACLEdit = c.Edit
	a.ACLDownload = c.Download
	a.ACLDelete = c.Delete
	a.ACLCreateEditions = c.CreateEditions
	a.ACLViewEditions = c.ViewEditions
	a.ACLShare = c.Share
	a.ACLUnshare = c.Unshare
	a.ACLTransfer = c.Transfer
	a.ACLWithdrawTransfer = c.WithdrawTransfer
	a.ACLConsign = c.Consign
	a.ACLWithdrawConsign = c.WithdrawConsign
	a.ACLUnconsign = c.Unconsign
	a.ACLRequestUnconsign = c.RequestUnconsign
	a.ACLLoan = c.Loan
	a.ACLCoa = c.Coa
	a.ACLLoanRequest = c.LoanRequest
}
