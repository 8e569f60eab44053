package acl

import "fmt"

// Role is the closed set of capability roles a user can hold toward a piece
// or edition at any point in the ownership protocol. Each role maps to one
// fixed flag table; the flags are not independently orthogonal, they change
// together as the protocol advances, so handlers assign roles, never flags.
type Role string

const (
	// RolePieceRegistreeBeforeEditions is the registrant of a piece that has
	// no numbered editions yet
	RolePieceRegistreeBeforeEditions Role = "piece-registree-before-editions"
	// RolePieceRegistreeAfterEditions is the registrant once at least one
	// edition has been registered; further edition creation is closed
	RolePieceRegistreeAfterEditions Role = "piece-registree-after-editions"
	// RoleEditionRegistree owns an edition with the full rights of its creator
	RoleEditionRegistree Role = "edition-registree"
	// RoleTransferee owns an edition received by transfer; like a registree
	// but without edit rights, which stay with the creator
	RoleTransferee Role = "transferee"
	// RolePrevOwner is the prior owner after a transfer confirms
	RolePrevOwner Role = "prev-owner"
	// RolePrevOwnerPending is the prior owner while a transfer to an invited,
	// not-yet-registered recipient is still withdrawable
	RolePrevOwnerPending Role = "prev-owner-pending"
	// RoleConsigneePending is a consignee who has not yet accepted
	RoleConsigneePending Role = "consignee-pending"
	// RoleConsignee is a consignee after accepting; may sell, loan, or hand
	// the edition back
	RoleConsignee Role = "consignee"
	// RoleConsignOwner is the owner while their consignment awaits acceptance
	RoleConsignOwner Role = "consign-owner"
	// RoleConsignOwnerAfterConfirm is the owner once the consignee accepted;
	// withdrawal turns into an unconsign request
	RoleConsignOwnerAfterConfirm Role = "consign-owner-after-confirm"
	// RoleSharee received an edition share
	RoleSharee Role = "sharee"
	// RolePieceSharee received a piece-level share
	RolePieceSharee Role = "piece-sharee"
	// RoleLoaneePending is a loanee who has not yet accepted
	RoleLoaneePending Role = "loanee-pending"
	// RoleLoanee holds an active loan; read/share rights only, no custody
	RoleLoanee Role = "loanee"
	// RoleAnonymous is the fixed empty capability set for anonymous users
	RoleAnonymous Role = "anonymous"
)

// templates holds the canonical flag table for every role. Values here are
// load-bearing: listing, search, and the web layer all read them verbatim.
var templates = map[Role]Capabilities{
	RolePieceRegistreeBeforeEditions: {
		View: true, Edit: true, Download: true, Delete: true,
		CreateEditions: true, ViewEditions: true,
		Share: true, Loan: true,
	},
	RolePieceRegistreeAfterEditions: {
		View: true, Edit: true, Download: true, Delete: true,
		ViewEditions: true,
		Share:        true, Loan: true,
	},
	RoleEditionRegistree: {
		View: true, Edit: true, Download: true, Delete: true,
		ViewEditions: true,
		Share:        true, Transfer: true, Consign: true, Loan: true,
		Coa: true,
	},
	RoleTransferee: {
		View: true, Download: true, Delete: true,
		ViewEditions: true,
		Share:        true, Transfer: true, Consign: true, Loan: true,
		Coa: true,
	},
	RolePrevOwner: {
		View: true, Download: true, ViewEditions: true,
		Share: true, Unshare: true,
	},
	RolePrevOwnerPending: {
		View: true, Download: true, ViewEditions: true,
		Share: true, Unshare: true, WithdrawTransfer: true,
	},
	RoleConsigneePending: {
		View: true, Download: true, ViewEditions: true,
	},
	RoleConsignee: {
		View: true, Download: true, ViewEditions: true,
		Share: true, Transfer: true, Unconsign: true, Loan: true,
	},
	RoleConsignOwner: {
		View: true, Download: true, ViewEditions: true,
		Share: true, WithdrawConsign: true, Coa: true,
	},
	RoleConsignOwnerAfterConfirm: {
		View: true, Download: true, ViewEditions: true,
		Share: true, RequestUnconsign: true, Coa: true,
	},
	RoleSharee: {
		View: true, Download: true, Delete: true, ViewEditions: true,
		Share: true, Unshare: true,
	},
	RolePieceSharee: {
		View: true, Download: true, Delete: true, ViewEditions: true,
		Share: true, Unshare: true,
	},
	RoleLoaneePending: {
		View: true, LoanRequest: true,
	},
	RoleLoanee: {
		View: true, Download: true, ViewEditions: true,
		Share: true, Unshare: true, LoanRequest: true,
	},
	RoleAnonymous: {},
}

// Template returns the full flag table for a role. Unknown roles are a
// programming error.
func Template(role Role) (Capabilities, error) {
	caps, ok := templates[role]
	if !ok {
		return Capabilities{}, fmt.Errorf("unknown capability role: %q", role)
	}
	return caps, nil
}

// MustTemplate is Template for roles known at compile time
func MustTemplate(role Role) Capabilities {
	caps, err := Template(role)
	if err != nil {
		panic(err)
	}
	return caps
}
