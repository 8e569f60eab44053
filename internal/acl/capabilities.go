package acl

// Capabilities is the full per-(user, piece, edition) capability flag set.
// A record always carries every flag: transition handlers assign whole
// templates, never individual fields, so a record can never be caught
// between two roles.
type Capabilities struct {
	View             bool `json:"acl_view"`
	Edit             bool `json:"acl_edit"`
	Download         bool `json:"acl_download"`
	Delete           bool `json:"acl_delete"`
	CreateEditions   bool `json:"acl_create_editions"`
	ViewEditions     bool `json:"acl_view_editions"`
	Share            bool `json:"acl_share"`
	Unshare          bool `json:"acl_unshare"`
	Transfer         bool `json:"acl_transfer"`
	WithdrawTransfer bool `json:"acl_withdraw_transfer"`
	Consign          bool `json:"acl_consign"`
	WithdrawConsign  bool `json:"acl_withdraw_consign"`
	Unconsign        bool `json:"acl_unconsign"`
	RequestUnconsign bool `json:"acl_request_unconsign"`
	Loan             bool `json:"acl_loan"`
	Coa              bool `json:"acl_coa"`
	LoanRequest      bool `json:"acl_loan_request"`
}

// Flag names as they appear on the wire and in capability predicates
const (
	FlagView             = "acl_view"
	FlagEdit             = "acl_edit"
	FlagDownload         = "acl_download"
	FlagDelete           = "acl_delete"
	FlagCreateEditions   = "acl_create_editions"
	FlagViewEditions     = "acl_view_editions"
	FlagShare            = "acl_share"
	FlagUnshare          = "acl_unshare"
	FlagTransfer         = "acl_transfer"
	FlagWithdrawTransfer = "acl_withdraw_transfer"
	FlagConsign          = "acl_consign"
	FlagWithdrawConsign  = "acl_withdraw_consign"
	FlagUnconsign        = "acl_unconsign"
	FlagRequestUnconsign = "acl_request_unconsign"
	FlagLoan             = "acl_loan"
	FlagCoa              = "acl_coa"
	FlagLoanRequest      = "acl_loan_request"
)

// Map returns the capabilities as a flat flag map, the response shape of the
// capability query API.
func (c Capabilities) Map() map[string]bool {
	return map[string]bool{
		FlagView:             c.View,
		FlagEdit:             c.Edit,
		FlagDownload:         c.Download,
		FlagDelete:           c.Delete,
		FlagCreateEditions:   c.CreateEditions,
		FlagViewEditions:     c.ViewEditions,
		FlagShare:            c.Share,
		FlagUnshare:          c.Unshare,
		FlagTransfer:         c.Transfer,
		FlagWithdrawTransfer: c.WithdrawTransfer,
		FlagConsign:          c.Consign,
		FlagWithdrawConsign:  c.WithdrawConsign,
		FlagUnconsign:        c.Unconsign,
		FlagRequestUnconsign: c.RequestUnconsign,
		FlagLoan:             c.Loan,
		FlagCoa:              c.Coa,
		FlagLoanRequest:      c.LoanRequest,
	}
}

// Has reports whether a single named flag is set. Unknown flag names are
// false rather than an error; predicates are validated at the API boundary.
func (c Capabilities) Has(flag string) bool {
	return c.Map()[flag]
}

// Satisfies reports whether every flag in the predicate holds (logical AND
// across all requested flags). An empty predicate is satisfied by anything.
func (c Capabilities) Satisfies(predicate map[string]bool) bool {
	m := c.Map()
	for flag, want := range predicate {
		if m[flag] != want {
			return false
		}
	}
	return true
}

// Merge combines a raw capability map with an overriding policy (e.g. a
// whitelabel/marketplace restriction). A flag ends up true only if true in
// both inputs; keys absent from the override pass through unchanged. Keys in
// the override that are absent from the base are adopted as-is.
func Merge(base map[string]bool, override map[string]bool) map[string]bool {
	merged := make(map[string]bool, len(base))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		if b, ok := merged[k]; ok {
			merged[k] = b && v
		} else {
			merged[k] = v
		}
	}
	return merged
}
