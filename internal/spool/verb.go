package spool

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/ascribe/spool-engine/internal/domain"
)

// Protocol marker constants. External indexers parse these strings straight
// off the chain, so the encoding is bit-exact ASCII and must never change
// shape within a protocol version.
const (
	// Meta is the protocol family marker
	Meta = "ASCRIBESPOOL"
	// Version is the protocol version, two decimal digits
	Version = "01"
	// Prefix is the full marker every verb starts with
	Prefix = Meta + Version

	// dateLayout is the YYMMDD encoding of loan range bounds
	dateLayout = "060102"
)

// Action is an ownership protocol verb
type Action string

const (
	ActionRegister     Action = "REGISTER"
	ActionPiece        Action = "PIECE"
	ActionEditions     Action = "EDITIONS"
	ActionTransfer     Action = "TRANSFER"
	ActionConsign      Action = "CONSIGN"
	ActionUnconsign    Action = "UNCONSIGN"
	ActionLoan         Action = "LOAN"
	ActionLoanPiece    Action = "LOANPIECE"
	ActionMigrate      Action = "MIGRATE"
	ActionMigratePiece Action = "MIGRATEPIECE"
	ActionFuel         Action = "FUEL"
)

// numberedActions carry an edition number after the action name
var numberedActions = map[Action]bool{
	ActionRegister:  true,
	ActionEditions:  true,
	ActionTransfer:  true,
	ActionConsign:   true,
	ActionUnconsign: true,
	ActionLoan:      true,
	ActionMigrate:   true,
}

// datedActions carry a /YYMMDDYYMMDD loan range suffix
var datedActions = map[Action]bool{
	ActionLoan:      true,
	ActionLoanPiece: true,
}

// Verb is a decoded protocol marker
type Verb struct {
	// Action is the protocol verb
	Action Action
	// Num is the edition number, or the edition count for EDITIONS;
	// zero when the action carries no number
	Num int
	// LoanStart and LoanEnd are the YYMMDD-encoded loan bounds, loans only
	LoanStart string
	LoanEnd   string
}

// NewLoanVerb encodes an edition loan marker
func NewLoanVerb(editionNumber int, r domain.DateRange) Verb {
	return Verb{
		Action:    ActionLoan,
		Num:       editionNumber,
		LoanStart: r.From.Format(dateLayout),
		LoanEnd:   r.To.Format(dateLayout),
	}
}

// NewLoanPieceVerb encodes a piece loan marker
func NewLoanPieceVerb(r domain.DateRange) Verb {
	return Verb{
		Action:    ActionLoanPiece,
		LoanStart: r.From.Format(dateLayout),
		LoanEnd:   r.To.Format(dateLayout),
	}
}

// String renders the bit-exact on-chain form, e.g. "ASCRIBESPOOL01PIECE",
// "ASCRIBESPOOL01EDITIONS2", "ASCRIBESPOOL01LOAN1/150526150528".
func (v Verb) String() string {
	s := Prefix + string(v.Action)
	if numberedActions[v.Action] {
		s += strconv.Itoa(v.Num)
	}
	if datedActions[v.Action] {
		s += "/" + v.LoanStart + v.LoanEnd
	}
	return s
}

// verbPattern matches <meta><version><action><number?>(/<dates>)?
var verbPattern = regexp.MustCompile(`^([A-Z]+?)(\d{2})([A-Z]+?)(\d+)?(?:/(\d{6})(\d{6}))?$`)

// ParseVerb decodes an on-chain protocol marker. The inverse of Verb.String
// for every action the engine emits.
func ParseVerb(s string) (*Verb, error) {
	m := verbPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("malformed spoolverb: %q", s)
	}
	if m[1] != Meta || m[2] != Version {
		return nil, fmt.Errorf("unsupported spool protocol marker: %q", s)
	}

	verb := Verb{Action: Action(m[3])}
	switch {
	case numberedActions[verb.Action]:
		if m[4] == "" {
			return nil, fmt.Errorf("spoolverb %s requires an edition number: %q", verb.Action, s)
		}
		num, err := strconv.Atoi(m[4])
		if err != nil {
			return nil, fmt.Errorf("invalid edition number in spoolverb %q: %w", s, err)
		}
		verb.Num = num
	case m[4] != "":
		return nil, fmt.Errorf("spoolverb %s does not take a number: %q", verb.Action, s)
	}

	switch {
	case datedActions[verb.Action]:
		if m[5] == "" || m[6] == "" {
			return nil, fmt.Errorf("spoolverb %s requires a date range: %q", verb.Action, s)
		}
		for _, d := range []string{m[5], m[6]} {
			if _, err := time.Parse(dateLayout, d); err != nil {
				return nil, fmt.Errorf("invalid loan date in spoolverb %q: %w", s, err)
			}
		}
		verb.LoanStart, verb.LoanEnd = m[5], m[6]
	case m[5] != "":
		return nil, fmt.Errorf("spoolverb %s does not take a date range: %q", verb.Action, s)
	}

	return &verb, nil
}
