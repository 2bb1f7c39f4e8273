package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Optional records whether a field was present in a request, separately from
// its value. A JSON null marks the field present with the zero value.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	return json.Unmarshal(b, &o.Value)
}

// assignment is one "column = $n" pair of an UPDATE statement.
type assignment struct {
	column string
	value  any
}

// setClause renders assignments as a SET list with placeholders numbered from
// start, returning the clause and its arguments in order.
func setClause(as []assignment, start int) (string, []any) {
	parts := make([]string, len(as))
	args := make([]any, len(as))
	for i, a := range as {
		parts[i] = fmt.Sprintf("%s = $%d", a.column, start+i)
		args[i] = a.value
	}
	return strings.Join(parts, ", "), args
}

// AccountPatch changes only the fields that are Set.
type AccountPatch struct {
	Name     Optional[string]
	Type     Optional[string]
	Currency Optional[string]
}

func (p AccountPatch) assignments() []assignment {
	var as []assignment
	if p.Name.Set && p.Name.Value != "" {
		as = append(as, assignment{"account_name", p.Name.Value})
	}
	if p.Type.Set && p.Type.Value != "" {
		as = append(as, assignment{"account_type", p.Type.Value})
	}
	if p.Currency.Set && p.Currency.Value != "" {
		as = append(as, assignment{"currency", p.Currency.Value})
	}
	return as
}

// IncomeStreamPatch changes only the fields that are Set. AccountID set to nil
// detaches the stream from its account.
type IncomeStreamPatch struct {
	Name      Optional[string]
	Amount    Optional[decimal.Decimal]
	Frequency Optional[Frequency]
	AccountID Optional[*uuid.UUID]
	IsActive  Optional[bool]
}

func (p IncomeStreamPatch) Validate() error {
	if p.Amount.Set && p.Amount.Value.IsNegative() {
		return invalid("amount cannot be negative")
	}
	if p.Frequency.Set && !p.Frequency.Value.Valid() {
		return invalid("frequency must be weekly, bi-weekly or monthly")
	}
	if p.Name.Set && p.Name.Value == "" {
		return invalid("name cannot be empty")
	}
	if len(p.assignments()) == 0 {
		return invalid("no fields to update")
	}
	return nil
}

func (p IncomeStreamPatch) assignments() []assignment {
	var as []assignment
	if p.Name.Set {
		as = append(as, assignment{"name", p.Name.Value})
	}
	if p.Amount.Set {
		as = append(as, assignment{"amount", p.Amount.Value})
	}
	if p.Frequency.Set {
		as = append(as, assignment{"frequency", string(p.Frequency.Value)})
	}
	if p.AccountID.Set {
		as = append(as, assignment{"account_id", p.AccountID.Value})
	}
	if p.IsActive.Set {
		as = append(as, assignment{"is_active", p.IsActive.Value})
	}
	return as
}

// Apply copies the Set fields onto s. Used by in-memory stores and callers
// that want the patched view without a round trip.
func (p IncomeStreamPatch) Apply(s *IncomeStream) {
	if p.Name.Set {
		s.Name = p.Name.Value
	}
	if p.Amount.Set {
		s.Amount = p.Amount.Value
	}
	if p.Frequency.Set {
		s.Frequency = p.Frequency.Value
	}
	if p.AccountID.Set {
		s.AccountID = p.AccountID.Value
	}
	if p.IsActive.Set {
		s.IsActive = p.IsActive.Value
	}
}

func (p AccountPatch) Apply(a *Account) {
	for _, as := range p.assignments() {
		v := as.value.(string)
		switch as.column {
		case "account_name":
			a.Name = v
		case "account_type":
			a.Type = v
		case "currency":
			a.Currency = v
		}
	}
}
