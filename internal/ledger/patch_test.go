package ledger

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalUnmarshal(t *testing.T) {
	var body struct {
		Name   Optional[string]  `json:"name"`
		Active Optional[bool]    `json:"active"`
		Note   Optional[*string] `json:"note"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Salary","note":null}`), &body))

	assert.True(t, body.Name.Set)
	assert.Equal(t, "Salary", body.Name.Value)
	assert.False(t, body.Active.Set)
	assert.True(t, body.Note.Set)
	assert.Nil(t, body.Note.Value)
}

func TestSetClause(t *testing.T) {
	set, args := setClause([]assignment{
		{"name", "Rent"},
		{"is_active", false},
	}, 3)

	assert.Equal(t, "name = $3, is_active = $4", set)
	assert.Equal(t, []any{"Rent", false}, args)
}

func TestSetClauseEmpty(t *testing.T) {
	set, args := setClause(nil, 3)
	assert.Empty(t, set)
	assert.Empty(t, args)
}

func TestAccountPatchSkipsEmptyStrings(t *testing.T) {
	p := AccountPatch{Name: Some("Savings"), Type: Some(""), Currency: Optional[string]{}}
	as := p.assignments()
	require.Len(t, as, 1)
	assert.Equal(t, "account_name", as[0].column)

	a := Account{Name: "Checking", Type: "checking", Currency: "USD"}
	p.Apply(&a)
	assert.Equal(t, "Savings", a.Name)
	assert.Equal(t, "checking", a.Type)
	assert.Equal(t, "USD", a.Currency)
}

func TestIncomeStreamPatchValidate(t *testing.T) {
	cases := []struct {
		name  string
		patch IncomeStreamPatch
		msg   string
	}{
		{"empty", IncomeStreamPatch{}, "no fields to update"},
		{"negative amount", IncomeStreamPatch{Amount: Some(dec("-1"))}, "amount cannot be negative"},
		{"bad frequency", IncomeStreamPatch{Frequency: Some(Frequency("daily"))}, "frequency must be weekly, bi-weekly or monthly"},
		{"blank name", IncomeStreamPatch{Name: Some("")}, "name cannot be empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.patch.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
			assert.Equal(t, tc.msg, Message(err))
		})
	}

	assert.NoError(t, IncomeStreamPatch{IsActive: Some(false)}.Validate())
}

func TestIncomeStreamPatchDetachAccount(t *testing.T) {
	id := uuid.New()
	s := IncomeStream{AccountID: &id, Name: "Salary", IsActive: true}

	p := IncomeStreamPatch{AccountID: Some[*uuid.UUID](nil), IsActive: Some(false)}
	require.NoError(t, p.Validate())
	p.Apply(&s)

	assert.Nil(t, s.AccountID)
	assert.False(t, s.IsActive)
	assert.Equal(t, "Salary", s.Name)

	as := p.assignments()
	require.Len(t, as, 2)
	assert.Equal(t, "account_id", as[0].column)
	assert.Equal(t, "is_active", as[1].column)
}
