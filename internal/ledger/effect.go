package ledger

import "github.com/shopspring/decimal"

// Effect is the signed change a transaction applies to its account balance:
// +amount for income, -|amount| for everything else.
func Effect(typ TxType, amount decimal.Decimal) decimal.Decimal {
	if typ == TypeIncome {
		return amount
	}
	return amount.Abs().Neg()
}

// Reversal undoes Effect for the same stored (type, amount) pair.
func Reversal(typ TxType, amount decimal.Decimal) decimal.Decimal {
	return Effect(typ, amount).Neg()
}
