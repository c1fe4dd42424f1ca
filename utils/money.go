package utils

import "github.com/shopspring/decimal"

// All monetary amounts are handled as decimals rounded to two places. Using a
// single rounding rule everywhere keeps aggregate sums stable across reads.
const moneyPlaces = 2

// MinPaymentAmount is the smallest payment the ledger accepts.
var MinPaymentAmount = decimal.New(1, -2) // 0.01

// MoneyRound normalizes an amount to the ledger's precision.
func MoneyRound(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// Remaining computes the open balance of an invoice, floored at zero.
// An over-covered invoice never reports a negative balance.
func Remaining(total, paid decimal.Decimal) decimal.Decimal {
	r := total.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return MoneyRound(r)
}

// SumAmounts folds a list of amounts.
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return MoneyRound(sum)
}
