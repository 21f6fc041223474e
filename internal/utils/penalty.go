package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

var thirty = decimal.NewFromInt(30)

// DaysLate counts whole days between the scheduled date and the payment
// date, zero when the payment is on time or early.
func DaysLate(scheduled, paid time.Time) int {
	if !paid.After(scheduled) {
		return 0
	}
	return int(paid.Sub(scheduled).Hours() / 24)
}

// Penalty computes the late charge on one installment: the principal
// component times the monthly penalty rate, pro-rated by days late over a
// 30-day month. Observed business rule, simple and non-compounding.
func Penalty(principalComponent, monthlyRate decimal.Decimal, scheduled, paid time.Time) decimal.Decimal {
	days := DaysLate(scheduled, paid)
	if days <= 0 {
		return decimal.Zero
	}
	return principalComponent.Mul(monthlyRate).Mul(decimal.NewFromInt(int64(days))).Div(thirty).Round(2)
}

// WaterfallSplit divides an amount applied to one installment into its
// penalty, interest and capital parts. Penalty comes off the top; the rest
// splits by the installment's interest/total ratio, capital taking the
// remainder so the three parts always sum to the applied amount.
func WaterfallSplit(applied, penaltyDue, instInterest, instTotal decimal.Decimal) (penalty, interest, capital decimal.Decimal) {
	penalty = penaltyDue
	if applied.LessThan(penaltyDue) {
		penalty = applied
	}
	rest := applied.Sub(penalty)
	if rest.LessThanOrEqual(decimal.Zero) || instTotal.LessThanOrEqual(decimal.Zero) {
		return penalty, decimal.Zero, rest
	}
	interest = rest.Mul(instInterest).Div(instTotal).Round(2)
	capital = rest.Sub(interest)
	return penalty, interest, capital
}
