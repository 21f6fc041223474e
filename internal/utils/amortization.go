package utils

import (
	"time"

	"github.com/shopspring/decimal"

	"credicaja-backend/internal/domain"
)

// RoundingStep is the minor currency unit: every installment amount is a
// multiple of 0.10 except the final one, which absorbs residual drift.
var RoundingStep = decimal.NewFromFloat(0.10)

var hundred = decimal.NewFromInt(100)

// ScheduleParams describes one schedule generation request. StartSequence is
// 1 for a fresh loan; reschedules continue numbering after the last
// preserved installment.
type ScheduleParams struct {
	Principal     decimal.Decimal
	Rate          decimal.Decimal // percent per period
	TermPeriods   int
	Frequency     domain.Frequency
	StartDate     time.Time
	StartSequence int
}

// InstallmentCount maps the payment frequency to the number of installments
// covering the term. The term is expressed in periods; sub-period
// frequencies split each period.
func InstallmentCount(term int, freq domain.Frequency) int {
	switch freq {
	case domain.FrequencyMonthly:
		return term
	case domain.FrequencyBiweekly:
		return term * 2
	case domain.FrequencyWeekly:
		return term * 4
	case domain.FrequencyDaily:
		return term * 26
	}
	return term
}

// installmentDate returns the due date of the i-th installment (0-based)
// counted from the start date. Monthly schedules follow calendar months; the
// others use fixed day gaps.
func installmentDate(start time.Time, freq domain.Frequency, i int) time.Time {
	switch freq {
	case domain.FrequencyMonthly:
		return start.AddDate(0, i+1, 0)
	case domain.FrequencyBiweekly:
		return start.AddDate(0, 0, 15*(i+1))
	case domain.FrequencyWeekly:
		return start.AddDate(0, 0, 7*(i+1))
	case domain.FrequencyDaily:
		return start.AddDate(0, 0, i+1)
	}
	return start.AddDate(0, i+1, 0)
}

// roundToStep rounds an amount to the nearest multiple of RoundingStep.
func roundToStep(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(RoundingStep).Round(0).Mul(RoundingStep)
}

// GenerateSchedule produces the full installment schedule for a loan using
// simple (non-compounding) interest over the term.
//
// Total interest = principal x rate/100 x term. The payable total is split
// into equal installments rounded to RoundingStep; the rounding drift is
// distributed over the trailing installments in RoundingStep increments and
// the final installment is force-adjusted so the schedule sums exactly to
// the payable total. Principal and interest components are flat splits of
// the respective totals, not a declining-balance derivation.
func GenerateSchedule(p ScheduleParams) ([]domain.Installment, error) {
	if p.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("principal", "must be greater than zero")
	}
	if p.TermPeriods <= 0 {
		return nil, domain.NewValidationError("term", "must be a positive number of periods")
	}
	if p.Rate.IsNegative() {
		return nil, domain.NewValidationError("rate", "must not be negative")
	}
	if !p.Frequency.Valid() {
		return nil, domain.NewValidationError("frequency", "unknown payment frequency")
	}
	if p.StartSequence <= 0 {
		p.StartSequence = 1
	}
	start := p.StartDate
	if start.IsZero() {
		start = time.Now()
	}

	count := InstallmentCount(p.TermPeriods, p.Frequency)
	countDec := decimal.NewFromInt(int64(count))

	totalInterest := p.Principal.Mul(p.Rate).Div(hundred).Mul(decimal.NewFromInt(int64(p.TermPeriods)))
	totalPayable := p.Principal.Add(totalInterest)

	base := roundToStep(totalPayable.Div(countDec))
	drift := totalPayable.Sub(base.Mul(countDec))

	// Whole RoundingStep increments of drift, signed, absorbed one per
	// trailing installment.
	steps := int(drift.Div(RoundingStep).IntPart())
	if steps > count || -steps > count {
		return nil, domain.NewIntegrityError("rounding drift %s exceeds schedule tolerance for %d installments", drift, count)
	}
	stepSign := decimal.NewFromInt(1)
	if steps < 0 {
		stepSign = decimal.NewFromInt(-1)
		steps = -steps
	}

	principalEach := p.Principal.Div(countDec).Round(2)
	interestEach := totalInterest.Div(countDec).Round(2)

	installments := make([]domain.Installment, 0, count)
	runningTotal := decimal.Zero
	for i := 0; i < count; i++ {
		total := base
		if i >= count-steps {
			total = total.Add(stepSign.Mul(RoundingStep))
		}

		principal := principalEach
		interest := interestEach
		if i == count-1 {
			// Component remainders land on the final installment.
			principal = p.Principal.Sub(principalEach.Mul(decimal.NewFromInt(int64(count - 1))))
			interest = totalInterest.Sub(interestEach.Mul(decimal.NewFromInt(int64(count - 1))))
			// Force the cumulative total to reconcile exactly.
			total = totalPayable.Sub(runningTotal)
		}
		runningTotal = runningTotal.Add(total)

		installments = append(installments, domain.Installment{
			Sequence:      p.StartSequence + i,
			ScheduledDate: installmentDate(start, p.Frequency, i),
			Total:         total,
			Principal:     principal,
			Interest:      interest,
			Paid:          decimal.Zero,
			Status:        domain.InstallmentStatusPending,
		})
	}

	if !runningTotal.Equal(totalPayable) {
		return nil, domain.NewIntegrityError("schedule total %s does not reconcile with payable %s", runningTotal, totalPayable)
	}
	return installments, nil
}

// MaturityDate is the scheduled date of the last installment for the given
// parameters.
func MaturityDate(start time.Time, term int, freq domain.Frequency) time.Time {
	return installmentDate(start, freq, InstallmentCount(term, freq)-1)
}
