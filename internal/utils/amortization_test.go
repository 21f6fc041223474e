package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"credicaja-backend/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestInstallmentCount(t *testing.T) {
	tests := []struct {
		term     int
		freq     domain.Frequency
		expected int
	}{
		{12, domain.FrequencyMonthly, 12},
		{12, domain.FrequencyBiweekly, 24},
		{12, domain.FrequencyWeekly, 48},
		{1, domain.FrequencyDaily, 26},
		{6, domain.FrequencyMonthly, 6},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, InstallmentCount(tt.term, tt.freq))
		})
	}
}

func TestGenerateSchedule_MonthlyScenario(t *testing.T) {
	// 1000 at 10%/period over 12 monthly periods: payable 2200, base 183.30
	// with the 0.40 drift absorbed by the trailing installments.
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	installments, err := GenerateSchedule(ScheduleParams{
		Principal:   dec("1000"),
		Rate:        dec("10"),
		TermPeriods: 12,
		Frequency:   domain.FrequencyMonthly,
		StartDate:   start,
	})
	assert.NoError(t, err)
	assert.Len(t, installments, 12)

	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.Total)
	}
	assert.True(t, sum.Equal(dec("2200")), "sum = %s", sum)

	assert.True(t, installments[0].Total.Equal(dec("183.30")))
	assert.True(t, installments[11].Total.Equal(dec("183.40")))
	assert.Equal(t, 1, installments[0].Sequence)
	assert.Equal(t, 12, installments[11].Sequence)
	assert.Equal(t, start.AddDate(0, 1, 0), installments[0].ScheduledDate)
	assert.Equal(t, start.AddDate(0, 12, 0), installments[11].ScheduledDate)

	for _, inst := range installments {
		assert.Equal(t, domain.InstallmentStatusPending, inst.Status)
		assert.True(t, inst.Paid.IsZero())
	}
}

func TestGenerateSchedule_SumProperty(t *testing.T) {
	cases := []struct {
		principal string
		rate      string
		term      int
		freq      domain.Frequency
	}{
		{"1000", "10", 12, domain.FrequencyMonthly},
		{"5000", "8.5", 6, domain.FrequencyBiweekly},
		{"350.50", "12", 3, domain.FrequencyWeekly},
		{"10000", "0", 10, domain.FrequencyMonthly},
		{"777.77", "7.77", 7, domain.FrequencyMonthly},
		{"150", "15", 1, domain.FrequencyDaily},
	}

	for _, tc := range cases {
		t.Run(tc.principal, func(t *testing.T) {
			principal := dec(tc.principal)
			rate := dec(tc.rate)
			installments, err := GenerateSchedule(ScheduleParams{
				Principal:   principal,
				Rate:        rate,
				TermPeriods: tc.term,
				Frequency:   tc.freq,
				StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			})
			assert.NoError(t, err)

			payable := principal.Add(principal.Mul(rate).Div(dec("100")).Mul(decimal.NewFromInt(int64(tc.term))))
			sumTotal := decimal.Zero
			sumPrincipal := decimal.Zero
			sumInterest := decimal.Zero
			for _, inst := range installments {
				sumTotal = sumTotal.Add(inst.Total)
				sumPrincipal = sumPrincipal.Add(inst.Principal)
				sumInterest = sumInterest.Add(inst.Interest)
			}
			assert.True(t, sumTotal.Equal(payable), "totals %s != payable %s", sumTotal, payable)
			assert.True(t, sumPrincipal.Equal(principal), "principal components %s != %s", sumPrincipal, principal)
			assert.True(t, sumTotal.Sub(sumPrincipal).Equal(sumInterest))
		})
	}
}

func TestGenerateSchedule_RoundingStepMultiples(t *testing.T) {
	installments, err := GenerateSchedule(ScheduleParams{
		Principal:   dec("1234.56"),
		Rate:        dec("9.9"),
		TermPeriods: 11,
		Frequency:   domain.FrequencyMonthly,
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)

	// Every installment except the final adjusting one lands on a 0.10 grid.
	for _, inst := range installments[:len(installments)-1] {
		mod := inst.Total.Mod(RoundingStep)
		assert.True(t, mod.IsZero(), "installment %d total %s not a 0.10 multiple", inst.Sequence, inst.Total)
	}
}

func TestGenerateSchedule_Sequencing(t *testing.T) {
	installments, err := GenerateSchedule(ScheduleParams{
		Principal:     dec("600"),
		Rate:          dec("5"),
		TermPeriods:   3,
		Frequency:     domain.FrequencyMonthly,
		StartDate:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		StartSequence: 7,
	})
	assert.NoError(t, err)
	assert.Len(t, installments, 3)
	assert.Equal(t, 7, installments[0].Sequence)
	assert.Equal(t, 9, installments[2].Sequence)
}

func TestGenerateSchedule_Validation(t *testing.T) {
	base := ScheduleParams{
		Principal:   dec("1000"),
		Rate:        dec("10"),
		TermPeriods: 12,
		Frequency:   domain.FrequencyMonthly,
	}

	t.Run("Zero principal", func(t *testing.T) {
		p := base
		p.Principal = decimal.Zero
		_, err := GenerateSchedule(p)
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, "principal", verr.Field)
	})

	t.Run("Negative rate", func(t *testing.T) {
		p := base
		p.Rate = dec("-1")
		_, err := GenerateSchedule(p)
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, "rate", verr.Field)
	})

	t.Run("Zero term", func(t *testing.T) {
		p := base
		p.TermPeriods = 0
		_, err := GenerateSchedule(p)
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, "term", verr.Field)
	})

	t.Run("Bad frequency", func(t *testing.T) {
		p := base
		p.Frequency = domain.Frequency("HOURLY")
		_, err := GenerateSchedule(p)
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, "frequency", verr.Field)
	})
}

func TestGenerateSchedule_DateGaps(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Weekly", func(t *testing.T) {
		installments, err := GenerateSchedule(ScheduleParams{
			Principal: dec("400"), Rate: dec("4"), TermPeriods: 1,
			Frequency: domain.FrequencyWeekly, StartDate: start,
		})
		assert.NoError(t, err)
		assert.Len(t, installments, 4)
		assert.Equal(t, start.AddDate(0, 0, 7), installments[0].ScheduledDate)
		assert.Equal(t, start.AddDate(0, 0, 28), installments[3].ScheduledDate)
	})

	t.Run("Biweekly", func(t *testing.T) {
		installments, err := GenerateSchedule(ScheduleParams{
			Principal: dec("400"), Rate: dec("4"), TermPeriods: 1,
			Frequency: domain.FrequencyBiweekly, StartDate: start,
		})
		assert.NoError(t, err)
		assert.Len(t, installments, 2)
		assert.Equal(t, start.AddDate(0, 0, 15), installments[0].ScheduledDate)
		assert.Equal(t, start.AddDate(0, 0, 30), installments[1].ScheduledDate)
	})

	t.Run("Daily", func(t *testing.T) {
		installments, err := GenerateSchedule(ScheduleParams{
			Principal: dec("260"), Rate: dec("0"), TermPeriods: 1,
			Frequency: domain.FrequencyDaily, StartDate: start,
		})
		assert.NoError(t, err)
		assert.Len(t, installments, 26)
		assert.Equal(t, start.AddDate(0, 0, 1), installments[0].ScheduledDate)
		assert.Equal(t, start.AddDate(0, 0, 26), installments[25].ScheduledDate)
	})
}

func TestMaturityDate(t *testing.T) {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, start.AddDate(0, 12, 0), MaturityDate(start, 12, domain.FrequencyMonthly))
	assert.Equal(t, start.AddDate(0, 0, 30), MaturityDate(start, 1, domain.FrequencyBiweekly))
}
