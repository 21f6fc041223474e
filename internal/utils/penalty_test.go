package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDaysLate(t *testing.T) {
	scheduled := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysLate(scheduled, scheduled))
	assert.Equal(t, 0, DaysLate(scheduled, scheduled.AddDate(0, 0, -3)))
	assert.Equal(t, 1, DaysLate(scheduled, scheduled.AddDate(0, 0, 1)))
	assert.Equal(t, 30, DaysLate(scheduled, scheduled.AddDate(0, 0, 30)))
}

func TestPenalty(t *testing.T) {
	scheduled := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	rate := dec("0.05")

	t.Run("On time", func(t *testing.T) {
		p := Penalty(dec("100"), rate, scheduled, scheduled)
		assert.True(t, p.IsZero())
	})

	t.Run("Thirty days late is one full month", func(t *testing.T) {
		// 100 x 5% x 30/30 = 5.00
		p := Penalty(dec("100"), rate, scheduled, scheduled.AddDate(0, 0, 30))
		assert.True(t, p.Equal(dec("5")), "penalty = %s", p)
	})

	t.Run("Pro-rated by days", func(t *testing.T) {
		// 100 x 5% x 15/30 = 2.50
		p := Penalty(dec("100"), rate, scheduled, scheduled.AddDate(0, 0, 15))
		assert.True(t, p.Equal(dec("2.5")), "penalty = %s", p)
	})
}

func TestWaterfallSplit(t *testing.T) {
	t.Run("Penalty first then proportional interest", func(t *testing.T) {
		// Installment of 183.30 (166.67 principal / 16.63 interest) with a
		// 2.00 penalty, fully covered.
		penalty, interest, capital := WaterfallSplit(dec("185.30"), dec("2"), dec("16.63"), dec("183.30"))
		assert.True(t, penalty.Equal(dec("2")))
		assert.True(t, penalty.Add(interest).Add(capital).Equal(dec("185.30")))
		// Interest portion follows the installment's interest/total ratio.
		expected := dec("183.30").Mul(dec("16.63")).Div(dec("183.30")).Round(2)
		assert.True(t, interest.Equal(expected), "interest = %s", interest)
	})

	t.Run("Partial amount smaller than penalty", func(t *testing.T) {
		penalty, interest, capital := WaterfallSplit(dec("1.50"), dec("2"), dec("16.63"), dec("183.30"))
		assert.True(t, penalty.Equal(dec("1.50")))
		assert.True(t, interest.IsZero())
		assert.True(t, capital.IsZero())
	})

	t.Run("No penalty", func(t *testing.T) {
		penalty, interest, capital := WaterfallSplit(dec("100"), decimal.Zero, dec("20"), dec("200"))
		assert.True(t, penalty.IsZero())
		assert.True(t, interest.Equal(dec("10")))
		assert.True(t, capital.Equal(dec("90")))
	})
}
