package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "PENDING"
	LoanStatusApproved  LoanStatus = "APPROVED"
	LoanStatusRejected  LoanStatus = "REJECTED"
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusPaid      LoanStatus = "PAID"
	LoanStatusCancelled LoanStatus = "CANCELLED"
)

// CanTransitionTo enforces the lifecycle graph. Rejected, Paid and Cancelled
// are terminal.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	switch s {
	case LoanStatusPending:
		return next == LoanStatusApproved || next == LoanStatusRejected
	case LoanStatusApproved:
		return next == LoanStatusActive || next == LoanStatusCancelled
	case LoanStatusActive:
		return next == LoanStatusPaid || next == LoanStatusCancelled
	}
	return false
}

// Payable reports whether payments may be recorded against the loan.
func (s LoanStatus) Payable() bool {
	return s == LoanStatusApproved || s == LoanStatusActive
}

type Frequency string

const (
	FrequencyDaily    Frequency = "DAILY"
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

type Loan struct {
	ID                int64           `json:"id"`
	ClientID          int64           `json:"client_id"`
	CreatedBy         int64           `json:"created_by"`
	AmountRequested   decimal.Decimal `json:"amount_requested"`
	AmountApproved    decimal.Decimal `json:"amount_approved"`
	// Rate is the periodic interest rate in percent (e.g. 10 = 10% per period).
	Rate            decimal.Decimal `json:"rate"`
	TermPeriods     int             `json:"term_periods"`
	Frequency       Frequency       `json:"frequency"`
	Status          LoanStatus      `json:"status"`
	AccruesPenalty  bool            `json:"accrues_penalty"`
	RescheduleCount int             `json:"reschedule_count"`
	OriginationDate *time.Time      `json:"origination_date,omitempty"`
	MaturityDate    *time.Time      `json:"maturity_date,omitempty"`
	RejectReason    string          `json:"reject_reason,omitempty"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}

// TotalPayable is principal plus simple interest over the whole term.
func (l *Loan) TotalPayable() decimal.Decimal {
	interest := l.AmountApproved.Mul(l.Rate).Div(decimal.NewFromInt(100)).Mul(decimal.NewFromInt(int64(l.TermPeriods)))
	return l.AmountApproved.Add(interest)
}
