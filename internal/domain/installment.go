package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING"
	InstallmentStatusPartial InstallmentStatus = "PARTIAL"
	InstallmentStatusPaid    InstallmentStatus = "PAID"
	InstallmentStatusOverdue InstallmentStatus = "OVERDUE"
)

// Installment is one scheduled repayment unit of a loan. Sequence numbers are
// 1..N and unique within the loan; reschedules continue the numbering after
// the last preserved installment. The penalty component is computed at
// payment time, never stored in advance.
type Installment struct {
	ID            int64             `json:"id"`
	LoanID        int64             `json:"loan_id"`
	Sequence      int               `json:"sequence"`
	ScheduledDate time.Time         `json:"scheduled_date"`
	Total         decimal.Decimal   `json:"total"`
	Principal     decimal.Decimal   `json:"principal"`
	Interest      decimal.Decimal   `json:"interest"`
	Paid          decimal.Decimal   `json:"paid"`
	Status        InstallmentStatus `json:"status"`
	CreatedOn     time.Time         `json:"created_on"`
	UpdatedOn     time.Time         `json:"updated_on"`
}

// Outstanding is the unpaid part of the scheduled total, before any penalty.
func (i *Installment) Outstanding() decimal.Decimal {
	out := i.Total.Sub(i.Paid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Open reports whether the installment can still receive allocations.
func (i *Installment) Open() bool {
	return i.Status != InstallmentStatusPaid
}
