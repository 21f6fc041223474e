package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is immutable once created; administrative deletion reverses its
// allocations and removes it.
type Payment struct {
	ID            int64           `json:"id"`
	LoanID        int64           `json:"loan_id"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Capital       decimal.Decimal `json:"capital"`
	Interest      decimal.Decimal `json:"interest"`
	Penalty       decimal.Decimal `json:"penalty"`
	Discount      decimal.Decimal `json:"discount"`
	Reference     string          `json:"reference"`
	RecordedBy    int64           `json:"recorded_by"`
	CashSessionID *int64          `json:"cash_session_id,omitempty"`
	CreatedOn     time.Time       `json:"created_on"`
}

// PaymentAllocation records how much of a payment landed on one installment,
// so a deleted payment can be reversed exactly.
type PaymentAllocation struct {
	ID            int64           `json:"id"`
	PaymentID     int64           `json:"payment_id"`
	InstallmentID int64           `json:"installment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Penalty       decimal.Decimal `json:"penalty"`
}
