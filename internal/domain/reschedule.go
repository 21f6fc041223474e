package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RescheduleStatus string

const (
	RescheduleStatusPending  RescheduleStatus = "PENDING"
	RescheduleStatusApproved RescheduleStatus = "APPROVED"
	RescheduleStatusRejected RescheduleStatus = "REJECTED"
	RescheduleStatusApplied  RescheduleStatus = "APPLIED"
)

// Reschedule proposes new terms over a loan's unpaid balance. The previous
// values are snapshotted at creation so the audit trail survives the loan
// being overwritten when the reschedule is applied.
type Reschedule struct {
	ID            int64            `json:"id"`
	LoanID        int64            `json:"loan_id"`
	NewAmount     decimal.Decimal  `json:"new_amount"`
	NewRate       decimal.Decimal  `json:"new_rate"`
	NewTerm       int              `json:"new_term"`
	NewFrequency  Frequency        `json:"new_frequency"`
	PrevAmount    decimal.Decimal  `json:"prev_amount"`
	PrevRate      decimal.Decimal  `json:"prev_rate"`
	PrevTerm      int              `json:"prev_term"`
	PrevFrequency Frequency        `json:"prev_frequency"`
	Status        RescheduleStatus `json:"status"`
	Reason        string           `json:"reason,omitempty"`
	RequestedBy   int64            `json:"requested_by"`
	DecidedBy     *int64           `json:"decided_by,omitempty"`
	CreatedOn     time.Time        `json:"created_on"`
	UpdatedOn     time.Time        `json:"updated_on"`
}
