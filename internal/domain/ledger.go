package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEntryType string

const (
	LedgerEntryCommission   LedgerEntryType = "COMMISSION"
	LedgerEntryDisbursement LedgerEntryType = "DISBURSEMENT"
	LedgerEntryAdjustment   LedgerEntryType = "ADJUSTMENT"
)

type LedgerEntry struct {
	ID          int64           `json:"id"`
	LoanID      int64           `json:"loan_id"`
	Type        LedgerEntryType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedBy   int64           `json:"created_by"`
	CreatedOn   time.Time       `json:"created_on"`
}
