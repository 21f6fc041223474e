package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CashSessionStatus string

const (
	CashSessionOpen   CashSessionStatus = "OPEN"
	CashSessionClosed CashSessionStatus = "CLOSED"
)

// CashSession tracks one cashier shift. Expected grows with each payment
// recorded while the session is open; Difference = Counted - Expected at
// close time.
type CashSession struct {
	ID         int64             `json:"id"`
	CashierID  int64             `json:"cashier_id"`
	Status     CashSessionStatus `json:"status"`
	Opening    decimal.Decimal   `json:"opening"`
	Expected   decimal.Decimal   `json:"expected"`
	Counted    decimal.Decimal   `json:"counted"`
	Difference decimal.Decimal   `json:"difference"`
	OpenedOn   time.Time         `json:"opened_on"`
	ClosedOn   *time.Time        `json:"closed_on,omitempty"`
}
