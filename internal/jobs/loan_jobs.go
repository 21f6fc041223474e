package jobs

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"credicaja-backend/internal/logger"
)

// MarkOverdueInstallments flips Pending/Partial installments whose scheduled
// date has passed to Overdue. The update is guarded by status, so running it
// twice in a row changes nothing the second time.
func (jr *JobRunner) MarkOverdueInstallments() {
	jr.runWithRecovery("MarkOverdueInstallments", func() {
		ctx := context.Background()

		count, err := jr.store.Installments.MarkOverdue(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to mark overdue installments", "error", err)
			return
		}

		logger.Info("Marked overdue installments", "count", count)
	})
}

// SendPaymentReminders emails clients whose next installment falls due within
// the next three days. Delivery is best-effort; one bad address never stops
// the sweep.
func (jr *JobRunner) SendPaymentReminders() {
	jr.runWithRecovery("SendPaymentReminders", func() {
		ctx := context.Background()

		query := `
			SELECT c.first_name || ' ' || c.last_name, c.email, i.scheduled_date, i.total - i.paid
			FROM installments i
			JOIN loans l ON l.id = i.loan_id
			JOIN clients c ON c.id = l.client_id
			WHERE i.status IN ('PENDING', 'PARTIAL')
			  AND l.status IN ('APPROVED', 'ACTIVE')
			  AND c.email <> ''
			  AND i.scheduled_date BETWEEN NOW() AND NOW() + INTERVAL '3 days'
			ORDER BY i.scheduled_date
		`
		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to query upcoming installments", "error", err)
			return
		}
		defer rows.Close()

		sent := 0
		for rows.Next() {
			var name, email string
			var dueDate time.Time
			var outstanding decimal.Decimal
			if err := rows.Scan(&name, &email, &dueDate, &outstanding); err != nil {
				logger.Error("Failed to scan reminder row", "error", err)
				continue
			}
			if err := jr.emailSvc.SendPaymentReminder(ctx, email, name, dueDate, outstanding); err != nil {
				logger.Error("Failed to send payment reminder", "email", email, "error", err)
				continue
			}
			sent++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Reminder query iteration failed", "error", err)
		}

		logger.Info("Payment reminders sent", "count", sent)
	})
}
