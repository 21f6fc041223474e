package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"

	"credicaja-backend/internal/logger"
)

type emailService struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailService(apiKey, from, fromName string) EmailService {
	return &emailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (s *emailService) send(to, toName, subject, body string) error {
	if s.apiKey == "" {
		// No provider configured (dev environments). Log and move on.
		logger.Debug("email delivery skipped, no api key", "to", to, "subject", subject)
		return nil
	}
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendLoanDecisionNotification(ctx context.Context, email, name string, loanID int64, approved bool, reason string) error {
	subject := fmt.Sprintf("Loan #%d approved", loanID)
	body := fmt.Sprintf("Hello %s,\n\nLoan #%d has been approved and its payment schedule is ready.", name, loanID)
	if !approved {
		subject = fmt.Sprintf("Loan #%d rejected", loanID)
		body = fmt.Sprintf("Hello %s,\n\nLoan #%d has been rejected.", name, loanID)
		if reason != "" {
			body += fmt.Sprintf("\n\nReason: %s", reason)
		}
	}
	body += "\n\nBest regards,\nCrediCaja"
	return s.send(email, name, subject, body)
}

func (s *emailService) SendPaymentReminder(ctx context.Context, email, name string, dueDate time.Time, amount decimal.Decimal) error {
	subject := "Payment reminder"
	body := fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder that an installment of %s is due on %s.\n\nBest regards,\nCrediCaja",
		name, amount.StringFixed(2), dueDate.Format("2006-01-02"),
	)
	return s.send(email, name, subject, body)
}
