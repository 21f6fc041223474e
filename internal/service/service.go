package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"credicaja-backend/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error) // token, user
	CreateUser(ctx context.Context, actor domain.Actor, name, email, password string, role domain.Role) (*domain.User, error)
	SetUserActive(ctx context.Context, actor domain.Actor, userID int64, active bool) error
	ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error)
}

type ClientService interface {
	CreateClient(ctx context.Context, actor domain.Actor, client *domain.Client) error
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	UpdateClient(ctx context.Context, actor domain.Actor, client *domain.Client) error
	DeactivateClient(ctx context.Context, actor domain.Actor, id int64) error
	ListClients(ctx context.Context, page, pageSize int) ([]domain.Client, int64, error)
}

type CreateLoanRequest struct {
	ClientID  int64
	Amount    decimal.Decimal
	Rate      decimal.Decimal
	Term      int
	Frequency domain.Frequency
}

type LoanService interface {
	CreateLoan(ctx context.Context, actor domain.Actor, req CreateLoanRequest) (*domain.Loan, error)
	GetLoan(ctx context.Context, id int64) (*domain.Loan, []domain.Installment, error)
	ListLoans(ctx context.Context, status domain.LoanStatus, page, pageSize int) ([]domain.Loan, int64, error)
	ListLoansByClient(ctx context.Context, clientID int64, page, pageSize int) ([]domain.Loan, int64, error)
	ApproveLoan(ctx context.Context, actor domain.Actor, loanID int64) (*domain.Loan, error)
	RejectLoan(ctx context.Context, actor domain.Actor, loanID int64, reason string) (*domain.Loan, error)
	DisburseLoan(ctx context.Context, actor domain.Actor, loanID int64) (*domain.Loan, error)
	CancelLoan(ctx context.Context, actor domain.Actor, loanID int64, reason string) error
	GetLoanHistory(ctx context.Context, loanID int64) ([]domain.LoanHistory, error)
}

type RecordPaymentRequest struct {
	LoanID   int64
	Amount   decimal.Decimal
	Discount decimal.Decimal
	Date     time.Time
}

// PaymentResult carries the stored payment plus the part of the tendered
// amount that exceeded everything owed. The remainder is reported to the
// cashier, never silently absorbed.
type PaymentResult struct {
	Payment   *domain.Payment
	Remainder decimal.Decimal
	LoanPaid  bool
}

type PaymentService interface {
	RecordPayment(ctx context.Context, actor domain.Actor, req RecordPaymentRequest) (*PaymentResult, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, []domain.PaymentAllocation, error)
	ListPayments(ctx context.Context, loanID int64) ([]domain.Payment, error)
	DeletePayment(ctx context.Context, actor domain.Actor, paymentID int64) error
}

type RescheduleRequest struct {
	LoanID    int64
	Amount    decimal.Decimal
	Rate      decimal.Decimal
	Term      int
	Frequency domain.Frequency
	Reason    string
}

type RescheduleService interface {
	RequestReschedule(ctx context.Context, actor domain.Actor, req RescheduleRequest) (*domain.Reschedule, error)
	ApproveReschedule(ctx context.Context, actor domain.Actor, rescheduleID int64) (*domain.Reschedule, error)
	RejectReschedule(ctx context.Context, actor domain.Actor, rescheduleID int64, reason string) (*domain.Reschedule, error)
	ListReschedules(ctx context.Context, loanID int64) ([]domain.Reschedule, error)
}

type CashSessionService interface {
	OpenSession(ctx context.Context, actor domain.Actor, opening decimal.Decimal) (*domain.CashSession, error)
	CloseSession(ctx context.Context, actor domain.Actor, sessionID int64, counted decimal.Decimal) (*domain.CashSession, error)
	GetSession(ctx context.Context, id int64) (*domain.CashSession, error)
	ListSessions(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.CashSession, int64, error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, actor domain.Actor, notificationID int64) error
}

type EmailService interface {
	SendLoanDecisionNotification(ctx context.Context, email, name string, loanID int64, approved bool, reason string) error
	SendPaymentReminder(ctx context.Context, email, name string, dueDate time.Time, amount decimal.Decimal) error
}
