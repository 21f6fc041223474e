package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"credicaja-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByDocument(ctx context.Context, document string) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	List(ctx context.Context, page, pageSize int) ([]domain.Client, int64, error)
}

type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id int64) (*domain.Loan, error)
	// GetByIDForUpdate locks the loan row for the duration of the enclosing
	// transaction so concurrent payments against the same loan serialize.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error)
	Update(ctx context.Context, loan *domain.Loan) error
	Delete(ctx context.Context, id int64) error
	ListByClient(ctx context.Context, clientID int64, page, pageSize int) ([]domain.Loan, int64, error)
	List(ctx context.Context, status domain.LoanStatus, page, pageSize int) ([]domain.Loan, int64, error)
	CountByClient(ctx context.Context, clientID int64) (int64, error)
}

type InstallmentRepository interface {
	CreateBatch(ctx context.Context, loanID int64, installments []domain.Installment) error
	GetByID(ctx context.Context, id int64) (*domain.Installment, error)
	ListByLoan(ctx context.Context, loanID int64) ([]domain.Installment, error)
	Update(ctx context.Context, inst *domain.Installment) error
	LastSequence(ctx context.Context, loanID int64) (int, error)
	// DeleteUnpaid removes installments nothing has been applied to, whether
	// Pending or swept to Overdue. Rows with paid > 0 survive.
	DeleteUnpaid(ctx context.Context, loanID int64) (int64, error)
	DeleteByLoan(ctx context.Context, loanID int64) error
	// MarkOverdue flips Pending/Partial installments scheduled before asOf to
	// Overdue and reports how many rows changed. Idempotent.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	CreateAllocation(ctx context.Context, alloc *domain.PaymentAllocation) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	ListByLoan(ctx context.Context, loanID int64) ([]domain.Payment, error)
	ListAllocations(ctx context.Context, paymentID int64) ([]domain.PaymentAllocation, error)
	// SumByLoan totals historical payment amounts and discounts.
	SumByLoan(ctx context.Context, loanID int64) (amount, discount decimal.Decimal, err error)
	CountByLoan(ctx context.Context, loanID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteAllocations(ctx context.Context, paymentID int64) error
	DeleteByLoan(ctx context.Context, loanID int64) error
}

type RescheduleRepository interface {
	Create(ctx context.Context, r *domain.Reschedule) error
	GetByID(ctx context.Context, id int64) (*domain.Reschedule, error)
	Update(ctx context.Context, r *domain.Reschedule) error
	ListByLoan(ctx context.Context, loanID int64) ([]domain.Reschedule, error)
	CountByLoanAndStatus(ctx context.Context, loanID int64, statuses ...domain.RescheduleStatus) (int64, error)
	DeleteByLoan(ctx context.Context, loanID int64) error
}

type LedgerRepository interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	ListByLoan(ctx context.Context, loanID int64) ([]domain.LedgerEntry, error)
	DeleteByLoan(ctx context.Context, loanID int64) error
}

type HistoryRepository interface {
	Create(ctx context.Context, h *domain.LoanHistory) error
	ListByLoan(ctx context.Context, loanID int64) ([]domain.LoanHistory, error)
	DeleteByLoan(ctx context.Context, loanID int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	// ListForUser returns notifications addressed to the user directly or to
	// the role the user holds.
	ListForUser(ctx context.Context, userID int64, role domain.Role, page, pageSize int) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	DeleteByRef(ctx context.Context, refType string, refID int64) error
}

type CashSessionRepository interface {
	Create(ctx context.Context, s *domain.CashSession) error
	GetByID(ctx context.Context, id int64) (*domain.CashSession, error)
	GetOpenByCashier(ctx context.Context, cashierID int64) (*domain.CashSession, error)
	Update(ctx context.Context, s *domain.CashSession) error
	List(ctx context.Context, page, pageSize int) ([]domain.CashSession, int64, error)
}

// Repositories bundles every repository over one database handle. TxManager
// hands a transaction-bound copy to the callback.
type Repositories struct {
	Users         UserRepository
	Clients       ClientRepository
	Loans         LoanRepository
	Installments  InstallmentRepository
	Payments      PaymentRepository
	Reschedules   RescheduleRepository
	Ledger        LedgerRepository
	History       HistoryRepository
	Notifications NotificationRepository
	CashSessions  CashSessionRepository
}

// TxManager runs a function inside one database transaction. Any error (or
// panic) rolls back every write the callback performed.
type TxManager interface {
	ExecTx(ctx context.Context, fn func(r *Repositories) error) error
}
