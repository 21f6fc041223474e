package service_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockClientRepo
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}
func (m *MockClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientRepo) GetByDocument(ctx context.Context, document string) (*domain.Client, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientRepo) Update(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}
func (m *MockClientRepo) List(ctx context.Context, page, pageSize int) ([]domain.Client, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Client), args.Get(1).(int64), args.Error(2)
}

// MockLoanRepo
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockLoanRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockLoanRepo) ListByClient(ctx context.Context, clientID int64, page, pageSize int) ([]domain.Loan, int64, error) {
	args := m.Called(ctx, clientID, page, pageSize)
	return args.Get(0).([]domain.Loan), args.Get(1).(int64), args.Error(2)
}
func (m *MockLoanRepo) List(ctx context.Context, status domain.LoanStatus, page, pageSize int) ([]domain.Loan, int64, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Loan), args.Get(1).(int64), args.Error(2)
}
func (m *MockLoanRepo) CountByClient(ctx context.Context, clientID int64) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

// MockInstallmentRepo
type MockInstallmentRepo struct {
	mock.Mock
}

func (m *MockInstallmentRepo) CreateBatch(ctx context.Context, loanID int64, installments []domain.Installment) error {
	args := m.Called(ctx, loanID, installments)
	return args.Error(0)
}
func (m *MockInstallmentRepo) GetByID(ctx context.Context, id int64) (*domain.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}
func (m *MockInstallmentRepo) ListByLoan(ctx context.Context, loanID int64) ([]domain.Installment, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *MockInstallmentRepo) Update(ctx context.Context, inst *domain.Installment) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}
func (m *MockInstallmentRepo) LastSequence(ctx context.Context, loanID int64) (int, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int), args.Error(1)
}
func (m *MockInstallmentRepo) DeleteUnpaid(ctx context.Context, loanID int64) (int64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockInstallmentRepo) DeleteByLoan(ctx context.Context, loanID int64) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}
func (m *MockInstallmentRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) CreateAllocation(ctx context.Context, alloc *domain.PaymentAllocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByLoan(ctx context.Context, loanID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListAllocations(ctx context.Context, paymentID int64) ([]domain.PaymentAllocation, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).([]domain.PaymentAllocation), args.Error(1)
}
func (m *MockPaymentRepo) SumByLoan(ctx context.Context, loanID int64) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}
func (m *MockPaymentRepo) CountByLoan(ctx context.Context, loanID int64) (int64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPaymentRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPaymentRepo) DeleteAllocations(ctx context.Context, paymentID int64) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}
func (m *MockPaymentRepo) DeleteByLoan(ctx context.Context, loanID int64) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

// MockRescheduleRepo
type MockRescheduleRepo struct {
	mock.Mock
}

func (m *MockRescheduleRepo) Create(ctx context.Context, r *domain.Reschedule) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRescheduleRepo) GetByID(ctx context.Context, id int64) (*domain.Reschedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reschedule), args.Error(1)
}
func (m *MockRescheduleRepo) Update(ctx context.Context, r *domain.Reschedule) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRescheduleRepo) ListByLoan(ctx context.Context, loanID int64) ([]domain.Reschedule, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]domain.Reschedule), args.Error(1)
}
func (m *MockRescheduleRepo) CountByLoanAndStatus(ctx context.Context, loanID int64, statuses ...domain.RescheduleStatus) (int64, error) {
	callArgs := []interface{}{ctx, loanID}
	for _, st := range statuses {
		callArgs = append(callArgs, st)
	}
	args := m.Called(callArgs...)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockRescheduleRepo) DeleteByLoan(ctx context.Context, loanID int64) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockLedgerRepo) ListByLoan(ctx context.Context, loanID int64) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerRepo) DeleteByLoan(ctx context.Context, loanID int64) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

// MockHistoryRepo
type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) Create(ctx context.Context, h *domain.LoanHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}
func (m *MockHistoryRepo) ListByLoan(ctx context.Context, loanID int64) ([]domain.LoanHistory, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]domain.LoanHistory), args.Error(1)
}
func (m *MockHistoryRepo) DeleteByLoan(ctx context.Context, loanID int64) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListForUser(ctx context.Context, userID int64, role domain.Role, page, pageSize int) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, userID, role, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepo) DeleteByRef(ctx context.Context, refType string, refID int64) error {
	args := m.Called(ctx, refType, refID)
	return args.Error(0)
}

// MockCashSessionRepo
type MockCashSessionRepo struct {
	mock.Mock
}

func (m *MockCashSessionRepo) Create(ctx context.Context, s *domain.CashSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockCashSessionRepo) GetByID(ctx context.Context, id int64) (*domain.CashSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}
func (m *MockCashSessionRepo) GetOpenByCashier(ctx context.Context, cashierID int64) (*domain.CashSession, error) {
	args := m.Called(ctx, cashierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}
func (m *MockCashSessionRepo) Update(ctx context.Context, s *domain.CashSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockCashSessionRepo) List(ctx context.Context, page, pageSize int) ([]domain.CashSession, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.CashSession), args.Get(1).(int64), args.Error(2)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLoanDecisionNotification(ctx context.Context, email, name string, loanID int64, approved bool, reason string) error {
	args := m.Called(ctx, email, name, loanID, approved, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReminder(ctx context.Context, email, name string, dueDate time.Time, amount decimal.Decimal) error {
	args := m.Called(ctx, email, name, dueDate, amount)
	return args.Error(0)
}

// testRepos bundles one set of mocks into the shape services consume.
type testRepos struct {
	users         *MockUserRepo
	clients       *MockClientRepo
	loans         *MockLoanRepo
	installments  *MockInstallmentRepo
	payments      *MockPaymentRepo
	reschedules   *MockRescheduleRepo
	ledger        *MockLedgerRepo
	history       *MockHistoryRepo
	notifications *MockNotificationRepo
	cashSessions  *MockCashSessionRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		users:         new(MockUserRepo),
		clients:       new(MockClientRepo),
		loans:         new(MockLoanRepo),
		installments:  new(MockInstallmentRepo),
		payments:      new(MockPaymentRepo),
		reschedules:   new(MockRescheduleRepo),
		ledger:        new(MockLedgerRepo),
		history:       new(MockHistoryRepo),
		notifications: new(MockNotificationRepo),
		cashSessions:  new(MockCashSessionRepo),
	}
}

func (tr *testRepos) bundle() *repository.Repositories {
	return &repository.Repositories{
		Users:         tr.users,
		Clients:       tr.clients,
		Loans:         tr.loans,
		Installments:  tr.installments,
		Payments:      tr.payments,
		Reschedules:   tr.reschedules,
		Ledger:        tr.ledger,
		History:       tr.history,
		Notifications: tr.notifications,
		CashSessions:  tr.cashSessions,
	}
}

// fakeTxManager hands the same mock-backed repositories to the callback, so
// tests observe exactly what would run inside the transaction.
type fakeTxManager struct {
	repos *repository.Repositories
}

func (f *fakeTxManager) ExecTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return fn(f.repos)
}
