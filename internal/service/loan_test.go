package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"credicaja-backend/internal/config"
	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/service"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testBusiness() *config.BusinessConfig {
	return &config.BusinessConfig{
		MinPrincipal: dec("100"),
		MaxPrincipal: dec("100000"),
		MinTerm:      1,
		MaxTerm:      60,
		MinRate:      decimal.Zero,
		MaxRate:      dec("100"),
		ApprovalCeilings: map[string]decimal.Decimal{
			string(domain.RoleManager): dec("50000"),
			string(domain.RoleWorker):  dec("10000"),
		},
		MaxReschedules:     3,
		PenaltyMonthlyRate: dec("0.05"),
		CommissionRate:     dec("0.02"),
	}
}

func newLoanService(tr *testRepos, emailSvc *MockEmailService) service.LoanService {
	repos := tr.bundle()
	return service.NewLoanService(repos, &fakeTxManager{repos: repos}, emailSvc, testBusiness())
}

func TestLoanService_CreateLoan_OverCeilingStaysPending(t *testing.T) {
	tr := newTestRepos()
	emailSvc := new(MockEmailService)
	svc := newLoanService(tr, emailSvc)
	ctx := context.Background()

	worker := domain.Actor{UserID: 7, Role: domain.RoleWorker}

	tr.clients.On("GetByID", ctx, int64(3)).Return(&domain.Client{ID: 3, Active: true}, nil)
	tr.loans.On("Create", ctx, mock.AnythingOfType("*domain.Loan")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Loan).ID = 42 }).
		Return(nil)
	tr.history.On("Create", ctx, mock.AnythingOfType("*domain.LoanHistory")).Return(nil)
	tr.notifications.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

	loan, err := svc.CreateLoan(ctx, worker, service.CreateLoanRequest{
		ClientID:  3,
		Amount:    dec("15000"),
		Rate:      dec("10"),
		Term:      12,
		Frequency: domain.FrequencyMonthly,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusPending, loan.Status)
	assert.True(t, loan.AmountApproved.IsZero())

	// The manager role is notified, not a specific user.
	tr.notifications.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Role != nil && *n.Role == domain.RoleManager && n.RefID == 42
	}))
	tr.installments.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything, mock.Anything)
	tr.ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoanService_CreateLoan_WithinCeilingAutoApproves(t *testing.T) {
	tr := newTestRepos()
	emailSvc := new(MockEmailService)
	svc := newLoanService(tr, emailSvc)
	ctx := context.Background()

	worker := domain.Actor{UserID: 7, Role: domain.RoleWorker}

	var ledgerEntry *domain.LedgerEntry
	var scheduleSize int

	tr.clients.On("GetByID", ctx, int64(3)).Return(&domain.Client{ID: 3, Active: true}, nil)
	tr.loans.On("Create", ctx, mock.AnythingOfType("*domain.Loan")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Loan).ID = 42 }).
		Return(nil)
	tr.loans.On("Update", ctx, mock.AnythingOfType("*domain.Loan")).Return(nil)
	tr.installments.On("CreateBatch", ctx, int64(42), mock.AnythingOfType("[]domain.Installment")).
		Run(func(args mock.Arguments) { scheduleSize = len(args.Get(2).([]domain.Installment)) }).
		Return(nil)
	tr.ledger.On("Create", ctx, mock.AnythingOfType("*domain.LedgerEntry")).
		Run(func(args mock.Arguments) { ledgerEntry = args.Get(1).(*domain.LedgerEntry) }).
		Return(nil)
	tr.history.On("Create", ctx, mock.AnythingOfType("*domain.LoanHistory")).Return(nil)

	loan, err := svc.CreateLoan(ctx, worker, service.CreateLoanRequest{
		ClientID:  3,
		Amount:    dec("5000"),
		Rate:      dec("10"),
		Term:      6,
		Frequency: domain.FrequencyMonthly,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusApproved, loan.Status)
	assert.True(t, loan.AmountApproved.Equal(dec("5000")))
	assert.NotNil(t, loan.OriginationDate)
	assert.NotNil(t, loan.MaturityDate)
	assert.Equal(t, 6, scheduleSize)

	require.NotNil(t, ledgerEntry)
	assert.Equal(t, domain.LedgerEntryCommission, ledgerEntry.Type)
	assert.True(t, ledgerEntry.Amount.Equal(dec("100")), "commission should be 2%% of 5000, got %s", ledgerEntry.Amount)
}

func TestLoanService_CreateLoan_RejectsInactiveClient(t *testing.T) {
	tr := newTestRepos()
	svc := newLoanService(tr, new(MockEmailService))
	ctx := context.Background()

	tr.clients.On("GetByID", ctx, int64(3)).Return(&domain.Client{ID: 3, Active: false}, nil)

	_, err := svc.CreateLoan(ctx, domain.Actor{UserID: 7, Role: domain.RoleWorker}, service.CreateLoanRequest{
		ClientID: 3, Amount: dec("5000"), Rate: dec("10"), Term: 6, Frequency: domain.FrequencyMonthly,
	})
	var conflict *domain.StateConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestLoanService_ApproveLoan(t *testing.T) {
	ctx := context.Background()
	manager := domain.Actor{UserID: 2, Role: domain.RoleManager}

	pendingLoan := func() *domain.Loan {
		return &domain.Loan{
			ID:              42,
			ClientID:        3,
			CreatedBy:       7,
			AmountRequested: dec("15000"),
			Rate:            dec("10"),
			TermPeriods:     12,
			Frequency:       domain.FrequencyMonthly,
			Status:          domain.LoanStatusPending,
		}
	}

	t.Run("manager approval generates schedule and books commission", func(t *testing.T) {
		tr := newTestRepos()
		emailSvc := new(MockEmailService)
		svc := newLoanService(tr, emailSvc)

		var ledgerEntry *domain.LedgerEntry

		tr.loans.On("GetByIDForUpdate", ctx, int64(42)).Return(pendingLoan(), nil)
		tr.loans.On("Update", ctx, mock.AnythingOfType("*domain.Loan")).Return(nil)
		tr.installments.On("CreateBatch", ctx, int64(42), mock.AnythingOfType("[]domain.Installment")).Return(nil)
		tr.ledger.On("Create", ctx, mock.AnythingOfType("*domain.LedgerEntry")).
			Run(func(args mock.Arguments) { ledgerEntry = args.Get(1).(*domain.LedgerEntry) }).
			Return(nil)
		tr.history.On("Create", ctx, mock.AnythingOfType("*domain.LoanHistory")).Return(nil)
		tr.notifications.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		tr.users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Name: "Worker", Email: "worker@test.com"}, nil)
		emailSvc.On("SendLoanDecisionNotification", ctx, "worker@test.com", "Worker", int64(42), true, "").Return(nil)

		loan, err := svc.ApproveLoan(ctx, manager, 42)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusApproved, loan.Status)

		require.NotNil(t, ledgerEntry)
		assert.True(t, ledgerEntry.Amount.Equal(dec("300")), "commission should be 2%% of 15000, got %s", ledgerEntry.Amount)

		// The creator is notified directly.
		tr.notifications.AssertCalled(t, "Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID != nil && *n.UserID == int64(7)
		}))
		emailSvc.AssertExpectations(t)
	})

	t.Run("worker may not approve", func(t *testing.T) {
		tr := newTestRepos()
		svc := newLoanService(tr, new(MockEmailService))

		_, err := svc.ApproveLoan(ctx, domain.Actor{UserID: 7, Role: domain.RoleWorker}, 42)
		assert.True(t, errors.Is(err, domain.ErrForbidden))
	})

	t.Run("manager ceiling still applies on approval", func(t *testing.T) {
		tr := newTestRepos()
		svc := newLoanService(tr, new(MockEmailService))

		big := pendingLoan()
		big.AmountRequested = dec("60000")
		tr.loans.On("GetByIDForUpdate", ctx, int64(42)).Return(big, nil)

		_, err := svc.ApproveLoan(ctx, manager, 42)
		assert.True(t, errors.Is(err, domain.ErrForbidden))
	})

	t.Run("administrator approves without ceiling", func(t *testing.T) {
		tr := newTestRepos()
		emailSvc := new(MockEmailService)
		svc := newLoanService(tr, emailSvc)

		big := pendingLoan()
		big.AmountRequested = dec("60000")
		tr.loans.On("GetByIDForUpdate", ctx, int64(42)).Return(big, nil)
		tr.loans.On("Update", ctx, mock.Anything).Return(nil)
		tr.installments.On("CreateBatch", ctx, int64(42), mock.Anything).Return(nil)
		tr.ledger.On("Create", ctx, mock.Anything).Return(nil)
		tr.history.On("Create", ctx, mock.Anything).Return(nil)
		tr.notifications.On("Create", ctx, mock.Anything).Return(nil)
		tr.users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Name: "Worker", Email: "worker@test.com"}, nil)
		emailSvc.On("SendLoanDecisionNotification", ctx, "worker@test.com", "Worker", int64(42), true, "").Return(nil)

		loan, err := svc.ApproveLoan(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdministrator}, 42)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusApproved, loan.Status)
	})

	t.Run("already approved loan conflicts", func(t *testing.T) {
		tr := newTestRepos()
		svc := newLoanService(tr, new(MockEmailService))

		approved := pendingLoan()
		approved.Status = domain.LoanStatusApproved
		tr.loans.On("GetByIDForUpdate", ctx, int64(42)).Return(approved, nil)

		_, err := svc.ApproveLoan(ctx, manager, 42)
		var conflict *domain.StateConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestLoanService_RejectLoan_RequiresReason(t *testing.T) {
	tr := newTestRepos()
	svc := newLoanService(tr, new(MockEmailService))

	_, err := svc.RejectLoan(context.Background(), domain.Actor{UserID: 2, Role: domain.RoleManager}, 42, "")
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "reason", validation.Field)
}

func TestLoanService_CancelLoan(t *testing.T) {
	ctx := context.Background()
	manager := domain.Actor{UserID: 2, Role: domain.RoleManager}

	t.Run("loan with payments is soft cancelled", func(t *testing.T) {
		tr := newTestRepos()
		svc := newLoanService(tr, new(MockEmailService))

		loan := &domain.Loan{ID: 42, Status: domain.LoanStatusActive}
		tr.loans.On("GetByIDForUpdate", ctx, int64(42)).Return(loan, nil)
		tr.payments.On("CountByLoan", ctx, int64(42)).Return(int64(2), nil)
		tr.loans.On("Update", ctx, mock.MatchedBy(func(l *domain.Loan) bool {
			return l.Status == domain.LoanStatusCancelled
		})).Return(nil)
		tr.history.On("Create", ctx, mock.Anything).Return(nil)

		require.NoError(t, svc.CancelLoan(ctx, manager, 42, "client request"))
		tr.loans.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("loan without payments is removed with its dependents", func(t *testing.T) {
		tr := newTestRepos()
		svc := newLoanService(tr, new(MockEmailService))

		loan := &domain.Loan{ID: 42, Status: domain.LoanStatusApproved}
		tr.loans.On("GetByIDForUpdate", ctx, int64(42)).Return(loan, nil)
		tr.payments.On("CountByLoan", ctx, int64(42)).Return(int64(0), nil)
		tr.payments.On("DeleteByLoan", ctx, int64(42)).Return(nil)
		tr.installments.On("DeleteByLoan", ctx, int64(42)).Return(nil)
		tr.ledger.On("DeleteByLoan", ctx, int64(42)).Return(nil)
		tr.reschedules.On("DeleteByLoan", ctx, int64(42)).Return(nil)
		tr.history.On("DeleteByLoan", ctx, int64(42)).Return(nil)
		tr.notifications.On("DeleteByRef", ctx, "LOAN", int64(42)).Return(nil)
		tr.loans.On("Delete", ctx, int64(42)).Return(nil)

		require.NoError(t, svc.CancelLoan(ctx, manager, 42, ""))
		tr.loans.AssertExpectations(t)
		tr.installments.AssertExpectations(t)
	})
}
