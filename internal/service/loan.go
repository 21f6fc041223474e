package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"credicaja-backend/internal/config"
	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/logger"
	"credicaja-backend/internal/repository"
	"credicaja-backend/internal/utils"
)

type loanService struct {
	repos    *repository.Repositories
	tx       repository.TxManager
	emailSvc EmailService
	business *config.BusinessConfig
}

func NewLoanService(
	repos *repository.Repositories,
	tx repository.TxManager,
	emailSvc EmailService,
	business *config.BusinessConfig,
) LoanService {
	return &loanService{
		repos:    repos,
		tx:       tx,
		emailSvc: emailSvc,
		business: business,
	}
}

func (s *loanService) validateTerms(amount, rate decimal.Decimal, term int, frequency domain.Frequency) error {
	if amount.LessThan(s.business.MinPrincipal) || amount.GreaterThan(s.business.MaxPrincipal) {
		return domain.NewValidationError("amount",
			fmt.Sprintf("must be between %s and %s", s.business.MinPrincipal, s.business.MaxPrincipal))
	}
	if rate.LessThan(s.business.MinRate) || rate.GreaterThan(s.business.MaxRate) {
		return domain.NewValidationError("rate",
			fmt.Sprintf("must be between %s and %s", s.business.MinRate, s.business.MaxRate))
	}
	if term < s.business.MinTerm || term > s.business.MaxTerm {
		return domain.NewValidationError("term",
			fmt.Sprintf("must be between %d and %d periods", s.business.MinTerm, s.business.MaxTerm))
	}
	if !frequency.Valid() {
		return domain.NewValidationError("frequency", "unknown payment frequency")
	}
	return nil
}

// CreateLoan registers a loan request. When the creator's approval ceiling
// covers the amount the loan is approved in the same transaction, schedule
// included; otherwise it stays Pending until a manager decides.
func (s *loanService) CreateLoan(ctx context.Context, actor domain.Actor, req CreateLoanRequest) (*domain.Loan, error) {
	logger.EnterMethod("LoanService.CreateLoan", "actor_id", actor.UserID, "client_id", req.ClientID)

	if err := s.validateTerms(req.Amount, req.Rate, req.Term, req.Frequency); err != nil {
		return nil, err
	}
	client, err := s.repos.Clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.Active {
		return nil, domain.NewStateConflictError("client", "client is not active")
	}

	ceiling, limited := s.business.ApprovalCeiling(string(actor.Role))
	autoApprove := !limited || req.Amount.LessThanOrEqual(ceiling)

	loan := &domain.Loan{
		ClientID:        req.ClientID,
		CreatedBy:       actor.UserID,
		AmountRequested: req.Amount,
		Rate:            req.Rate,
		TermPeriods:     req.Term,
		Frequency:       req.Frequency,
		Status:          domain.LoanStatusPending,
		AccruesPenalty:  true,
	}

	err = s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		if err := r.Loans.Create(ctx, loan); err != nil {
			return err
		}
		if err := r.History.Create(ctx, &domain.LoanHistory{
			LoanID:  loan.ID,
			Action:  "CREATED",
			Detail:  fmt.Sprintf("requested %s at %s%% x %d %s", req.Amount, req.Rate, req.Term, req.Frequency),
			ActorID: actor.UserID,
		}); err != nil {
			return err
		}
		if autoApprove {
			return s.approveInTx(ctx, r, loan, actor.UserID)
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("LoanService.CreateLoan", err)
		return nil, err
	}

	if !autoApprove {
		managerRole := domain.RoleManager
		_ = s.repos.Notifications.Create(ctx, &domain.Notification{
			Role:    &managerRole,
			Title:   "Loan pending approval",
			Message: fmt.Sprintf("Loan #%d for %s exceeds the creator's approval limit", loan.ID, req.Amount),
			RefType: "LOAN",
			RefID:   loan.ID,
		})
	}

	logger.ExitMethod("LoanService.CreateLoan", "loan_id", loan.ID, "status", loan.Status)
	return loan, nil
}

// approveInTx performs the approval side effects over an already loaded and,
// for explicit approvals, row-locked loan.
func (s *loanService) approveInTx(ctx context.Context, r *repository.Repositories, loan *domain.Loan, approverID int64) error {
	if !loan.Status.CanTransitionTo(domain.LoanStatusApproved) {
		return domain.NewStateConflictError("loan",
			fmt.Sprintf("cannot approve a loan in status %s", loan.Status))
	}

	now := time.Now().UTC()
	loan.Status = domain.LoanStatusApproved
	loan.AmountApproved = loan.AmountRequested
	loan.OriginationDate = &now

	schedule, err := utils.GenerateSchedule(utils.ScheduleParams{
		Principal:     loan.AmountApproved,
		Rate:          loan.Rate,
		TermPeriods:   loan.TermPeriods,
		Frequency:     loan.Frequency,
		StartDate:     now,
		StartSequence: 1,
	})
	if err != nil {
		return err
	}
	maturity := schedule[len(schedule)-1].ScheduledDate
	loan.MaturityDate = &maturity

	if err := r.Loans.Update(ctx, loan); err != nil {
		return err
	}
	if err := r.Installments.CreateBatch(ctx, loan.ID, schedule); err != nil {
		return err
	}

	commission := loan.AmountApproved.Mul(s.business.CommissionRate).Round(2)
	if err := r.Ledger.Create(ctx, &domain.LedgerEntry{
		LoanID:      loan.ID,
		Type:        domain.LedgerEntryCommission,
		Amount:      commission,
		Description: fmt.Sprintf("origination commission on %s", loan.AmountApproved),
		CreatedBy:   approverID,
	}); err != nil {
		return err
	}

	return r.History.Create(ctx, &domain.LoanHistory{
		LoanID:  loan.ID,
		Action:  "APPROVED",
		Detail:  fmt.Sprintf("approved for %s, %d installments", loan.AmountApproved, len(schedule)),
		ActorID: approverID,
	})
}

func (s *loanService) ApproveLoan(ctx context.Context, actor domain.Actor, loanID int64) (*domain.Loan, error) {
	logger.EnterMethod("LoanService.ApproveLoan", "actor_id", actor.UserID, "loan_id", loanID)

	if !actor.Role.ManagerLevel() {
		return nil, fmt.Errorf("only managers may approve loans: %w", domain.ErrForbidden)
	}

	var loan *domain.Loan
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		loan, err = r.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if ceiling, limited := s.business.ApprovalCeiling(string(actor.Role)); limited &&
			loan.AmountRequested.GreaterThan(ceiling) {
			return fmt.Errorf("amount %s exceeds the approval limit for %s: %w",
				loan.AmountRequested, actor.Role, domain.ErrForbidden)
		}
		return s.approveInTx(ctx, r, loan, actor.UserID)
	})
	if err != nil {
		logger.ExitMethodWithError("LoanService.ApproveLoan", err)
		return nil, err
	}

	s.notifyCreator(ctx, loan, "Loan approved",
		fmt.Sprintf("Loan #%d was approved for %s", loan.ID, loan.AmountApproved), true, "")

	logger.ExitMethod("LoanService.ApproveLoan", "loan_id", loan.ID)
	return loan, nil
}

func (s *loanService) RejectLoan(ctx context.Context, actor domain.Actor, loanID int64, reason string) (*domain.Loan, error) {
	logger.EnterMethod("LoanService.RejectLoan", "actor_id", actor.UserID, "loan_id", loanID)

	if !actor.Role.ManagerLevel() {
		return nil, fmt.Errorf("only managers may reject loans: %w", domain.ErrForbidden)
	}
	if reason == "" {
		return nil, domain.NewValidationError("reason", "rejection requires a reason")
	}

	var loan *domain.Loan
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		loan, err = r.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if !loan.Status.CanTransitionTo(domain.LoanStatusRejected) {
			return domain.NewStateConflictError("loan",
				fmt.Sprintf("cannot reject a loan in status %s", loan.Status))
		}
		loan.Status = domain.LoanStatusRejected
		loan.RejectReason = reason
		if err := r.Loans.Update(ctx, loan); err != nil {
			return err
		}
		return r.History.Create(ctx, &domain.LoanHistory{
			LoanID:  loan.ID,
			Action:  "REJECTED",
			Detail:  reason,
			ActorID: actor.UserID,
		})
	})
	if err != nil {
		logger.ExitMethodWithError("LoanService.RejectLoan", err)
		return nil, err
	}

	s.notifyCreator(ctx, loan, "Loan rejected",
		fmt.Sprintf("Loan #%d was rejected: %s", loan.ID, reason), false, reason)

	logger.ExitMethod("LoanService.RejectLoan", "loan_id", loan.ID)
	return loan, nil
}

func (s *loanService) DisburseLoan(ctx context.Context, actor domain.Actor, loanID int64) (*domain.Loan, error) {
	logger.EnterMethod("LoanService.DisburseLoan", "actor_id", actor.UserID, "loan_id", loanID)

	var loan *domain.Loan
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		loan, err = r.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if !loan.Status.CanTransitionTo(domain.LoanStatusActive) {
			return domain.NewStateConflictError("loan",
				fmt.Sprintf("cannot disburse a loan in status %s", loan.Status))
		}
		loan.Status = domain.LoanStatusActive
		if err := r.Loans.Update(ctx, loan); err != nil {
			return err
		}
		if err := r.Ledger.Create(ctx, &domain.LedgerEntry{
			LoanID:      loan.ID,
			Type:        domain.LedgerEntryDisbursement,
			Amount:      loan.AmountApproved,
			Description: "principal disbursed to client",
			CreatedBy:   actor.UserID,
		}); err != nil {
			return err
		}
		return r.History.Create(ctx, &domain.LoanHistory{
			LoanID:  loan.ID,
			Action:  "DISBURSED",
			Detail:  fmt.Sprintf("disbursed %s", loan.AmountApproved),
			ActorID: actor.UserID,
		})
	})
	if err != nil {
		logger.ExitMethodWithError("LoanService.DisburseLoan", err)
		return nil, err
	}

	logger.ExitMethod("LoanService.DisburseLoan", "loan_id", loan.ID)
	return loan, nil
}

// CancelLoan soft-cancels loans that already received payments; loans with
// no payment history are removed entirely, dependents first.
func (s *loanService) CancelLoan(ctx context.Context, actor domain.Actor, loanID int64, reason string) error {
	logger.EnterMethod("LoanService.CancelLoan", "actor_id", actor.UserID, "loan_id", loanID)

	if !actor.Role.ManagerLevel() {
		return fmt.Errorf("only managers may cancel loans: %w", domain.ErrForbidden)
	}

	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		loan, err := r.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		payments, err := r.Payments.CountByLoan(ctx, loanID)
		if err != nil {
			return err
		}

		if payments > 0 {
			if !loan.Status.CanTransitionTo(domain.LoanStatusCancelled) {
				return domain.NewStateConflictError("loan",
					fmt.Sprintf("cannot cancel a loan in status %s", loan.Status))
			}
			loan.Status = domain.LoanStatusCancelled
			if err := r.Loans.Update(ctx, loan); err != nil {
				return err
			}
			return r.History.Create(ctx, &domain.LoanHistory{
				LoanID:  loan.ID,
				Action:  "CANCELLED",
				Detail:  reason,
				ActorID: actor.UserID,
			})
		}

		// No payments on record: hard delete in dependency order.
		if err := r.Payments.DeleteByLoan(ctx, loanID); err != nil {
			return err
		}
		if err := r.Installments.DeleteByLoan(ctx, loanID); err != nil {
			return err
		}
		if err := r.Ledger.DeleteByLoan(ctx, loanID); err != nil {
			return err
		}
		if err := r.Reschedules.DeleteByLoan(ctx, loanID); err != nil {
			return err
		}
		if err := r.History.DeleteByLoan(ctx, loanID); err != nil {
			return err
		}
		if err := r.Notifications.DeleteByRef(ctx, "LOAN", loanID); err != nil {
			return err
		}
		return r.Loans.Delete(ctx, loanID)
	})
	if err != nil {
		logger.ExitMethodWithError("LoanService.CancelLoan", err)
		return err
	}

	logger.ExitMethod("LoanService.CancelLoan", "loan_id", loanID)
	return nil
}

func (s *loanService) GetLoan(ctx context.Context, id int64) (*domain.Loan, []domain.Installment, error) {
	loan, err := s.repos.Loans.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	installments, err := s.repos.Installments.ListByLoan(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return loan, installments, nil
}

func (s *loanService) ListLoans(ctx context.Context, status domain.LoanStatus, page, pageSize int) ([]domain.Loan, int64, error) {
	return s.repos.Loans.List(ctx, status, page, pageSize)
}

func (s *loanService) ListLoansByClient(ctx context.Context, clientID int64, page, pageSize int) ([]domain.Loan, int64, error) {
	return s.repos.Loans.ListByClient(ctx, clientID, page, pageSize)
}

func (s *loanService) GetLoanHistory(ctx context.Context, loanID int64) ([]domain.LoanHistory, error) {
	return s.repos.History.ListByLoan(ctx, loanID)
}

// notifyCreator fans out a decision to the loan's creator, in-app and by
// email. Failures are logged and swallowed.
func (s *loanService) notifyCreator(ctx context.Context, loan *domain.Loan, title, message string, approved bool, reason string) {
	creatorID := loan.CreatedBy
	_ = s.repos.Notifications.Create(ctx, &domain.Notification{
		UserID:  &creatorID,
		Title:   title,
		Message: message,
		RefType: "LOAN",
		RefID:   loan.ID,
	})

	creator, err := s.repos.Users.GetByID(ctx, creatorID)
	if err != nil {
		logger.Warn("could not load loan creator for email", "loan_id", loan.ID, "error", err)
		return
	}
	if err := s.emailSvc.SendLoanDecisionNotification(ctx, creator.Email, creator.Name, loan.ID, approved, reason); err != nil {
		logger.Warn("loan decision email failed", "loan_id", loan.ID, "error", err)
	}
}
