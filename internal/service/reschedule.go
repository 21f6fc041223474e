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

type rescheduleService struct {
	repos    *repository.Repositories
	tx       repository.TxManager
	business *config.BusinessConfig
}

func NewRescheduleService(repos *repository.Repositories, tx repository.TxManager, business *config.BusinessConfig) RescheduleService {
	return &rescheduleService{repos: repos, tx: tx, business: business}
}

// RequestReschedule proposes new terms over a loan's unpaid balance. A
// manager-level requester gets the proposal approved and applied in the same
// call; a worker's proposal stays Pending for a manager to decide.
func (s *rescheduleService) RequestReschedule(ctx context.Context, actor domain.Actor, req RescheduleRequest) (*domain.Reschedule, error) {
	logger.EnterMethod("RescheduleService.RequestReschedule", "actor_id", actor.UserID, "loan_id", req.LoanID)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("amount", "must be greater than zero")
	}
	if req.Rate.LessThan(s.business.MinRate) || req.Rate.GreaterThan(s.business.MaxRate) {
		return nil, domain.NewValidationError("rate",
			fmt.Sprintf("must be between %s and %s", s.business.MinRate, s.business.MaxRate))
	}
	if req.Term < s.business.MinTerm || req.Term > s.business.MaxTerm {
		return nil, domain.NewValidationError("term",
			fmt.Sprintf("must be between %d and %d periods", s.business.MinTerm, s.business.MaxTerm))
	}
	if !req.Frequency.Valid() {
		return nil, domain.NewValidationError("frequency", "unknown payment frequency")
	}

	// The loan row is locked while the precondition counts are taken, so two
	// concurrent requests cannot both pass the no-pending-proposal check.
	var reschedule *domain.Reschedule
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		loan, err := r.Loans.GetByIDForUpdate(ctx, req.LoanID)
		if err != nil {
			return err
		}
		if !loan.Status.Payable() {
			return domain.NewStateConflictError("loan",
				fmt.Sprintf("cannot reschedule a loan in status %s", loan.Status))
		}

		pending, err := r.Reschedules.CountByLoanAndStatus(ctx, req.LoanID, domain.RescheduleStatusPending)
		if err != nil {
			return err
		}
		if pending > 0 {
			return domain.NewStateConflictError("reschedule", "a reschedule is already pending on this loan")
		}

		applied, err := r.Reschedules.CountByLoanAndStatus(ctx, req.LoanID, domain.RescheduleStatusApplied)
		if err != nil {
			return err
		}
		if applied >= int64(s.business.MaxReschedules) {
			return domain.NewStateConflictError("reschedule", "maximum reschedules reached for this loan")
		}

		reschedule = &domain.Reschedule{
			LoanID:        req.LoanID,
			NewAmount:     req.Amount,
			NewRate:       req.Rate,
			NewTerm:       req.Term,
			NewFrequency:  req.Frequency,
			PrevAmount:    loan.AmountApproved,
			PrevRate:      loan.Rate,
			PrevTerm:      loan.TermPeriods,
			PrevFrequency: loan.Frequency,
			Status:        domain.RescheduleStatusPending,
			Reason:        req.Reason,
			RequestedBy:   actor.UserID,
		}
		return r.Reschedules.Create(ctx, reschedule)
	})
	if err != nil {
		logger.ExitMethodWithError("RescheduleService.RequestReschedule", err)
		return nil, err
	}

	if actor.Role.ManagerLevel() {
		return s.ApproveReschedule(ctx, actor, reschedule.ID)
	}

	managerRole := domain.RoleManager
	_ = s.repos.Notifications.Create(ctx, &domain.Notification{
		Role:    &managerRole,
		Title:   "Reschedule pending approval",
		Message: fmt.Sprintf("Loan #%d has a reschedule proposal awaiting decision", req.LoanID),
		RefType: "RESCHEDULE",
		RefID:   reschedule.ID,
	})

	logger.ExitMethod("RescheduleService.RequestReschedule", "reschedule_id", reschedule.ID)
	return reschedule, nil
}

// ApproveReschedule applies a pending proposal: the unpaid balance is the
// proposed total minus everything already paid, installments with nothing
// paid on them (Pending or Overdue) are replaced by a fresh schedule
// continuing the sequence numbering, and the loan takes the new terms.
func (s *rescheduleService) ApproveReschedule(ctx context.Context, actor domain.Actor, rescheduleID int64) (*domain.Reschedule, error) {
	logger.EnterMethod("RescheduleService.ApproveReschedule", "actor_id", actor.UserID, "reschedule_id", rescheduleID)

	if !actor.Role.ManagerLevel() {
		return nil, fmt.Errorf("only managers may approve reschedules: %w", domain.ErrForbidden)
	}

	var reschedule *domain.Reschedule
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		reschedule, err = r.Reschedules.GetByID(ctx, rescheduleID)
		if err != nil {
			return err
		}
		if reschedule.Status != domain.RescheduleStatusPending {
			return domain.NewStateConflictError("reschedule",
				fmt.Sprintf("cannot approve a reschedule in status %s", reschedule.Status))
		}

		loan, err := r.Loans.GetByIDForUpdate(ctx, reschedule.LoanID)
		if err != nil {
			return err
		}
		if !loan.Status.Payable() {
			return domain.NewStateConflictError("loan",
				fmt.Sprintf("cannot reschedule a loan in status %s", loan.Status))
		}

		paid, discount, err := r.Payments.SumByLoan(ctx, loan.ID)
		if err != nil {
			return err
		}
		unpaid := reschedule.NewAmount.Sub(paid).Sub(discount)
		if unpaid.LessThanOrEqual(decimal.Zero) {
			return domain.NewIntegrityError(
				"proposed amount %s does not cover payments of %s already recorded on loan %d",
				reschedule.NewAmount, paid.Add(discount), loan.ID)
		}

		if _, err := r.Installments.DeleteUnpaid(ctx, loan.ID); err != nil {
			return err
		}
		lastSeq, err := r.Installments.LastSequence(ctx, loan.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		schedule, err := utils.GenerateSchedule(utils.ScheduleParams{
			Principal:     unpaid,
			Rate:          reschedule.NewRate,
			TermPeriods:   reschedule.NewTerm,
			Frequency:     reschedule.NewFrequency,
			StartDate:     now,
			StartSequence: lastSeq + 1,
		})
		if err != nil {
			return err
		}
		if err := r.Installments.CreateBatch(ctx, loan.ID, schedule); err != nil {
			return err
		}

		loan.AmountApproved = reschedule.NewAmount
		loan.Rate = reschedule.NewRate
		loan.TermPeriods = reschedule.NewTerm
		loan.Frequency = reschedule.NewFrequency
		loan.RescheduleCount++
		maturity := schedule[len(schedule)-1].ScheduledDate
		loan.MaturityDate = &maturity
		if err := r.Loans.Update(ctx, loan); err != nil {
			return err
		}

		decidedBy := actor.UserID
		reschedule.Status = domain.RescheduleStatusApplied
		reschedule.DecidedBy = &decidedBy
		if err := r.Reschedules.Update(ctx, reschedule); err != nil {
			return err
		}

		return r.History.Create(ctx, &domain.LoanHistory{
			LoanID:  loan.ID,
			Action:  "RESCHEDULED",
			Detail: fmt.Sprintf("terms changed to %s at %s%% x %d %s over unpaid balance %s",
				reschedule.NewAmount, reschedule.NewRate, reschedule.NewTerm, reschedule.NewFrequency, unpaid),
			ActorID: actor.UserID,
		})
	})
	if err != nil {
		logger.ExitMethodWithError("RescheduleService.ApproveReschedule", err)
		return nil, err
	}

	s.notifyRequester(ctx, reschedule, actor, "Reschedule applied",
		fmt.Sprintf("The reschedule on loan #%d was approved and applied", reschedule.LoanID))

	logger.ExitMethod("RescheduleService.ApproveReschedule", "reschedule_id", reschedule.ID)
	return reschedule, nil
}

func (s *rescheduleService) RejectReschedule(ctx context.Context, actor domain.Actor, rescheduleID int64, reason string) (*domain.Reschedule, error) {
	logger.EnterMethod("RescheduleService.RejectReschedule", "actor_id", actor.UserID, "reschedule_id", rescheduleID)

	if !actor.Role.ManagerLevel() {
		return nil, fmt.Errorf("only managers may reject reschedules: %w", domain.ErrForbidden)
	}
	if reason == "" {
		return nil, domain.NewValidationError("reason", "rejection requires a reason")
	}

	reschedule, err := s.repos.Reschedules.GetByID(ctx, rescheduleID)
	if err != nil {
		return nil, err
	}
	if reschedule.Status != domain.RescheduleStatusPending {
		return nil, domain.NewStateConflictError("reschedule",
			fmt.Sprintf("cannot reject a reschedule in status %s", reschedule.Status))
	}

	decidedBy := actor.UserID
	reschedule.Status = domain.RescheduleStatusRejected
	reschedule.Reason = reason
	reschedule.DecidedBy = &decidedBy
	if err := s.repos.Reschedules.Update(ctx, reschedule); err != nil {
		logger.ExitMethodWithError("RescheduleService.RejectReschedule", err)
		return nil, err
	}

	s.notifyRequester(ctx, reschedule, actor, "Reschedule rejected",
		fmt.Sprintf("The reschedule on loan #%d was rejected: %s", reschedule.LoanID, reason))

	logger.ExitMethod("RescheduleService.RejectReschedule", "reschedule_id", reschedule.ID)
	return reschedule, nil
}

func (s *rescheduleService) ListReschedules(ctx context.Context, loanID int64) ([]domain.Reschedule, error) {
	return s.repos.Reschedules.ListByLoan(ctx, loanID)
}

func (s *rescheduleService) notifyRequester(ctx context.Context, reschedule *domain.Reschedule, actor domain.Actor, title, message string) {
	if reschedule.RequestedBy == actor.UserID {
		return
	}
	requesterID := reschedule.RequestedBy
	_ = s.repos.Notifications.Create(ctx, &domain.Notification{
		UserID:  &requesterID,
		Title:   title,
		Message: message,
		RefType: "RESCHEDULE",
		RefID:   reschedule.ID,
	})
}
