package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"credicaja-backend/internal/config"
	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/logger"
	"credicaja-backend/internal/repository"
	"credicaja-backend/internal/utils"
)

// allocationTolerance is the residue below which the waterfall stops
// instead of chasing sub-cent remainders.
var allocationTolerance = decimal.NewFromFloat(0.01)

// paidThresholdRatio closes an installment once 99.9% of its total plus
// penalty has been covered, absorbing rounding residue from partial payments.
var paidThresholdRatio = decimal.NewFromFloat(0.999)

// loanPaidTolerance closes the loan when the outstanding balance drops to
// one currency unit or less.
var loanPaidTolerance = decimal.NewFromInt(1)

type paymentService struct {
	repos    *repository.Repositories
	tx       repository.TxManager
	business *config.BusinessConfig
}

func NewPaymentService(repos *repository.Repositories, tx repository.TxManager, business *config.BusinessConfig) PaymentService {
	return &paymentService{repos: repos, tx: tx, business: business}
}

// RecordPayment applies a tendered amount to a loan oldest-installment-first:
// penalty off the top, then interest proportionally, then principal. The
// whole allocation runs in one transaction with the loan row locked, so two
// cashiers posting against the same loan serialize.
func (s *paymentService) RecordPayment(ctx context.Context, actor domain.Actor, req RecordPaymentRequest) (*PaymentResult, error) {
	logger.EnterMethod("PaymentService.RecordPayment", "actor_id", actor.UserID, "loan_id", req.LoanID, "amount", req.Amount)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("amount", "must be greater than zero")
	}
	if req.Discount.IsNegative() {
		return nil, domain.NewValidationError("discount", "must not be negative")
	}
	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	result := &PaymentResult{}
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		loan, err := r.Loans.GetByIDForUpdate(ctx, req.LoanID)
		if err != nil {
			return err
		}
		if !loan.Status.Payable() {
			return domain.NewStateConflictError("loan",
				fmt.Sprintf("cannot record payments on a loan in status %s", loan.Status))
		}

		all, err := r.Installments.ListByLoan(ctx, req.LoanID)
		if err != nil {
			return err
		}
		var open []*domain.Installment
		for i := range all {
			if all[i].Open() {
				open = append(open, &all[i])
			}
		}

		remaining := req.Amount
		var capital, interest, penalty decimal.Decimal
		var allocations []domain.PaymentAllocation

		switch {
		case len(all) == 0:
			// Loans migrated without a schedule: split the whole amount by
			// the loan's blended interest/principal ratio.
			totalPayable := loan.TotalPayable()
			if totalPayable.LessThanOrEqual(decimal.Zero) {
				return domain.NewIntegrityError("loan %d has a non-positive payable total", loan.ID)
			}
			totalInterest := totalPayable.Sub(loan.AmountApproved)
			interest = req.Amount.Mul(totalInterest).Div(totalPayable).Round(2)
			capital = req.Amount.Sub(interest)
			remaining = decimal.Zero

		case len(open) == 0:
			return domain.NewStateConflictError("loan", "all installments are already paid")

		default:
			for _, inst := range open {
				if remaining.LessThanOrEqual(allocationTolerance) {
					break
				}

				pen := decimal.Zero
				if loan.AccruesPenalty {
					pen = utils.Penalty(inst.Principal, s.business.PenaltyMonthlyRate, inst.ScheduledDate, date)
				}
				due := inst.Outstanding().Add(pen)
				if due.LessThanOrEqual(decimal.Zero) {
					continue
				}
				applied := remaining
				if due.LessThan(applied) {
					applied = due
				}

				penPart, intPart, capPart := utils.WaterfallSplit(applied, pen, inst.Interest, inst.Total)
				penalty = penalty.Add(penPart)
				interest = interest.Add(intPart)
				capital = capital.Add(capPart)

				inst.Paid = inst.Paid.Add(applied)
				if inst.Paid.GreaterThanOrEqual(inst.Total.Add(pen).Mul(paidThresholdRatio)) {
					inst.Status = domain.InstallmentStatusPaid
				} else {
					inst.Status = domain.InstallmentStatusPartial
				}
				if err := r.Installments.Update(ctx, inst); err != nil {
					return err
				}

				allocations = append(allocations, domain.PaymentAllocation{
					InstallmentID: inst.ID,
					Amount:        applied,
					Penalty:       penPart,
				})
				remaining = remaining.Sub(applied)
			}
		}

		allocated := req.Amount.Sub(remaining)
		if allocated.LessThanOrEqual(decimal.Zero) {
			return domain.NewStateConflictError("loan", "nothing is owed on this loan")
		}

		payment := &domain.Payment{
			LoanID:     req.LoanID,
			Date:       date,
			Amount:     allocated,
			Capital:    capital,
			Interest:   interest,
			Penalty:    penalty,
			Discount:   req.Discount,
			Reference:  uuid.NewString(),
			RecordedBy: actor.UserID,
		}

		session, err := r.CashSessions.GetOpenByCashier(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if session != nil {
			payment.CashSessionID = &session.ID
			session.Expected = session.Expected.Add(allocated)
			if err := r.CashSessions.Update(ctx, session); err != nil {
				return err
			}
		}

		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}
		for i := range allocations {
			allocations[i].PaymentID = payment.ID
			if err := r.Payments.CreateAllocation(ctx, &allocations[i]); err != nil {
				return err
			}
		}

		sumAmount, sumDiscount, err := r.Payments.SumByLoan(ctx, req.LoanID)
		if err != nil {
			return err
		}
		// Once a schedule exists it is the ledger of record: after a
		// reschedule the loan-level terms describe the regenerated balance,
		// not what is still collectible, so the outstanding figure comes from
		// the installments themselves.
		var outstanding decimal.Decimal
		if len(all) == 0 {
			outstanding = loan.TotalPayable().Sub(sumAmount).Sub(sumDiscount)
		} else {
			for i := range all {
				if o := all[i].Outstanding(); o.IsPositive() {
					outstanding = outstanding.Add(o)
				}
			}
			outstanding = outstanding.Sub(sumDiscount)
		}
		if outstanding.LessThan(loanPaidTolerance.Neg()) {
			return domain.NewIntegrityError("payments on loan %d exceed the amount owed by %s",
				loan.ID, outstanding.Neg())
		}

		if loan.Status == domain.LoanStatusApproved {
			loan.Status = domain.LoanStatusActive
		}
		if outstanding.LessThanOrEqual(loanPaidTolerance) {
			loan.Status = domain.LoanStatusPaid
		}
		if err := r.Loans.Update(ctx, loan); err != nil {
			return err
		}

		if err := r.History.Create(ctx, &domain.LoanHistory{
			LoanID:  loan.ID,
			Action:  "PAYMENT",
			Detail:  fmt.Sprintf("payment %s (capital %s, interest %s, penalty %s)", allocated, capital, interest, penalty),
			ActorID: actor.UserID,
		}); err != nil {
			return err
		}

		result.Payment = payment
		result.Remainder = remaining
		result.LoanPaid = loan.Status == domain.LoanStatusPaid
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("PaymentService.RecordPayment", err)
		return nil, err
	}

	if !actor.Role.ManagerLevel() {
		managerRole := domain.RoleManager
		_ = s.repos.Notifications.Create(ctx, &domain.Notification{
			Role:    &managerRole,
			Title:   "Payment recorded",
			Message: fmt.Sprintf("Payment of %s recorded on loan #%d", result.Payment.Amount, req.LoanID),
			RefType: "PAYMENT",
			RefID:   result.Payment.ID,
		})
	}

	logger.ExitMethod("PaymentService.RecordPayment",
		"payment_id", result.Payment.ID, "remainder", result.Remainder, "loan_paid", result.LoanPaid)
	return result, nil
}

// DeletePayment reverses a payment allocation-by-allocation and removes it.
// Installment paid amounts shrink by exactly what the payment contributed,
// so every other payment's effect survives intact.
func (s *paymentService) DeletePayment(ctx context.Context, actor domain.Actor, paymentID int64) error {
	logger.EnterMethod("PaymentService.DeletePayment", "actor_id", actor.UserID, "payment_id", paymentID)

	if !actor.Role.ManagerLevel() {
		return fmt.Errorf("only managers may delete payments: %w", domain.ErrForbidden)
	}

	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		payment, err := r.Payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		loan, err := r.Loans.GetByIDForUpdate(ctx, payment.LoanID)
		if err != nil {
			return err
		}

		allocations, err := r.Payments.ListAllocations(ctx, paymentID)
		if err != nil {
			return err
		}
		for _, alloc := range allocations {
			inst, err := r.Installments.GetByID(ctx, alloc.InstallmentID)
			if err != nil {
				return err
			}
			inst.Paid = inst.Paid.Sub(alloc.Amount)
			if inst.Paid.LessThanOrEqual(decimal.Zero) {
				inst.Paid = decimal.Zero
				inst.Status = domain.InstallmentStatusPending
			} else {
				inst.Status = domain.InstallmentStatusPartial
			}
			if err := r.Installments.Update(ctx, inst); err != nil {
				return err
			}
		}

		if err := r.Payments.DeleteAllocations(ctx, paymentID); err != nil {
			return err
		}
		if err := r.Payments.Delete(ctx, paymentID); err != nil {
			return err
		}

		if payment.CashSessionID != nil {
			session, err := r.CashSessions.GetByID(ctx, *payment.CashSessionID)
			if err == nil && session.Status == domain.CashSessionOpen {
				session.Expected = session.Expected.Sub(payment.Amount)
				if err := r.CashSessions.Update(ctx, session); err != nil {
					return err
				}
			}
		}

		if loan.Status == domain.LoanStatusPaid {
			loan.Status = domain.LoanStatusActive
			if err := r.Loans.Update(ctx, loan); err != nil {
				return err
			}
		}

		return r.History.Create(ctx, &domain.LoanHistory{
			LoanID:  loan.ID,
			Action:  "PAYMENT_REVERSED",
			Detail:  fmt.Sprintf("payment %s of %s deleted", payment.Reference, payment.Amount),
			ActorID: actor.UserID,
		})
	})
	if err != nil {
		logger.ExitMethodWithError("PaymentService.DeletePayment", err)
		return err
	}

	logger.ExitMethod("PaymentService.DeletePayment", "payment_id", paymentID)
	return nil
}

func (s *paymentService) GetPayment(ctx context.Context, id int64) (*domain.Payment, []domain.PaymentAllocation, error) {
	payment, err := s.repos.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	allocations, err := s.repos.Payments.ListAllocations(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return payment, allocations, nil
}

func (s *paymentService) ListPayments(ctx context.Context, loanID int64) ([]domain.Payment, error) {
	return s.repos.Payments.ListByLoan(ctx, loanID)
}
