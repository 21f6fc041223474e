package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/repository"
)

type paymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, loan_id, date, amount, capital, interest, penalty, discount, reference, recorded_by, cash_session_id, created_on`

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (loan_id, date, amount, capital, interest, penalty, discount, reference, recorded_by, cash_session_id, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	p.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query,
		p.LoanID, p.Date, p.Amount, p.Capital, p.Interest, p.Penalty, p.Discount,
		p.Reference, p.RecordedBy, p.CashSessionID, p.CreatedOn,
	).Scan(&p.ID)
}

func (r *paymentRepository) CreateAllocation(ctx context.Context, a *domain.PaymentAllocation) error {
	query := `INSERT INTO payment_allocations (payment_id, installment_id, amount, penalty)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, a.PaymentID, a.InstallmentID, a.Amount, a.Penalty).Scan(&a.ID)
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.LoanID, &p.Date, &p.Amount,
		&p.Capital, &p.Interest, &p.Penalty, &p.Discount, &p.Reference, &p.RecordedBy,
		&p.CashSessionID, &p.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("payment", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) ListByLoan(ctx context.Context, loanID int64) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE loan_id = $1 ORDER BY date ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.Date, &p.Amount, &p.Capital, &p.Interest,
			&p.Penalty, &p.Discount, &p.Reference, &p.RecordedBy, &p.CashSessionID, &p.CreatedOn); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) ListAllocations(ctx context.Context, paymentID int64) ([]domain.PaymentAllocation, error) {
	query := `SELECT id, payment_id, installment_id, amount, penalty FROM payment_allocations WHERE payment_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allocs []domain.PaymentAllocation
	for rows.Next() {
		var a domain.PaymentAllocation
		if err := rows.Scan(&a.ID, &a.PaymentID, &a.InstallmentID, &a.Amount, &a.Penalty); err != nil {
			return nil, err
		}
		allocs = append(allocs, a)
	}
	return allocs, rows.Err()
}

func (r *paymentRepository) SumByLoan(ctx context.Context, loanID int64) (decimal.Decimal, decimal.Decimal, error) {
	var amount, discount decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(discount), 0) FROM payments WHERE loan_id = $1`
	err := r.db.QueryRowContext(ctx, query, loanID).Scan(&amount, &discount)
	return amount, discount, err
}

func (r *paymentRepository) CountByLoan(ctx context.Context, loanID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM payments WHERE loan_id = $1`, loanID).Scan(&count)
	return count, err
}

func (r *paymentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return err
}

func (r *paymentRepository) DeleteAllocations(ctx context.Context, paymentID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM payment_allocations WHERE payment_id = $1`, paymentID)
	return err
}

func (r *paymentRepository) DeleteByLoan(ctx context.Context, loanID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM payment_allocations WHERE payment_id IN (SELECT id FROM payments WHERE loan_id = $1)`, loanID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE loan_id = $1`, loanID)
	return err
}
