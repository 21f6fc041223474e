package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/repository"
)

type loanRepository struct {
	db DBTX
}

func NewLoanRepository(db DBTX) repository.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, client_id, created_by, amount_requested, amount_approved, rate, term_periods, frequency, status, accrues_penalty, reschedule_count, origination_date, maturity_date, reject_reason, created_on, updated_on`

func (r *loanRepository) Create(ctx context.Context, l *domain.Loan) error {
	query := `INSERT INTO loans (client_id, created_by, amount_requested, amount_approved, rate, term_periods, frequency, status, accrues_penalty, reschedule_count, origination_date, maturity_date, reject_reason, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	now := time.Now()
	l.CreatedOn = now
	l.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		l.ClientID, l.CreatedBy, l.AmountRequested, l.AmountApproved, l.Rate,
		l.TermPeriods, l.Frequency, l.Status, l.AccruesPenalty, l.RescheduleCount,
		l.OriginationDate, l.MaturityDate, l.RejectReason, now, now,
	).Scan(&l.ID)
}

func (r *loanRepository) scanLoan(row *sql.Row) (*domain.Loan, error) {
	l := &domain.Loan{}
	err := row.Scan(&l.ID, &l.ClientID, &l.CreatedBy, &l.AmountRequested, &l.AmountApproved,
		&l.Rate, &l.TermPeriods, &l.Frequency, &l.Status, &l.AccruesPenalty,
		&l.RescheduleCount, &l.OriginationDate, &l.MaturityDate, &l.RejectReason,
		&l.CreatedOn, &l.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *loanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	l, err := r.scanLoan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("loan", id)
	}
	return l, err
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`
	l, err := r.scanLoan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("loan", id)
	}
	return l, err
}

func (r *loanRepository) Update(ctx context.Context, l *domain.Loan) error {
	query := `UPDATE loans SET amount_approved=$1, rate=$2, term_periods=$3, frequency=$4, status=$5, accrues_penalty=$6, reschedule_count=$7, origination_date=$8, maturity_date=$9, reject_reason=$10, updated_on=$11 WHERE id=$12`
	l.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		l.AmountApproved, l.Rate, l.TermPeriods, l.Frequency, l.Status,
		l.AccruesPenalty, l.RescheduleCount, l.OriginationDate, l.MaturityDate,
		l.RejectReason, l.UpdatedOn, l.ID)
	return err
}

func (r *loanRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	return err
}

func (r *loanRepository) ListByClient(ctx context.Context, clientID int64, page, pageSize int) ([]domain.Loan, int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans WHERE client_id = $1`, clientID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + loanColumns + ` FROM loans WHERE client_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, clientID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	loans, err := scanLoans(rows)
	return loans, count, err
}

func (r *loanRepository) List(ctx context.Context, status domain.LoanStatus, page, pageSize int) ([]domain.Loan, int64, error) {
	where := ""
	args := []interface{}{}
	argIdx := 1
	if status != "" {
		where = fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT `+loanColumns+` FROM loans%s ORDER BY created_on DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	loans, err := scanLoans(rows)
	return loans, count, err
}

func (r *loanRepository) CountByClient(ctx context.Context, clientID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans WHERE client_id = $1`, clientID).Scan(&count)
	return count, err
}

func scanLoans(rows *sql.Rows) ([]domain.Loan, error) {
	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		if err := rows.Scan(&l.ID, &l.ClientID, &l.CreatedBy, &l.AmountRequested, &l.AmountApproved,
			&l.Rate, &l.TermPeriods, &l.Frequency, &l.Status, &l.AccruesPenalty,
			&l.RescheduleCount, &l.OriginationDate, &l.MaturityDate, &l.RejectReason,
			&l.CreatedOn, &l.UpdatedOn); err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
