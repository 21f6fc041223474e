package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/repository"
)

type installmentRepository struct {
	db DBTX
}

func NewInstallmentRepository(db DBTX) repository.InstallmentRepository {
	return &installmentRepository{db: db}
}

const installmentColumns = `id, loan_id, sequence, scheduled_date, total, principal, interest, paid, status, created_on, updated_on`

func (r *installmentRepository) CreateBatch(ctx context.Context, loanID int64, installments []domain.Installment) error {
	query := `INSERT INTO installments (loan_id, sequence, scheduled_date, total, principal, interest, paid, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	for i := range installments {
		inst := &installments[i]
		inst.LoanID = loanID
		inst.CreatedOn = now
		inst.UpdatedOn = now
		if err := r.db.QueryRowContext(ctx, query,
			loanID, inst.Sequence, inst.ScheduledDate, inst.Total, inst.Principal,
			inst.Interest, inst.Paid, inst.Status, now, now,
		).Scan(&inst.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *installmentRepository) GetByID(ctx context.Context, id int64) (*domain.Installment, error) {
	inst := &domain.Installment{}
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&inst.ID, &inst.LoanID, &inst.Sequence,
		&inst.ScheduledDate, &inst.Total, &inst.Principal, &inst.Interest, &inst.Paid,
		&inst.Status, &inst.CreatedOn, &inst.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("installment", id)
	}
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func (r *installmentRepository) ListByLoan(ctx context.Context, loanID int64) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 ORDER BY sequence ASC`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInstallments(rows)
}

func (r *installmentRepository) Update(ctx context.Context, inst *domain.Installment) error {
	query := `UPDATE installments SET paid=$1, status=$2, updated_on=$3 WHERE id=$4`
	inst.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query, inst.Paid, inst.Status, inst.UpdatedOn, inst.ID)
	return err
}

func (r *installmentRepository) LastSequence(ctx context.Context, loanID int64) (int, error) {
	var seq int
	query := `SELECT COALESCE(MAX(sequence), 0) FROM installments WHERE loan_id = $1`
	err := r.db.QueryRowContext(ctx, query, loanID).Scan(&seq)
	return seq, err
}

func (r *installmentRepository) DeleteUnpaid(ctx context.Context, loanID int64) (int64, error) {
	// The overdue sweep moves untouched Pending rows to Overdue; both are
	// still unpaid debt and get replaced together. Anything with money on it
	// stays, whatever its status says.
	query := `DELETE FROM installments WHERE loan_id = $1 AND status IN ($2, $3) AND paid = 0`
	res, err := r.db.ExecContext(ctx, query, loanID,
		domain.InstallmentStatusPending, domain.InstallmentStatusOverdue)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *installmentRepository) DeleteByLoan(ctx context.Context, loanID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM installments WHERE loan_id = $1`, loanID)
	return err
}

func (r *installmentRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	// Status guard makes the sweep idempotent: rows already Overdue match
	// nothing on a second run.
	query := `UPDATE installments SET status = $1, updated_on = NOW()
	          WHERE status IN ($2, $3) AND scheduled_date < $4`
	res, err := r.db.ExecContext(ctx, query,
		domain.InstallmentStatusOverdue,
		domain.InstallmentStatusPending, domain.InstallmentStatusPartial,
		asOf)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanInstallments(rows *sql.Rows) ([]domain.Installment, error) {
	var installments []domain.Installment
	for rows.Next() {
		var inst domain.Installment
		if err := rows.Scan(&inst.ID, &inst.LoanID, &inst.Sequence, &inst.ScheduledDate,
			&inst.Total, &inst.Principal, &inst.Interest, &inst.Paid, &inst.Status,
			&inst.CreatedOn, &inst.UpdatedOn); err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	return installments, rows.Err()
}
