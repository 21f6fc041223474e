package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/repository"
)

type rescheduleRepository struct {
	db DBTX
}

func NewRescheduleRepository(db DBTX) repository.RescheduleRepository {
	return &rescheduleRepository{db: db}
}

const rescheduleColumns = `id, loan_id, new_amount, new_rate, new_term, new_frequency, prev_amount, prev_rate, prev_term, prev_frequency, status, reason, requested_by, decided_by, created_on, updated_on`

func (r *rescheduleRepository) Create(ctx context.Context, rs *domain.Reschedule) error {
	query := `INSERT INTO reschedules (loan_id, new_amount, new_rate, new_term, new_frequency, prev_amount, prev_rate, prev_term, prev_frequency, status, reason, requested_by, decided_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	now := time.Now()
	rs.CreatedOn = now
	rs.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		rs.LoanID, rs.NewAmount, rs.NewRate, rs.NewTerm, rs.NewFrequency,
		rs.PrevAmount, rs.PrevRate, rs.PrevTerm, rs.PrevFrequency,
		rs.Status, rs.Reason, rs.RequestedBy, rs.DecidedBy, now, now,
	).Scan(&rs.ID)
}

func (r *rescheduleRepository) GetByID(ctx context.Context, id int64) (*domain.Reschedule, error) {
	rs := &domain.Reschedule{}
	query := `SELECT ` + rescheduleColumns + ` FROM reschedules WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rs.ID, &rs.LoanID,
		&rs.NewAmount, &rs.NewRate, &rs.NewTerm, &rs.NewFrequency,
		&rs.PrevAmount, &rs.PrevRate, &rs.PrevTerm, &rs.PrevFrequency,
		&rs.Status, &rs.Reason, &rs.RequestedBy, &rs.DecidedBy, &rs.CreatedOn, &rs.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("reschedule", id)
	}
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (r *rescheduleRepository) Update(ctx context.Context, rs *domain.Reschedule) error {
	query := `UPDATE reschedules SET status=$1, reason=$2, decided_by=$3, updated_on=$4 WHERE id=$5`
	rs.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query, rs.Status, rs.Reason, rs.DecidedBy, rs.UpdatedOn, rs.ID)
	return err
}

func (r *rescheduleRepository) ListByLoan(ctx context.Context, loanID int64) ([]domain.Reschedule, error) {
	query := `SELECT ` + rescheduleColumns + ` FROM reschedules WHERE loan_id = $1 ORDER BY created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reschedules []domain.Reschedule
	for rows.Next() {
		var rs domain.Reschedule
		if err := rows.Scan(&rs.ID, &rs.LoanID,
			&rs.NewAmount, &rs.NewRate, &rs.NewTerm, &rs.NewFrequency,
			&rs.PrevAmount, &rs.PrevRate, &rs.PrevTerm, &rs.PrevFrequency,
			&rs.Status, &rs.Reason, &rs.RequestedBy, &rs.DecidedBy, &rs.CreatedOn, &rs.UpdatedOn); err != nil {
			return nil, err
		}
		reschedules = append(reschedules, rs)
	}
	return reschedules, rows.Err()
}

func (r *rescheduleRepository) CountByLoanAndStatus(ctx context.Context, loanID int64, statuses ...domain.RescheduleStatus) (int64, error) {
	placeholders := make([]string, len(statuses))
	args := []interface{}{loanID}
	for i, s := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, s)
	}
	query := fmt.Sprintf(`SELECT count(*) FROM reschedules WHERE loan_id = $1 AND status IN (%s)`, strings.Join(placeholders, ", "))

	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *rescheduleRepository) DeleteByLoan(ctx context.Context, loanID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reschedules WHERE loan_id = $1`, loanID)
	return err
}
