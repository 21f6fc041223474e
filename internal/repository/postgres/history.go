package postgres

import (
	"context"
	"time"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/repository"
)

type historyRepository struct {
	db DBTX
}

func NewHistoryRepository(db DBTX) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, h *domain.LoanHistory) error {
	query := `INSERT INTO loan_history (loan_id, action, detail, actor_id, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	h.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, h.LoanID, h.Action, h.Detail, h.ActorID, h.CreatedOn).Scan(&h.ID)
}

func (r *historyRepository) ListByLoan(ctx context.Context, loanID int64) ([]domain.LoanHistory, error) {
	query := `SELECT id, loan_id, action, detail, actor_id, created_on FROM loan_history WHERE loan_id = $1 ORDER BY created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LoanHistory
	for rows.Next() {
		var h domain.LoanHistory
		if err := rows.Scan(&h.ID, &h.LoanID, &h.Action, &h.Detail, &h.ActorID, &h.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

func (r *historyRepository) DeleteByLoan(ctx context.Context, loanID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM loan_history WHERE loan_id = $1`, loanID)
	return err
}
