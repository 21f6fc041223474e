package postgres

import (
	"context"
	"time"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/repository"
)

type ledgerRepository struct {
	db DBTX
}

func NewLedgerRepository(db DBTX) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (loan_id, type, amount, description, created_by, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	e.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, e.LoanID, e.Type, e.Amount, e.Description, e.CreatedBy, e.CreatedOn).Scan(&e.ID)
}

func (r *ledgerRepository) ListByLoan(ctx context.Context, loanID int64) ([]domain.LedgerEntry, error) {
	query := `SELECT id, loan_id, type, amount, description, created_by, created_on FROM ledger_entries WHERE loan_id = $1 ORDER BY created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.LoanID, &e.Type, &e.Amount, &e.Description, &e.CreatedBy, &e.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ledgerRepository) DeleteByLoan(ctx context.Context, loanID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM ledger_entries WHERE loan_id = $1`, loanID)
	return err
}
