package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/repository"
)

type cashSessionRepository struct {
	db DBTX
}

func NewCashSessionRepository(db DBTX) repository.CashSessionRepository {
	return &cashSessionRepository{db: db}
}

const cashSessionColumns = `id, cashier_id, status, opening, expected, counted, difference, opened_on, closed_on`

func (r *cashSessionRepository) Create(ctx context.Context, s *domain.CashSession) error {
	query := `INSERT INTO cash_sessions (cashier_id, status, opening, expected, counted, difference, opened_on, closed_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	s.OpenedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, s.CashierID, s.Status, s.Opening,
		s.Expected, s.Counted, s.Difference, s.OpenedOn, s.ClosedOn).Scan(&s.ID)
}

func (r *cashSessionRepository) GetByID(ctx context.Context, id int64) (*domain.CashSession, error) {
	s := &domain.CashSession{}
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.CashierID, &s.Status,
		&s.Opening, &s.Expected, &s.Counted, &s.Difference, &s.OpenedOn, &s.ClosedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("cash session", id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *cashSessionRepository) GetOpenByCashier(ctx context.Context, cashierID int64) (*domain.CashSession, error) {
	s := &domain.CashSession{}
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE cashier_id = $1 AND status = $2`
	err := r.db.QueryRowContext(ctx, query, cashierID, domain.CashSessionOpen).Scan(&s.ID,
		&s.CashierID, &s.Status, &s.Opening, &s.Expected, &s.Counted, &s.Difference,
		&s.OpenedOn, &s.ClosedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *cashSessionRepository) Update(ctx context.Context, s *domain.CashSession) error {
	query := `UPDATE cash_sessions SET status=$1, expected=$2, counted=$3, difference=$4, closed_on=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, s.Status, s.Expected, s.Counted, s.Difference, s.ClosedOn, s.ID)
	return err
}

func (r *cashSessionRepository) List(ctx context.Context, page, pageSize int) ([]domain.CashSession, int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM cash_sessions`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions ORDER BY opened_on DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []domain.CashSession
	for rows.Next() {
		var s domain.CashSession
		if err := rows.Scan(&s.ID, &s.CashierID, &s.Status, &s.Opening, &s.Expected,
			&s.Counted, &s.Difference, &s.OpenedOn, &s.ClosedOn); err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}
	return sessions, count, rows.Err()
}
