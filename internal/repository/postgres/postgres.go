package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"credicaja-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository works
// inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Repositories: newRepositories(db),
	}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Users:         NewUserRepository(db),
		Clients:       NewClientRepository(db),
		Loans:         NewLoanRepository(db),
		Installments:  NewInstallmentRepository(db),
		Payments:      NewPaymentRepository(db),
		Reschedules:   NewRescheduleRepository(db),
		Ledger:        NewLedgerRepository(db),
		History:       NewHistoryRepository(db),
		Notifications: NewNotificationRepository(db),
		CashSessions:  NewCashSessionRepository(db),
	}
}

// ExecTx runs fn inside one transaction with repositories bound to it.
func (s *Store) ExecTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	repos := newRepositories(tx)
	if err := fn(&repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
