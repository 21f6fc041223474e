package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/repository"
)

type clientRepository struct {
	db DBTX
}

func NewClientRepository(db DBTX) repository.ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, document, first_name, last_name, phone, email, address, active, created_by, created_on, updated_on`

func (r *clientRepository) Create(ctx context.Context, c *domain.Client) error {
	query := `INSERT INTO clients (document, first_name, last_name, phone, email, address, active, created_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	c.CreatedOn = now
	c.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		c.Document, c.FirstName, c.LastName, c.Phone, c.Email, c.Address,
		c.Active, c.CreatedBy, now, now,
	).Scan(&c.ID)
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	c := &domain.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Document, &c.FirstName,
		&c.LastName, &c.Phone, &c.Email, &c.Address, &c.Active, &c.CreatedBy,
		&c.CreatedOn, &c.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("client", id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *clientRepository) GetByDocument(ctx context.Context, document string) (*domain.Client, error) {
	c := &domain.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE document = $1`
	err := r.db.QueryRowContext(ctx, query, document).Scan(&c.ID, &c.Document, &c.FirstName,
		&c.LastName, &c.Phone, &c.Email, &c.Address, &c.Active, &c.CreatedBy,
		&c.CreatedOn, &c.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *clientRepository) Update(ctx context.Context, c *domain.Client) error {
	query := `UPDATE clients SET document=$1, first_name=$2, last_name=$3, phone=$4, email=$5, address=$6, active=$7, updated_on=$8 WHERE id=$9`
	c.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query, c.Document, c.FirstName, c.LastName,
		c.Phone, c.Email, c.Address, c.Active, c.UpdatedOn, c.ID)
	return err
}

func (r *clientRepository) List(ctx context.Context, page, pageSize int) ([]domain.Client, int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM clients`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY last_name ASC, first_name ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Document, &c.FirstName, &c.LastName, &c.Phone,
			&c.Email, &c.Address, &c.Active, &c.CreatedBy, &c.CreatedOn, &c.UpdatedOn); err != nil {
			return nil, 0, err
		}
		clients = append(clients, c)
	}
	return clients, count, rows.Err()
}
