package postgres

import (
	"context"
	"time"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (user_id, role, title, message, ref_type, ref_id, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	n.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, n.UserID, n.Role, n.Title, n.Message,
		n.RefType, n.RefID, n.IsRead, n.CreatedOn).Scan(&n.ID)
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID int64, role domain.Role, page, pageSize int) ([]domain.Notification, int64, error) {
	where := `WHERE (user_id = $1 OR role = $2)`

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications `+where, userID, role).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, user_id, role, title, message, ref_type, ref_id, is_read, created_on
	          FROM notifications ` + where + ` ORDER BY created_on DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, userID, role, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Role, &n.Title, &n.Message,
			&n.RefType, &n.RefID, &n.IsRead, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND (user_id = $2 OR user_id IS NULL)`
	_, err := r.db.ExecContext(ctx, query, id, userID)
	return err
}

func (r *notificationRepository) DeleteByRef(ctx context.Context, refType string, refID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE ref_type = $1 AND ref_id = $2`, refType, refID)
	return err
}
