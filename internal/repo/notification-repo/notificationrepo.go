package notificationrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	query := `
		INSERT INTO notifications (id, recipient_id, title, message, type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, n.ID, n.RecipientID, n.Title, n.Message, n.Type, n.Status).Scan(&n.CreatedAt)
	if err != nil {
		zap.L().Error("can't save notification", zap.Error(err))
		return nil, err
	}
	return n, nil
}

func (r *Repository) FindPending(ctx context.Context, limit uint32) ([]domain.Notification, error) {
	query := `
        SELECT id, recipient_id, title, message, type, status, created_at
        FROM notifications
        WHERE status = 'PENDING'
        ORDER BY created_at ASC
		LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, int(limit))
	if err != nil {
		zap.L().Error("can't get pending notifications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.Type, &n.Status, &n.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan notification row", zap.Error(err))
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.NotificationStatus) error {
	query := `
        UPDATE notifications
        SET status = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		zap.L().Error("failed to update notification status", zap.Error(err))
		return err
	}
	return nil
}
