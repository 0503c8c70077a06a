package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/base"
)

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(db base.DBTX) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(db)}
}

// CreateBatch сохраняет уведомления; вызывается в той же транзакции,
// что и изменение статуса записи
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications ...*model.Notification) error {
	query := `
		INSERT INTO notifications (user_id, message, status)
		VALUES ($1, $2, $3)
		RETURNING notification_id, created_at
	`

	for _, n := range notifications {
		if n.Status == "" {
			n.Status = model.NotificationStatusUnread
		}
		err := r.QueryRow(ctx, query, n.UserID, n.Message, string(n.Status)).Scan(&n.ID, &n.CreatedAt)
		if err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
	}

	return nil
}

// ListByUser получает последние уведомления пользователя, новые первыми
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.Notification, error) {
	query := `
		SELECT notification_id, user_id, message, status, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, notification_id DESC
		LIMIT $2
	`

	rows, err := r.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	return base.CollectRows(rows, func(row pgx.Rows) (*model.Notification, error) {
		var n model.Notification
		if err := row.Scan(&n.ID, &n.UserID, &n.Message, &n.Status, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		return &n, nil
	})
}

// CountUnread считает непрочитанные уведомления пользователя
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM notifications
		WHERE user_id = $1 AND status = 'unread'
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead помечает уведомление прочитанным. Повторный вызов ничего не меняет,
// false возвращается только если уведомления нет.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `
		UPDATE notifications
		SET status = 'read'
		WHERE notification_id = $1
	`, id)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return affected == 1, nil
}
