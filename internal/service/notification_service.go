package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_scheduler/internal/apperr"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository"
)

// Inbox последние уведомления пользователя и число непрочитанных
type Inbox struct {
	Notifications []*model.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

type NotificationService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewNotificationService(store repository.Store, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		logger: logger,
	}
}

// List возвращает не больше model.NotificationFetchLimit уведомлений, новые первыми
func (s *NotificationService) List(ctx context.Context, userID int64) (*Inbox, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}

	notes, err := s.store.ListNotifications(ctx, userID, model.NotificationFetchLimit)
	if err != nil {
		return nil, storeError("get notifications", err)
	}

	unread, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return nil, storeError("count unread notifications", err)
	}

	return &Inbox{Notifications: notes, UnreadCount: unread}, nil
}

// MarkRead помечает уведомление прочитанным; повторный вызов тоже успешен
func (s *NotificationService) MarkRead(ctx context.Context, notificationID int64) error {
	if err := requireID("notification_id", notificationID); err != nil {
		return err
	}

	found, err := s.store.MarkNotificationRead(ctx, notificationID)
	if err != nil {
		return storeError("mark notification read", err)
	}
	if !found {
		return apperr.NotFound("notification %d not found", notificationID)
	}

	s.logger.Debug("Notification marked read", zap.Int64("notification_id", notificationID))
	return nil
}
