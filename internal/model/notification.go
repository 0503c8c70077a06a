package model

import "time"

type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

// NotificationFetchLimit сколько последних уведомлений отдаётся за раз
const NotificationFetchLimit = 40

type Notification struct {
	ID        int64              `json:"notification_id"`
	UserID    int64              `json:"user_id"`
	Message   string             `json:"message"`
	Status    NotificationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}
