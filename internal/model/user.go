package model

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             int64     `json:"user_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"` // nil - не подключён к боту
	CreatedAt      time.Time `json:"created_at"`
}
