package model

import "time"

// Notification is a short message shown to a user on their dashboard.
type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateNotificationRequest is the admin payload for sending a notification.
// UserID zero broadcasts to every active account.
type CreateNotificationRequest struct {
	UserID  int    `json:"user_id" binding:"omitempty"`
	Message string `json:"message" binding:"required,min=1,max=500"`
}
