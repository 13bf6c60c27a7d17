package models

import "time"

type NotificationType string

const (
	NotificationPaymentReminder     NotificationType = "payment_reminder"
	NotificationPaymentConfirmation NotificationType = "payment_confirmation"
	NotificationPaymentFailed       NotificationType = "payment_failed"
	NotificationSystemUpdate        NotificationType = "system_update"
)

type NotificationStatus string

const (
	NotificationSent      NotificationStatus = "sent"
	NotificationDelivered NotificationStatus = "delivered"
	NotificationRead      NotificationStatus = "read"
	NotificationFailed    NotificationStatus = "failed"
)

type Notification struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Type      NotificationType   `json:"type"`
	Title     string             `json:"title"`
	Message   string             `json:"message"`
	Status    NotificationStatus `json:"status"`
	Data      map[string]any     `json:"data,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	ReadAt    *time.Time         `json:"readAt,omitempty"`
}

type NotificationRequest struct {
	UserID  string         `json:"userId" validate:"required,uuid"`
	Type    string         `json:"type" validate:"required"`
	Title   string         `json:"title" validate:"required,min=1,max=255"`
	Message string         `json:"message" validate:"required,min=1,max=1000"`
	Data    map[string]any `json:"data,omitempty"`
}

type NotificationResponse struct {
	Notification Notification `json:"notification"`
}

// NotificationListRequest filters the history listing. The server scopes it
// to the caller, so UserID is optional.
type NotificationListRequest struct {
	UserID string             `json:"userId,omitempty" validate:"omitempty,uuid"`
	Status NotificationStatus `json:"status,omitempty"`
	Limit  int                `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Offset int                `json:"offset,omitempty" validate:"min=0"`
}

type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	UnreadCount   int            `json:"unreadCount"`
}

type MarkNotificationReadRequest struct {
	NotificationID string `json:"notificationId" validate:"required,uuid"`
}
