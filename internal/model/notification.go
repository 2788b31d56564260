package model

import "time"

// NotificationType is the severity of a notification
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
)

// Category groups notifications that describe the same condition
type Category string

const (
	CategoryNone     Category = ""
	CategoryDeadline Category = "deadline"
	CategoryBackend  Category = "backend"
)

// Notification is a transient message shown on the board
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Category  Category         `json:"category,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
