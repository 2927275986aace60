package services

import (
	"time"
)

type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyInfo    NotificationType = "info"
)

type Notification struct {
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
}

// ActionResult is returned by every named action (confirm, cancel, mark-paid...).
type ActionResult struct {
	Success      bool         `json:"success"`
	Notification Notification `json:"notification"`
	Record       any          `json:"record,omitempty"`
}

func succeeded(title, message string, record any) ActionResult {
	return ActionResult{
		Success:      true,
		Notification: Notification{Type: NotifySuccess, Title: title, Message: message},
		Record:       record,
	}
}

// clock returns now unless overridden; tests pin the date.
func clock(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}
