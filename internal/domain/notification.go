package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType represents the category of a user-facing event record
type NotificationType string

const (
	NotificationTypePayment       NotificationType = "payment"
	NotificationTypeProjectUpdate NotificationType = "project_update"
	NotificationTypeSecurity      NotificationType = "security"
	NotificationTypeSystem        NotificationType = "system"
)

// Notification represents a user-facing event record created by the ledger
// as a side effect of certain mutations. Only IsRead is ever mutated.
type Notification struct {
	ID        uuid.UUID
	Type      NotificationType
	Title     string
	Message   string
	Timestamp time.Time
	IsRead    bool
	Link      string // Optional deep link
}
