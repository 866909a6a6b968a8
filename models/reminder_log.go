// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type ReminderLog struct {
	Base
	CustomerID   uuid.UUID `gorm:"size:36;index;not null" json:"customerId"`
	Type         string    `gorm:"size:20" json:"type"` // birthday, appointment
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"size:20" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	Channel      string    `gorm:"size:20" json:"channel"` // whatsapp, sms
	SentAt       time.Time `json:"sentAt"`
}
