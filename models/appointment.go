package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

type Appointment struct {
	Base

	CustomerID uuid.UUID  `gorm:"size:36;index;not null" json:"customerId"`
	ServiceID  uuid.UUID  `gorm:"size:36;index;not null" json:"serviceId"`
	StaffID    *uuid.UUID `gorm:"size:36;index" json:"staffId"`
	DateTime   time.Time  `gorm:"index;not null" json:"dateTime"`
	Status     string     `gorm:"size:20;default:confirmed" json:"status"`
	Notes      string     `gorm:"type:text" json:"notes"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Service  *Service  `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Staff    *Staff    `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentConfirmed, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}
