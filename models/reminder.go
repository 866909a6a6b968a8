package models

const (
	ReminderBirthday    = "birthday"
	ReminderAppointment = "appointment"
)

// ReminderTemplate holds the message sent for one reminder type.
// [CustomerName] and [DateTime] are substituted before sending.
type ReminderTemplate struct {
	Base
	Type     string `gorm:"size:20;uniqueIndex;not null" json:"type"`
	Message  string `gorm:"type:text;not null" json:"message"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

func ValidReminderType(t string) bool {
	return t == ReminderBirthday || t == ReminderAppointment
}
