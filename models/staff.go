package models

import "time"

type Staff struct {
	Base

	FirstName    string     `gorm:"not null" json:"firstName"`
	LastName     string     `json:"lastName"`
	PhoneNumber  string     `gorm:"size:32" json:"phoneNumber"`
	Email        string     `json:"email"`
	HireDate     *time.Time `json:"hireDate"`
	Salary       float64    `gorm:"type:decimal(10,2);default:0" json:"salary"`
	Availability bool       `gorm:"default:true" json:"availability"`
	Notes        string     `gorm:"type:text" json:"notes"`
}

// TableName keeps the plural form out of "staffs".
func (Staff) TableName() string {
	return "staff"
}

func (s Staff) FullName() string {
	return joinName(s.FirstName, s.LastName)
}
