package models

import (
	"time"
)

const (
	GenderMale           = "male"
	GenderFemale         = "female"
	GenderOther          = "other"
	GenderPreferNotToSay = "prefer_not_to_say"
)

type Customer struct {
	Base

	FirstName   string     `gorm:"not null" json:"firstName"`
	LastName    string     `json:"lastName"`
	PhoneNumber string     `gorm:"size:32;uniqueIndex;not null" json:"phoneNumber"`
	Email       string     `json:"email"`
	Address     string     `json:"address"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Gender      string     `gorm:"size:20" json:"gender"`
	Notes       string     `gorm:"type:text" json:"notes"`

	// Running aggregates maintained after each bill.
	TotalVisits int        `gorm:"default:0" json:"totalVisits"`
	TotalSpent  int64      `gorm:"default:0" json:"totalSpent"`
	LastVisit   *time.Time `json:"lastVisit"`
}

func (c Customer) FullName() string {
	return joinName(c.FirstName, c.LastName)
}

func ValidGender(g string) bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}
