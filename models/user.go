package models

import (
	"strings"
	"time"

	"salonhub-backend/utils"

	"gorm.io/gorm"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"

	UserActive   = "active"
	UserInactive = "inactive"
)

type User struct {
	Base

	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"size:20;default:admin" json:"role"`
	Branch    string `json:"branch"`
	Status    string `gorm:"size:20;default:active" json:"status"`

	LastLogin *time.Time `json:"lastLogin"`

	ResetPasswordToken   *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
}

// BeforeCreate assigns the id, lower-cases the email and hashes the password.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if err = u.Base.BeforeCreate(tx); err != nil {
		return err
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleAdmin
	}
	if u.Status == "" {
		u.Status = UserActive
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

func (u User) FullName() string {
	return joinName(u.FirstName, u.LastName)
}

func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func ValidUserStatus(s string) bool {
	return s == UserActive || s == UserInactive
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
