package services

import (
	"errors"

	"salonhub-backend/utils"
)

var (
	ErrInvalidDateRange   = utils.ErrInvalidDateRange
	ErrInvalidPeriod      = errors.New("invalid report period")
	ErrTotalsMismatch     = errors.New("bill totals are inconsistent")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrInvalidResetToken  = errors.New("password reset token is invalid or has expired")
)
