package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonhub-backend/config"
	"salonhub-backend/models"
	"salonhub-backend/utils"

	"gorm.io/gorm"
)

// CustomerSync folds a new bill into the customer's running totals.
type CustomerSync struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCustomerSync(db *gorm.DB) *CustomerSync {
	return &CustomerSync{db: db, now: config.NowUTC}
}

// Apply finds the customer by the bill's phone number, creating it on first
// visit, bumps its visit count and spend, and links the bill to it.
func (s *CustomerSync) Apply(ctx context.Context, bill models.Billing) error {
	err := s.apply(ctx, bill)
	if utils.IsDuplicateKeyErr(err) {
		// Lost a race creating the same customer; it exists now.
		err = s.apply(ctx, bill)
	}
	return err
}

func (s *CustomerSync) apply(ctx context.Context, bill models.Billing) error {
	now := s.now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		err := tx.Where("phone_number = ?", bill.PhoneNumber).First(&customer).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			customer = models.Customer{
				FirstName:   bill.FirstName,
				LastName:    bill.LastName,
				PhoneNumber: bill.PhoneNumber,
				Email:       bill.Email,
				DateOfBirth: bill.DateOfBirth,
				TotalVisits: 1,
				TotalSpent:  bill.FinalTotal,
				LastVisit:   &now,
			}
			if err := tx.Create(&customer).Error; err != nil {
				return fmt.Errorf("create customer: %w", err)
			}
		case err != nil:
			return fmt.Errorf("find customer: %w", err)
		default:
			updates := map[string]interface{}{
				"total_visits": gorm.Expr("total_visits + ?", 1),
				"total_spent":  gorm.Expr("total_spent + ?", bill.FinalTotal),
				"last_visit":   now,
			}
			if bill.FirstName != "" {
				updates["first_name"] = bill.FirstName
			}
			if bill.LastName != "" {
				updates["last_name"] = bill.LastName
			}
			if bill.Email != "" {
				updates["email"] = bill.Email
			}
			if bill.DateOfBirth != nil {
				updates["date_of_birth"] = bill.DateOfBirth
			}
			if err := tx.Model(&customer).Updates(updates).Error; err != nil {
				return fmt.Errorf("update customer stats: %w", err)
			}
		}

		return tx.Model(&models.Billing{}).
			Where("id = ?", bill.ID).
			Update("customer_id", customer.ID).Error
	})
}
