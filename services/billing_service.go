package services

import (
	"context"
	"errors"
	"fmt"

	"salonhub-backend/config"
	"salonhub-backend/models"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BillingService owns bill writes: numbering, the totals policy and the
// customer follow-up.
type BillingService struct {
	db     *gorm.DB
	log    *zap.Logger
	tasks  *Tasks
	sync   *CustomerSync
	node   *snowflake.Node
	policy string
}

func NewBillingService(db *gorm.DB, log *zap.Logger, tasks *Tasks, sync *CustomerSync, node *snowflake.Node, policy string) *BillingService {
	return &BillingService{db: db, log: log, tasks: tasks, sync: sync, node: node, policy: policy}
}

// checkPolicy applies the configured totals policy to b. Under the strict
// policy a *TotalsError is returned; otherwise b is flagged and the
// violations logged.
func (s *BillingService) checkPolicy(b *models.Billing) error {
	violations := CheckTotals(*b)
	b.TotalsMismatch = len(violations) > 0
	if len(violations) == 0 {
		return nil
	}
	if s.policy == config.TotalsPolicyStrict {
		return &TotalsError{Violations: violations}
	}
	s.log.Warn("bill totals mismatch",
		zap.String("billNumber", b.BillNumber),
		zap.String("phoneNumber", b.PhoneNumber),
		zap.Strings("violations", violations))
	return nil
}

// Create stores b and schedules the customer update.
func (s *BillingService) Create(ctx context.Context, b *models.Billing) error {
	b.SetCustomerName()
	b.BillNumber = "BILL-" + s.node.Generate().String()
	if err := s.checkPolicy(b); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create bill: %w", err)
	}

	bill := *b
	s.tasks.Go("customer-sync", func(ctx context.Context) error {
		return s.sync.Apply(ctx, bill)
	})
	return nil
}

// Replace overwrites every field of the bill except its identity, number and
// creation time.
func (s *BillingService) Replace(ctx context.Context, id uuid.UUID, b *models.Billing) (*models.Billing, error) {
	var existing models.Billing
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	b.ID = existing.ID
	b.CreatedAt = existing.CreatedAt
	b.BillNumber = existing.BillNumber
	b.SetCustomerName()
	if err := s.checkPolicy(b); err != nil {
		return nil, err
	}

	omit := []string{"id", "created_at", "bill_number"}
	if b.CustomerID == nil {
		// the customer link belongs to the sync task unless the caller sets it
		omit = append(omit, "customer_id")
	}
	err := s.db.WithContext(ctx).Model(&existing).
		Select("*").
		Omit(omit...).
		Updates(b).Error
	if err != nil {
		return nil, fmt.Errorf("replace bill: %w", err)
	}

	if err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
