package services

import (
	"context"
	"testing"
	"time"

	"salonhub-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerSyncCreatesThenIncrements(t *testing.T) {
	db := newTestDB(t)
	sync := NewCustomerSync(db)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sync.now = func() time.Time { return now }
	ctx := context.Background()

	first := bill("555", models.PaymentCash, 1000, now)
	first.FirstName = "Ana"
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, sync.Apply(ctx, first))

	var customer models.Customer
	require.NoError(t, db.First(&customer, "phone_number = ?", "555").Error)
	assert.Equal(t, 1, customer.TotalVisits)
	assert.Equal(t, int64(1000), customer.TotalSpent)
	assert.Equal(t, "Ana", customer.FirstName)
	require.NotNil(t, customer.LastVisit)

	var linked models.Billing
	require.NoError(t, db.First(&linked, "id = ?", first.ID).Error)
	require.NotNil(t, linked.CustomerID)
	assert.Equal(t, customer.ID, *linked.CustomerID)

	second := bill("555", models.PaymentUPI, 2000, now)
	second.FirstName = "Anna"
	second.Email = "anna@example.com"
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, sync.Apply(ctx, second))

	require.NoError(t, db.First(&customer, "phone_number = ?", "555").Error)
	assert.Equal(t, 2, customer.TotalVisits)
	assert.Equal(t, int64(3000), customer.TotalSpent)
	assert.Equal(t, "Anna", customer.FirstName)
	assert.Equal(t, "anna@example.com", customer.Email)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
