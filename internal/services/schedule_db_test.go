package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
)

func TestGeneratePaymentScheduleRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	rider := createTestRider(t, db)
	svc := NewPaymentScheduleService(db)
	ctx := context.Background()

	cfg := ScheduleConfig{
		RentalID:          77,
		RiderID:           rider.ID,
		MonthlyRentalCost: 5000,
		StartDate:         date(2026, time.January, 15),
		NumberOfMonths:    6,
	}

	payments, err := svc.GeneratePaymentSchedule(ctx, cfg)
	require.NoError(t, err)
	assert.Len(t, payments, 6)

	_, err = svc.GeneratePaymentSchedule(ctx, cfg)
	require.Error(t, err)
	assert.Equal(t, ErrCodeValidation, Code(err))
}

func TestDeletePaymentScheduleKeepsSettledRows(t *testing.T) {
	db := newTestDB(t)
	rider := createTestRider(t, db)
	svc := NewPaymentScheduleService(db)
	ctx := context.Background()

	payments, err := svc.GeneratePaymentSchedule(ctx, ScheduleConfig{
		RentalID:          42,
		RiderID:           rider.ID,
		MonthlyRentalCost: 5000,
		StartDate:         date(2026, time.January, 15),
		NumberOfMonths:    12,
	})
	require.NoError(t, err)
	require.Len(t, payments, 12)

	// Settle the first three months.
	for i := 0; i < 3; i++ {
		now := time.Now()
		require.NoError(t, db.Model(&payments[i]).Updates(map[string]interface{}{
			"status":      models.PaymentStatusPaid,
			"paid_date":   &now,
			"paid_amount": payments[i].Amount,
		}).Error)
	}

	deleted, err := svc.DeletePaymentSchedule(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(9), deleted)

	remaining, err := svc.ListPayments(ctx, 42)
	require.NoError(t, err)
	require.Len(t, remaining, 3)
	for _, p := range remaining {
		assert.Equal(t, models.PaymentStatusPaid, p.Status)
	}
}
