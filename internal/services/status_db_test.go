package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
)

func TestMarkOverduePaymentsBoundary(t *testing.T) {
	db := newTestDB(t)
	rider := createTestRider(t, db)
	svc := NewPaymentStatusService(db)

	asOf := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	// Grace is 3 days, so the cutoff is March 7. A payment due exactly
	// on the cutoff day is still within grace.
	onBoundary := createTestPayment(t, db, rider.ID, date(2026, time.March, 7), 5000, models.PaymentStatusPending)
	pastGrace := createTestPayment(t, db, rider.ID, date(2026, time.March, 6), 5000, models.PaymentStatusPending)
	alreadyPaid := createTestPayment(t, db, rider.ID, date(2026, time.February, 1), 5000, models.PaymentStatusPaid)

	updated, err := svc.MarkOverduePayments(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	var reloaded models.RentalPayment
	require.NoError(t, db.First(&reloaded, pastGrace.ID).Error)
	assert.Equal(t, models.PaymentStatusOverdue, reloaded.Status)

	reloaded = models.RentalPayment{}
	require.NoError(t, db.First(&reloaded, onBoundary.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, reloaded.Status)

	reloaded = models.RentalPayment{}
	require.NoError(t, db.First(&reloaded, alreadyPaid.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, reloaded.Status)
}

func TestApplyLateFeesOnceOnly(t *testing.T) {
	db := newTestDB(t)
	rider := createTestRider(t, db)
	svc := NewPaymentStatusService(db)

	payment := createTestPayment(t, db, rider.ID, date(2026, time.March, 1), 5000, models.PaymentStatusOverdue)
	small := createTestPayment(t, db, rider.ID, date(2026, time.March, 1), 1500, models.PaymentStatusOverdue)

	asOf := date(2026, time.March, 11)
	applied, err := svc.ApplyLateFees(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, int64(2), applied)

	var reloaded models.RentalPayment
	require.NoError(t, db.First(&reloaded, payment.ID).Error)
	assert.Equal(t, 250.0, reloaded.LateFee)
	assert.Equal(t, 10, reloaded.DaysOverdue)

	reloaded = models.RentalPayment{}
	require.NoError(t, db.First(&reloaded, small.ID).Error)
	assert.Equal(t, 100.0, reloaded.LateFee, "fee floor applies to small amounts")

	// A later sweep must not touch rows that already carry a fee, even
	// though more days have passed.
	applied, err = svc.ApplyLateFees(context.Background(), date(2026, time.March, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(0), applied)

	reloaded = models.RentalPayment{}
	require.NoError(t, db.First(&reloaded, payment.ID).Error)
	assert.Equal(t, 250.0, reloaded.LateFee)
	assert.Equal(t, 10, reloaded.DaysOverdue)
}
