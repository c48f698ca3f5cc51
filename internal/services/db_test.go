package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
)

var testDBSeq int64

// newTestDB opens an isolated in-memory database migrated with the
// billing models.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:billingtest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Rider{},
		&models.Rental{},
		&models.RentalPayment{},
		&models.EarningsTransaction{},
	))
	return db
}

func createTestRider(t *testing.T, db *gorm.DB) models.Rider {
	t.Helper()

	rider := models.Rider{
		Name:   "Test Rider",
		Phone:  fmt.Sprintf("+91-9%09d", atomic.AddInt64(&testDBSeq, 1)),
		Status: models.RiderStatusActive,
	}
	require.NoError(t, db.Create(&rider).Error)
	return rider
}

func createTestPayment(t *testing.T, db *gorm.DB, riderID uint, dueDate time.Time, amount float64, status models.PaymentStatus) models.RentalPayment {
	t.Helper()

	payment := models.RentalPayment{
		RentalID:     uint(atomic.AddInt64(&testDBSeq, 1)),
		RiderID:      riderID,
		PaymentMonth: dueDate.Format("2006-01"),
		DueDate:      dueDate,
		Amount:       amount,
		Status:       status,
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}
