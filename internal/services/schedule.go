package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
)

const (
	// DefaultScheduleMonths is how many monthly payments a new rental gets.
	DefaultScheduleMonths = 12
	// MaxScheduleMonths bounds the schedule length a caller may request.
	MaxScheduleMonths = 36
)

// ScheduleConfig is the input for generating a payment schedule.
type ScheduleConfig struct {
	RentalID          uint      `json:"rental_id"`
	RiderID           uint      `json:"rider_id"`
	MonthlyRentalCost float64   `json:"monthly_rental_cost"`
	StartDate         time.Time `json:"start_date"`
	NumberOfMonths    int       `json:"number_of_months"`
}

func (c *ScheduleConfig) validate() error {
	if c.RentalID == 0 {
		return NewError(ErrCodeValidation, "rental id is required")
	}
	if c.RiderID == 0 {
		return NewError(ErrCodeValidation, "rider id is required")
	}
	if c.MonthlyRentalCost <= 0 {
		return NewError(ErrCodeValidation, "monthly rental cost must be positive")
	}
	if c.NumberOfMonths == 0 {
		c.NumberOfMonths = DefaultScheduleMonths
	}
	if c.NumberOfMonths < 1 || c.NumberOfMonths > MaxScheduleMonths {
		return NewError(ErrCodeValidation, fmt.Sprintf("number of months must be between 1 and %d", MaxScheduleMonths))
	}
	return nil
}

// BuildSchedule computes the ordered payment rows for a rental without
// persisting them. The first payment is due on the 1st of the calendar
// month after the rental start date, each subsequent payment exactly
// one calendar month later. Because the due day is always 1, a rental
// starting on the 29th-31st rolls forward the same as any other day.
func BuildSchedule(cfg ScheduleConfig) ([]models.RentalPayment, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	year, month, _ := cfg.StartDate.Date()
	payments := make([]models.RentalPayment, 0, cfg.NumberOfMonths)
	for i := 1; i <= cfg.NumberOfMonths; i++ {
		// time.Date normalizes month overflow across year boundaries
		dueDate := time.Date(year, month+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		payments = append(payments, models.RentalPayment{
			RentalID:     cfg.RentalID,
			RiderID:      cfg.RiderID,
			PaymentMonth: dueDate.Format("2006-01"),
			DueDate:      dueDate,
			Amount:       cfg.MonthlyRentalCost,
			Status:       models.PaymentStatusPending,
		})
	}
	return payments, nil
}

// PaymentScheduleService manages the monthly payment rows of rentals.
type PaymentScheduleService struct {
	db *gorm.DB
}

func NewPaymentScheduleService(db *gorm.DB) *PaymentScheduleService {
	return &PaymentScheduleService{db: db}
}

// GeneratePaymentSchedule creates the full batch of payment rows for a
// rental in a single transaction. A partial batch is never left behind.
func (s *PaymentScheduleService) GeneratePaymentSchedule(ctx context.Context, cfg ScheduleConfig) ([]models.RentalPayment, error) {
	payments, err := BuildSchedule(cfg)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.RentalPayment{}).
			Where("rental_id = ?", cfg.RentalID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return NewError(ErrCodeValidation, "rental already has a payment schedule")
		}
		return tx.Create(&payments).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"rental_id": cfg.RentalID,
		"payments":  len(payments),
	}).Info("payment schedule generated")

	return payments, nil
}

// DeletePaymentSchedule removes the remaining unpaid schedule of a
// rental. Only rows that are still PENDING and have never been paid
// are deleted; settled history stays. Returns the number of rows removed.
func (s *PaymentScheduleService) DeletePaymentSchedule(ctx context.Context, rentalID uint) (int64, error) {
	if rentalID == 0 {
		return 0, NewError(ErrCodeValidation, "rental id is required")
	}

	result := s.db.WithContext(ctx).
		Where("rental_id = ? AND status = ? AND paid_date IS NULL", rentalID, models.PaymentStatusPending).
		Delete(&models.RentalPayment{})
	if result.Error != nil {
		return 0, result.Error
	}

	log.WithFields(log.Fields{
		"rental_id": rentalID,
		"deleted":   result.RowsAffected,
	}).Info("pending payment schedule deleted")

	return result.RowsAffected, nil
}

// ListPayments returns a rental's payments ordered by due date.
func (s *PaymentScheduleService) ListPayments(ctx context.Context, rentalID uint) ([]models.RentalPayment, error) {
	var payments []models.RentalPayment
	err := s.db.WithContext(ctx).
		Where("rental_id = ?", rentalID).
		Order("due_date asc").
		Find(&payments).Error
	return payments, err
}

// GetPayment fetches one payment by id.
func (s *PaymentScheduleService) GetPayment(ctx context.Context, paymentID uint) (*models.RentalPayment, error) {
	var payment models.RentalPayment
	err := s.db.WithContext(ctx).First(&payment, paymentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrCodeNotFound, "payment not found")
		}
		return nil, err
	}
	return &payment, nil
}

// UpdatePaymentNotes sets the admin notes on a payment.
func (s *PaymentScheduleService) UpdatePaymentNotes(ctx context.Context, paymentID uint, notes string) (*models.RentalPayment, error) {
	payment, err := s.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(payment).Update("notes", notes).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// PaymentStatistics aggregates the state of the payment book.
type PaymentStatistics struct {
	TotalPayments    int64   `json:"total_payments"`
	PendingCount     int64   `json:"pending_count"`
	PaidCount        int64   `json:"paid_count"`
	OverdueCount     int64   `json:"overdue_count"`
	WaivedCount      int64   `json:"waived_count"`
	FailedCount      int64   `json:"failed_count"`
	TotalCollected   float64 `json:"total_collected"`
	TotalOutstanding float64 `json:"total_outstanding"`
	TotalLateFees    float64 `json:"total_late_fees"`
}

// Statistics computes aggregate payment counts and amounts.
func (s *PaymentScheduleService) Statistics(ctx context.Context) (*PaymentStatistics, error) {
	db := s.db.WithContext(ctx)
	stats := &PaymentStatistics{}

	if err := db.Model(&models.RentalPayment{}).Count(&stats.TotalPayments).Error; err != nil {
		return nil, err
	}

	counts := map[models.PaymentStatus]*int64{
		models.PaymentStatusPending: &stats.PendingCount,
		models.PaymentStatusPaid:    &stats.PaidCount,
		models.PaymentStatusOverdue: &stats.OverdueCount,
		models.PaymentStatusWaived:  &stats.WaivedCount,
		models.PaymentStatusFailed:  &stats.FailedCount,
	}
	for status, dest := range counts {
		if err := db.Model(&models.RentalPayment{}).Where("status = ?", status).Count(dest).Error; err != nil {
			return nil, err
		}
	}

	row := db.Model(&models.RentalPayment{}).
		Select("COALESCE(SUM(paid_amount), 0)").
		Where("status = ?", models.PaymentStatusPaid).
		Row()
	if err := row.Scan(&stats.TotalCollected); err != nil {
		return nil, err
	}

	row = db.Model(&models.RentalPayment{}).
		Select("COALESCE(SUM(amount + late_fee - paid_amount), 0)").
		Where("status IN ?", []models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusOverdue}).
		Row()
	if err := row.Scan(&stats.TotalOutstanding); err != nil {
		return nil, err
	}

	row = db.Model(&models.RentalPayment{}).
		Select("COALESCE(SUM(late_fee), 0)").
		Row()
	if err := row.Scan(&stats.TotalLateFees); err != nil {
		return nil, err
	}

	return stats, nil
}
