package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
)

const (
	// DefaultGracePeriodDays is how long after the due date a payment
	// may stay PENDING before the overdue sweep picks it up.
	DefaultGracePeriodDays = 3

	// LateFeePercent and LateFeeMinimum define the one-time late fee:
	// 5% of the payment amount, but never less than 100.
	LateFeePercent = 0.05
	LateFeeMinimum = 100.0
)

// CalculateLateFee returns the one-time late fee for an overdue
// payment. daysOverdue is recorded alongside the fee for audit but
// does not change the fee amount.
func CalculateLateFee(amount float64, daysOverdue int) float64 {
	fee := amount * LateFeePercent
	if fee < LateFeeMinimum {
		fee = LateFeeMinimum
	}
	return fee
}

// DaysOverdue counts whole days between the due date and asOf.
func DaysOverdue(dueDate, asOf time.Time) int {
	if !asOf.After(dueDate) {
		return 0
	}
	return int(asOf.Sub(dueDate).Hours() / 24)
}

// IsPastGrace reports whether a due date has exhausted its grace
// period as of the given day. The boundary day itself is still within
// grace.
func IsPastGrace(dueDate, asOf time.Time, graceDays int) bool {
	return dueDate.Before(overdueCutoff(asOf, graceDays))
}

// overdueCutoff is the single source of the grace boundary: payments
// due strictly before it are overdue. Both the pure check and the
// sweep query derive from it.
func overdueCutoff(asOf time.Time, graceDays int) time.Time {
	return truncateToDay(asOf).AddDate(0, 0, -graceDays)
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// PaymentStatusService owns the PENDING -> OVERDUE transition and the
// late fee sweep. Deduction and waiving move payments out of these
// states; this service never touches balances.
type PaymentStatusService struct {
	db        *gorm.DB
	graceDays int
}

func NewPaymentStatusService(db *gorm.DB) *PaymentStatusService {
	return &PaymentStatusService{db: db, graceDays: DefaultGracePeriodDays}
}

// MarkOverduePayments flips PENDING payments whose due date is
// strictly past the grace period to OVERDUE. Returns how many rows
// transitioned.
func (s *PaymentStatusService) MarkOverduePayments(ctx context.Context, asOf time.Time) (int64, error) {
	cutoff := overdueCutoff(asOf, s.graceDays)

	result := s.db.WithContext(ctx).Model(&models.RentalPayment{}).
		Where("status = ? AND due_date < ?", models.PaymentStatusPending, cutoff).
		Update("status", models.PaymentStatusOverdue)
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		log.WithField("count", result.RowsAffected).Info("payments marked overdue")
	}
	return result.RowsAffected, nil
}

// ApplyLateFees sets the late fee on OVERDUE payments that do not have
// one yet. The fee and the days-overdue snapshot are written exactly
// once per payment; the late_fee = 0 condition in the update makes a
// re-run a no-op even if two sweeps race.
func (s *PaymentStatusService) ApplyLateFees(ctx context.Context, asOf time.Time) (applied int64, err error) {
	var overdue []models.RentalPayment
	err = s.db.WithContext(ctx).
		Where("status = ? AND late_fee = 0", models.PaymentStatusOverdue).
		Find(&overdue).Error
	if err != nil {
		return 0, err
	}

	for _, payment := range overdue {
		days := DaysOverdue(payment.DueDate, asOf)
		fee := CalculateLateFee(payment.Amount, days)

		result := s.db.WithContext(ctx).Model(&models.RentalPayment{}).
			Where("id = ? AND status = ? AND late_fee = 0", payment.ID, models.PaymentStatusOverdue).
			Updates(map[string]interface{}{
				"late_fee":     fee,
				"days_overdue": days,
			})
		if result.Error != nil {
			log.WithError(result.Error).WithField("payment_id", payment.ID).Error("failed to apply late fee")
			continue
		}
		applied += result.RowsAffected
	}

	if applied > 0 {
		log.WithField("count", applied).Info("late fees applied")
	}
	return applied, nil
}

// WaivePayment is the admin override moving a PENDING or OVERDUE
// payment to WAIVED.
func (s *PaymentStatusService) WaivePayment(ctx context.Context, paymentID uint, notes string) (*models.RentalPayment, error) {
	return s.transition(ctx, paymentID, models.PaymentStatusWaived, notes,
		models.PaymentStatusPending, models.PaymentStatusOverdue)
}

// MarkPaymentFailed moves a payment to the terminal FAILED state,
// leaving it for manual intervention.
func (s *PaymentStatusService) MarkPaymentFailed(ctx context.Context, paymentID uint, notes string) (*models.RentalPayment, error) {
	return s.transition(ctx, paymentID, models.PaymentStatusFailed, notes,
		models.PaymentStatusPending, models.PaymentStatusOverdue)
}

func (s *PaymentStatusService) transition(ctx context.Context, paymentID uint, to models.PaymentStatus, notes string, from ...models.PaymentStatus) (*models.RentalPayment, error) {
	var payment models.RentalPayment
	if err := s.db.WithContext(ctx).First(&payment, paymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewError(ErrCodeNotFound, "payment not found")
		}
		return nil, err
	}

	allowed := false
	for _, status := range from {
		if payment.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, NewError(ErrCodeInvalidStatus,
			fmt.Sprintf("cannot move payment from %s to %s", payment.Status, to))
	}

	updates := map[string]interface{}{"status": to}
	if notes != "" {
		updates["notes"] = notes
	}
	if err := s.db.WithContext(ctx).Model(&payment).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}
