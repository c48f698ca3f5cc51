package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
)

// DefaultMinimumReserve is the balance a rider must keep after a
// deduction. A deduction that would dip below it is refused.
const DefaultMinimumReserve = 100.0

// DeductionResult reports the outcome of one deduction attempt.
// Business refusals (insufficient balance, already settled) are
// reported here with Success=false; only infrastructure failures
// surface as errors.
type DeductionResult struct {
	PaymentID      uint    `json:"payment_id"`
	RiderID        uint    `json:"rider_id"`
	Success        bool    `json:"success"`
	Message        string  `json:"message"`
	AmountDeducted float64 `json:"amount_deducted,omitempty"`
	TransactionID  string  `json:"transaction_id,omitempty"`
}

// BatchDeductionResult aggregates a deduction sweep.
type BatchDeductionResult struct {
	Total      int               `json:"total"`
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Results    []DeductionResult `json:"results"`
}

// DeductionService satisfies due payments from riders' earnings
// ledgers. It never marks payments overdue; that belongs to the
// status sweep which the orchestrator runs first.
type DeductionService struct {
	db       *gorm.DB
	reserve  float64
	notifier *NotifierService
}

func NewDeductionService(db *gorm.DB) *DeductionService {
	return &DeductionService{db: db, reserve: DefaultMinimumReserve}
}

// WithNotifier enables the confirmation notification on successful
// deductions. Without it, deductions are silent.
func (s *DeductionService) WithNotifier(notifier *NotifierService) *DeductionService {
	s.notifier = notifier
	return s
}

// Balance returns the rider's earnings balance: the sum of their
// signed ledger entries.
func (s *DeductionService) Balance(ctx context.Context, riderID uint) (float64, error) {
	var rider models.Rider
	if err := s.db.WithContext(ctx).First(&rider, riderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, NewError(ErrCodeNotFound, "rider not found")
		}
		return 0, err
	}

	var balance float64
	row := s.db.WithContext(ctx).Model(&models.EarningsTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("rider_id = ?", riderID).
		Row()
	if err := row.Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// CreditEarnings writes a positive ledger entry for a rider. Used by
// the earnings ingestion path and by admin adjustments.
func (s *DeductionService) CreditEarnings(ctx context.Context, riderID uint, amount float64, txType models.TransactionType, description string) (*models.EarningsTransaction, error) {
	if amount <= 0 {
		return nil, NewError(ErrCodeValidation, "credit amount must be positive")
	}
	entry := models.EarningsTransaction{
		RiderID:     riderID,
		Amount:      amount,
		Type:        txType,
		Reference:   fmt.Sprintf("CRD-%s", uuid.New().String()),
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeductPayment attempts to satisfy one payment from the rider's
// earnings. On success the payment is marked PAID and the ledger debit
// is written in the same transaction. The deducted_from_earnings=false
// condition inside the UPDATE is the atomic claim: a concurrent
// attempt on the same row loses the claim instead of double-charging.
func (s *DeductionService) DeductPayment(ctx context.Context, paymentID uint) (*DeductionResult, error) {
	var payment models.RentalPayment
	if err := s.db.WithContext(ctx).First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrCodeNotFound, "payment not found")
		}
		return nil, err
	}

	result := &DeductionResult{PaymentID: payment.ID, RiderID: payment.RiderID}

	if payment.DeductedFromEarnings || payment.Status == models.PaymentStatusPaid {
		result.Message = "Payment already settled"
		return result, nil
	}
	if payment.Status == models.PaymentStatusWaived {
		result.Message = "Payment is waived"
		return result, nil
	}

	amountToPay := payment.OutstandingAmount()
	if amountToPay <= 0 {
		result.Message = "Nothing outstanding on this payment"
		return result, nil
	}

	balance, err := s.Balance(ctx, payment.RiderID)
	if err != nil {
		return nil, err
	}
	if balance-amountToPay < s.reserve {
		result.Message = "Insufficient balance"
		log.WithFields(log.Fields{
			"payment_id": payment.ID,
			"rider_id":   payment.RiderID,
			"balance":    balance,
			"required":   amountToPay,
		}).Warn("deduction refused: insufficient balance")
		return result, nil
	}

	transactionID := fmt.Sprintf("DED-%s", uuid.New().String())
	now := time.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.RentalPayment{}).
			Where("id = ? AND deducted_from_earnings = ? AND status IN ?",
				payment.ID, false,
				[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusOverdue, models.PaymentStatusFailed}).
			Updates(map[string]interface{}{
				"status":                 models.PaymentStatusPaid,
				"paid_date":              now,
				"paid_amount":            gorm.Expr("paid_amount + ?", amountToPay),
				"deducted_from_earnings": true,
				"transaction_id":         transactionID,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return NewError(ErrCodeAlreadyClaimed, "payment was claimed by another deduction")
		}

		entry := models.EarningsTransaction{
			RiderID:         payment.RiderID,
			Amount:          -amountToPay,
			Type:            models.TransactionTypeRentalDeduction,
			Reference:       transactionID,
			Description:     fmt.Sprintf("Rental payment %s for rental %d", payment.PaymentMonth, payment.RentalID),
			RentalPaymentID: &payment.ID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		if Code(err) == ErrCodeAlreadyClaimed {
			result.Message = err.Error()
			return result, nil
		}
		return nil, err
	}

	result.Success = true
	result.Message = "Payment deducted from earnings"
	result.AmountDeducted = amountToPay
	result.TransactionID = transactionID

	log.WithFields(log.Fields{
		"payment_id":     payment.ID,
		"rider_id":       payment.RiderID,
		"amount":         amountToPay,
		"transaction_id": transactionID,
	}).Info("payment deducted")

	// Confirmation is best effort; the deduction already committed.
	if s.notifier != nil {
		notifyErr := s.notifier.Dispatch(ctx, NotificationRequest{
			RiderID:  payment.RiderID,
			Type:     NotifyPaymentDeducted,
			Channels: []NotificationChannel{ChannelSMS, ChannelPush},
			Data: map[string]interface{}{
				"payment_id":     payment.ID,
				"rental_id":      payment.RentalID,
				"payment_month":  payment.PaymentMonth,
				"amount":         amountToPay,
				"transaction_id": transactionID,
			},
		})
		if notifyErr != nil {
			log.WithError(notifyErr).WithField("payment_id", payment.ID).Warn("deduction confirmation failed")
		}
	}

	return result, nil
}

// RecordPayout writes a negative PAYOUT ledger entry for a rider
// withdrawing earnings. The minimum reserve applies the same way it
// does to deductions.
func (s *DeductionService) RecordPayout(ctx context.Context, riderID uint, amount float64, description string) (*models.EarningsTransaction, error) {
	if amount <= 0 {
		return nil, NewError(ErrCodeValidation, "payout amount must be positive")
	}

	balance, err := s.Balance(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if balance-amount < s.reserve {
		return nil, NewError(ErrCodeInsufficientBalance, "insufficient balance for payout")
	}

	entry := models.EarningsTransaction{
		RiderID:     riderID,
		Amount:      -amount,
		Type:        models.TransactionTypePayout,
		Reference:   fmt.Sprintf("PAY-%s", uuid.New().String()),
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"rider_id": riderID,
		"amount":   amount,
	}).Info("payout recorded")

	return &entry, nil
}

// ProcessAutomaticDeductions attempts every due, unsettled payment,
// oldest obligations first. Each payment is its own transaction; one
// failure never blocks the rest, and a mid-sweep crash leaves a
// consistent partial batch.
func (s *DeductionService) ProcessAutomaticDeductions(ctx context.Context, asOf time.Time) (*BatchDeductionResult, error) {
	var due []models.RentalPayment
	err := s.db.WithContext(ctx).
		Where("status IN ? AND due_date <= ? AND deducted_from_earnings = ?",
			[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusOverdue},
			asOf, false).
		Order("due_date asc").
		Find(&due).Error
	if err != nil {
		return nil, err
	}

	return s.attemptAll(ctx, due), nil
}

// RetryFailedDeductions is the manual repair path: it re-attempts every
// FAILED, unsettled payment of one rider.
func (s *DeductionService) RetryFailedDeductions(ctx context.Context, riderID uint) (*BatchDeductionResult, error) {
	if riderID == 0 {
		return nil, NewError(ErrCodeValidation, "rider id is required")
	}

	var failed []models.RentalPayment
	err := s.db.WithContext(ctx).
		Where("rider_id = ? AND status = ? AND deducted_from_earnings = ?",
			riderID, models.PaymentStatusFailed, false).
		Order("due_date asc").
		Find(&failed).Error
	if err != nil {
		return nil, err
	}

	return s.attemptAll(ctx, failed), nil
}

func (s *DeductionService) attemptAll(ctx context.Context, payments []models.RentalPayment) *BatchDeductionResult {
	batch := &BatchDeductionResult{
		Total:   len(payments),
		Results: make([]DeductionResult, 0, len(payments)),
	}

	for _, payment := range payments {
		result, err := s.DeductPayment(ctx, payment.ID)
		if err != nil {
			result = &DeductionResult{
				PaymentID: payment.ID,
				RiderID:   payment.RiderID,
				Message:   err.Error(),
			}
			log.WithError(err).WithField("payment_id", payment.ID).Error("deduction attempt errored")
		}
		if result.Success {
			batch.Successful++
		} else {
			batch.Failed++
		}
		batch.Results = append(batch.Results, *result)
	}

	return batch
}
