package tasks

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
	"github.com/sanjay-reddyy/ev91-production-sub010/internal/services"
)

const notificationRetryDelay = 5 * time.Minute

// NotificationSweepArgs carries the optional retry state of a
// notification sweep. On a retry run PaymentIDs limits the sweep to
// the previously failed subset.
type NotificationSweepArgs struct {
	PaymentIDs   []uint `json:"payment_ids,omitempty"`
	DaysAhead    int    `json:"days_ahead,omitempty"`
	AttemptCount int    `json:"attempt_count"`
}

// dispatchForPayments sends one notification per payment and
// reschedules a retry task for the failed subset, up to the task's max
// attempts.
func dispatchForPayments(ctx context.Context, db *gorm.DB, task models.ScheduledTask, taskID string, payments []models.RentalPayment, build func(models.RentalPayment) services.NotificationRequest) (map[string]interface{}, error) {
	var args NotificationSweepArgs
	if err := decodeArgs(task, &args); err != nil {
		return nil, err
	}

	notifier := services.NewNotifierService()

	successCount := 0
	var failures []string
	var failedIDs []uint

	for _, payment := range payments {
		if err := notifier.Dispatch(ctx, build(payment)); err != nil {
			log.WithError(err).WithField("payment_id", payment.ID).Warn("notification dispatch failed")
			failures = append(failures, fmt.Sprintf("payment %d: %v", payment.ID, err))
			failedIDs = append(failedIDs, payment.ID)
			continue
		}
		successCount++
	}

	result := map[string]interface{}{
		"total":   len(payments),
		"success": successCount,
		"failure": len(failedIDs),
	}

	if len(failedIDs) > 0 {
		result["errors"] = failures

		if args.AttemptCount < task.MaxAttempt {
			retryArgs := NotificationSweepArgs{
				PaymentIDs:   failedIDs,
				DaysAhead:    args.DaysAhead,
				AttemptCount: args.AttemptCount + 1,
			}
			retryTask, err := BuildScheduledTask(taskID, retryArgs,
				time.Now().Add(notificationRetryDelay), nil, models.ScheduledTaskTypeOneTime, task.MaxAttempt)
			if err == nil {
				db.Create(retryTask)
				log.WithFields(log.Fields{
					"task":    taskID,
					"retries": len(failedIDs),
					"attempt": retryArgs.AttemptCount,
				}).Info("rescheduled failed notifications")
			} else {
				log.WithError(err).Error("failed to create retry task")
			}
		} else {
			return result, fmt.Errorf("max attempts reached, failed to deliver %d notifications", len(failedIDs))
		}
	}

	return result, nil
}

// PaymentRemindersTaskDef notifies riders about payments due soon.
type PaymentRemindersTaskDef struct{}

func (t *PaymentRemindersTaskDef) TaskID() string {
	return "send_payment_reminders"
}

func (t *PaymentRemindersTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	var args NotificationSweepArgs
	if err := decodeArgs(task, &args); err != nil {
		return nil, err
	}
	daysAhead := args.DaysAhead
	if daysAhead == 0 {
		daysAhead = 3
	}

	query := db.WithContext(ctx).Where("status = ?", models.PaymentStatusPending)
	if len(args.PaymentIDs) > 0 {
		query = query.Where("id IN ?", args.PaymentIDs)
	} else {
		now := time.Now()
		query = query.Where("due_date BETWEEN ? AND ?", now, now.AddDate(0, 0, daysAhead))
	}

	var payments []models.RentalPayment
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}

	return dispatchForPayments(ctx, db, task, t.TaskID(), payments, func(p models.RentalPayment) services.NotificationRequest {
		return services.NotificationRequest{
			RiderID:  p.RiderID,
			Type:     services.NotifyPaymentReminder,
			Channels: []services.NotificationChannel{services.ChannelSMS, services.ChannelPush},
			Data: map[string]interface{}{
				"payment_id":    p.ID,
				"rental_id":     p.RentalID,
				"payment_month": p.PaymentMonth,
				"due_date":      p.DueDate.Format("2006-01-02"),
				"amount":        p.Amount,
			},
		}
	})
}

// PaymentRemindersTask is the singleton instance of PaymentRemindersTaskDef
var PaymentRemindersTask = &PaymentRemindersTaskDef{}

// OverdueAlertsTaskDef notifies riders about payments already overdue.
type OverdueAlertsTaskDef struct{}

func (t *OverdueAlertsTaskDef) TaskID() string {
	return "send_overdue_alerts"
}

func (t *OverdueAlertsTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	var args NotificationSweepArgs
	if err := decodeArgs(task, &args); err != nil {
		return nil, err
	}

	query := db.WithContext(ctx).
		Where("status = ? AND deducted_from_earnings = ?", models.PaymentStatusOverdue, false)
	if len(args.PaymentIDs) > 0 {
		query = query.Where("id IN ?", args.PaymentIDs)
	}

	var payments []models.RentalPayment
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}

	return dispatchForPayments(ctx, db, task, t.TaskID(), payments, func(p models.RentalPayment) services.NotificationRequest {
		return services.NotificationRequest{
			RiderID:  p.RiderID,
			Type:     services.NotifyPaymentOverdue,
			Channels: []services.NotificationChannel{services.ChannelSMS, services.ChannelWhatsapp},
			Data: map[string]interface{}{
				"payment_id":    p.ID,
				"rental_id":     p.RentalID,
				"payment_month": p.PaymentMonth,
				"due_date":      p.DueDate.Format("2006-01-02"),
				"amount":        p.Amount,
				"late_fee":      p.LateFee,
				"total_due":     p.OutstandingAmount(),
				"days_overdue":  p.DaysOverdue,
			},
		}
	})
}

// OverdueAlertsTask is the singleton instance of OverdueAlertsTaskDef
var OverdueAlertsTask = &OverdueAlertsTaskDef{}

// RentalEndingTaskDef notifies riders whose rentals end within a week.
type RentalEndingTaskDef struct{}

func (t *RentalEndingTaskDef) TaskID() string {
	return "send_rental_ending_notices"
}

func (t *RentalEndingTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	catalogService := services.NewVehicleCatalogService(nil)
	rentalService := services.NewRentalService(db, catalogService)

	rentals, err := rentalService.ListEndingRentals(ctx, 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	notifier := services.NewNotifierService()

	successCount := 0
	var failures []string
	for _, rental := range rentals {
		req := services.NotificationRequest{
			RiderID:  rental.RiderID,
			Type:     services.NotifyRentalEnding,
			Channels: []services.NotificationChannel{services.ChannelSMS, services.ChannelEmail},
			Data: map[string]interface{}{
				"rental_id":  rental.ID,
				"vehicle_id": rental.VehicleID,
				"end_date":   rental.EndDate.Format("2006-01-02"),
			},
		}
		if err := notifier.Dispatch(ctx, req); err != nil {
			log.WithError(err).WithField("rental_id", rental.ID).Warn("rental ending notice failed")
			failures = append(failures, fmt.Sprintf("rental %d: %v", rental.ID, err))
			continue
		}
		successCount++
	}

	result := map[string]interface{}{
		"total":   len(rentals),
		"success": successCount,
		"failure": len(failures),
	}
	if len(failures) > 0 {
		result["errors"] = failures
	}
	return result, nil
}

// RentalEndingTask is the singleton instance of RentalEndingTaskDef
var RentalEndingTask = &RentalEndingTaskDef{}
