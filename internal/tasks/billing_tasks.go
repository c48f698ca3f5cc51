package tasks

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
	"github.com/sanjay-reddyy/ev91-production-sub010/internal/services"
)

// MarkOverdueTaskDef flips pending payments past their grace period to
// OVERDUE. Runs first in the daily order so the late fee sweep only
// sees rows that are already overdue.
type MarkOverdueTaskDef struct{}

func (t *MarkOverdueTaskDef) TaskID() string {
	return "mark_overdue_payments"
}

func (t *MarkOverdueTaskDef) CreateTask(due time.Time, recurring *string) (*models.ScheduledTask, error) {
	taskType := models.ScheduledTaskTypeOneTime
	if recurring != nil {
		taskType = models.ScheduledTaskTypeRecurring
	}
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, due, recurring, taskType, 3)
}

func (t *MarkOverdueTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	statusService := services.NewPaymentStatusService(db)
	updated, err := statusService.MarkOverduePayments(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"status":         "success",
		"marked_overdue": updated,
	}, nil
}

// MarkOverdueTask is the singleton instance of MarkOverdueTaskDef
var MarkOverdueTask = &MarkOverdueTaskDef{}

// ApplyLateFeesTaskDef applies the one-time late fee to overdue
// payments that do not carry one yet.
type ApplyLateFeesTaskDef struct{}

func (t *ApplyLateFeesTaskDef) TaskID() string {
	return "apply_late_fees"
}

func (t *ApplyLateFeesTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	statusService := services.NewPaymentStatusService(db)
	applied, err := statusService.ApplyLateFees(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"status":            "success",
		"late_fees_applied": applied,
	}, nil
}

// ApplyLateFeesTask is the singleton instance of ApplyLateFeesTaskDef
var ApplyLateFeesTask = &ApplyLateFeesTaskDef{}

// ProcessDeductionsTaskDef attempts automatic earnings deductions for
// every due, unsettled payment. Runs after the late fee sweep so the
// deducted amount includes the fee.
type ProcessDeductionsTaskDef struct{}

func (t *ProcessDeductionsTaskDef) TaskID() string {
	return "process_automatic_deductions"
}

func (t *ProcessDeductionsTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	deductionService := services.NewDeductionService(db).WithNotifier(services.NewNotifierService())
	batch, err := deductionService.ProcessAutomaticDeductions(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	failures := make([]map[string]interface{}, 0)
	for _, r := range batch.Results {
		if !r.Success {
			failures = append(failures, map[string]interface{}{
				"payment_id": r.PaymentID,
				"rider_id":   r.RiderID,
				"message":    r.Message,
			})
		}
	}

	return map[string]interface{}{
		"status":     "success",
		"total":      batch.Total,
		"successful": batch.Successful,
		"failed":     batch.Failed,
		"failures":   failures,
	}, nil
}

// ProcessDeductionsTask is the singleton instance of ProcessDeductionsTaskDef
var ProcessDeductionsTask = &ProcessDeductionsTaskDef{}

// DailyBillingTaskDef runs the whole daily billing cycle in its fixed
// order: overdue marking, late fees, deductions, reminders, ending
// notices, overdue alerts. Overdue marking must precede fee
// application, and fees must precede deductions.
type DailyBillingTaskDef struct{}

func (t *DailyBillingTaskDef) TaskID() string {
	return "run_daily_billing"
}

// CreateTask builds the recurring daily task; pass an RRULE such as
// "FREQ=DAILY" for the standard cycle.
func (t *DailyBillingTaskDef) CreateTask(due time.Time, recurring *string) (*models.ScheduledTask, error) {
	taskType := models.ScheduledTaskTypeOneTime
	if recurring != nil {
		taskType = models.ScheduledTaskTypeRecurring
	}
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, due, recurring, taskType, 1)
}

func (t *DailyBillingTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	steps := []struct {
		name string
		def  interface {
			TaskID() string
			HandleExecution(context.Context, *gorm.DB, models.ScheduledTask) (map[string]interface{}, error)
		}
	}{
		{"mark_overdue", MarkOverdueTask},
		{"apply_late_fees", ApplyLateFeesTask},
		{"process_deductions", ProcessDeductionsTask},
		{"payment_reminders", PaymentRemindersTask},
		{"rental_ending_notices", RentalEndingTask},
		{"overdue_alerts", OverdueAlertsTask},
	}

	result := map[string]interface{}{}
	failed := 0
	for _, step := range steps {
		stepResult, err := step.def.HandleExecution(ctx, db, task)
		if err != nil {
			log.WithError(err).WithField("step", step.name).Error("daily billing step failed")
			result[step.name] = map[string]interface{}{"error": err.Error()}
			failed++
			continue
		}
		result[step.name] = stepResult
	}

	result["status"] = "success"
	result["failed_steps"] = failed
	return result, nil
}

// DailyBillingTask is the singleton instance of DailyBillingTaskDef
var DailyBillingTask = &DailyBillingTaskDef{}
