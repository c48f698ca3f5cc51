package models

import (
	"testing"
	"time"
)

func TestScheduledTaskNextDueRecurringDaily(t *testing.T) {
	rule := "FREQ=DAILY"
	due := time.Now().Add(-2 * time.Hour).Truncate(time.Second)

	task := ScheduledTask{
		TaskName:          "run_daily_billing",
		Due:               due,
		TaskType:          ScheduledTaskTypeRecurring,
		RecurringInterval: &rule,
	}

	next := task.NextDue()
	if !next.After(task.Due) {
		t.Fatalf("next due %v is not after current due %v", next, task.Due)
	}
	if next.Sub(due)%(24*time.Hour) != 0 {
		t.Errorf("next due %v is not a whole number of days after %v", next, due)
	}
}

func TestScheduledTaskNextDueOneTime(t *testing.T) {
	due := time.Date(2026, time.January, 1, 2, 0, 0, 0, time.UTC)
	task := ScheduledTask{TaskName: "log_info", Due: due, TaskType: ScheduledTaskTypeOneTime}

	if got := task.NextDue(); !got.Equal(due) {
		t.Errorf("one-time task NextDue = %v; want %v", got, due)
	}
}

func TestScheduledTaskNextDueBadRule(t *testing.T) {
	rule := "not-an-rrule"
	due := time.Date(2026, time.January, 1, 2, 0, 0, 0, time.UTC)
	task := ScheduledTask{Due: due, TaskType: ScheduledTaskTypeRecurring, RecurringInterval: &rule}

	if got := task.NextDue(); !got.Equal(due) {
		t.Errorf("unparseable rule should fall back to current due, got %v", got)
	}
}
