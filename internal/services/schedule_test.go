package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestBuildScheduleTwelveMonths(t *testing.T) {
	payments, err := BuildSchedule(ScheduleConfig{
		RentalID:          7,
		RiderID:           42,
		MonthlyRentalCost: 5000,
		StartDate:         date(2024, time.October, 15),
		NumberOfMonths:    12,
	})
	require.NoError(t, err)
	require.Len(t, payments, 12)

	assert.Equal(t, date(2024, time.November, 1), payments[0].DueDate)
	assert.Equal(t, "2024-11", payments[0].PaymentMonth)
	assert.Equal(t, date(2025, time.October, 1), payments[11].DueDate)
	assert.Equal(t, "2025-10", payments[11].PaymentMonth)

	for i, p := range payments {
		assert.Equal(t, uint(7), p.RentalID)
		assert.Equal(t, uint(42), p.RiderID)
		assert.Equal(t, 5000.0, p.Amount)
		assert.Equal(t, models.PaymentStatusPending, p.Status)
		assert.Equal(t, 1, p.DueDate.Day(), "payment %d not due on the 1st", i)
		if i > 0 {
			assert.Equal(t, payments[i-1].DueDate.AddDate(0, 1, 0), p.DueDate,
				"payment %d is not exactly one month after its predecessor", i)
		}
	}
}

func TestBuildScheduleMonthEndStart(t *testing.T) {
	// A rental starting on the 31st still produces day-1 due dates with
	// no month skipping.
	payments, err := BuildSchedule(ScheduleConfig{
		RentalID:          1,
		RiderID:           1,
		MonthlyRentalCost: 3000,
		StartDate:         date(2024, time.January, 31),
		NumberOfMonths:    3,
	})
	require.NoError(t, err)
	require.Len(t, payments, 3)

	assert.Equal(t, date(2024, time.February, 1), payments[0].DueDate)
	assert.Equal(t, date(2024, time.March, 1), payments[1].DueDate)
	assert.Equal(t, date(2024, time.April, 1), payments[2].DueDate)
}

func TestBuildScheduleYearBoundary(t *testing.T) {
	payments, err := BuildSchedule(ScheduleConfig{
		RentalID:          1,
		RiderID:           1,
		MonthlyRentalCost: 3000,
		StartDate:         date(2025, time.December, 5),
		NumberOfMonths:    2,
	})
	require.NoError(t, err)

	assert.Equal(t, date(2026, time.January, 1), payments[0].DueDate)
	assert.Equal(t, "2026-01", payments[0].PaymentMonth)
	assert.Equal(t, date(2026, time.February, 1), payments[1].DueDate)
}

func TestBuildScheduleDefaultsAndValidation(t *testing.T) {
	base := ScheduleConfig{
		RentalID:          1,
		RiderID:           2,
		MonthlyRentalCost: 4000,
		StartDate:         date(2025, time.March, 10),
	}

	payments, err := BuildSchedule(base)
	require.NoError(t, err)
	assert.Len(t, payments, DefaultScheduleMonths)

	tests := []struct {
		name   string
		mutate func(*ScheduleConfig)
	}{
		{"missing rental id", func(c *ScheduleConfig) { c.RentalID = 0 }},
		{"missing rider id", func(c *ScheduleConfig) { c.RiderID = 0 }},
		{"zero cost", func(c *ScheduleConfig) { c.MonthlyRentalCost = 0 }},
		{"negative cost", func(c *ScheduleConfig) { c.MonthlyRentalCost = -50 }},
		{"too many months", func(c *ScheduleConfig) { c.NumberOfMonths = MaxScheduleMonths + 1 }},
		{"negative months", func(c *ScheduleConfig) { c.NumberOfMonths = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := BuildSchedule(cfg)
			require.Error(t, err)
			assert.Equal(t, ErrCodeValidation, Code(err))
		})
	}
}
