package services

import (
	"testing"
	"time"
)

func TestCalculateLateFee(t *testing.T) {
	tests := []struct {
		name        string
		amount      float64
		daysOverdue int
		expected    float64
	}{
		{name: "five percent ties with minimum", amount: 2000, daysOverdue: 10, expected: 100},
		{name: "five percent above minimum", amount: 5000, daysOverdue: 10, expected: 250},
		{name: "small amount hits minimum", amount: 500, daysOverdue: 30, expected: 100},
		{name: "days overdue does not change the fee", amount: 5000, daysOverdue: 90, expected: 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateLateFee(tt.amount, tt.daysOverdue)
			if got != tt.expected {
				t.Errorf("CalculateLateFee(%v, %d) = %v; want %v", tt.amount, tt.daysOverdue, got, tt.expected)
			}
		})
	}
}

func TestIsPastGrace(t *testing.T) {
	asOf := time.Date(2025, time.June, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dueDate  time.Time
		expected bool
	}{
		{name: "due today", dueDate: time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), expected: false},
		{name: "within grace", dueDate: time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC), expected: false},
		{name: "exactly at grace boundary", dueDate: time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC), expected: false},
		{name: "one day past grace", dueDate: time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC), expected: true},
		{name: "long past grace", dueDate: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsPastGrace(tt.dueDate, asOf, DefaultGracePeriodDays)
			if got != tt.expected {
				t.Errorf("IsPastGrace(%v, %v, %d) = %v; want %v",
					tt.dueDate.Format("2006-01-02"), asOf.Format("2006-01-02"), DefaultGracePeriodDays, got, tt.expected)
			}
		})
	}
}

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		asOf     time.Time
		expected int
	}{
		{name: "not yet due", asOf: time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), expected: 0},
		{name: "due date itself", asOf: due, expected: 0},
		{name: "ten days later", asOf: time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC), expected: 10},
		{name: "partial day does not count", asOf: time.Date(2025, time.June, 2, 23, 0, 0, 0, time.UTC), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysOverdue(due, tt.asOf)
			if got != tt.expected {
				t.Errorf("DaysOverdue = %d; want %d", got, tt.expected)
			}
		})
	}
}
