package services

import (
	"math"
	"testing"
)

func TestDepreciationPercentage(t *testing.T) {
	tests := []struct {
		name      string
		ageMonths int
		expected  float64
		wantErr   bool
	}{
		{name: "new vehicle", ageMonths: 0, expected: 0},
		{name: "six months", ageMonths: 6, expected: 0.12},
		{name: "at the cap boundary", ageMonths: 15, expected: 0.30},
		{name: "past the cap", ageMonths: 24, expected: 0.30},
		{name: "far past the cap", ageMonths: 120, expected: 0.30},
		{name: "negative age", ageMonths: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DepreciationPercentage(tt.ageMonths)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DepreciationPercentage(%d) expected error, got %v", tt.ageMonths, got)
				}
				if Code(err) != ErrCodeValidation {
					t.Errorf("expected validation error code, got %q", Code(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("DepreciationPercentage(%d) unexpected error: %v", tt.ageMonths, err)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("DepreciationPercentage(%d) = %v; want %v", tt.ageMonths, got, tt.expected)
			}
		})
	}
}

func TestActualMonthlyCost(t *testing.T) {
	tests := []struct {
		name      string
		baseRate  float64
		ageMonths int
		expected  float64
		wantErr   bool
	}{
		{name: "no depreciation", baseRate: 5000, ageMonths: 0, expected: 5000},
		{name: "10 percent off", baseRate: 5000, ageMonths: 5, expected: 4500},
		{name: "capped at 30 percent", baseRate: 5000, ageMonths: 36, expected: 3500},
		{name: "rounds to nearest rupee", baseRate: 3333, ageMonths: 1, expected: 3266},
		{name: "zero base rate", baseRate: 0, ageMonths: 3, wantErr: true},
		{name: "negative base rate", baseRate: -100, ageMonths: 3, wantErr: true},
		{name: "negative age", baseRate: 5000, ageMonths: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ActualMonthlyCost(tt.baseRate, tt.ageMonths)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ActualMonthlyCost(%v, %d) expected error, got %v", tt.baseRate, tt.ageMonths, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ActualMonthlyCost(%v, %d) unexpected error: %v", tt.baseRate, tt.ageMonths, err)
			}
			if got != tt.expected {
				t.Errorf("ActualMonthlyCost(%v, %d) = %v; want %v", tt.baseRate, tt.ageMonths, got, tt.expected)
			}
		})
	}
}

// The adjusted cost must stay within [70%, 100%] of the base rate for
// any valid age, since depreciation caps at 30%.
func TestActualMonthlyCostBounds(t *testing.T) {
	for age := 0; age <= 60; age++ {
		for _, baseRate := range []float64{100, 2499, 5000, 12000} {
			got, err := ActualMonthlyCost(baseRate, age)
			if err != nil {
				t.Fatalf("unexpected error at age %d: %v", age, err)
			}
			if got > baseRate {
				t.Errorf("cost %v exceeds base rate %v at age %d", got, baseRate, age)
			}
			if got < math.Floor(baseRate*0.7) {
				t.Errorf("cost %v below 70%% floor of base rate %v at age %d", got, baseRate, age)
			}
		}
	}
}

func TestSecurityDeposit(t *testing.T) {
	if got := SecurityDeposit(4500); got != 9000 {
		t.Errorf("SecurityDeposit(4500) = %v; want 9000", got)
	}
}

func TestTotalCost(t *testing.T) {
	got, err := TotalCost(4500, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 54000 {
		t.Errorf("TotalCost(4500, 12) = %v; want 54000", got)
	}

	if _, err := TotalCost(4500, 0); err == nil {
		t.Error("TotalCost with zero months should fail")
	}
	if _, err := TotalCost(4500, -2); err == nil {
		t.Error("TotalCost with negative months should fail")
	}
}

func TestCompareModelPricing(t *testing.T) {
	vehicleModels := []VehicleModel{
		{ID: "m1", Name: "City 90", BaseRentalRate: 5000, AgeMonths: 5},
		{ID: "m2", Name: "Cargo XL", BaseRentalRate: 8000, AgeMonths: 20},
		{ID: "bad", Name: "Broken", BaseRentalRate: 0, AgeMonths: 2},
	}

	result, err := CompareModelPricing(vehicleModels, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected invalid model to be skipped, got %d entries", len(result))
	}

	first := result[0]
	if first.MonthlyCost != 4500 {
		t.Errorf("m1 monthly cost = %v; want 4500", first.MonthlyCost)
	}
	if first.SecurityDeposit != 9000 {
		t.Errorf("m1 deposit = %v; want 9000", first.SecurityDeposit)
	}
	if first.TotalCost != 54000 {
		t.Errorf("m1 total = %v; want 54000", first.TotalCost)
	}

	if _, err := CompareModelPricing(vehicleModels, 0); err == nil {
		t.Error("expected error for zero months")
	}
}
