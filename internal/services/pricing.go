package services

import "math"

// Pricing constants for monthly vehicle rentals. Depreciation reduces
// the base rate by 2% per month of vehicle age, capped at 30%.
const (
	DepreciationPerMonth  = 0.02
	DepreciationCap       = 0.30
	SecurityDepositMonths = 2
)

// DepreciationPercentage returns the depreciation fraction for a
// vehicle of the given age in months.
func DepreciationPercentage(vehicleAgeMonths int) (float64, error) {
	if vehicleAgeMonths < 0 {
		return 0, NewError(ErrCodeValidation, "vehicle age cannot be negative")
	}
	pct := float64(vehicleAgeMonths) * DepreciationPerMonth
	if pct > DepreciationCap {
		pct = DepreciationCap
	}
	return pct, nil
}

// ActualMonthlyCost computes the depreciation-adjusted monthly rental
// cost from the catalog base rate, rounded to the nearest rupee.
func ActualMonthlyCost(baseRate float64, vehicleAgeMonths int) (float64, error) {
	if baseRate <= 0 {
		return 0, NewError(ErrCodeValidation, "base rate must be positive")
	}
	pct, err := DepreciationPercentage(vehicleAgeMonths)
	if err != nil {
		return 0, err
	}
	return math.Round(baseRate * (1 - pct)), nil
}

// SecurityDeposit is a fixed multiple of the monthly cost.
func SecurityDeposit(monthlyCost float64) float64 {
	return monthlyCost * SecurityDepositMonths
}

// TotalCost is the rental cost over the full duration, excluding deposit.
func TotalCost(monthlyCost float64, months int) (float64, error) {
	if months <= 0 {
		return 0, NewError(ErrCodeValidation, "months must be positive")
	}
	return monthlyCost * float64(months), nil
}

// ModelPricing is the computed pricing for one catalog model.
type ModelPricing struct {
	VehicleModelID  string  `json:"vehicle_model_id"`
	ModelName       string  `json:"model_name"`
	BaseRate        float64 `json:"base_rate"`
	MonthlyCost     float64 `json:"monthly_cost"`
	SecurityDeposit float64 `json:"security_deposit"`
	TotalCost       float64 `json:"total_cost"`
	Months          int     `json:"months"`
}

// CompareModelPricing computes depreciation-adjusted pricing for each
// catalog model over the requested duration. Models with invalid data
// are skipped rather than failing the whole comparison.
func CompareModelPricing(vehicleModels []VehicleModel, months int) ([]ModelPricing, error) {
	if months <= 0 {
		return nil, NewError(ErrCodeValidation, "months must be positive")
	}

	result := make([]ModelPricing, 0, len(vehicleModels))
	for _, m := range vehicleModels {
		monthly, err := ActualMonthlyCost(m.BaseRentalRate, m.AgeMonths)
		if err != nil {
			continue
		}
		total, _ := TotalCost(monthly, months)
		result = append(result, ModelPricing{
			VehicleModelID:  m.ID,
			ModelName:       m.Name,
			BaseRate:        m.BaseRentalRate,
			MonthlyCost:     monthly,
			SecurityDeposit: SecurityDeposit(monthly),
			TotalCost:       total,
			Months:          months,
		})
	}
	return result, nil
}
