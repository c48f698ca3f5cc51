package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/services"
)

// PricingHandler exposes cost calculation backed by the vehicle
// catalog. When the catalog is unavailable these endpoints fail
// without affecting the rest of the service.
type PricingHandler struct {
	catalog *services.VehicleCatalogService
}

func NewPricingHandler(catalog *services.VehicleCatalogService) *PricingHandler {
	return &PricingHandler{catalog: catalog}
}

type calculateCostRequest struct {
	VehicleModelID string `json:"vehicle_model_id"`
	Months         int    `json:"months"`
}

// CalculateCost handles POST /api/pricing/calculate
func (h *PricingHandler) CalculateCost(c echo.Context) error {
	var req calculateCostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.VehicleModelID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "vehicle_model_id is required")
	}
	if req.Months == 0 {
		req.Months = services.DefaultScheduleMonths
	}

	model, err := h.catalog.GetVehicleModel(c.Request().Context(), req.VehicleModelID)
	if err != nil {
		return respondServiceError(c, err)
	}

	monthlyCost, err := services.ActualMonthlyCost(model.BaseRentalRate, model.AgeMonths)
	if err != nil {
		return respondServiceError(c, err)
	}
	totalCost, err := services.TotalCost(monthlyCost, req.Months)
	if err != nil {
		return respondServiceError(c, err)
	}
	depreciation, _ := services.DepreciationPercentage(model.AgeMonths)

	return respondOK(c, map[string]interface{}{
		"vehicle_model_id": model.ID,
		"model_name":       model.Name,
		"base_rate":        model.BaseRentalRate,
		"depreciation_pct": depreciation * 100,
		"monthly_cost":     monthlyCost,
		"security_deposit": services.SecurityDeposit(monthlyCost),
		"total_cost":       totalCost,
		"months":           req.Months,
	}, "")
}

// ComparePricing handles GET /api/pricing/compare?months=
func (h *PricingHandler) ComparePricing(c echo.Context) error {
	months := services.DefaultScheduleMonths
	if raw := c.QueryParam("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid months")
		}
		months = parsed
	}

	vehicleModels, err := h.catalog.ListAvailableModels(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	comparison, err := services.CompareModelPricing(vehicleModels, months)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, comparison, "")
}
