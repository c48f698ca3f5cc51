package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
	"github.com/sanjay-reddyy/ev91-production-sub010/internal/services"
)

// RentalHandler exposes the rental lifecycle endpoints.
type RentalHandler struct {
	rentals   *services.RentalService
	schedules *services.PaymentScheduleService
}

func NewRentalHandler(rentals *services.RentalService, schedules *services.PaymentScheduleService) *RentalHandler {
	return &RentalHandler{rentals: rentals, schedules: schedules}
}

type statusChangeRequest struct {
	Notes string `json:"notes"`
}

// AssignVehicle handles POST /api/rentals
func (h *RentalHandler) AssignVehicle(c echo.Context) error {
	var in services.AssignVehicleInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rental, err := h.rentals.AssignVehicle(c.Request().Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondCreated(c, rental, "Vehicle assigned and payment schedule created")
}

// GetRental handles GET /api/rentals/:id
func (h *RentalHandler) GetRental(c echo.Context) error {
	rentalID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	rental, err := h.rentals.GetRental(c.Request().Context(), rentalID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, rental, "")
}

// TerminateRental handles PUT /api/rentals/:id/terminate
func (h *RentalHandler) TerminateRental(c echo.Context) error {
	return h.changeStatus(c, h.rentals.TerminateRental, "Rental terminated")
}

// SuspendRental handles PUT /api/rentals/:id/suspend
func (h *RentalHandler) SuspendRental(c echo.Context) error {
	return h.changeStatus(c, h.rentals.SuspendRental, "Rental suspended")
}

// ResumeRental handles PUT /api/rentals/:id/resume
func (h *RentalHandler) ResumeRental(c echo.Context) error {
	return h.changeStatus(c, h.rentals.ResumeRental, "Rental resumed")
}

type rentalTransition func(ctx context.Context, rentalID uint, notes string) (*models.Rental, error)

func (h *RentalHandler) changeStatus(c echo.Context, fn rentalTransition, message string) error {
	rentalID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req statusChangeRequest
	_ = c.Bind(&req) // body is optional

	rental, err := fn(c.Request().Context(), rentalID, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, rental, message)
}

// CancelRental handles DELETE /api/rentals/:id. The pending payment
// schedule is removed together with the rental.
func (h *RentalHandler) CancelRental(c echo.Context) error {
	rentalID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	rental, err := h.rentals.CancelRental(c.Request().Context(), rentalID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, rental, "Rental cancelled and pending schedule deleted")
}

// ListRentalPayments handles GET /api/rentals/:id/payments
func (h *RentalHandler) ListRentalPayments(c echo.Context) error {
	rentalID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	payments, err := h.schedules.ListPayments(c.Request().Context(), rentalID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, payments, "")
}
