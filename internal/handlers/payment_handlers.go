package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
	"github.com/sanjay-reddyy/ev91-production-sub010/internal/services"
)

// PaymentHandler exposes payment inspection, admin overrides, and the
// deduction triggers.
type PaymentHandler struct {
	schedules  *services.PaymentScheduleService
	statuses   *services.PaymentStatusService
	deductions *services.DeductionService
}

func NewPaymentHandler(schedules *services.PaymentScheduleService, statuses *services.PaymentStatusService, deductions *services.DeductionService) *PaymentHandler {
	return &PaymentHandler{schedules: schedules, statuses: statuses, deductions: deductions}
}

// GetPayment handles GET /api/payments/:id
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	paymentID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	payment, err := h.schedules.GetPayment(c.Request().Context(), paymentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, payment, "")
}

type updatePaymentRequest struct {
	Notes      string `json:"notes"`
	Waive      bool   `json:"waive"`
	MarkFailed bool   `json:"mark_failed"`
}

// UpdatePayment handles PUT /api/payments/:id. Admins can update
// notes, waive the payment, or park it as FAILED for manual repair.
func (h *PaymentHandler) UpdatePayment(c echo.Context) error {
	paymentID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req updatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	if req.Waive {
		payment, err := h.statuses.WaivePayment(ctx, paymentID, req.Notes)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondOK(c, payment, "Payment waived")
	}
	if req.MarkFailed {
		payment, err := h.statuses.MarkPaymentFailed(ctx, paymentID, req.Notes)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondOK(c, payment, "Payment marked failed")
	}

	payment, err := h.schedules.UpdatePaymentNotes(ctx, paymentID, req.Notes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, payment, "Payment updated")
}

// DeductPayment handles POST /api/payments/:id/deduct — the manual
// deduction trigger.
func (h *PaymentHandler) DeductPayment(c echo.Context) error {
	paymentID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	result, err := h.deductions.DeductPayment(c.Request().Context(), paymentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if !result.Success {
		return c.JSON(http.StatusBadRequest, APIResponse{Success: false, Data: result, Message: result.Message})
	}
	return respondOK(c, result, result.Message)
}

// RunDeductions handles POST /api/payments/deductions/run — the batch
// sweep trigger.
func (h *PaymentHandler) RunDeductions(c echo.Context) error {
	batch, err := h.deductions.ProcessAutomaticDeductions(c.Request().Context(), time.Now())
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, batch, "Deduction sweep completed")
}

// RetryFailedDeductions handles POST /api/payments/retry/:riderId
func (h *PaymentHandler) RetryFailedDeductions(c echo.Context) error {
	riderID, err := parseUintParam(c, "riderId")
	if err != nil {
		return err
	}

	batch, err := h.deductions.RetryFailedDeductions(c.Request().Context(), riderID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, batch, "Retry sweep completed")
}

// Statistics handles GET /api/payments/statistics
func (h *PaymentHandler) Statistics(c echo.Context) error {
	stats, err := h.schedules.Statistics(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, stats, "")
}

type creditEarningsRequest struct {
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
}

// CreditEarnings handles POST /api/riders/:id/earnings — the ingestion
// path for delivery earnings and admin adjustments.
func (h *PaymentHandler) CreditEarnings(c echo.Context) error {
	riderID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req creditEarningsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	txType := models.TransactionTypeEarning
	if req.Type == string(models.TransactionTypeAdjustment) {
		txType = models.TransactionTypeAdjustment
	}

	entry, err := h.deductions.CreditEarnings(c.Request().Context(), riderID, req.Amount, txType, req.Description)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondCreated(c, entry, "Earnings credited")
}

type payoutRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// RecordPayout handles POST /api/riders/:id/payouts — a rider
// withdrawing earnings.
func (h *PaymentHandler) RecordPayout(c echo.Context) error {
	riderID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req payoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	entry, err := h.deductions.RecordPayout(c.Request().Context(), riderID, req.Amount, req.Description)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondCreated(c, entry, "Payout recorded")
}

// RiderBalance handles GET /api/riders/:id/balance
func (h *PaymentHandler) RiderBalance(c echo.Context) error {
	riderID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	balance, err := h.deductions.Balance(c.Request().Context(), riderID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondOK(c, map[string]interface{}{
		"rider_id": riderID,
		"balance":  balance,
	}, "")
}
