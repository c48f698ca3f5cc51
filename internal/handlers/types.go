package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/services"
)

// APIResponse is the standard JSON envelope for every endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Message: message})
}

func respondCreated(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data, Message: message})
}

// respondServiceError maps coded business errors onto HTTP statuses.
func respondServiceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch services.Code(err) {
	case services.ErrCodeValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case services.ErrCodeNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case services.ErrCodeAlreadyActiveRental:
		status = http.StatusConflict
		message = err.Error()
	case services.ErrCodeInsufficientBalance, services.ErrCodeInvalidStatus, services.ErrCodeAlreadyClaimed:
		status = http.StatusBadRequest
		message = err.Error()
	}

	return echo.NewHTTPError(status, message).SetInternal(err)
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(value), nil
}
