package middleware

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// CustomErrorHandler renders every error as the standard JSON error
// envelope. Internal error details are only echoed back outside
// production.
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"
	detail := ""

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok && msg != "" {
			message = msg
		}
		if he.Internal != nil {
			detail = he.Internal.Error()
		}
	} else {
		detail = err.Error()
	}

	if code >= http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
		}).Error("request failed")
	}

	// Hide internals in production
	if os.Getenv("APP_ENV") == "production" {
		detail = ""
	}

	resp := errorResponse{Success: false, Message: message, Error: detail}
	if writeErr := c.JSON(code, resp); writeErr != nil {
		c.Logger().Error(writeErr)
	}
}
