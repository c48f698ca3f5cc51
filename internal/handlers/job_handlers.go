package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
	"github.com/sanjay-reddyy/ev91-production-sub010/internal/tasks"
)

// JobHandler lets operators trigger any registered billing job
// immediately, outside the worker's schedule.
type JobHandler struct {
	db *gorm.DB
}

func NewJobHandler(db *gorm.DB) *JobHandler {
	return &JobHandler{db: db}
}

// RunJob handles POST /api/jobs/:name/run
func (h *JobHandler) RunJob(c echo.Context) error {
	name := c.Param("name")

	handler, found := tasks.GetHandler(name)
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "unknown job: "+name)
	}

	task := models.ScheduledTask{
		TaskName:   name,
		Arguments:  map[string]interface{}{},
		MaxAttempt: 1,
	}

	result, err := handler(c.Request().Context(), h.db, task)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	return respondOK(c, result, "Job "+name+" completed")
}

// ListJobs handles GET /api/jobs
func (h *JobHandler) ListJobs(c echo.Context) error {
	return respondOK(c, tasks.GlobalRegistry.Names(), "")
}
