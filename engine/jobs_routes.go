package engine

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
)

// GetJob retrieves a job by ID
// GET /api/jobs/:id
func (serverHandler *ServerHandler) GetJob(c echo.Context) error {
	jobIDStr := c.Param("id")

	jobID, err := ulid.Parse(jobIDStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Invalid job ID format",
		})
	}

	job, ok := serverHandler.Jobs.GetJob(jobID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "Job not found",
		})
	}

	return c.JSON(http.StatusOK, job)
}

// GetRecentJobs retrieves recent jobs, newest first
// GET /api/jobs
func (serverHandler *ServerHandler) GetRecentJobs(c echo.Context) error {
	limit := 20

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	jobs := serverHandler.Jobs.RecentJobs(limit)
	if jobs == nil {
		jobs = []Job{}
	}

	return c.JSON(http.StatusOK, jobs)
}

// GetActiveJobs retrieves all currently running or pending jobs
// GET /api/jobs/active
func (serverHandler *ServerHandler) GetActiveJobs(c echo.Context) error {
	jobs := serverHandler.Jobs.ActiveJobs()
	if jobs == nil {
		jobs = []Job{}
	}

	return c.JSON(http.StatusOK, jobs)
}
