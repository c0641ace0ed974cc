// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker   func() bool
	lockHealthChecker func() bool
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Locks     string `json:"locks"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance. The lock
// checker reports whether the distributed lock backend is reachable; a nil
// checker means the in-process locker is in use.
func NewHealthController(dbHealthChecker, lockHealthChecker func() bool) *HealthController {
	return &HealthController{
		dbHealthChecker:   dbHealthChecker,
		lockHealthChecker: lockHealthChecker,
	}
}

// Check handles GET /health requests.
// It returns the current health status of the API and its dependencies.
func (h *HealthController) Check(c *gin.Context) {
	dbStatus := "disconnected"
	if h.dbHealthChecker != nil && h.dbHealthChecker() {
		dbStatus = "connected"
	}

	lockStatus := "in-memory"
	if h.lockHealthChecker != nil {
		lockStatus = "disconnected"
		if h.lockHealthChecker() {
			lockStatus = "connected"
		}
	}

	response := HealthResponse{
		Status:    "ok",
		Database:  dbStatus,
		Locks:     lockStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, response)
}
