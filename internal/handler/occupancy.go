package handler

import (
	"net/http"

	"occupancy/internal/logger"
	"occupancy/internal/service"
)

// OccupancyHandler returns the current site report.
func OccupancyHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dashboard.Report(), logger)
	}
}
