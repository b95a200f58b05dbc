package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"occupancy/internal/logger"
	"occupancy/internal/repository"
	"occupancy/internal/service"
)

// GetCamerasHandler returns one page of cameras with their counters.
// Pages are 0-based.
func GetCamerasHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := atoiDefault(r.URL.Query().Get("page"), 0)
		cameras, total := dashboard.Cameras(page)
		writeSuccess(w, map[string]any{
			"cameras": cameras,
			"total":   total,
			"page":    page,
		}, logger)
	}
}

type addCameraRequest struct {
	IP       string `json:"ip"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AddCameraHandler appends a camera from {ip, username, password}.
func AddCameraHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addCameraRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, logger)
			return
		}

		cam, err := dashboard.AddCamera(r.Context(), req.IP, req.Username, req.Password)
		if err != nil {
			writeError(w, err, logger)
			return
		}
		writeSuccess(w, map[string]any{"camera": cam}, logger)
	}
}

// RemoveCameraHandler deletes the camera at the index in the path.
func RemoveCameraHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := pathIndex(r, "index")
		if err != nil {
			writeError(w, err, logger)
			return
		}

		if _, err := dashboard.RemoveCamera(r.Context(), index); err != nil {
			writeError(w, err, logger)
			return
		}
		writeSuccess(w, nil, logger)
	}
}

// ResetCountsHandler asks every camera to reset its counters.
func ResetCountsHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := dashboard.ResetCounts(r.Context()); err != nil {
			writeError(w, err, logger)
			return
		}
		writeSuccess(w, nil, logger)
	}
}

type occupancyLimitRequest struct {
	Limit json.Number `json:"occupancy_limit"`
}

// SetOccupancyLimitHandler accepts the limit as a JSON number or numeric string.
func SetOccupancyLimitHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req occupancyLimitRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, logger)
			return
		}
		limit, err := req.Limit.Int64()
		if err != nil {
			writeError(w, fmt.Errorf("%w: occupancy_limit must be an integer", errBadRequest), logger)
			return
		}

		if err := dashboard.SetOccupancyLimit(r.Context(), int(limit)); err != nil {
			writeError(w, err, logger)
			return
		}
		writeSuccess(w, map[string]any{"occupancy_limit": limit}, logger)
	}
}

// CountLogsHandler returns the most recent count events, newest first.
func CountLogsHandler(repo repository.CountLogRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := atoiDefault(r.URL.Query().Get("limit"), 100)
		if limit <= 0 || limit > 1000 {
			limit = 100
		}

		logs, err := repo.GetRecent(limit)
		if err != nil {
			writeError(w, err, logger)
			return
		}
		writeSuccess(w, map[string]any{"logs": logs}, logger)
	}
}

// ClearCountLogsHandler deletes every stored count event.
func ClearCountLogsHandler(repo repository.CountLogRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := repo.DeleteAll(); err != nil {
			writeError(w, err, logger)
			return
		}
		logger.Info("Count logs cleared")
		writeSuccess(w, nil, logger)
	}
}
