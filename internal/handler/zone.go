package handler

import (
	"fmt"
	"net/http"

	"occupancy/internal/logger"
	"occupancy/internal/service"
)

// ListZonesHandler returns every zone with its occupancy.
func ListZonesHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, map[string]any{"zones": dashboard.Zones()}, logger)
	}
}

// CreateZoneHandler creates a zone from {name}.
func CreateZoneHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, logger)
			return
		}

		z, err := dashboard.CreateZone(r.Context(), req.Name)
		if err != nil {
			writeError(w, err, logger)
			return
		}
		writeSuccess(w, map[string]any{"zone": z}, logger)
	}
}

// GetZoneHandler returns one zone with the counters of its cameras.
func GetZoneHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := dashboard.ZoneView(r.PathValue("id"))
		if err != nil {
			writeError(w, err, logger)
			return
		}
		writeSuccess(w, map[string]any{"zone": view}, logger)
	}
}

// DeleteZoneHandler removes an empty zone.
func DeleteZoneHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := dashboard.RemoveZone(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err, logger)
			return
		}
		writeSuccess(w, nil, logger)
	}
}

// AssignCameraHandler moves {camera_index} into the zone.
func AssignCameraHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CameraIndex *int `json:"camera_index"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, logger)
			return
		}
		if req.CameraIndex == nil {
			writeError(w, fmt.Errorf("%w: camera_index is required", errBadRequest), logger)
			return
		}

		if err := dashboard.AssignCamera(r.Context(), r.PathValue("id"), *req.CameraIndex); err != nil {
			writeError(w, err, logger)
			return
		}
		writeSuccess(w, nil, logger)
	}
}

// UnassignCameraHandler returns the camera at the path index to the dashboard.
func UnassignCameraHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := pathIndex(r, "index")
		if err != nil {
			writeError(w, err, logger)
			return
		}

		if err := dashboard.UnassignCamera(r.Context(), r.PathValue("id"), index); err != nil {
			writeError(w, err, logger)
			return
		}
		writeSuccess(w, nil, logger)
	}
}
