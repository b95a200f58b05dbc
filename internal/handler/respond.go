package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"occupancy/internal/camerafile"
	"occupancy/internal/logger"
	"occupancy/internal/service/directory"
	"occupancy/internal/zone"
)

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, zone.ErrInvalidInput),
		errors.Is(err, directory.ErrInvalidCamera),
		errors.Is(err, directory.ErrInvalidLimit),
		errors.Is(err, camerafile.ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, zone.ErrNotFound),
		errors.Is(err, directory.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, zone.ErrNotEmpty):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

func writeSuccess(w http.ResponseWriter, fields map[string]any, logger *logger.Logger) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body, logger)
}

// writeError answers with {"success": false, "error": ...}. Server-side
// failures are logged.
func writeError(w http.ResponseWriter, err error, logger *logger.Logger) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed: %v", err)
	}
	writeJSON(w, status, map[string]any{"success": false, "error": err.Error()}, logger)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

func pathIndex(r *http.Request, name string) (int, error) {
	index, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, errors.Join(errBadRequest, err)
	}
	return index, nil
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
