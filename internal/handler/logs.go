package handler

import (
	"net/http"
	"os"

	"occupancy/internal/logger"
)

// ShowLogsHandler serves the log file of the {level} path value as text/plain.
func ShowLogsHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level, ok := levelFromPath(w, r)
		if !ok {
			return
		}
		serveLogFile(w, r, logger.Path(level), level.FileName())
	}
}

// serveLogFile is a helper that sets headers and serves a log file if it exists.
func serveLogFile(w http.ResponseWriter, r *http.Request, filePath, filename string) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Log file not found: " + filename))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	http.ServeFile(w, r, filePath)
}

// ClearLogsHandler truncates the log file of the {level} path value.
func ClearLogsHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level, ok := levelFromPath(w, r)
		if !ok {
			return
		}
		if err := log.CleanLogs(level); err != nil {
			writeError(w, err, log)
			return
		}
		writeSuccess(w, nil, log)
	}
}

func levelFromPath(w http.ResponseWriter, r *http.Request) (logger.Level, bool) {
	level, ok := logger.ParseLevel(r.PathValue("level"))
	if !ok {
		http.NotFound(w, r)
	}
	return level, ok
}
