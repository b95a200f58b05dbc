package handler

import (
	"fmt"
	"io"
	"net/http"

	"occupancy/internal/camerafile"
	"occupancy/internal/logger"
	"occupancy/internal/service"
)

const maxConfigFileSize = 1 << 20

// ExportConfigHandler downloads the camera configuration as JSON or YAML.
func ExportConfigHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := camerafile.ParseFormat(r.URL.Query().Get("format"))

		data, err := dashboard.ExportConfig(r.Context(), format)
		if err != nil {
			writeError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
		w.Write(data)
	}
}

// ImportConfigHandler replaces every camera with the uploaded config_file.
func ImportConfigHandler(dashboard *service.Dashboard, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxConfigFileSize)
		file, _, err := r.FormFile("config_file")
		if err != nil {
			writeError(w, fmt.Errorf("%w: config_file is required", errBadRequest), logger)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", errBadRequest, err), logger)
			return
		}

		cfgs, err := camerafile.Decode(data)
		if err != nil {
			writeError(w, err, logger)
			return
		}

		if err := dashboard.ImportConfig(r.Context(), cfgs); err != nil {
			writeError(w, err, logger)
			return
		}
		writeSuccess(w, map[string]any{"cameras": len(cfgs)}, logger)
	}
}
