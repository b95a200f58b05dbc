package route

import (
	"net/http"
	"os"
	"path/filepath"

	"occupancy/internal/config"
	"occupancy/internal/handler"
	"occupancy/internal/logger"
	"occupancy/internal/middleware"
	"occupancy/internal/repository"
	"occupancy/internal/service"
	hub "occupancy/internal/service/websocket"
)

// dynamicHTMLHandler serves /path as <static>/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(path)+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers HTTP routes, static file serving, API endpoints,
// and wraps the mux with the authentication middleware.
func SetupRoutes(dashboard *service.Dashboard, hubService *hub.HubService, metrics http.Handler,
	countLogs repository.CountLogRepository, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))

	// Cameras and counters
	mux.HandleFunc("GET /api/cameras", handler.GetCamerasHandler(dashboard, logger))
	mux.HandleFunc("POST /api/cameras", handler.AddCameraHandler(dashboard, logger))
	mux.HandleFunc("POST /api/cameras/{index}/remove", handler.RemoveCameraHandler(dashboard, logger))
	mux.HandleFunc("POST /api/counts/reset", handler.ResetCountsHandler(dashboard, logger))
	mux.HandleFunc("GET /api/counts/logs", handler.CountLogsHandler(countLogs, logger))
	mux.HandleFunc("POST /api/counts/logs/clear", handler.ClearCountLogsHandler(countLogs, logger))
	mux.HandleFunc("POST /api/occupancy-limit", handler.SetOccupancyLimitHandler(dashboard, logger))
	mux.HandleFunc("GET /api/occupancy", handler.OccupancyHandler(dashboard, logger))

	// Configuration files
	mux.HandleFunc("GET /api/config/export", handler.ExportConfigHandler(dashboard, logger))
	mux.HandleFunc("POST /api/config/import", handler.ImportConfigHandler(dashboard, logger))

	// Zones
	mux.HandleFunc("GET /api/zones", handler.ListZonesHandler(dashboard, logger))
	mux.HandleFunc("POST /api/zones", handler.CreateZoneHandler(dashboard, logger))
	mux.HandleFunc("GET /api/zones/{id}", handler.GetZoneHandler(dashboard, logger))
	mux.HandleFunc("DELETE /api/zones/{id}", handler.DeleteZoneHandler(dashboard, logger))
	mux.HandleFunc("POST /api/zones/{id}/cameras", handler.AssignCameraHandler(dashboard, logger))
	mux.HandleFunc("DELETE /api/zones/{id}/cameras/{index}", handler.UnassignCameraHandler(dashboard, logger))

	// Live reports
	mux.HandleFunc("GET /api/view", handler.ViewWebsocketHandler(hubService, logger))
	mux.Handle("GET /metrics", metrics)

	// Log endpoints
	mux.HandleFunc("GET /logs/{level}", handler.ShowLogsHandler(logger))
	mux.HandleFunc("POST /logs/{level}/clear", handler.ClearLogsHandler(logger))

	// Auth endpoints
	mux.HandleFunc("POST /auth/login", handler.LoginHandler(cfg, logger))
	mux.HandleFunc("POST /auth/logout", handler.LogoutHandler)

	// Automatic HTML handler mapping for example: /login -> /static/login.html
	mux.HandleFunc("GET /", dynamicHTMLHandler(cfg.StaticDirectory))

	// Apply middleware
	return middleware.AuthMiddleware(cfg.Password, mux)
}
