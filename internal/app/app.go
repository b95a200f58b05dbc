package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"occupancy/internal/config"
	"occupancy/internal/logger"
	"occupancy/internal/metrics"
	"occupancy/internal/repository/sqlite"
	"occupancy/internal/route"
	"occupancy/internal/service"
	"occupancy/internal/service/backup"
	"occupancy/internal/service/counter"
	"occupancy/internal/service/directory"
	"occupancy/internal/service/publish"
	"occupancy/internal/service/storage"
	"occupancy/internal/service/websocket"
	"occupancy/internal/zone"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config      *config.Config
	logger      *logger.Logger
	db          *sqlite.DB
	hubService  *websocket.HubService
	dashboard   *service.Dashboard
	countLogger *counter.Logger
	countBuffer *storage.BufferService
	handler     http.Handler

	mqttClient  mqtt.Client
	redisClient *redis.Client
}

func NewApp(ctx context.Context) (*App, error) {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &App{config: cfg, logger: log, db: db}

	countLogs := sqlite.NewCountLogRepository(db)
	dir, err := directory.New(sqlite.NewCameraRepository(db), sqlite.NewSettingsRepository(db),
		directory.HTTPDevices(cfg.CameraTimeout), log, cfg.OccupancyLimit)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.hubService = websocket.NewHubService(log)
	gauges := metrics.NewOccupancy()

	a.dashboard = service.NewDashboard(zone.NewStore(), dir, cfg.RefreshInterval, cfg.CamerasPerPage, log)
	a.dashboard.AddSink(a.hubService)
	a.dashboard.AddSink(gauges)
	a.setupOptionalSinks(ctx)

	a.countBuffer = storage.NewBufferService(countLogs, log, cfg.CountLogBuffer)
	gauges.Watch("occupancy_viewers", "Dashboard viewers connected over websocket.", a.hubService.GetClientCount)
	gauges.Watch("occupancy_count_log_pending", "Count events waiting to be written to the database.", a.countBuffer.Pending)
	a.countLogger = counter.NewLogger(dir, a.countBuffer, log, cfg.CountPollInterval, cfg.CountLogWorkers)
	a.handler = route.SetupRoutes(a.dashboard, a.hubService, gauges.Handler(), countLogs, cfg, log)
	return a, nil
}

// setupOptionalSinks connects the MQTT, Redis and S3 integrations that are
// configured. A failing integration is logged and left disabled.
func (a *App) setupOptionalSinks(ctx context.Context) {
	cfg := a.config

	if cfg.MQTTBroker != "" {
		client, err := publish.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			a.logger.Warning("MQTT disabled: %v", err)
		} else {
			a.mqttClient = client
			a.dashboard.AddSink(publish.NewMQTTPublisher(client, cfg.MQTTTopic))
		}
	}

	if cfg.RedisAddr != "" {
		client, err := publish.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			a.logger.Warning("Redis disabled: %v", err)
		} else {
			a.redisClient = client
			cache := publish.NewRedisCache(client, cfg.RedisKey, cfg.RedisTTL)
			if last, ok, err := cache.Latest(ctx); err == nil && ok {
				a.logger.Info("Last cached report from %s: %d inside", last.GeneratedAt.Format(time.RFC3339), last.TotalCurrentlyIn)
			}
			a.dashboard.AddSink(cache)
		}
	}

	if cfg.S3Bucket != "" {
		store, err := backup.NewS3Store(ctx, backup.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			a.logger.Warning("S3 backup disabled: %v", err)
		} else {
			a.dashboard.SetBackup(store)
			a.logger.Info("💾 Configuration exports are backed up to s3://%s", cfg.S3Bucket)
		}
	}
}

// Run serves HTTP and runs the background services until ctx is cancelled,
// then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	background := func(run func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run(ctx)
		}()
	}
	background(a.hubService.Run)
	background(a.countLogger.Run)
	background(func(ctx context.Context) { a.countBuffer.Run(ctx, a.config.CountLogFlush) })
	background(a.dashboard.Run)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("🚀 Occupancy Dashboard\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	if a.config.Password != "" {
		fmt.Printf("🔑 Password protected\n")
	}
	fmt.Printf("🗄️  Database: %s\n", a.config.DatabasePath)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP shutdown failed: %v", err)
	}

	cancel()
	wg.Wait()
	a.countLogger.Stop()
	if pending := a.countBuffer.Pending(); pending > 0 {
		a.logger.Info("💾 Writing %d buffered count events", pending)
	}
	a.countBuffer.Flush()

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	return nil
}

// Close releases the external connections, the database and the log files.
func (a *App) Close() {
	if a.mqttClient != nil {
		a.mqttClient.Disconnect(250)
	}
	if a.redisClient != nil {
		a.redisClient.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	a.logger.Close()
}
