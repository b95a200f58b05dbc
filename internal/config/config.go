package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	Password        string // Shared dashboard password, empty disables the login gate
	DatabasePath    string
	LogDirectory    string
	StaticDirectory string

	RefreshInterval   time.Duration // How often the dashboard re-aggregates and broadcasts
	CountPollInterval time.Duration // How often every camera is polled for counters
	CameraTimeout     time.Duration
	CountLogWorkers   int // Workers recording count events
	CountLogFlush     time.Duration
	CountLogBuffer    int // Events buffered before an early database flush
	OccupancyLimit    int // Default until an operator sets one
	CamerasPerPage    int

	// Optional sinks, disabled while empty
	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string

	RedisAddr string
	RedisKey  string
	RedisTTL  time.Duration

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// Load reads the configuration from the environment. Values from a .env file
// in the working directory are used for keys not already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              getEnvAsInt("PORT", 8080),
		Password:          getEnv("PASSWORD", ""),
		DatabasePath:      getEnv("DB_PATH", filepath.Join(".", "data", "occupancy.db")),
		LogDirectory:      getEnv("LOG_DIR", filepath.Join(".", "logs")),
		StaticDirectory:   getEnv("STATIC_DIR", "static"),
		RefreshInterval:   getEnvAsDuration("REFRESH_INTERVAL", 5*time.Second),
		CountPollInterval: getEnvAsDuration("COUNT_POLL_INTERVAL", time.Second),
		CameraTimeout:     getEnvAsDuration("CAMERA_TIMEOUT", 3*time.Second),
		CountLogWorkers:   getEnvAsInt("COUNT_LOG_WORKERS", 2),
		CountLogFlush:     getEnvAsDuration("COUNT_LOG_FLUSH_INTERVAL", 5*time.Second),
		CountLogBuffer:    getEnvAsInt("COUNT_LOG_BUFFER_LIMIT", 50),
		OccupancyLimit:    getEnvAsInt("OCCUPANCY_LIMIT", 100),
		CamerasPerPage:    getEnvAsInt("CAMERAS_PER_PAGE", 16),
		MQTTBroker:        getEnv("MQTT_BROKER", ""),
		MQTTClientID:      getEnv("MQTT_CLIENT_ID", "occupancy-dashboard"),
		MQTTTopic:         getEnv("MQTT_TOPIC", "occupancy"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisKey:          getEnv("REDIS_KEY", "occupancy:last"),
		RedisTTL:          getEnvAsDuration("REDIS_TTL", time.Minute),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3PathStyle:       getEnvAsBool("S3_PATH_STYLE", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("500ms", "5s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
