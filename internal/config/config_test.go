package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "REFRESH_INTERVAL", "CAMERAS_PER_PAGE", "OCCUPANCY_LIMIT", "MQTT_BROKER", "REDIS_ADDR", "S3_BUCKET"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.RefreshInterval != 5*time.Second {
		t.Errorf("Expected 5s refresh, got %v", cfg.RefreshInterval)
	}
	if cfg.CamerasPerPage != 16 {
		t.Errorf("Expected 16 cameras per page, got %d", cfg.CamerasPerPage)
	}
	if cfg.OccupancyLimit != 100 {
		t.Errorf("Expected limit 100, got %d", cfg.OccupancyLimit)
	}
	if cfg.MQTTBroker != "" || cfg.RedisAddr != "" || cfg.S3Bucket != "" {
		t.Error("Optional sinks should be disabled by default")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("REFRESH_INTERVAL", "2s")
	t.Setenv("COUNT_POLL_INTERVAL", "3")
	t.Setenv("OCCUPANCY_LIMIT", "250")
	t.Setenv("S3_PATH_STYLE", "true")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if cfg.RefreshInterval != 2*time.Second {
		t.Errorf("Expected 2s, got %v", cfg.RefreshInterval)
	}
	if cfg.CountPollInterval != 3*time.Second {
		t.Errorf("Expected bare seconds to parse as 3s, got %v", cfg.CountPollInterval)
	}
	if cfg.OccupancyLimit != 250 {
		t.Errorf("Expected 250, got %d", cfg.OccupancyLimit)
	}
	if !cfg.S3PathStyle {
		t.Error("Expected path style to be enabled")
	}
}

func TestGetEnvAsDuration_Invalid(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"", time.Second},
		{"abc", time.Second},
		{"-5s", time.Second},
		{"0", time.Second},
		{"250ms", 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Setenv("TEST_DURATION", tt.value)
		if got := getEnvAsDuration("TEST_DURATION", time.Second); got != tt.expected {
			t.Errorf("getEnvAsDuration(%q) = %v, expected %v", tt.value, got, tt.expected)
		}
	}
}
