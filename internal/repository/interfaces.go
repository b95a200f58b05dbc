package repository

import "occupancy/internal/model"

// CameraRepository defines the interface for camera definition operations.
// Cameras are kept in position order; positions are dense and start at 0.
type CameraRepository interface {
	// Create operations
	Insert(cam *model.Camera) (int64, error)

	// Read operations
	GetAll() ([]model.Camera, error)

	// Delete operations
	Delete(id int64) error

	// ReplaceAll swaps the whole camera list in one transaction.
	ReplaceAll(cams []model.Camera) ([]model.Camera, error)
}

// CountLogRepository defines the interface for count event operations.
type CountLogRepository interface {
	Insert(entry *model.CountLog) (int64, error)
	InsertBatch(entries []model.CountLog) error
	GetRecent(limit int) ([]model.CountLog, error)
	DeleteAll() error
}

// SettingsRepository stores small key/value settings such as the occupancy limit.
type SettingsRepository interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}
