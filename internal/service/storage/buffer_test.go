package storage

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"occupancy/internal/config"
	"occupancy/internal/logger"
	"occupancy/internal/model"
	"occupancy/internal/repository/sqlite"
)

type failingRepo struct {
	sqlite.CountLogRepository
	mu    sync.Mutex
	fail  bool
	saved int
}

func (r *failingRepo) InsertBatch(entries []model.CountLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("database is locked")
	}
	r.saved += len(entries)
	return nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func event(ip string) model.CountLog {
	return model.CountLog{Timestamp: time.Now(), CameraIP: ip, Direction: model.DirectionEntered, Entered: 1, CurrentlyIn: 1}
}

func TestBufferService_FlushWritesBatch(t *testing.T) {
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	repo := sqlite.NewCountLogRepository(db)
	buffer := NewBufferService(repo, newTestLogger(t), 10)

	buffer.Add(event("a"))
	buffer.Add(event("b"))
	if buffer.Pending() != 2 {
		t.Errorf("Expected 2 pending events, got %d", buffer.Pending())
	}

	buffer.Flush()
	if buffer.Pending() != 0 {
		t.Errorf("Expected an empty buffer after flush, got %d", buffer.Pending())
	}

	entries, err := repo.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 stored events, got %d", len(entries))
	}
}

func TestBufferService_FlushesAtLimit(t *testing.T) {
	repo := &failingRepo{}
	buffer := NewBufferService(repo, newTestLogger(t), 3)

	buffer.Add(event("a"))
	buffer.Add(event("a"))
	if repo.saved != 0 {
		t.Error("Expected no flush below the limit")
	}
	buffer.Add(event("a"))

	if repo.saved != 3 || buffer.Pending() != 0 {
		t.Errorf("Expected 3 saved and nothing pending, got %d saved and %d pending", repo.saved, buffer.Pending())
	}
}

func TestBufferService_KeepsEventsOnFailure(t *testing.T) {
	repo := &failingRepo{fail: true}
	buffer := NewBufferService(repo, newTestLogger(t), 100)

	buffer.Add(event("a"))
	buffer.Flush()
	if buffer.Pending() != 1 {
		t.Fatalf("Expected the event to stay buffered, got %d pending", buffer.Pending())
	}

	repo.fail = false
	buffer.Flush()
	if repo.saved != 1 || buffer.Pending() != 0 {
		t.Errorf("Expected the retry to save the event, got %d saved", repo.saved)
	}
}
