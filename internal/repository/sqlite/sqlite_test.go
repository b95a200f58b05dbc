package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"occupancy/internal/model"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("Database file should exist")
	}
	return db
}

func insertCameras(t *testing.T, repo *CameraRepository, ips ...string) []model.Camera {
	t.Helper()

	var cams []model.Camera
	for _, ip := range ips {
		cam := model.Camera{IP: ip, Username: "admin", Password: "pw"}
		if _, err := repo.Insert(&cam); err != nil {
			t.Fatalf("Failed to insert camera %s: %v", ip, err)
		}
		cams = append(cams, cam)
	}
	return cams
}

func TestCameraRepository_InsertAssignsPositions(t *testing.T) {
	repo := NewCameraRepository(setupTestDB(t))

	cams := insertCameras(t, repo, "10.0.0.1", "10.0.0.2", "10.0.0.3")

	for i, cam := range cams {
		if cam.Position != i {
			t.Errorf("Camera %s: expected position %d, got %d", cam.IP, i, cam.Position)
		}
		if cam.ID == 0 {
			t.Errorf("Camera %s: expected an id", cam.IP)
		}
	}

	all, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 || all[2].IP != "10.0.0.3" || all[0].Password != "pw" {
		t.Errorf("Unexpected cameras: %+v", all)
	}
}

func TestCameraRepository_DeleteShiftsPositions(t *testing.T) {
	repo := NewCameraRepository(setupTestDB(t))
	cams := insertCameras(t, repo, "a", "b", "c", "d")

	if err := repo.Delete(cams[1].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	all, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	want := []string{"a", "c", "d"}
	if len(all) != len(want) {
		t.Fatalf("Expected %d cameras, got %d", len(want), len(all))
	}
	for i, cam := range all {
		if cam.IP != want[i] || cam.Position != i {
			t.Errorf("Position %d: expected %s, got %s at %d", i, want[i], cam.IP, cam.Position)
		}
	}

	next := insertCameras(t, repo, "e")
	if next[0].Position != 3 {
		t.Errorf("Expected new camera at position 3, got %d", next[0].Position)
	}
}

func TestCameraRepository_DeleteUnknown(t *testing.T) {
	repo := NewCameraRepository(setupTestDB(t))

	if err := repo.Delete(404); !errors.Is(err, ErrCameraNotFound) {
		t.Errorf("Expected ErrCameraNotFound, got %v", err)
	}
}

func TestCameraRepository_ReplaceAll(t *testing.T) {
	repo := NewCameraRepository(setupTestDB(t))
	insertCameras(t, repo, "old-1", "old-2")

	stored, err := repo.ReplaceAll([]model.Camera{
		{IP: "new-1", Username: "u", Password: "p"},
		{IP: "new-2", Username: "u", Password: "p"},
		{IP: "new-3", Username: "u", Password: "p"},
	})
	if err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	if len(stored) != 3 {
		t.Fatalf("Expected 3 cameras, got %d", len(stored))
	}
	for i, cam := range stored {
		if cam.Position != i || cam.ID == 0 {
			t.Errorf("Unexpected stored camera: %+v", cam)
		}
	}
	if stored[0].IP != "new-1" {
		t.Errorf("Expected new-1 first, got %s", stored[0].IP)
	}
}

func TestCountLogRepository(t *testing.T) {
	repo := NewCountLogRepository(setupTestDB(t))
	base := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	if _, err := repo.Insert(&model.CountLog{
		Timestamp: base, CameraIP: "10.0.0.1", CameraIndex: 0,
		Direction: model.DirectionEntered, Entered: 1, CurrentlyIn: 1,
	}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := repo.InsertBatch([]model.CountLog{
		{Timestamp: base.Add(time.Second), CameraIP: "10.0.0.2", CameraIndex: 1, Direction: model.DirectionEntered, Entered: 4, CurrentlyIn: 4},
		{Timestamp: base.Add(2 * time.Second), CameraIP: "10.0.0.2", CameraIndex: 1, Direction: model.DirectionExited, Entered: 4, Exited: 1, CurrentlyIn: 3},
	})
	if err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	recent, err := repo.GetRecent(2)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(recent))
	}
	if recent[0].Direction != model.DirectionExited || recent[0].CurrentlyIn != 3 {
		t.Errorf("Expected newest exit event first, got %+v", recent[0])
	}
	if !recent[1].Timestamp.Equal(base.Add(time.Second)) {
		t.Errorf("Unexpected timestamp: %v", recent[1].Timestamp)
	}

	if err := repo.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	recent, _ = repo.GetRecent(10)
	if len(recent) != 0 {
		t.Errorf("Expected no entries after DeleteAll, got %d", len(recent))
	}
}

func TestSettingsRepository(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t))

	if _, ok, err := repo.Get("occupancy_limit"); err != nil || ok {
		t.Fatalf("Expected unset key, got ok=%v err=%v", ok, err)
	}

	if err := repo.Set("occupancy_limit", "50"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Set("occupancy_limit", "75"); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}

	value, ok, err := repo.Get("occupancy_limit")
	if err != nil || !ok || value != "75" {
		t.Errorf("Expected 75, got %q ok=%v err=%v", value, ok, err)
	}
}

func TestDatabase_ConcurrentAccess(t *testing.T) {
	repo := NewCountLogRepository(setupTestDB(t))

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(idx int) {
			_, err := repo.Insert(&model.CountLog{
				Timestamp: time.Now(), CameraIP: "cam", CameraIndex: idx,
				Direction: model.DirectionEntered, Entered: idx,
			})
			if err != nil {
				t.Errorf("Concurrent insert %d failed: %v", idx, err)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	recent, err := repo.GetRecent(100)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(recent) != 10 {
		t.Errorf("Expected 10 entries, got %d", len(recent))
	}
}
