package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"occupancy/internal/model"
)

// ErrCameraNotFound is returned when deleting an unknown camera id.
var ErrCameraNotFound = errors.New("camera not found")

// CameraRepository implements repository.CameraRepository for SQLite.
type CameraRepository struct {
	db *DB
}

// NewCameraRepository creates a new SQLite camera repository.
func NewCameraRepository(db *DB) *CameraRepository {
	return &CameraRepository{db: db}
}

// Insert appends a camera after the last position and returns its id.
// The assigned position is written back into cam.
func (r *CameraRepository) Insert(cam *model.Camera) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM cameras`).Scan(&position); err != nil {
		return 0, fmt.Errorf("failed to count cameras: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO cameras (ip, username, password, position)
		VALUES (?, ?, ?, ?)
	`, cam.IP, cam.Username, cam.Password, position)
	if err != nil {
		return 0, fmt.Errorf("failed to insert camera: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit camera: %w", err)
	}

	cam.ID = id
	cam.Position = position
	return id, nil
}

// GetAll returns every camera in position order.
func (r *CameraRepository) GetAll() ([]model.Camera, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	return queryCameras(r.db.Conn())
}

// Delete removes a camera and closes the gap in positions behind it.
func (r *CameraRepository) Delete(id int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRow(`SELECT position FROM cameras WHERE id = ?`, id).Scan(&position)
	if err == sql.ErrNoRows {
		return fmt.Errorf("camera %d: %w", id, ErrCameraNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get camera: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM cameras WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete camera: %w", err)
	}
	if _, err := tx.Exec(`UPDATE cameras SET position = position - 1 WHERE position > ?`, position); err != nil {
		return fmt.Errorf("failed to shift camera positions: %w", err)
	}

	return tx.Commit()
}

// ReplaceAll deletes every camera and inserts cams in order.
// It returns the stored cameras with their new ids and positions.
func (r *CameraRepository) ReplaceAll(cams []model.Camera) ([]model.Camera, error) {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cameras`); err != nil {
		return nil, fmt.Errorf("failed to clear cameras: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cameras (ip, username, password, position)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, cam := range cams {
		if _, err := stmt.Exec(cam.IP, cam.Username, cam.Password, i); err != nil {
			return nil, fmt.Errorf("failed to insert camera %s: %w", cam.IP, err)
		}
	}

	stored, err := queryCameras(tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cameras: %w", err)
	}
	return stored, nil
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func queryCameras(q querier) ([]model.Camera, error) {
	rows, err := q.Query(`
		SELECT id, ip, username, password, position
		FROM cameras ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cameras: %w", err)
	}
	defer rows.Close()

	cameras := []model.Camera{}
	for rows.Next() {
		var cam model.Camera
		if err := rows.Scan(&cam.ID, &cam.IP, &cam.Username, &cam.Password, &cam.Position); err != nil {
			return nil, fmt.Errorf("failed to scan camera: %w", err)
		}
		cameras = append(cameras, cam)
	}

	return cameras, rows.Err()
}
