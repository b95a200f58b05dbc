package sqlite

import (
	"fmt"

	"occupancy/internal/model"
)

// CountLogRepository implements repository.CountLogRepository for SQLite.
type CountLogRepository struct {
	db *DB
}

// NewCountLogRepository creates a new SQLite count log repository.
func NewCountLogRepository(db *DB) *CountLogRepository {
	return &CountLogRepository{db: db}
}

// Insert adds a new count event to the database.
func (r *CountLogRepository) Insert(entry *model.CountLog) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO count_logs (timestamp, camera_ip, camera_index, direction, enter_count, exit_count, current_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.Timestamp, entry.CameraIP, entry.CameraIndex, entry.Direction, entry.Entered, entry.Exited, entry.CurrentlyIn)
	if err != nil {
		return 0, fmt.Errorf("failed to insert count log: %w", err)
	}

	return result.LastInsertId()
}

// InsertBatch adds multiple count events in a single transaction.
func (r *CountLogRepository) InsertBatch(entries []model.CountLog) error {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO count_logs (timestamp, camera_ip, camera_index, direction, enter_count, exit_count, current_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Timestamp, e.CameraIP, e.CameraIndex, e.Direction, e.Entered, e.Exited, e.CurrentlyIn); err != nil {
			return fmt.Errorf("failed to insert count log: %w", err)
		}
	}

	return tx.Commit()
}

// GetRecent returns up to limit events, newest first.
func (r *CountLogRepository) GetRecent(limit int) ([]model.CountLog, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, timestamp, camera_ip, camera_index, direction, enter_count, exit_count, current_count
		FROM count_logs ORDER BY timestamp DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query count logs: %w", err)
	}
	defer rows.Close()

	entries := []model.CountLog{}
	for rows.Next() {
		var e model.CountLog
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.CameraIP, &e.CameraIndex, &e.Direction, &e.Entered, &e.Exited, &e.CurrentlyIn); err != nil {
			return nil, fmt.Errorf("failed to scan count log: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// DeleteAll removes every count event.
func (r *CountLogRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM count_logs`); err != nil {
		return fmt.Errorf("failed to delete count logs: %w", err)
	}
	return nil
}
