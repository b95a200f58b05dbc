package storage

import (
	"context"
	"sync"
	"time"

	"occupancy/internal/logger"
	"occupancy/internal/model"
	"occupancy/internal/repository"
)

const (
	// DefaultBufferLimit is how many events are buffered before an early flush.
	DefaultBufferLimit = 50
	// maxRetained bounds the events kept in memory while the database fails.
	maxRetained = 10000
)

// BufferService buffers count events in memory and periodically writes them
// to the database in one batch.
type BufferService struct {
	events []model.CountLog
	limit  int
	mu     sync.Mutex
	logger *logger.Logger
	repo   repository.CountLogRepository
}

// NewBufferService creates a buffer flushing to repo once limit events are pending.
func NewBufferService(repo repository.CountLogRepository, logger *logger.Logger, limit int) *BufferService {
	if limit <= 0 {
		limit = DefaultBufferLimit
	}
	return &BufferService{
		events: make([]model.CountLog, 0, limit),
		limit:  limit,
		logger: logger,
		repo:   repo,
	}
}

// Run flushes on every interval until ctx is cancelled, then flushes once more.
func (s *BufferService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Flush()
			return
		case <-ticker.C:
			s.Flush()
		}
	}
}

// Add appends an event to the buffer and flushes when the limit is reached.
func (s *BufferService) Add(event model.CountLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
	if len(s.events) >= s.limit {
		s.flushLocked()
	}
}

// Pending returns the number of buffered events.
func (s *BufferService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Flush writes the buffered events to the database.
func (s *BufferService) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

// flushLocked must be called with s.mu held. Failed batches stay buffered
// for the next flush, oldest events are dropped past maxRetained.
func (s *BufferService) flushLocked() {
	if len(s.events) == 0 {
		return
	}

	if err := s.repo.InsertBatch(s.events); err != nil {
		s.logger.Error("Error saving %d count events to database: %v", len(s.events), err)
		if over := len(s.events) - maxRetained; over > 0 {
			s.logger.Warning("Dropping %d oldest count events", over)
			s.events = append(s.events[:0], s.events[over:]...)
		}
		return
	}

	s.logger.Info("Flushed %d count events to database", len(s.events))
	s.events = s.events[:0]
}
