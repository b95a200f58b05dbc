package counter

import (
	"context"
	"sync"
	"time"

	"occupancy/internal/logger"
	"occupancy/internal/model"
	"occupancy/internal/service/directory"
)

// Source is polled for counter changes.
type Source interface {
	Refresh(ctx context.Context) []directory.Change
}

// Buffer collects count events for storage.
type Buffer interface {
	Add(event model.CountLog)
}

// Logger polls the camera directory and records every entry and exit as a
// count event. Events are logged and buffered by a small pool of workers.
type Logger struct {
	source   Source
	buffer   Buffer
	logger   *logger.Logger
	interval time.Duration
	now      func() time.Time

	queue      chan model.CountLog
	numWorkers int
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// NewLogger creates a count logger and starts its record workers.
func NewLogger(source Source, buffer Buffer, logger *logger.Logger, interval time.Duration, workers int) *Logger {
	if workers < 1 {
		workers = 1
	}

	l := &Logger{
		source:     source,
		buffer:     buffer,
		logger:     logger,
		interval:   interval,
		now:        time.Now,
		queue:      make(chan model.CountLog, 256),
		numWorkers: workers,
	}

	for i := 0; i < l.numWorkers; i++ {
		l.wg.Add(1)
		go l.recordWorker(i)
	}
	return l
}

// Run polls until ctx is cancelled.
func (l *Logger) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("🎬 Count logger started - polling every %s", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("🛑 Count logger stopped")
			return
		case <-ticker.C:
			l.Poll(ctx)
		}
	}
}

// Poll refreshes the source once and queues an event for every camera whose
// entered or exited counter grew.
func (l *Logger) Poll(ctx context.Context) {
	for _, change := range l.source.Refresh(ctx) {
		for _, event := range Events(change, l.now()) {
			select {
			case l.queue <- event:
			default:
				l.logger.Warning("Count log queue full - dropping %s event for camera %s", event.Direction, event.CameraIP)
			}
		}
	}
}

// Events converts a counter change into count events. Decreasing counters
// (a reset) produce none.
func Events(change directory.Change, at time.Time) []model.CountLog {
	var events []model.CountLog
	cur, prev := change.Current, change.Previous

	if cur.Entered > prev.Entered {
		events = append(events, model.CountLog{
			Timestamp:   at,
			CameraIP:    change.Camera.IP,
			CameraIndex: change.Camera.Position,
			Direction:   model.DirectionEntered,
			Entered:     cur.Entered,
			Exited:      prev.Exited,
			CurrentlyIn: cur.CurrentlyIn(),
		})
	}
	if cur.Exited > prev.Exited {
		events = append(events, model.CountLog{
			Timestamp:   at,
			CameraIP:    change.Camera.IP,
			CameraIndex: change.Camera.Position,
			Direction:   model.DirectionExited,
			Entered:     prev.Entered,
			Exited:      cur.Exited,
			CurrentlyIn: cur.CurrentlyIn(),
		})
	}
	return events
}

// recordWorker logs and buffers queued events until the queue is closed.
func (l *Logger) recordWorker(workerID int) {
	defer l.wg.Done()

	for event := range l.queue {
		l.logger.Info("%s, Camera %d, person %s (Occupancy: %d)",
			event.Timestamp.Format("15:04:05"), event.CameraIndex+1, event.Direction, event.CurrentlyIn)
		l.buffer.Add(event)
	}
}

// Stop drains the queue and waits for the workers.
func (l *Logger) Stop() {
	l.stopOnce.Do(func() {
		close(l.queue)
		l.wg.Wait()
		l.logger.Info("🛑 All count log workers stopped")
	})
}
