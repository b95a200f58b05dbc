package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"occupancy/internal/camerafile"
	"occupancy/internal/logger"
	"occupancy/internal/model"
	"occupancy/internal/service/directory"
	"occupancy/internal/zone"
)

// Sink receives every report produced by a refresh.
type Sink interface {
	Name() string
	Publish(ctx context.Context, report zone.Report) error
}

// Uploader stores exported configuration files off-site.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// ZoneView is one zone with the counters of its cameras.
type ZoneView struct {
	zone.ZoneReport
	CameraCounts []model.CameraCounts `json:"camera_counts"`
}

// Dashboard ties the camera directory to the zone store and publishes the
// aggregated occupancy to its sinks.
type Dashboard struct {
	// mu serializes mutations that span the directory and the zone store, so
	// camera indices cannot shift between validating and applying a change.
	mu sync.Mutex

	store     *zone.Store
	directory *directory.Directory
	sinks     []Sink
	backup    Uploader
	interval  time.Duration
	perPage   int
	logger    *logger.Logger
}

func NewDashboard(store *zone.Store, dir *directory.Directory, interval time.Duration, perPage int, logger *logger.Logger) *Dashboard {
	if perPage <= 0 {
		perPage = 16
	}
	return &Dashboard{
		store:     store,
		directory: dir,
		interval:  interval,
		perPage:   perPage,
		logger:    logger,
	}
}

// AddSink registers a report sink. Sinks must be added before Run.
func (d *Dashboard) AddSink(sink Sink) {
	d.sinks = append(d.sinks, sink)
	d.logger.Info("📡 Report sink enabled: %s", sink.Name())
}

// SetBackup enables uploading every exported configuration.
func (d *Dashboard) SetBackup(backup Uploader) {
	d.backup = backup
}

// Run refreshes immediately and then on every interval until ctx is cancelled.
func (d *Dashboard) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("🔄 Dashboard refresh every %v", d.interval)
	d.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("🛑 Dashboard refresh stopped")
			return
		case <-ticker.C:
			d.Refresh(ctx)
		}
	}
}

// Refresh aggregates the last snapshot and fans the report out to every sink.
// Sink failures are logged and do not stop the others.
func (d *Dashboard) Refresh(ctx context.Context) zone.Report {
	report := d.Report()
	for _, sink := range d.sinks {
		if err := sink.Publish(ctx, report); err != nil {
			d.logger.Warning("Failed to publish report to %s: %v", sink.Name(), err)
		}
	}
	return report
}

// Report aggregates the current snapshot without publishing it.
func (d *Dashboard) Report() zone.Report {
	report := zone.Summarize(d.directory.Snapshot(), d.store.ListZones(), d.directory.OccupancyLimit())
	report.GeneratedAt = time.Now().UTC()
	return report
}

// Cameras returns one page of camera counters and the total number of cameras.
func (d *Dashboard) Cameras(page int) ([]model.CameraCounts, int) {
	return d.directory.Page(page, d.perPage)
}

func (d *Dashboard) AddCamera(ctx context.Context, ip, username, password string) (model.Camera, error) {
	d.mu.Lock()
	cam, err := d.directory.Add(ip, username, password)
	d.mu.Unlock()
	if err != nil {
		return model.Camera{}, err
	}
	d.Refresh(ctx)
	return cam, nil
}

// RemoveCamera deletes the camera and renumbers the zone memberships so they
// keep pointing at the same physical cameras.
func (d *Dashboard) RemoveCamera(ctx context.Context, index int) (model.Camera, error) {
	d.mu.Lock()
	cam, err := d.directory.Remove(index)
	if err == nil {
		d.store.ReconcileRemovedCamera(index)
	}
	d.mu.Unlock()
	if err != nil {
		return model.Camera{}, err
	}
	d.Refresh(ctx)
	return cam, nil
}

func (d *Dashboard) ResetCounts(ctx context.Context) error {
	err := d.directory.ResetCounts(ctx)
	d.Refresh(ctx)
	return err
}

func (d *Dashboard) SetOccupancyLimit(ctx context.Context, limit int) error {
	if err := d.directory.SetOccupancyLimit(limit); err != nil {
		return err
	}
	d.Refresh(ctx)
	return nil
}

// ExportConfig encodes the camera definitions. When a backup store is
// configured the file is uploaded too; upload failures are only logged.
func (d *Dashboard) ExportConfig(ctx context.Context, format camerafile.Format) ([]byte, error) {
	data, err := camerafile.Encode(d.directory.Export(), format)
	if err != nil {
		return nil, err
	}

	if d.backup != nil {
		key, err := d.backup.Upload(ctx, format.FileName(), format.ContentType(), data)
		if err != nil {
			d.logger.Warning("Configuration backup failed: %v", err)
		} else {
			d.logger.Info("💾 Configuration backed up to %s", key)
		}
	}
	return data, nil
}

// ImportConfig replaces every camera. Zones are kept but emptied since the
// old indices no longer refer to the same cameras.
func (d *Dashboard) ImportConfig(ctx context.Context, cfgs []model.CameraConfig) error {
	d.mu.Lock()
	err := d.directory.Import(cfgs)
	if err == nil {
		d.store.Reset()
	}
	d.mu.Unlock()
	if err != nil {
		return err
	}
	d.Refresh(ctx)
	return nil
}

func (d *Dashboard) CreateZone(ctx context.Context, name string) (zone.Zone, error) {
	id, err := d.store.CreateZone(name)
	if err != nil {
		return zone.Zone{}, err
	}
	d.logger.Info("🗂️ Zone %s created: %s", id, name)
	d.Refresh(ctx)
	return d.store.Zone(id)
}

func (d *Dashboard) RemoveZone(ctx context.Context, id string) error {
	d.mu.Lock()
	err := d.store.RemoveZone(id)
	d.mu.Unlock()
	if err != nil {
		return err
	}
	d.logger.Info("🗂️ Zone %s removed", id)
	d.Refresh(ctx)
	return nil
}

// AssignCamera moves a camera into the zone. The index must exist in the
// directory at the time of the call.
func (d *Dashboard) AssignCamera(ctx context.Context, id string, index int) error {
	if err := d.assignCamera(id, index); err != nil {
		return err
	}
	d.Refresh(ctx)
	return nil
}

func (d *Dashboard) assignCamera(id string, index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := zone.ValidateAssignment(d.store, id, index); err != nil {
		return err
	}
	if index >= d.directory.Len() {
		return fmt.Errorf("%w: camera %d", directory.ErrIndexOutOfRange, index)
	}
	return d.store.AssignCamera(id, index)
}

// UnassignCamera returns a camera from the zone to the unassigned list.
func (d *Dashboard) UnassignCamera(ctx context.Context, id string, index int) error {
	d.mu.Lock()
	err := d.store.UnassignCamera(id, index)
	d.mu.Unlock()
	if err != nil {
		return err
	}
	d.Refresh(ctx)
	return nil
}

// Zones lists every zone with its aggregated occupancy.
func (d *Dashboard) Zones() []zone.ZoneReport {
	return d.Report().Zones
}

// ZoneView returns the zone with its cameras' counters. Indices no longer
// present in the directory are skipped.
func (d *Dashboard) ZoneView(id string) (ZoneView, error) {
	z, err := d.store.Zone(id)
	if err != nil {
		return ZoneView{}, err
	}

	snapshot := d.directory.Snapshot()
	counts := make([]model.CameraCounts, 0, len(z.Cameras))
	for _, index := range z.Cameras {
		if index >= 0 && index < len(snapshot) {
			counts = append(counts, snapshot[index])
		}
	}

	return ZoneView{
		ZoneReport: zone.ZoneReport{
			Zone:      z,
			Occupancy: zone.ZoneOccupancy(z, snapshot),
			Removable: zone.CanRemoveZone(z),
		},
		CameraCounts: counts,
	}, nil
}
