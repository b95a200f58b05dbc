package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"occupancy/internal/camera"
	"occupancy/internal/camerafile"
	"occupancy/internal/logger"
	"occupancy/internal/model"
	"occupancy/internal/repository"
)

const occupancyLimitKey = "occupancy_limit"

var (
	// ErrInvalidCamera is returned when ip, username or password is missing.
	ErrInvalidCamera = errors.New("invalid camera details")
	// ErrIndexOutOfRange is returned for a camera index outside the directory.
	ErrIndexOutOfRange = errors.New("invalid camera index")
	// ErrInvalidLimit is returned for a negative occupancy limit.
	ErrInvalidLimit = errors.New("invalid occupancy limit")
)

// Device is the counter source behind a camera definition.
type Device interface {
	ReadCounts(ctx context.Context) (camera.Counts, error)
	Reset(ctx context.Context) error
}

// DeviceFactory creates the device for a camera definition.
type DeviceFactory func(cam model.Camera) Device

// HTTPDevices returns a factory creating camera HTTP clients.
func HTTPDevices(timeout time.Duration) DeviceFactory {
	return func(cam model.Camera) Device {
		return camera.NewClient(cam.IP, cam.Username, cam.Password, timeout)
	}
}

// Change is a counter update observed by Refresh.
type Change struct {
	Camera   model.Camera
	Previous camera.Counts
	Current  camera.Counts
}

// Directory is the authoritative, positionally indexed list of cameras
// together with the last counters read from each of them.
type Directory struct {
	mu      sync.RWMutex
	cameras []model.Camera
	devices map[int64]Device
	counts  map[int64]camera.Counts
	limit   int

	cameraRepo   repository.CameraRepository
	settingsRepo repository.SettingsRepository
	newDevice    DeviceFactory
	logger       *logger.Logger
}

// New loads the persisted cameras and occupancy limit.
func New(cameraRepo repository.CameraRepository, settingsRepo repository.SettingsRepository,
	newDevice DeviceFactory, logger *logger.Logger, defaultLimit int) (*Directory, error) {
	cameras, err := cameraRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load cameras: %w", err)
	}

	limit := defaultLimit
	if value, ok, err := settingsRepo.Get(occupancyLimitKey); err != nil {
		return nil, fmt.Errorf("failed to load occupancy limit: %w", err)
	} else if ok {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			limit = n
		}
	}

	d := &Directory{
		limit:        limit,
		cameraRepo:   cameraRepo,
		settingsRepo: settingsRepo,
		newDevice:    newDevice,
		logger:       logger,
	}
	d.setCameras(cameras)

	logger.Info("📷 Camera directory loaded with %d camera(s), occupancy limit %d", len(cameras), limit)
	return d, nil
}

// setCameras must be called with d.mu held (or before d is shared).
func (d *Directory) setCameras(cameras []model.Camera) {
	d.cameras = cameras
	d.devices = make(map[int64]Device, len(cameras))
	d.counts = make(map[int64]camera.Counts, len(cameras))
	for _, cam := range cameras {
		d.devices[cam.ID] = d.newDevice(cam)
	}
}

// Len returns the number of cameras.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cameras)
}

// Cameras returns the camera definitions in position order.
func (d *Directory) Cameras() []model.Camera {
	d.mu.RLock()
	defer d.mu.RUnlock()

	cameras := make([]model.Camera, len(d.cameras))
	copy(cameras, d.cameras)
	return cameras
}

// Snapshot returns the last known counters of every camera, indexed by position.
func (d *Directory) Snapshot() []model.CameraCounts {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snapshot := make([]model.CameraCounts, 0, len(d.cameras))
	for i, cam := range d.cameras {
		c := d.counts[cam.ID]
		snapshot = append(snapshot, model.CameraCounts{
			Index:       i,
			IP:          cam.IP,
			Entered:     c.Entered,
			Exited:      c.Exited,
			CurrentlyIn: c.CurrentlyIn(),
		})
	}
	return snapshot
}

// Page returns one page of the snapshot (0-based) and the total camera count.
// A page past the end is empty.
func (d *Directory) Page(page, perPage int) ([]model.CameraCounts, int) {
	snapshot := d.Snapshot()
	if page < 0 || perPage <= 0 {
		return []model.CameraCounts{}, len(snapshot)
	}

	start := page * perPage
	if start >= len(snapshot) {
		return []model.CameraCounts{}, len(snapshot)
	}
	end := min(start+perPage, len(snapshot))
	return snapshot[start:end], len(snapshot)
}

// Add appends a camera to the directory.
func (d *Directory) Add(ip, username, password string) (model.Camera, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" || username == "" || password == "" {
		return model.Camera{}, ErrInvalidCamera
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	cam := model.Camera{IP: ip, Username: username, Password: password}
	if _, err := d.cameraRepo.Insert(&cam); err != nil {
		return model.Camera{}, err
	}
	cam.Position = len(d.cameras)

	d.cameras = append(d.cameras, cam)
	d.devices[cam.ID] = d.newDevice(cam)
	d.logger.Info("📷 Camera %d added: %s", cam.Position+1, cam.IP)
	return cam, nil
}

// Remove deletes the camera at index. Every camera behind it moves one
// position down.
func (d *Directory) Remove(index int) (model.Camera, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index < 0 || index >= len(d.cameras) {
		return model.Camera{}, fmt.Errorf("camera %d: %w", index, ErrIndexOutOfRange)
	}

	cam := d.cameras[index]
	if err := d.cameraRepo.Delete(cam.ID); err != nil {
		return model.Camera{}, err
	}

	d.cameras = append(d.cameras[:index], d.cameras[index+1:]...)
	for i := index; i < len(d.cameras); i++ {
		d.cameras[i].Position = i
	}
	delete(d.devices, cam.ID)
	delete(d.counts, cam.ID)

	d.logger.Info("📷 Camera %d removed: %s", index+1, cam.IP)
	return cam, nil
}

type pollResult struct {
	cam    model.Camera
	counts camera.Counts
	err    error
}

// Refresh polls every camera concurrently and stores the new counters.
// A camera that cannot be read keeps its last known counters.
// It returns the cameras whose counters changed.
func (d *Directory) Refresh(ctx context.Context) []Change {
	d.mu.RLock()
	cameras := make([]model.Camera, len(d.cameras))
	copy(cameras, d.cameras)
	devices := make([]Device, len(cameras))
	for i, cam := range cameras {
		devices[i] = d.devices[cam.ID]
	}
	d.mu.RUnlock()

	results := make([]pollResult, len(cameras))
	var wg sync.WaitGroup
	for i := range cameras {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			counts, err := devices[i].ReadCounts(ctx)
			results[i] = pollResult{cam: cameras[i], counts: counts, err: err}
		}(i)
	}
	wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()

	positions := make(map[int64]int, len(d.cameras))
	for i, cam := range d.cameras {
		positions[cam.ID] = i
	}

	var changes []Change
	for _, res := range results {
		position, ok := positions[res.cam.ID]
		if !ok {
			// Removed while polling.
			continue
		}
		if res.err != nil {
			d.logger.Warning("Failed to read counts from camera %s: %v", res.cam.IP, res.err)
			continue
		}

		previous := d.counts[res.cam.ID]
		if previous == res.counts {
			continue
		}
		d.counts[res.cam.ID] = res.counts

		cam := d.cameras[position]
		changes = append(changes, Change{Camera: cam, Previous: previous, Current: res.counts})
	}
	return changes
}

// ResetCounts asks every camera to reset its counters. Cameras that accepted
// are zeroed locally; the errors of the others are joined.
func (d *Directory) ResetCounts(ctx context.Context) error {
	d.mu.RLock()
	cameras := make([]model.Camera, len(d.cameras))
	copy(cameras, d.cameras)
	devices := make([]Device, len(cameras))
	for i, cam := range cameras {
		devices[i] = d.devices[cam.ID]
	}
	d.mu.RUnlock()

	errs := make([]error, len(cameras))
	var wg sync.WaitGroup
	for i := range cameras {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := devices[i].Reset(ctx); err != nil {
				errs[i] = fmt.Errorf("camera %s: %w", cameras[i].IP, err)
			}
		}(i)
	}
	wg.Wait()

	d.mu.Lock()
	reset := 0
	for i, cam := range cameras {
		if errs[i] != nil {
			continue
		}
		if _, ok := d.devices[cam.ID]; ok {
			d.counts[cam.ID] = camera.Counts{}
			reset++
		}
	}
	d.mu.Unlock()

	d.logger.Info("🔄 Counts reset on %d of %d camera(s)", reset, len(cameras))
	return errors.Join(errs...)
}

// OccupancyLimit returns the current site occupancy limit.
func (d *Directory) OccupancyLimit() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.limit
}

// SetOccupancyLimit stores a new site occupancy limit.
func (d *Directory) SetOccupancyLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("%d: %w", limit, ErrInvalidLimit)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.settingsRepo.Set(occupancyLimitKey, strconv.Itoa(limit)); err != nil {
		return err
	}
	d.limit = limit
	d.logger.Info("Occupancy limit set to %d", limit)
	return nil
}

// Export returns the camera definitions as configuration entries.
func (d *Directory) Export() []model.CameraConfig {
	d.mu.RLock()
	defer d.mu.RUnlock()

	cfgs := make([]model.CameraConfig, 0, len(d.cameras))
	for _, cam := range d.cameras {
		cfgs = append(cfgs, model.CameraConfig{IP: cam.IP, Username: cam.Username, Password: cam.Password})
	}
	return cfgs
}

// Import replaces the whole directory with the given configuration.
// All counters start from zero until the next refresh.
func (d *Directory) Import(cfgs []model.CameraConfig) error {
	if err := camerafile.Validate(cfgs); err != nil {
		return err
	}

	cameras := make([]model.Camera, 0, len(cfgs))
	for _, c := range cfgs {
		cameras = append(cameras, model.Camera{IP: strings.TrimSpace(c.IP), Username: c.Username, Password: c.Password})
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	stored, err := d.cameraRepo.ReplaceAll(cameras)
	if err != nil {
		return err
	}
	d.setCameras(stored)

	d.logger.Info("📥 Imported configuration with %d camera(s)", len(stored))
	return nil
}
