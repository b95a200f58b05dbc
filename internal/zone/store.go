package zone

import (
	"fmt"
	"strings"
	"sync"
)

// Zone groups cameras for aggregated occupancy reporting.
type Zone struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Cameras []int  `json:"cameras"`
}

// Has reports whether the camera index is assigned to the zone.
func (z Zone) Has(index int) bool {
	for _, c := range z.Cameras {
		if c == index {
			return true
		}
	}
	return false
}

func (z *Zone) clone() Zone {
	cameras := make([]int, len(z.Cameras))
	copy(cameras, z.Cameras)
	return Zone{ID: z.ID, Name: z.Name, Cameras: cameras}
}

func (z *Zone) remove(index int) bool {
	for i, c := range z.Cameras {
		if c == index {
			z.Cameras = append(z.Cameras[:i], z.Cameras[i+1:]...)
			return true
		}
	}
	return false
}

// Store owns the zones and their camera membership. Zones are kept in
// creation order and live only in memory.
//
// A camera index belongs to at most one zone: AssignCamera moves the index
// out of any other zone before adding it to the target.
type Store struct {
	mu    sync.RWMutex
	zones []*Zone
	seq   int
}

// NewStore creates an empty zone store.
func NewStore() *Store {
	return &Store{}
}

// CreateZone appends a new empty zone and returns its id.
// Ids are "zone-<n>" where n never repeats within the store's lifetime.
func (s *Store) CreateZone(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("zone name is empty: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("zone-%d", s.seq)
	s.seq++
	s.zones = append(s.zones, &Zone{ID: id, Name: name, Cameras: []int{}})
	return id, nil
}

// RemoveZone deletes an empty zone.
func (s *Store) RemoveZone(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	if !CanRemoveZone(*s.zones[i]) {
		return fmt.Errorf("remove %q: holds %d camera(s): %w", id, len(s.zones[i].Cameras), ErrNotEmpty)
	}

	s.zones = append(s.zones[:i], s.zones[i+1:]...)
	return nil
}

// AssignCamera adds the camera index to the zone, removing it from any other
// zone first. Assigning an index the zone already holds is a no-op.
func (s *Store) AssignCamera(id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.validateAssignment(id, index)
	if err != nil {
		return err
	}

	for _, z := range s.zones {
		if z != target {
			z.remove(index)
		}
	}
	if !target.Has(index) {
		target.Cameras = append(target.Cameras, index)
	}
	return nil
}

// UnassignCamera returns the camera to the dashboard. Unassigning an index the
// zone does not hold is a no-op.
func (s *Store) UnassignCamera(id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("unassign camera %d from %q: %w", index, id, ErrNotFound)
	}
	s.zones[i].remove(index)
	return nil
}

// ReconcileRemovedCamera drops a deleted camera from whichever zone held it
// and shifts every higher index down by one, following the directory's
// positional indexing.
func (s *Store) ReconcileRemovedCamera(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, z := range s.zones {
		cameras := z.Cameras[:0]
		for _, c := range z.Cameras {
			switch {
			case c == index:
				continue
			case c > index:
				c--
			}
			cameras = append(cameras, c)
		}
		z.Cameras = cameras
	}
}

// Reset empties every zone. Used when the camera directory is
// replaced as a whole and no index keeps its meaning.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, z := range s.zones {
		z.Cameras = []int{}
	}
}

// ListZones returns copies of all zones in creation order.
func (s *Store) ListZones() []Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()

	zones := make([]Zone, 0, len(s.zones))
	for _, z := range s.zones {
		zones = append(zones, z.clone())
	}
	return zones
}

// Zone returns a copy of a single zone.
func (s *Store) Zone(id string) (Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Zone{}, fmt.Errorf("zone %q: %w", id, ErrNotFound)
	}
	return s.zones[i].clone(), nil
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id string) int {
	for i, z := range s.zones {
		if z.ID == id {
			return i
		}
	}
	return -1
}
