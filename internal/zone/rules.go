package zone

import "fmt"

// ValidateAssignment checks that the zone exists and the camera index is
// non-negative. It does not look at other zones: AssignCamera moves cameras
// between zones instead of rejecting them.
func ValidateAssignment(s *Store, id string, index int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.validateAssignment(id, index)
	return err
}

// validateAssignment must be called with s.mu held.
func (s *Store) validateAssignment(id string, index int) (*Zone, error) {
	if index < 0 {
		return nil, fmt.Errorf("camera index %d: %w", index, ErrInvalidInput)
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("assign camera %d to %q: %w", index, id, ErrNotFound)
	}
	return s.zones[i], nil
}

// CanRemoveZone reports whether the zone holds no cameras.
func CanRemoveZone(z Zone) bool {
	return len(z.Cameras) == 0
}
