package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"occupancy/internal/zone"
)

func sampleReport() zone.Report {
	return zone.Report{
		TotalCurrentlyIn: 14,
		OccupancyLimit:   10,
		OverLimit:        true,
		CameraCount:      3,
		Zones: []zone.ZoneReport{
			{
				Zone:      zone.Zone{ID: "zone-0", Name: "Lobby", Cameras: []int{0, 2}},
				Occupancy: zone.Occupancy{Entered: 15, Exited: 5, CurrentlyIn: 10},
			},
		},
	}
}

func TestOccupancy_Publish(t *testing.T) {
	m := NewOccupancy()

	if err := m.Publish(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if got := testutil.ToFloat64(m.total); got != 14 {
		t.Errorf("Expected total 14, got %v", got)
	}
	if got := testutil.ToFloat64(m.overLimit); got != 1 {
		t.Errorf("Expected over limit 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.zoneIn.WithLabelValues("zone-0", "Lobby")); got != 10 {
		t.Errorf("Expected zone occupancy 10, got %v", got)
	}
	if got := testutil.ToFloat64(m.zoneCameras.WithLabelValues("zone-0", "Lobby")); got != 2 {
		t.Errorf("Expected 2 zone cameras, got %v", got)
	}
}

func TestOccupancy_RemovedZonesDisappear(t *testing.T) {
	m := NewOccupancy()
	m.Publish(context.Background(), sampleReport())
	m.Publish(context.Background(), zone.Report{TotalCurrentlyIn: 1})

	if n := testutil.CollectAndCount(m.zoneIn); n != 0 {
		t.Errorf("Expected no zone series, got %d", n)
	}
	if got := testutil.ToFloat64(m.overLimit); got != 0 {
		t.Errorf("Expected over limit 0, got %v", got)
	}
}

func TestOccupancy_Handler(t *testing.T) {
	m := NewOccupancy()
	m.Publish(context.Background(), sampleReport())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `occupancy_zone_currently_in{zone_id="zone-0",zone_name="Lobby"} 10`) {
		t.Errorf("Zone gauge missing from exposition:\n%s", body)
	}
}

func TestOccupancy_Watch(t *testing.T) {
	m := NewOccupancy()
	viewers := 2
	m.Watch("occupancy_viewers", "Connected viewers.", func() int { return viewers })

	viewers = 5
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "occupancy_viewers 5") {
		t.Errorf("Expected the sampled viewer count, got:\n%s", rec.Body.String())
	}
}
