package zone

import (
	"time"

	"occupancy/internal/model"
)

// Occupancy is the aggregated counter state of a set of cameras.
// CurrentlyIn is Entered-Exited and may be negative.
type Occupancy struct {
	Entered     int `json:"entered"`
	Exited      int `json:"exited"`
	CurrentlyIn int `json:"currently_in"`
}

// ZoneReport is a zone with its aggregated occupancy.
type ZoneReport struct {
	Zone
	Occupancy
	Removable bool `json:"removable"`
}

// Report is the site-wide view rendered by the dashboard.
type Report struct {
	Zones            []ZoneReport         `json:"zones"`
	Unassigned       []model.CameraCounts `json:"unassigned"`
	CameraCount      int                  `json:"camera_count"`
	TotalCurrentlyIn int                  `json:"total_currently_in"`
	OccupancyLimit   int                  `json:"occupancy_limit"`
	OverLimit        bool                 `json:"over_limit"`
	GeneratedAt      time.Time            `json:"generated_at"`
}

// ZoneOccupancy sums the counters of the zone's cameras. Indices missing from
// the snapshot contribute nothing.
func ZoneOccupancy(z Zone, snapshot []model.CameraCounts) Occupancy {
	var occ Occupancy
	for _, index := range z.Cameras {
		if index < 0 || index >= len(snapshot) {
			continue
		}
		occ.Entered += snapshot[index].Entered
		occ.Exited += snapshot[index].Exited
	}
	occ.CurrentlyIn = occ.Entered - occ.Exited
	return occ
}

// TotalOccupancy is the site-wide occupancy over every camera, zoned or not.
func TotalOccupancy(snapshot []model.CameraCounts) int {
	total := 0
	for _, c := range snapshot {
		total += c.Entered - c.Exited
	}
	return total
}

// UnassignedCameras returns the cameras that belong to no zone, in snapshot order.
func UnassignedCameras(snapshot []model.CameraCounts, zones []Zone) []model.CameraCounts {
	assigned := make(map[int]struct{})
	for _, z := range zones {
		for _, index := range z.Cameras {
			assigned[index] = struct{}{}
		}
	}

	unassigned := make([]model.CameraCounts, 0, len(snapshot))
	for i, c := range snapshot {
		if _, ok := assigned[i]; !ok {
			unassigned = append(unassigned, c)
		}
	}
	return unassigned
}

// Summarize builds the full report for a snapshot and zone set.
func Summarize(snapshot []model.CameraCounts, zones []Zone, limit int) Report {
	reports := make([]ZoneReport, 0, len(zones))
	for _, z := range zones {
		reports = append(reports, ZoneReport{
			Zone:      z,
			Occupancy: ZoneOccupancy(z, snapshot),
			Removable: CanRemoveZone(z),
		})
	}

	total := TotalOccupancy(snapshot)
	return Report{
		Zones:            reports,
		Unassigned:       UnassignedCameras(snapshot, zones),
		CameraCount:      len(snapshot),
		TotalCurrentlyIn: total,
		OccupancyLimit:   limit,
		OverLimit:        total > limit,
	}
}
