// Package metrics exposes occupancy figures to Prometheus.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"occupancy/internal/zone"
)

// Occupancy holds the gauges updated from every report.
type Occupancy struct {
	registry *prometheus.Registry

	total      prometheus.Gauge
	limit      prometheus.Gauge
	overLimit  prometheus.Gauge
	cameras    prometheus.Gauge
	unassigned prometheus.Gauge

	zoneIn      *prometheus.GaugeVec
	zoneEntered *prometheus.GaugeVec
	zoneExited  *prometheus.GaugeVec
	zoneCameras *prometheus.GaugeVec
}

// NewOccupancy registers the occupancy gauges on a dedicated registry.
func NewOccupancy() *Occupancy {
	zoneLabels := []string{"zone_id", "zone_name"}
	m := &Occupancy{
		registry: prometheus.NewRegistry(),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_currently_in",
			Help: "People currently inside the site (entered minus exited over all cameras).",
		}),
		limit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_limit",
			Help: "Configured site occupancy limit.",
		}),
		overLimit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_over_limit",
			Help: "1 while the site occupancy exceeds the limit.",
		}),
		cameras: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_cameras",
			Help: "Number of cameras in the directory.",
		}),
		unassigned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "occupancy_unassigned_cameras",
			Help: "Number of cameras not assigned to any zone.",
		}),
		zoneIn: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "occupancy_zone_currently_in",
			Help: "People currently inside a zone.",
		}, zoneLabels),
		zoneEntered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "occupancy_zone_entered",
			Help: "Entries counted by the cameras of a zone.",
		}, zoneLabels),
		zoneExited: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "occupancy_zone_exited",
			Help: "Exits counted by the cameras of a zone.",
		}, zoneLabels),
		zoneCameras: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "occupancy_zone_cameras",
			Help: "Number of cameras assigned to a zone.",
		}, zoneLabels),
	}

	m.registry.MustRegister(
		m.total, m.limit, m.overLimit, m.cameras, m.unassigned,
		m.zoneIn, m.zoneEntered, m.zoneExited, m.zoneCameras,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Watch exposes a value sampled on every scrape, such as the number of
// connected viewers.
func (m *Occupancy) Watch(name, help string, sample func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, func() float64 { return float64(sample()) }))
}

// Name identifies the gauges among the report sinks.
func (m *Occupancy) Name() string {
	return "prometheus"
}

// Publish sets every gauge from the report. Zone series are rebuilt so
// removed zones disappear.
func (m *Occupancy) Publish(ctx context.Context, report zone.Report) error {
	m.total.Set(float64(report.TotalCurrentlyIn))
	m.limit.Set(float64(report.OccupancyLimit))
	m.cameras.Set(float64(report.CameraCount))
	m.unassigned.Set(float64(len(report.Unassigned)))
	if report.OverLimit {
		m.overLimit.Set(1)
	} else {
		m.overLimit.Set(0)
	}

	m.zoneIn.Reset()
	m.zoneEntered.Reset()
	m.zoneExited.Reset()
	m.zoneCameras.Reset()
	for _, z := range report.Zones {
		m.zoneIn.WithLabelValues(z.ID, z.Name).Set(float64(z.CurrentlyIn))
		m.zoneEntered.WithLabelValues(z.ID, z.Name).Set(float64(z.Entered))
		m.zoneExited.WithLabelValues(z.ID, z.Name).Set(float64(z.Exited))
		m.zoneCameras.WithLabelValues(z.ID, z.Name).Set(float64(len(z.Cameras)))
	}
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Occupancy) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
