// Package metrics exposes Prometheus instrumentation for the monitor.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/teslashibe/eyeguard/pkg/distance"
	"github.com/teslashibe/eyeguard/pkg/reminder"
)

// Skip reasons for FacesSkipped.
const (
	ReasonLandmarks = "malformed_landmarks"
	ReasonGeometry  = "insufficient_points"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Frames              prometheus.Counter
	DetectErrors        prometheus.Counter
	AcquisitionFailures prometheus.Counter
	Faces               prometheus.Counter
	FacesSkipped        *prometheus.CounterVec
	Reminders           *prometheus.CounterVec
	Distance            prometheus.Gauge
	State               prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eyeguard_frames_total",
			Help: "Frames read from the camera",
		}),
		DetectErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eyeguard_detect_errors_total",
			Help: "Frames dropped because landmark detection failed",
		}),
		AcquisitionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eyeguard_acquisition_failures_total",
			Help: "Camera reads that ended the capture loop",
		}),
		Faces: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eyeguard_faces_total",
			Help: "Faces classified",
		}),
		FacesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eyeguard_faces_skipped_total",
			Help: "Faces skipped for the frame, by reason",
		}, []string{"reason"}),
		Reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eyeguard_reminders_total",
			Help: "Reminders emitted, by state and kind",
		}, []string{"state", "kind"}),
		Distance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "eyeguard_distance",
			Help: "Latest eye centroid distance in pixels",
		}),
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "eyeguard_state",
			Help: "Latest safety state (0 unknown, 1 green, 2 yellow, 3 red)",
		}),
	}

	m.registry.MustRegister(
		m.Frames,
		m.DetectErrors,
		m.AcquisitionFailures,
		m.Faces,
		m.FacesSkipped,
		m.Reminders,
		m.Distance,
		m.State,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveReading records the published reading.
func (m *Metrics) ObserveReading(r distance.Reading) {
	m.Distance.Set(r.Distance)
	m.State.Set(float64(r.State))
}

// Notify implements reminder.Sink.
func (m *Metrics) Notify(r reminder.Reminder) {
	m.Reminders.WithLabelValues(r.State.String(), string(r.Kind)).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
