package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/teslashibe/eyeguard/pkg/distance"
	"github.com/teslashibe/eyeguard/pkg/reminder"
)

func TestMetrics_Reminders(t *testing.T) {
	m := New()
	m.Notify(reminder.Reminder{State: distance.Red, Kind: reminder.KindTransition})
	m.Notify(reminder.Reminder{State: distance.Red, Kind: reminder.KindRepeat})
	m.Notify(reminder.Reminder{State: distance.Red, Kind: reminder.KindRepeat})

	if got := testutil.ToFloat64(m.Reminders.WithLabelValues("red", "repeat")); got != 2 {
		t.Errorf("red repeats: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Reminders.WithLabelValues("red", "transition")); got != 1 {
		t.Errorf("red transitions: got %v, want 1", got)
	}
}

func TestMetrics_ObserveReading(t *testing.T) {
	m := New()
	m.ObserveReading(distance.Reading{State: distance.Yellow, Distance: 333})

	if got := testutil.ToFloat64(m.Distance); got != 333 {
		t.Errorf("distance: got %v, want 333", got)
	}
	if got := testutil.ToFloat64(m.State); got != 2 {
		t.Errorf("state: got %v, want 2", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Frames.Inc()
	m.FacesSkipped.WithLabelValues(ReasonLandmarks).Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		"eyeguard_frames_total 1",
		`eyeguard_faces_skipped_total{reason="malformed_landmarks"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
