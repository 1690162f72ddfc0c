package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/teslashibe/eyeguard/pkg/distance"
	"github.com/teslashibe/eyeguard/pkg/metrics"
	"github.com/teslashibe/eyeguard/pkg/reminder"
	"github.com/teslashibe/eyeguard/pkg/status"
)

func newTestServer(t *testing.T) (*Server, *status.Store, *metrics.Metrics) {
	t.Helper()
	store := status.NewStore()
	met := metrics.New()
	s := NewServer(Options{
		Port:    "0",
		Store:   store,
		Metrics: met,
		Settings: Settings{
			Thresholds: distance.DefaultThresholds(),
			Policy:     distance.PolicyWorst,
			Reminder:   reminder.DefaultConfig(),
		},
	})
	return s, store, met
}

func get(t *testing.T, s *Server, path string) (int, string) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, path, nil), int((2 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestGetData_BeforeFirstFrame(t *testing.T) {
	s, _, _ := newTestServer(t)

	code, body := get(t, s, "/get-data")
	if code != http.StatusOK {
		t.Fatalf("status: got %d", code)
	}
	if body != `{"state":null,"distance":null}` {
		t.Errorf("body: got %s", body)
	}
}

func TestGetData(t *testing.T) {
	tests := []struct {
		reading distance.Reading
		want    string
	}{
		{distance.Reading{State: distance.Green, Distance: 120}, `{"state":"green","distance":120}`},
		{distance.Reading{State: distance.Yellow, Distance: 300}, `{"state":"yellow","distance":300}`},
		{distance.Reading{State: distance.Red, Distance: 470.5}, `{"state":"red","distance":470.5}`},
	}
	for _, tc := range tests {
		t.Run(tc.reading.State.String(), func(t *testing.T) {
			s, store, _ := newTestServer(t)
			store.Update(tc.reading, 1)

			_, body := get(t, s, "/get-data")
			if body != tc.want {
				t.Errorf("got %s, want %s", body, tc.want)
			}
		})
	}
}

func TestAPIStatus(t *testing.T) {
	s, store, _ := newTestServer(t)
	store.Update(distance.Reading{State: distance.Red, Distance: 480}, 2)

	_, body := get(t, s, "/api/status")
	var got struct {
		State     string   `json:"state"`
		Distance  *float64 `json:"distance"`
		Faces     int      `json:"faces"`
		Frames    uint64   `json:"frames"`
		UpdatedAt *string  `json:"updated_at"`
	}
	if err := jsoniter.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	if got.State != "red" || got.Distance == nil || *got.Distance != 480 || got.Faces != 2 || got.Frames != 1 || got.UpdatedAt == nil {
		t.Errorf("got %+v", got)
	}
}

func TestAPIConfig(t *testing.T) {
	s, _, _ := newTestServer(t)

	_, body := get(t, s, "/api/config")
	for _, want := range []string{`"mid":300`, `"upper":450`, `"policy":"worst"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %s missing %s", body, want)
		}
	}
}

func TestHealthz(t *testing.T) {
	s, store, _ := newTestServer(t)

	_, body := get(t, s, "/healthz")
	if !strings.Contains(body, `"ready":false`) {
		t.Errorf("before first frame: %s", body)
	}
	store.Update(distance.Reading{State: distance.Green, Distance: 100}, 1)
	_, body = get(t, s, "/healthz")
	if !strings.Contains(body, `"ready":true`) {
		t.Errorf("after first frame: %s", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _, met := newTestServer(t)
	met.Frames.Inc()

	code, body := get(t, s, "/metrics")
	if code != http.StatusOK {
		t.Fatalf("status: got %d", code)
	}
	if !strings.Contains(body, "eyeguard_frames_total 1") {
		t.Errorf("metrics body missing frame counter")
	}
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	s, _, _ := newTestServer(t)

	code, _ := get(t, s, "/ws/status")
	if code != http.StatusUpgradeRequired {
		t.Errorf("got %d, want 426", code)
	}
}
