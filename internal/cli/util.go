package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/teslashibe/eyeguard/pkg/distance"
)

func presetList() string {
	return strings.Join(distance.PresetNames(), ", ")
}

func parseInterval(name, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

// formatDistance renders a nullable distance for terminal output.
func formatDistance(d *float64) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f px", *d)
}

// formatState renders a state name, or "unknown" before the first frame.
func formatState(s distance.State) string {
	if s == distance.Unknown {
		return "unknown"
	}
	return s.String()
}
