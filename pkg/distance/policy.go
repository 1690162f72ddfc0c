package distance

import "fmt"

// Reading is one classified distance sample.
type Reading struct {
	State    State   `json:"state"`
	Distance float64 `json:"distance"`
}

// Policy decides which face's reading represents a frame when several faces
// are detected.
type Policy string

const (
	// PolicyWorst keeps the most severe reading; equal states keep the larger distance.
	PolicyWorst Policy = "worst"
	// PolicyLast keeps the last face processed.
	PolicyLast Policy = "last"
)

// ParsePolicy validates a policy name.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(name); p {
	case PolicyWorst, PolicyLast:
		return p, nil
	case "":
		return PolicyWorst, nil
	}
	return "", fmt.Errorf("distance: unknown aggregation policy %q", name)
}

// Aggregate reduces per-face readings to one. It returns false when there
// are no readings.
func Aggregate(policy Policy, readings []Reading) (Reading, bool) {
	if len(readings) == 0 {
		return Reading{}, false
	}
	if policy == PolicyLast {
		return readings[len(readings)-1], true
	}

	best := readings[0]
	for _, r := range readings[1:] {
		if r.State > best.State || (r.State == best.State && r.Distance > best.Distance) {
			best = r
		}
	}
	return best, true
}
