package distance

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Thresholds is the calibration table for Classify.
// Samples at or above Upper are Red, samples in [Mid, Upper) are Yellow.
type Thresholds struct {
	Mid   float64 `json:"mid" validate:"gt=0"`
	Upper float64 `json:"upper" validate:"gtfield=Mid"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks 0 < Mid < Upper.
func (t Thresholds) Validate() error {
	if err := structValidator().Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidThresholds, err)
	}
	return nil
}

// DefaultThresholds returns the 300/450 table used with the status endpoint.
func DefaultThresholds() Thresholds {
	return Thresholds{Mid: 300, Upper: 450}
}

// CompactThresholds returns the tighter 280/330 table, calibrated for a
// lower resolution camera.
func CompactThresholds() Thresholds {
	return Thresholds{Mid: 280, Upper: 330}
}

var presets = map[string]func() Thresholds{
	"default": DefaultThresholds,
	"compact": CompactThresholds,
}

// Preset returns a named threshold table.
func Preset(name string) (Thresholds, error) {
	fn, ok := presets[strings.ToLower(name)]
	if !ok {
		return Thresholds{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidThresholds, name)
	}
	return fn(), nil
}

// PresetNames lists the available presets.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Classify maps a sample onto a State. Ties at a threshold resolve to the
// more severe state. Anything below Mid, including NaN, is Green.
func Classify(sample float64, t Thresholds) State {
	switch {
	case sample >= t.Upper:
		return Red
	case sample >= t.Mid:
		return Yellow
	default:
		return Green
	}
}
