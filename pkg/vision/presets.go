package vision

import (
	"fmt"
	"sort"
)

// Resolution preset names.
const (
	PresetVGA   = "vga"
	Preset720p  = "720p"
	Preset1080p = "1080p"
)

var presets = map[string]CameraConfig{
	PresetVGA:   {Width: 640, Height: 480},
	Preset720p:  {Width: 1280, Height: 720},
	Preset1080p: {Width: 1920, Height: 1080},
}

// PresetNames returns the resolution presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithPreset returns cfg with the preset's width and height applied.
// Pixel thresholds are tuned for vga; larger frames spread the eyes further
// apart and need their own thresholds.
func (cfg CameraConfig) WithPreset(name string) (CameraConfig, error) {
	p, ok := presets[name]
	if !ok {
		return cfg, fmt.Errorf("unknown resolution preset %q (have %v)", name, PresetNames())
	}
	cfg.Width, cfg.Height = p.Width, p.Height
	return cfg, nil
}
