package overlay

import (
	"image"
	"testing"

	"github.com/teslashibe/eyeguard/pkg/distance"
	"github.com/teslashibe/eyeguard/pkg/landmarks"
)

func TestColor(t *testing.T) {
	seen := map[[4]uint8]distance.State{}
	for _, st := range []distance.State{distance.Green, distance.Yellow, distance.Red} {
		c := Color(st)
		key := [4]uint8{c.R, c.G, c.B, c.A}
		if prev, dup := seen[key]; dup {
			t.Errorf("%v and %v share color %v", prev, st, c)
		}
		seen[key] = st
	}
	if Color(distance.Unknown) != White {
		t.Error("Unknown should be white")
	}
}

func TestEyeBoxes(t *testing.T) {
	var eyes landmarks.Eyes
	for i := range eyes.Left {
		eyes.Left[i] = landmarks.Pt(float64(10+i), float64(20+i%2))
		eyes.Right[i] = landmarks.Pt(float64(60+i), float64(22-i%3))
	}

	boxes := EyeBoxes(eyes, distance.Red)
	if len(boxes) != 2 {
		t.Fatalf("got %d boxes, want 2", len(boxes))
	}

	tests := []struct {
		name string
		box  Box
		want image.Rectangle
	}{
		{"left", boxes[0], image.Rect(10, 20, 15, 21)},
		{"right", boxes[1], image.Rect(60, 20, 65, 22)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.box.Rect != tc.want {
				t.Errorf("rect: got %v, want %v", tc.box.Rect, tc.want)
			}
			if tc.box.Color != Red || tc.box.Thickness != Thickness {
				t.Errorf("style: got %v/%d", tc.box.Color, tc.box.Thickness)
			}
		})
	}
}
