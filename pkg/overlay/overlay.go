// Package overlay derives the eye boxes and colors handed to the renderer.
package overlay

import (
	"image"
	"image/color"

	"github.com/teslashibe/eyeguard/pkg/distance"
	"github.com/teslashibe/eyeguard/pkg/landmarks"
)

// Thickness is the outline width in pixels.
const Thickness = 2

// Colors per safety state.
var (
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Box is one rectangle to draw.
type Box struct {
	Rect      image.Rectangle
	Color     color.RGBA
	Thickness int
}

// Color returns the outline color for state.
func Color(state distance.State) color.RGBA {
	switch state {
	case distance.Green:
		return Green
	case distance.Yellow:
		return Yellow
	case distance.Red:
		return Red
	default:
		return White
	}
}

// EyeBoxes returns the left and right eye boxes for one face.
func EyeBoxes(eyes landmarks.Eyes, state distance.State) []Box {
	c := Color(state)
	return []Box{
		{Rect: eyes.Left.Bounds(), Color: c, Thickness: Thickness},
		{Rect: eyes.Right.Bounds(), Color: c, Thickness: Thickness},
	}
}
