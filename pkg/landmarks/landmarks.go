// Package landmarks holds the 68-point face landmark model and the eye
// geometry extractor that isolates the two eye contours from it.
package landmarks

import (
	"fmt"
	"image"
	"math"
)

// Landmark indices following the iBUG 300-W / dlib 68-point convention.
const (
	LeftEyeStart   = 36
	LeftEyeEnd     = 42 // exclusive
	RightEyeStart  = 42
	RightEyeEnd    = 48 // exclusive
	EyeContourSize = 6

	// MinLandmarks is the smallest point count that still covers both eyes.
	MinLandmarks = RightEyeEnd
	NumLandmarks = 68
)

// Point is a pixel coordinate in the frame.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Face is one detected face as returned by a landmark source.
type Face struct {
	Box    image.Rectangle `json:"box"`
	Points []Point         `json:"points"`
}

// Source turns a frame into zero or more faces with landmarks.
type Source[F any] interface {
	Detect(frame F) ([]Face, error)
}

// Set is a validated 68-point landmark array.
type Set [NumLandmarks]Point

// NewSet validates points once and copies them into a fixed-size Set.
// Points 48..67 may be absent; they are left zero.
func NewSet(points []Point) (Set, error) {
	var s Set
	if len(points) < MinLandmarks {
		return s, fmt.Errorf("%w: got %d points, need %d", ErrMalformedLandmarks, len(points), MinLandmarks)
	}
	copy(s[:], points)
	return s, nil
}

// LeftEye returns points 36..41.
func (s *Set) LeftEye() EyeContour {
	var c EyeContour
	copy(c[:], s[LeftEyeStart:LeftEyeEnd])
	return c
}

// RightEye returns points 42..47.
func (s *Set) RightEye() EyeContour {
	var c EyeContour
	copy(c[:], s[RightEyeStart:RightEyeEnd])
	return c
}

// EyeContour is the six-point outline of one eye.
type EyeContour [EyeContourSize]Point

// Points returns the contour as a slice.
func (c EyeContour) Points() []Point {
	return c[:]
}

// Bounds returns the axis-aligned box spanning the contour.
// Coordinates are truncated to whole pixels.
func (c EyeContour) Bounds() image.Rectangle {
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := c[0].X, c[0].Y
	for _, p := range c[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return image.Rect(int(minX), int(minY), int(maxX), int(maxY))
}

// Eyes is the pair of contours extracted from one face.
type Eyes struct {
	Left  EyeContour
	Right EyeContour
}

// ExtractEyes selects the left and right eye contours from a face's
// landmark list. It fails with ErrMalformedLandmarks if the list is too
// short to contain both eyes.
func ExtractEyes(points []Point) (Eyes, error) {
	s, err := NewSet(points)
	if err != nil {
		return Eyes{}, err
	}
	return Eyes{Left: s.LeftEye(), Right: s.RightEye()}, nil
}
