// Package distance estimates viewing distance from eye geometry and maps it
// onto the Green/Yellow/Red safety scale.
//
// The estimate is the pixel distance between the two eye centroids. It grows
// as the user leans in, so larger values mean closer and less safe.
package distance

import (
	"fmt"

	"github.com/teslashibe/eyeguard/pkg/landmarks"
)

// Centroid returns the mean of points.
func Centroid(points []landmarks.Point) (landmarks.Point, error) {
	if len(points) == 0 {
		return landmarks.Point{}, ErrInsufficientPoints
	}
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return landmarks.Pt(sx/n, sy/n), nil
}

// Estimate returns the centroid-to-centroid distance between two eye contours.
func Estimate(left, right []landmarks.Point) (float64, error) {
	lc, err := Centroid(left)
	if err != nil {
		return 0, fmt.Errorf("left eye: %w", err)
	}
	rc, err := Centroid(right)
	if err != nil {
		return 0, fmt.Errorf("right eye: %w", err)
	}
	return lc.Dist(rc), nil
}

// EstimateEyes is Estimate over an extracted eye pair.
func EstimateEyes(e landmarks.Eyes) (float64, error) {
	return Estimate(e.Left.Points(), e.Right.Points())
}
