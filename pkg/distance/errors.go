package distance

import "errors"

var (
	// ErrInsufficientPoints is returned when an eye contour has no points.
	ErrInsufficientPoints = errors.New("distance: insufficient points")

	// ErrInvalidThresholds is returned for a threshold table that is not 0 < Mid < Upper.
	ErrInvalidThresholds = errors.New("distance: invalid thresholds")
)
