package landmarks

import "errors"

// ErrMalformedLandmarks is returned when a face has too few landmarks to
// cover both eye contours.
var ErrMalformedLandmarks = errors.New("landmarks: malformed landmark set")

// ErrSourceClosed is returned by a Source that can no longer produce
// landmarks, for example because its backend process exited.
var ErrSourceClosed = errors.New("landmarks: source closed")
