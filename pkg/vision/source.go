package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/teslashibe/eyeguard/pkg/landmarks"
	"github.com/teslashibe/eyeguard/pkg/worker"
)

// Predictor turns face boxes in a JPEG into 68-point landmarks.
type Predictor interface {
	Predict(jpeg []byte, boxes []image.Rectangle) ([]landmarks.Face, error)
}

// LandmarkSource finds faces with YuNet and asks the predictor for their
// landmarks. It satisfies landmarks.Source for OpenCV frames.
type LandmarkSource struct {
	finder    *FaceFinder
	predictor Predictor
}

var _ landmarks.Source[*gocv.Mat] = (*LandmarkSource)(nil)

// NewLandmarkSource combines a face finder and a predictor.
func NewLandmarkSource(finder *FaceFinder, predictor Predictor) *LandmarkSource {
	return &LandmarkSource{finder: finder, predictor: predictor}
}

// Detect returns the landmarks of every face in frame, in detection order.
// A frame without faces yields an empty slice and no error.
func (s *LandmarkSource) Detect(frame *gocv.Mat) ([]landmarks.Face, error) {
	boxes, err := s.finder.Find(*frame)
	if err != nil {
		return nil, fmt.Errorf("find faces: %w", err)
	}
	if len(boxes) == 0 {
		return nil, nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	faces, err := s.predictor.Predict(buf.GetBytes(), boxes)
	if err != nil {
		return nil, fmt.Errorf("predict landmarks: %w", err)
	}
	return faces, nil
}

// Close releases the face finder.
func (s *LandmarkSource) Close() error {
	return s.finder.Close()
}

var _ Predictor = (*worker.Conn)(nil)
