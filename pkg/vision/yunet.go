package vision

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// FaceFinderConfig configures the YuNet face detector.
type FaceFinderConfig struct {
	ModelPath        string  // ONNX model
	ConfidenceThresh float64 // minimum face score
	NMSThresh        float64
	TopK             int
}

// DefaultFaceFinderConfig returns production defaults for YuNet.
func DefaultFaceFinderConfig() FaceFinderConfig {
	return FaceFinderConfig{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.6,
		NMSThresh:        0.3,
		TopK:             5000,
	}
}

// FaceFinder locates face boxes with OpenCV's FaceDetectorYN.
type FaceFinder struct {
	mu       sync.Mutex
	detector gocv.FaceDetectorYN
	cfg      FaceFinderConfig
	size     image.Point
}

// NewFaceFinder loads the YuNet model.
func NewFaceFinder(cfg FaceFinderConfig) (*FaceFinder, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	// input size is reset to the frame size before each detection
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"",
		image.Pt(320, 320),
		float32(cfg.ConfidenceThresh),
		float32(cfg.NMSThresh),
		cfg.TopK,
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &FaceFinder{detector: detector, cfg: cfg}, nil
}

// Find returns face boxes in pixel coordinates, clipped to the frame.
func (f *FaceFinder) Find(img gocv.Mat) ([]image.Rectangle, error) {
	if img.Empty() {
		return nil, ErrEmptyFrame
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	size := image.Pt(img.Cols(), img.Rows())
	if size != f.size {
		f.detector.SetInputSize(size)
		f.size = size
	}

	faces := gocv.NewMat()
	defer faces.Close()
	f.detector.Detect(img, &faces)

	bounds := image.Rectangle{Max: size}
	var boxes []image.Rectangle
	for r := 0; r < faces.Rows(); r++ {
		// columns 0-3 are x, y, w, h; 4-13 are five keypoints; 14 is the score
		x := int(faces.GetFloatAt(r, 0))
		y := int(faces.GetFloatAt(r, 1))
		w := int(faces.GetFloatAt(r, 2))
		h := int(faces.GetFloatAt(r, 3))

		box := image.Rect(x, y, x+w, y+h).Intersect(bounds)
		if box.Empty() {
			continue
		}
		boxes = append(boxes, box)
	}
	return boxes, nil
}

// Close releases the detector.
func (f *FaceFinder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detector.Close()
	return nil
}
