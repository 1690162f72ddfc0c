// Package vision holds the OpenCV-backed pieces of the capture loop: the
// webcam, the preview window and the face landmark source.
package vision

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when the device delivers no image.
var ErrEmptyFrame = errors.New("vision: empty frame")

// CameraConfig selects the device and the requested capture format.
// Zero values leave the driver defaults alone.
type CameraConfig struct {
	Device int
	Width  int
	Height int
	FPS    float64
}

// Camera reads frames from a local video device into a single reused Mat.
// The Mat returned by Read is only valid until the next Read.
type Camera struct {
	mu    sync.Mutex
	cap   *gocv.VideoCapture
	frame gocv.Mat
}

// OpenCamera opens the device described by cfg.
func OpenCamera(cfg CameraConfig) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("open camera %d: device not available", cfg.Device)
	}
	if cfg.Width > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	if cfg.FPS > 0 {
		vc.Set(gocv.VideoCaptureFPS, cfg.FPS)
	}
	return &Camera{cap: vc, frame: gocv.NewMat()}, nil
}

// Read grabs the next frame.
func (c *Camera) Read(ctx context.Context) (*gocv.Mat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.cap.Read(&c.frame); !ok {
		return nil, errors.New("vision: camera read failed")
	}
	if c.frame.Empty() {
		return nil, ErrEmptyFrame
	}
	return &c.frame, nil
}

// Close releases the device and the frame buffer.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.cap.Close()
	c.frame.Close()
	return err
}
