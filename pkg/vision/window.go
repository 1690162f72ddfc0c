package vision

import (
	"gocv.io/x/gocv"

	"github.com/teslashibe/eyeguard/pkg/overlay"
)

// WindowName is the title of the preview window.
const WindowName = "Frame"

const keyEsc = 27

// Window shows annotated frames. Pressing q or Esc asks the loop to stop.
type Window struct {
	win *gocv.Window
}

// NewWindow opens the preview window.
func NewWindow() *Window {
	return &Window{win: gocv.NewWindow(WindowName)}
}

// Show draws boxes onto frame in place and displays it.
func (w *Window) Show(frame *gocv.Mat, boxes []overlay.Box) (bool, error) {
	Draw(frame, boxes)
	w.win.IMShow(*frame)
	key := w.win.WaitKey(1)
	return key == 'q' || key == keyEsc, nil
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}

// Draw outlines every box on img.
func Draw(img *gocv.Mat, boxes []overlay.Box) {
	for _, b := range boxes {
		gocv.Rectangle(img, b.Rect, b.Color, b.Thickness)
	}
}

// Headless is a display that shows nothing and never quits. It is used when
// no window system is available.
type Headless struct{}

// Show discards the frame.
func (Headless) Show(*gocv.Mat, []overlay.Box) (bool, error) { return false, nil }

// Close does nothing.
func (Headless) Close() error { return nil }
