// Package worker talks to the landmark predictor subprocess.
//
// Every message in both directions is a big-endian uint32 length followed by
// a JSON body. The Go side sends one Request per frame and reads exactly one
// Response back.
package worker

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/teslashibe/eyeguard/pkg/landmarks"
)

// MaxMessageSize bounds a single frame on the pipe.
const MaxMessageSize = 16 << 20

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request asks the worker for landmarks of the given face boxes.
type Request struct {
	// Image is a JPEG-encoded frame; it is base64 on the wire.
	Image []byte `json:"image"`
	// Faces are [x, y, w, h] boxes in pixels.
	Faces [][4]int `json:"faces"`
}

// Response carries one landmark list per requested face, in order.
type Response struct {
	Faces [][][2]float64 `json:"faces"`
	Error string         `json:"error,omitempty"`
}

// WriteMessage writes a length-prefixed message.
func WriteMessage(w io.Writer, body []byte) error {
	if len(body) > MaxMessageSize {
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(body))
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(body))); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// ReadMessage reads one length-prefixed message.
func ReadMessage(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	if n > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// Conn is a request/response channel to a worker. Calls are serialized.
type Conn struct {
	mu sync.Mutex
	r  io.Reader
	w  io.Writer
}

// NewConn wraps the worker's stdout (r) and stdin (w).
func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{r: r, w: w}
}

// Predict sends a JPEG and the face boxes found in it and returns the
// landmarks the worker predicted for each box.
func (c *Conn) Predict(jpeg []byte, boxes []image.Rectangle) ([]landmarks.Face, error) {
	if len(boxes) == 0 {
		return nil, nil
	}

	req := Request{Image: jpeg, Faces: make([][4]int, len(boxes))}
	for i, b := range boxes {
		req.Faces[i] = [4]int{b.Min.X, b.Min.Y, b.Dx(), b.Dy()}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := WriteMessage(c.w, body); err != nil {
		return nil, fmt.Errorf("%w: write: %v", ErrWorkerClosed, err)
	}
	raw, err := ReadMessage(c.r)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %v", ErrWorkerClosed, err)
		}
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, &PredictError{Message: resp.Error}
	}
	if len(resp.Faces) != len(boxes) {
		return nil, fmt.Errorf("worker returned %d faces for %d boxes", len(resp.Faces), len(boxes))
	}

	faces := make([]landmarks.Face, len(boxes))
	for i, pts := range resp.Faces {
		faces[i].Box = boxes[i]
		faces[i].Points = make([]landmarks.Point, len(pts))
		for j, p := range pts {
			faces[i].Points[j] = landmarks.Pt(p[0], p[1])
		}
	}
	return faces, nil
}
