// Package monitor runs the capture → classify → notify loop.
//
// The loop is generic over the frame type so the camera, detector and display
// can be OpenCV-backed in production and plain fakes in tests.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/teslashibe/eyeguard/internal/log"
	"github.com/teslashibe/eyeguard/pkg/distance"
	"github.com/teslashibe/eyeguard/pkg/landmarks"
	"github.com/teslashibe/eyeguard/pkg/metrics"
	"github.com/teslashibe/eyeguard/pkg/overlay"
	"github.com/teslashibe/eyeguard/pkg/reminder"
	"github.com/teslashibe/eyeguard/pkg/status"
)

// Camera produces frames. Read blocks until a frame is available.
type Camera[F any] interface {
	Read(ctx context.Context) (F, error)
	Close() error
}

// Display renders a frame with its eye boxes and reports a quit request.
type Display[F any] interface {
	Show(frame F, boxes []overlay.Box) (quit bool, err error)
	Close() error
}

// Config holds the tunable parameters of the loop.
type Config struct {
	Thresholds distance.Thresholds
	Policy     distance.Policy `validate:"oneof=worst last"`
	// MaxFPS caps the frame rate; 0 reads as fast as the camera delivers.
	MaxFPS   float64 `validate:"gte=0"`
	Reminder reminder.Config
}

// DefaultConfig returns the standard thresholds, worst-face policy and
// 30 fps cap.
func DefaultConfig() Config {
	return Config{
		Thresholds: distance.DefaultThresholds(),
		Policy:     distance.PolicyWorst,
		MaxFPS:     30,
		Reminder:   reminder.DefaultConfig(),
	}
}

// Validate checks the config. The threshold table is checked first so a
// bad table reports distance.ErrInvalidThresholds.
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

// Deps are the collaborators of a Monitor. Camera and Detector are required.
type Deps[F any] struct {
	Camera   Camera[F]
	Detector landmarks.Source[F]
	Display  Display[F]
	Store    *status.Store
	Sink     reminder.Sink
	Clock    reminder.Clock
	Metrics  *metrics.Metrics
}

// FrameResult is what one frame produced.
type FrameResult struct {
	Reading distance.Reading
	// OK is false when no face yielded a usable reading.
	OK      bool
	Valid   int
	Skipped int
	Boxes   []overlay.Box
}

// Monitor is the capture loop.
type Monitor[F any] struct {
	cfg       Config
	deps      Deps[F]
	scheduler *reminder.Scheduler
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// New validates cfg and wires the loop.
func New[F any](cfg Config, deps Deps[F]) (*Monitor[F], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Camera == nil || deps.Detector == nil {
		return nil, errors.New("monitor: camera and detector are required")
	}
	if deps.Store == nil {
		deps.Store = status.NewStore()
	}

	sink := deps.Sink
	if deps.Metrics != nil {
		sink = reminder.MultiSink{sink, deps.Metrics}
	}

	m := &Monitor[F]{
		cfg:       cfg,
		deps:      deps,
		scheduler: reminder.New(cfg.Reminder, sink, deps.Clock),
		logger:    log.With("component", "monitor"),
	}
	if cfg.MaxFPS > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(cfg.MaxFPS), 1)
	}
	return m, nil
}

// Store returns the status store the loop publishes to.
func (m *Monitor[F]) Store() *status.Store {
	return m.deps.Store
}

// Scheduler returns the reminder scheduler.
func (m *Monitor[F]) Scheduler() *reminder.Scheduler {
	return m.scheduler
}

// Run processes frames until ctx is cancelled, the display asks to quit or
// the camera fails. Camera and display are closed on every exit path.
// Cancellation and quit return nil; a camera failure returns an error
// wrapping ErrFrameAcquisition and a closed detector one wrapping
// landmarks.ErrSourceClosed.
func (m *Monitor[F]) Run(ctx context.Context) error {
	defer m.release()
	m.logger.Info("capture loop started",
		"mid", m.cfg.Thresholds.Mid,
		"upper", m.cfg.Thresholds.Upper,
		"policy", string(m.cfg.Policy),
	)

	for {
		if ctx.Err() != nil {
			m.logger.Info("capture loop cancelled")
			return nil
		}
		if m.limiter != nil {
			if err := m.limiter.Wait(ctx); err != nil {
				return nil
			}
		}

		frame, err := m.deps.Camera.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if m.deps.Metrics != nil {
				m.deps.Metrics.AcquisitionFailures.Inc()
			}
			return fmt.Errorf("%w: %v", ErrFrameAcquisition, err)
		}
		if m.deps.Metrics != nil {
			m.deps.Metrics.Frames.Inc()
		}

		result, err := m.processFrame(frame)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if m.deps.Display != nil {
			quit, err := m.deps.Display.Show(frame, result.Boxes)
			if err != nil {
				m.logger.Warn("display failed", "error", err)
			}
			if quit {
				m.logger.Info("quit requested")
				return nil
			}
		}
	}
}

// processFrame returns an error only when the detector is gone for good.
// Other detector errors drop the frame.
func (m *Monitor[F]) processFrame(frame F) (FrameResult, error) {
	faces, err := m.deps.Detector.Detect(frame)
	if err != nil {
		if m.deps.Metrics != nil {
			m.deps.Metrics.DetectErrors.Inc()
		}
		if errors.Is(err, landmarks.ErrSourceClosed) {
			return FrameResult{}, fmt.Errorf("monitor: %w", err)
		}
		m.logger.Warn("landmark detection failed", "error", err)
		return FrameResult{}, nil
	}
	return m.ProcessFaces(faces), nil
}

// ProcessFaces classifies every face, publishes the aggregated reading and
// feeds it to the scheduler. Faces with bad landmarks are skipped; when no
// face is usable nothing is published and the state is left unchanged.
func (m *Monitor[F]) ProcessFaces(faces []landmarks.Face) FrameResult {
	var (
		res      FrameResult
		readings = make([]distance.Reading, 0, len(faces))
	)

	for i, face := range faces {
		eyes, err := landmarks.ExtractEyes(face.Points)
		if err != nil {
			m.skip(i, metrics.ReasonLandmarks, err)
			res.Skipped++
			continue
		}
		d, err := distance.EstimateEyes(eyes)
		if err != nil {
			m.skip(i, metrics.ReasonGeometry, err)
			res.Skipped++
			continue
		}

		r := distance.Reading{State: distance.Classify(d, m.cfg.Thresholds), Distance: d}
		readings = append(readings, r)
		res.Boxes = append(res.Boxes, overlay.EyeBoxes(eyes, r.State)...)
	}

	res.Valid = len(readings)
	if m.deps.Metrics != nil {
		m.deps.Metrics.Faces.Add(float64(res.Valid))
	}

	res.Reading, res.OK = distance.Aggregate(m.cfg.Policy, readings)
	if !res.OK {
		return res
	}

	m.deps.Store.Update(res.Reading, res.Valid)
	if m.deps.Metrics != nil {
		m.deps.Metrics.ObserveReading(res.Reading)
	}
	m.scheduler.Observe(res.Reading.State)

	m.logger.Debug("frame classified",
		"state", res.Reading.State.String(),
		"distance", res.Reading.Distance,
		"faces", res.Valid,
	)
	return res
}

func (m *Monitor[F]) skip(face int, reason string, err error) {
	m.logger.Debug("face skipped", "face", face, "reason", reason, "error", err)
	if m.deps.Metrics != nil {
		m.deps.Metrics.FacesSkipped.WithLabelValues(reason).Inc()
	}
}

func (m *Monitor[F]) release() {
	if m.deps.Display != nil {
		if err := m.deps.Display.Close(); err != nil {
			m.logger.Warn("close display", "error", err)
		}
	}
	if err := m.deps.Camera.Close(); err != nil {
		m.logger.Warn("close camera", "error", err)
	}
	m.logger.Info("capture resources released")
}
