package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/teslashibe/eyeguard/internal/config"
	"github.com/teslashibe/eyeguard/internal/log"
	"github.com/teslashibe/eyeguard/pkg/metrics"
	"github.com/teslashibe/eyeguard/pkg/monitor"
	"github.com/teslashibe/eyeguard/pkg/reminder"
	"github.com/teslashibe/eyeguard/pkg/status"
	"github.com/teslashibe/eyeguard/pkg/vision"
	"github.com/teslashibe/eyeguard/pkg/web"
	"github.com/teslashibe/eyeguard/pkg/worker"
)

func newRunCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the webcam and remind when you sit too close",
		Long: `Opens the camera, measures the distance between your eyes in every frame
and classifies it as green, yellow or red. While the state is unsafe a
reminder is printed every couple of minutes. The current state is served
on http://localhost:<port>/get-data.

Press q in the preview window or Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.IntVar(&a.flags.camera, "camera", config.DefaultCamera, "camera device index")
	f.StringVar(&a.flags.resolution, "resolution", "", "resolution preset ("+strings.Join(vision.PresetNames(), ", ")+"), overrides --width/--height")
	f.IntVar(&a.flags.width, "width", 640, "requested frame width")
	f.IntVar(&a.flags.height, "height", 480, "requested frame height")
	f.Float64Var(&a.flags.maxFPS, "max-fps", config.DefaultMaxFPS, "frame rate cap, 0 for none")
	f.BoolVar(&a.flags.noServer, "no-server", false, "do not start the status server")
	f.BoolVar(&a.flags.headless, "headless", false, "do not open a preview window")
	f.StringVar(&a.flags.yunet, "yunet-model", config.DefaultYuNetModel, "YuNet face detection model")
	f.StringVar(&a.flags.worker, "worker", config.DefaultWorker, "landmark worker script")
	f.StringVar(&a.flags.predictor, "predictor", config.DefaultPredictor, "68-point shape predictor model")
	f.StringVar(&a.flags.python, "python", "python3", "python interpreter for the worker")
	f.StringVar(&a.flags.yellow, "yellow-interval", "2m", "repeat interval while yellow")
	f.StringVar(&a.flags.red, "red-interval", "1m", "repeat interval while red")
	return cmd
}

func (a *app) run(ctx context.Context) error {
	cfg := a.cfg
	logger := log.With("component", "run")

	met := metrics.New()
	store := status.NewStore()
	sinks := reminderSinks(cfg.LogFile != "", os.Stdout)

	if !cfg.NoServer {
		srv := web.NewServer(web.Options{
			Port:    cfg.Port,
			Store:   store,
			Metrics: met,
			Settings: web.Settings{
				Thresholds: cfg.Thresholds,
				Policy:     cfg.Policy,
				Reminder:   cfg.Reminder,
			},
		})
		store.OnUpdate = srv.PublishStatus
		sinks = append(sinks, srv)
		srv.StartAsync(ctx)
		defer func() {
			if err := srv.Shutdown(); err != nil {
				logger.Warn("status server shutdown", "error", err)
			}
		}()
	}

	proc, err := worker.Start(ctx, cfg.Python, cfg.WorkerScript, cfg.PredictorModel)
	if err != nil {
		return fmt.Errorf("landmark worker: %w", err)
	}
	defer func() {
		if err := proc.Close(); err != nil && ctx.Err() == nil {
			logger.Warn("landmark worker exited", "error", err, "stderr", proc.Stderr())
		}
	}()

	ffCfg := vision.DefaultFaceFinderConfig()
	ffCfg.ModelPath = cfg.YuNetModel
	finder, err := vision.NewFaceFinder(ffCfg)
	if err != nil {
		return err
	}
	source := vision.NewLandmarkSource(finder, proc)
	defer source.Close()

	camCfg := vision.CameraConfig{
		Device: cfg.Camera,
		Width:  cfg.FrameWidth,
		Height: cfg.FrameHeight,
		FPS:    cfg.MaxFPS,
	}
	if a.flags.resolution != "" {
		if camCfg, err = camCfg.WithPreset(a.flags.resolution); err != nil {
			return err
		}
	}
	cam, err := vision.OpenCamera(camCfg)
	if err != nil {
		return err
	}

	var display monitor.Display[*gocv.Mat] = vision.Headless{}
	if !cfg.Headless {
		display = vision.NewWindow()
	}

	mon, err := monitor.New(monitor.Config{
		Thresholds: cfg.Thresholds,
		Policy:     cfg.Policy,
		MaxFPS:     cfg.MaxFPS,
		Reminder:   cfg.Reminder,
	}, monitor.Deps[*gocv.Mat]{
		Camera:   cam,
		Detector: source,
		Display:  display,
		Store:    store,
		Sink:     sinks,
		Metrics:  met,
	})
	if err != nil {
		display.Close()
		cam.Close()
		return err
	}

	logger.Info("monitoring",
		"camera", cfg.Camera,
		"mid", cfg.Thresholds.Mid,
		"upper", cfg.Thresholds.Upper,
		"policy", string(cfg.Policy),
		"server", !cfg.NoServer,
	)
	return mon.Run(ctx)
}

// reminderSinks picks one stdout writer for reminders. With a log file the
// structured log line carries them to both stdout and the file; otherwise
// the plain console line is enough.
func reminderSinks(logToFile bool, out io.Writer) reminder.MultiSink {
	if logToFile {
		return reminder.MultiSink{reminder.LogSink{Logger: log.With("component", "reminder")}}
	}
	return reminder.MultiSink{reminder.ConsoleSink{W: out}}
}
