// Package cli implements the eyeguard command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teslashibe/eyeguard/internal/config"
	"github.com/teslashibe/eyeguard/internal/log"
	"github.com/teslashibe/eyeguard/pkg/distance"
)

// Version is the application version.
const Version = "0.1.0"

// flags holds values bound to command line flags. They are applied on top
// of the environment only when set explicitly.
type flags struct {
	port       string
	logLevel   string
	logFile    string
	preset     string
	mid        float64
	upper      float64
	policy     string
	envFile    string
	camera     int
	width      int
	height     int
	resolution string
	maxFPS     float64
	noServer   bool
	headless   bool
	yunet      string
	worker     string
	predictor  string
	python     string
	yellow     string
	red        string
}

// app is the state shared by subcommands.
type app struct {
	flags flags
	cfg   config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "eyeguard",
		Short:         "Screen distance monitor with eye-strain reminders",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLogs()
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	pf.StringVar(&a.flags.port, "port", config.DefaultPort, "status server port")
	pf.StringVar(&a.flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.logFile, "log-file", "", "also write logs to this file, rotated")
	pf.StringVar(&a.flags.preset, "thresholds", "default", "threshold preset ("+presetList()+")")
	pf.Float64Var(&a.flags.mid, "mid", 0, "Green/Yellow boundary in pixels (overrides preset)")
	pf.Float64Var(&a.flags.upper, "upper", 0, "Yellow/Red boundary in pixels (overrides preset)")
	pf.StringVar(&a.flags.policy, "policy", string(distance.PolicyWorst), "multi-face policy (worst, last)")

	root.AddCommand(
		newRunCommand(a),
		newStatusCommand(a),
		newWatchCommand(a),
		newClassifyCommand(a),
	)
	return root
}

// Execute runs the CLI until the command returns or SIGINT/SIGTERM arrives.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, NewRootCommand()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// closeLogs is swapped out in tests.
var closeLogs = log.Close

// execute runs root. PersistentPostRun does not run when a command fails,
// so the log file is closed here on that path.
func execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err != nil {
		closeLogs()
	}
	return err
}

// load resolves the configuration: defaults, then .env, then the
// environment, then explicit flags.
func (a *app) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.flags.envFile); err != nil {
		return err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if err := a.apply(cmd, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	log.Init(log.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	return nil
}

func (a *app) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := a.flags
	changed := cmd.Flags().Changed

	if changed("port") {
		cfg.Port = f.port
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if changed("thresholds") {
		t, err := distance.Preset(f.preset)
		if err != nil {
			return err
		}
		cfg.Thresholds = t
	}
	if changed("mid") {
		cfg.Thresholds.Mid = f.mid
	}
	if changed("upper") {
		cfg.Thresholds.Upper = f.upper
	}
	if changed("policy") {
		p, err := distance.ParsePolicy(f.policy)
		if err != nil {
			return err
		}
		cfg.Policy = p
	}

	// run-only flags; Changed is false on commands that do not define them
	if changed("camera") {
		cfg.Camera = f.camera
	}
	if changed("width") {
		cfg.FrameWidth = f.width
	}
	if changed("height") {
		cfg.FrameHeight = f.height
	}
	if changed("max-fps") {
		cfg.MaxFPS = f.maxFPS
	}
	if changed("no-server") {
		cfg.NoServer = f.noServer
	}
	if changed("headless") {
		cfg.Headless = f.headless
	}
	if changed("yunet-model") {
		cfg.YuNetModel = f.yunet
	}
	if changed("worker") {
		cfg.WorkerScript = f.worker
	}
	if changed("predictor") {
		cfg.PredictorModel = f.predictor
	}
	if changed("python") {
		cfg.Python = f.python
	}
	if changed("yellow-interval") {
		d, err := parseInterval("yellow-interval", f.yellow)
		if err != nil {
			return err
		}
		cfg.Reminder.YellowInterval = d
	}
	if changed("red-interval") {
		d, err := parseInterval("red-interval", f.red)
		if err != nil {
			return err
		}
		cfg.Reminder.RedInterval = d
	}
	return nil
}
