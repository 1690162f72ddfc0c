// Package config loads eyeguard settings from the environment.
//
// An optional .env file in the working directory is read first; variables
// already set in the environment win. Command line flags override both.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teslashibe/eyeguard/pkg/distance"
	"github.com/teslashibe/eyeguard/pkg/reminder"
)

// Defaults.
const (
	DefaultCamera     = 1
	DefaultPort       = "5000"
	DefaultYuNetModel = "models/face_detection_yunet.onnx"
	DefaultWorker     = "python/landmarks_worker.py"
	DefaultPredictor  = "models/shape_predictor_68_face_landmarks.dat"
	DefaultMaxFPS     = 30.0
)

// Config is the full runtime configuration.
type Config struct {
	Camera      int     `validate:"gte=0"`
	FrameWidth  int     `validate:"gte=0"`
	FrameHeight int     `validate:"gte=0"`
	MaxFPS      float64 `validate:"gte=0"`

	Port     string `validate:"required,numeric"`
	NoServer bool
	Headless bool

	Thresholds distance.Thresholds
	Policy     distance.Policy `validate:"oneof=worst last"`
	Reminder   reminder.Config

	YuNetModel     string `validate:"required"`
	WorkerScript   string `validate:"required"`
	PredictorModel string `validate:"required"`
	Python         string `validate:"required"`

	LogLevel string `validate:"omitempty,oneof=debug info warn warning error"`
	LogFile  string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Camera:         DefaultCamera,
		FrameWidth:     640,
		FrameHeight:    480,
		MaxFPS:         DefaultMaxFPS,
		Port:           DefaultPort,
		Thresholds:     distance.DefaultThresholds(),
		Policy:         distance.PolicyWorst,
		Reminder:       reminder.DefaultConfig(),
		YuNetModel:     DefaultYuNetModel,
		WorkerScript:   DefaultWorker,
		PredictorModel: DefaultPredictor,
		Python:         "python3",
		LogLevel:       "info",
	}
}

// LoadDotEnv reads .env if it exists. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv overlays EYEGUARD_* and LOG_* variables on Default().
func FromEnv() (Config, error) {
	cfg := Default()
	var err error

	if cfg.Camera, err = envInt("EYEGUARD_CAMERA", cfg.Camera); err != nil {
		return cfg, err
	}
	if cfg.MaxFPS, err = envFloat("EYEGUARD_MAX_FPS", cfg.MaxFPS); err != nil {
		return cfg, err
	}
	cfg.Port = envString("EYEGUARD_PORT", cfg.Port)

	if name := os.Getenv("EYEGUARD_THRESHOLDS"); name != "" {
		if cfg.Thresholds, err = distance.Preset(name); err != nil {
			return cfg, err
		}
	}
	if cfg.Thresholds.Mid, err = envFloat("EYEGUARD_MID", cfg.Thresholds.Mid); err != nil {
		return cfg, err
	}
	if cfg.Thresholds.Upper, err = envFloat("EYEGUARD_UPPER", cfg.Thresholds.Upper); err != nil {
		return cfg, err
	}
	if cfg.Policy, err = distance.ParsePolicy(os.Getenv("EYEGUARD_POLICY")); err != nil {
		return cfg, err
	}
	if cfg.Reminder.YellowInterval, err = envDuration("EYEGUARD_YELLOW_INTERVAL", cfg.Reminder.YellowInterval); err != nil {
		return cfg, err
	}
	if cfg.Reminder.RedInterval, err = envDuration("EYEGUARD_RED_INTERVAL", cfg.Reminder.RedInterval); err != nil {
		return cfg, err
	}

	cfg.YuNetModel = envString("EYEGUARD_YUNET_MODEL", cfg.YuNetModel)
	cfg.WorkerScript = envString("EYEGUARD_WORKER", cfg.WorkerScript)
	cfg.PredictorModel = envString("EYEGUARD_PREDICTOR", cfg.PredictorModel)
	cfg.Python = envString("EYEGUARD_PYTHON", cfg.Python)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = envString("LOG_FILE", cfg.LogFile)

	return cfg, nil
}

// Validate checks the threshold table, then field ranges.
func (c Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// StatusURL returns the base URL of the local status server.
func StatusURL(port string) string {
	return fmt.Sprintf("http://localhost:%s", port)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
