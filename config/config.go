// Package config loads the pipeline configuration from YAML.
package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/ratecurve/dataset"
	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"github.com/YuminosukeSato/ratecurve/pkg/log"
	"gopkg.in/yaml.v3"
)

// Config holds all pipeline settings.
type Config struct {
	Data     string       `yaml:"data"`
	Selector string       `yaml:"selector"`
	TestSize float64      `yaml:"test_size"`
	Seed     int64        `yaml:"seed"`
	Baseline bool         `yaml:"baseline"`
	Model    ModelConfig  `yaml:"model"`
	Grid     GridConfig   `yaml:"grid"`
	Output   OutputConfig `yaml:"output"`
	Log      LogConfig    `yaml:"log"`
}

// ModelConfig configures the MLP regressor and the ridge baseline.
type ModelConfig struct {
	HiddenLayerSize  int     `yaml:"hidden_layer_size"`
	Activation       string  `yaml:"activation"`
	LearningRateInit float64 `yaml:"learning_rate_init"`
	Alpha            float64 `yaml:"alpha"`
	Tol              float64 `yaml:"tol"`
	MaxIter          int     `yaml:"max_iter"`
	BatchSize        int     `yaml:"batch_size"` // 0 = min(200, n_samples)
	NIterNoChange    int     `yaml:"n_iter_no_change"`
	Shuffle          bool    `yaml:"shuffle"`
	RidgeAlpha       float64 `yaml:"ridge_alpha"`
}

// GridConfig configures the phi sweep and the held-constant profile.
type GridConfig struct {
	PhiStart       float64            `yaml:"phi_start"`
	PhiStep        float64            `yaml:"phi_step"`
	Points         int                `yaml:"points"`
	DecisionLevels []float64          `yaml:"decision_levels"`
	Constants      map[string]float64 `yaml:"constants,omitempty"` // overrides of the default profile
}

// OutputConfig configures the chart.
type OutputConfig struct {
	Chart        string  `yaml:"chart"`
	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration of the reference run.
func Default() *Config {
	return &Config{
		Data:     "data_JMP_impute.csv",
		Selector: "large",
		TestSize: 0.08,
		Seed:     0,
		Baseline: true,
		Model: ModelConfig{
			HiddenLayerSize:  70,
			Activation:       "relu",
			LearningRateInit: 0.05,
			Alpha:            0.0008,
			Tol:              0.0001,
			MaxIter:          200,
			BatchSize:        0,
			NIterNoChange:    10,
			Shuffle:          true,
			RidgeAlpha:       1.0,
		},
		Grid: GridConfig{
			PhiStart:       100,
			PhiStep:        100,
			Points:         9999,
			DecisionLevels: []float64{0, 5, 10},
		},
		Output: OutputConfig{
			Chart:        "prediction.png",
			WidthInches:  8,
			HeightInches: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: log.FormatJSON,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "failed to parse config %s", path)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RATECURVE_DATA"); v != "" {
		c.Data = v
	}
	if v := os.Getenv("RATECURVE_CHART"); v != "" {
		c.Output.Chart = v
	}
	if v := os.Getenv("RATECURVE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Encode writes c as YAML.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return enc.Close()
}

// Save writes c to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FeatureSelector parses the configured selector.
func (c *Config) FeatureSelector() (dataset.Selector, error) {
	return dataset.ParseSelector(c.Selector)
}

var validActivations = map[string]bool{"identity": true, "logistic": true, "tanh": true, "relu": true}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Data == "" {
		return errors.NewConfigError("data", c.Data, "path is required")
	}
	if _, err := c.FeatureSelector(); err != nil {
		return err
	}
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return errors.NewConfigError("test_size", c.TestSize, "must be in (0, 1)")
	}

	m := c.Model
	if m.HiddenLayerSize <= 0 {
		return errors.NewConfigError("model.hidden_layer_size", m.HiddenLayerSize, "must be positive")
	}
	if !validActivations[m.Activation] {
		return errors.NewConfigError("model.activation", m.Activation, "must be one of identity, logistic, tanh, relu")
	}
	if m.LearningRateInit <= 0 {
		return errors.NewConfigError("model.learning_rate_init", m.LearningRateInit, "must be positive")
	}
	if m.Alpha < 0 {
		return errors.NewConfigError("model.alpha", m.Alpha, "must be non-negative")
	}
	if m.Tol < 0 {
		return errors.NewConfigError("model.tol", m.Tol, "must be non-negative")
	}
	if m.MaxIter <= 0 {
		return errors.NewConfigError("model.max_iter", m.MaxIter, "must be positive")
	}
	if m.BatchSize < 0 {
		return errors.NewConfigError("model.batch_size", m.BatchSize, "must be non-negative")
	}
	if m.NIterNoChange <= 0 {
		return errors.NewConfigError("model.n_iter_no_change", m.NIterNoChange, "must be positive")
	}
	if m.RidgeAlpha < 0 {
		return errors.NewConfigError("model.ridge_alpha", m.RidgeAlpha, "must be non-negative")
	}

	if c.Grid.Points < 1 {
		return errors.NewConfigError("grid.points", c.Grid.Points, "must be at least 1")
	}
	if c.Grid.PhiStep == 0 {
		return errors.NewConfigError("grid.phi_step", c.Grid.PhiStep, "must be non-zero")
	}
	if len(c.Grid.DecisionLevels) < 2 {
		return errors.NewConfigError("grid.decision_levels", c.Grid.DecisionLevels, "at least two levels are required")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.NewConfigError("log.level", c.Log.Level, "unknown level")
	}
	if c.Log.Format != log.FormatJSON && c.Log.Format != log.FormatConsole {
		return errors.NewConfigError("log.format", c.Log.Format, "must be json or console")
	}
	return nil
}
