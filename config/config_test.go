package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/ratecurve/dataset"
	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"github.com/google/go-cmp/cmp"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	sel, err := cfg.FeatureSelector()
	if err != nil || sel != dataset.Large {
		t.Errorf("FeatureSelector() = %v, %v; want large", sel, err)
	}
	if cfg.Model.HiddenLayerSize != 70 || cfg.Model.LearningRateInit != 0.05 || cfg.Model.Alpha != 0.0008 {
		t.Errorf("unexpected model defaults: %+v", cfg.Model)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratecurve.yaml")
	content := `
data: records.csv
selector: 2
test_size: 0.2
model:
  hidden_layer_size: 16
  max_iter: 50
grid:
  points: 10
  decision_levels: [0, 10]
  constants:
    buy_age: 45
log:
  level: debug
  format: console
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Data != "records.csv" || cfg.TestSize != 0.2 {
		t.Errorf("data/test_size = %q/%v", cfg.Data, cfg.TestSize)
	}
	if sel, _ := cfg.FeatureSelector(); sel != dataset.Small {
		t.Errorf("selector = %v, want small", sel)
	}
	if cfg.Model.HiddenLayerSize != 16 || cfg.Model.MaxIter != 50 {
		t.Errorf("model = %+v", cfg.Model)
	}
	// untouched fields keep their defaults
	if cfg.Model.LearningRateInit != 0.05 || cfg.Grid.PhiStep != 100 {
		t.Errorf("defaults lost: lr=%v step=%v", cfg.Model.LearningRateInit, cfg.Grid.PhiStep)
	}
	if diff := cmp.Diff([]float64{0, 10}, cfg.Grid.DecisionLevels); diff != "" {
		t.Errorf("decision_levels mismatch (-want +got):\n%s", diff)
	}
	if cfg.Grid.Constants["buy_age"] != 45 {
		t.Errorf("constants = %v", cfg.Grid.Constants)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("model: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RATECURVE_DATA", "/tmp/env.csv")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Data != "/tmp/env.csv" {
		t.Errorf("Data = %q, want env override", cfg.Data)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		param  string
	}{
		{"invalid selector", func(c *Config) { c.Selector = "999" }, "selector"},
		{"unknown selector name", func(c *Config) { c.Selector = "huge" }, "selector"},
		{"test size zero", func(c *Config) { c.TestSize = 0 }, "test_size"},
		{"test size one", func(c *Config) { c.TestSize = 1 }, "test_size"},
		{"no points", func(c *Config) { c.Grid.Points = 0 }, "grid.points"},
		{"zero step", func(c *Config) { c.Grid.PhiStep = 0 }, "grid.phi_step"},
		{"one level", func(c *Config) { c.Grid.DecisionLevels = []float64{0} }, "grid.decision_levels"},
		{"activation", func(c *Config) { c.Model.Activation = "softsign" }, "model.activation"},
		{"hidden size", func(c *Config) { c.Model.HiddenLayerSize = 0 }, "model.hidden_layer_size"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"no data", func(c *Config) { c.Data = "" }, "data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			var ce *errors.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() error = %v, want ConfigError", err)
			}
			if ce.Param != tt.param {
				t.Errorf("Param = %q, want %q", ce.Param, tt.param)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ratecurve.yaml")
	want := Default()
	want.Grid.Constants = map[string]float64{"male": 0}
	if err := want.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := want.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("hidden_layer_size: 70")) {
		t.Errorf("encoded config missing hidden_layer_size:\n%s", buf.String())
	}
}
