package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/ratecurve/pkg/errors"
)

func sampleChart(t *testing.T) Chart {
	t.Helper()
	phi := []float64{100, 200, 300, 400}
	c, err := DecisionChart(phi, []float64{0, 5, 10}, [][]float64{
		{4.0, 3.9, 3.8, 3.7},
		{3.5, 3.4, 3.3, 3.2},
		{3.0, 2.9, 2.8, 2.7},
	})
	if err != nil {
		t.Fatalf("DecisionChart failed: %v", err)
	}
	return c
}

func TestDecisionChart(t *testing.T) {
	c := sampleChart(t)
	if c.XLabel != "phi" || c.YLabel != "Predicted" {
		t.Errorf("labels = %q/%q, want phi/Predicted", c.XLabel, c.YLabel)
	}
	want := []string{"decision_0", "decision_5", "decision_10"}
	for i, s := range c.Series {
		if s.Label != want[i] {
			t.Errorf("series %d label = %q, want %q", i, s.Label, want[i])
		}
	}

	if _, err := DecisionChart([]float64{1, 2}, []float64{0}, [][]float64{{1}}); err == nil {
		t.Error("misaligned curve should fail")
	}
	if _, err := DecisionChart([]float64{1}, []float64{0, 5}, [][]float64{{1}}); err == nil {
		t.Error("level/curve count mismatch should fail")
	}
}

// TestRenderChart は拡張子ごとに画像ファイルが出力されることを確認
func TestRenderChart(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"chart.png", "chart.svg"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := RenderChart(path, sampleChart(t)); err != nil {
				t.Fatalf("RenderChart failed: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("chart not written: %v", err)
			}
			if info.Size() == 0 {
				t.Error("chart file is empty")
			}
		})
	}
}

func TestRenderChartErrors(t *testing.T) {
	dir := t.TempDir()

	err := RenderChart(filepath.Join(dir, "chart.bmp"), sampleChart(t))
	var ve *errors.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("unsupported extension: error = %v, want ValidationError", err)
	}

	if err := RenderChart(filepath.Join(dir, "empty.png"), Chart{}); err == nil {
		t.Error("empty chart should fail")
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSummary(&buf, Summary{
		RunID:       "run-1",
		FeatureSet:  "large",
		Features:    57,
		TrainRows:   90,
		TestRows:    10,
		Iterations:  42,
		MAPE:        3.25,
		HasBaseline: true,
		BaseMAPE:    7.5,
		Violations:  12,
		GridPoints:  9999,
		ChartPath:   "out.png",
	})
	if err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Feature set: large (57 columns)",
		"Rows: 90 train, 10 test",
		"MAPE: 3.2500%",
		"Baseline MAPE (ridge): 7.5000%",
		"Count: 12 out of 9999",
		"Chart: out.png",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteSummaryWriteError(t *testing.T) {
	if err := WriteSummary(failingWriter{}, Summary{}); err == nil {
		t.Error("write error should be returned")
	}
}
