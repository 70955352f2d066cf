package report

import (
	"fmt"
	"io"

	"github.com/YuminosukeSato/ratecurve/pkg/errors"
)

// Summary collects the diagnostics printed at the end of a run.
type Summary struct {
	RunID       string
	FeatureSet  string
	Features    int
	TrainRows   int
	TestRows    int
	Iterations  int
	MAPE        float64
	RMSE        float64
	MAE         float64
	R2          float64
	HasBaseline bool
	BaseMAPE    float64
	Violations  int
	GridPoints  int
	ChartPath   string
}

// WriteSummary prints s in a human-readable form.
func WriteSummary(w io.Writer, s Summary) error {
	ew := &errWriter{w: w}
	ew.printf("Run: %s\n", s.RunID)
	ew.printf("Feature set: %s (%d columns)\n", s.FeatureSet, s.Features)
	ew.printf("Rows: %d train, %d test\n", s.TrainRows, s.TestRows)
	ew.printf("Iterations: %d\n", s.Iterations)
	ew.printf("MAPE: %.4f%%\n", s.MAPE)
	if s.HasBaseline {
		ew.printf("Baseline MAPE (ridge): %.4f%%\n", s.BaseMAPE)
	}
	ew.printf("RMSE: %.6g  MAE: %.6g  R2: %.4f\n", s.RMSE, s.MAE, s.R2)
	ew.printf("Count: %d out of %d\n", s.Violations, s.GridPoints)
	if s.ChartPath != "" {
		ew.printf("Chart: %s\n", s.ChartPath)
	}
	if ew.err != nil {
		return errors.Wrap(ew.err, "writing summary")
	}
	return nil
}

// errWriter keeps the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
