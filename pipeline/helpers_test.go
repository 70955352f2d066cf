package pipeline

import (
	"strconv"
	"strings"
	"testing"

	"github.com/YuminosukeSato/ratecurve/pkg/log"
	"gonum.org/v1/gonum/mat"
)

func formatRow(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",") + "\n"
}

// quietWarnings sends library warnings to a test logger for the rest of the
// test and returns it.
func quietWarnings(t *testing.T) *log.TestLogger {
	t.Helper()
	prev := log.GetLogger()
	sink, _ := log.NewTestLogger(log.LevelDebug)
	log.SetLogger(sink)
	t.Cleanup(func() { log.SetLogger(prev) })
	return sink
}

// constPredictor predicts the same value for every row.
type constPredictor float64

func (c constPredictor) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, _ := X.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, float64(c))
	}
	return out, nil
}
