package metrics

import (
	"math"
	"strings"
	"testing"

	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func vec(v ...float64) *mat.VecDense {
	return mat.NewVecDense(len(v), v)
}

// TestErrorMetrics は評価で出力する RMSE と MAE の値を確認
func TestErrorMetrics(t *testing.T) {
	tests := []struct {
		name     string
		yTrue    *mat.VecDense
		yPred    *mat.VecDense
		wantRMSE float64
		wantMAE  float64
	}{
		{
			name:  "perfect prediction",
			yTrue: vec(1, 2, 3),
			yPred: vec(1, 2, 3),
		},
		{
			name:     "symmetric half errors",
			yTrue:    vec(1, 2, 3, 4),
			yPred:    vec(1.5, 2.5, 2.5, 3.5),
			wantRMSE: 0.5,
			wantMAE:  0.5,
		},
		{
			name:     "mixed errors",
			yTrue:    vec(10, 20, 30),
			yPred:    vec(12, 18, 33),
			wantRMSE: math.Sqrt(17.0 / 3.0),
			wantMAE:  7.0 / 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rmse, err := RMSE(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("RMSE() error = %v", err)
			}
			if math.Abs(rmse-tt.wantRMSE) > 1e-10 {
				t.Errorf("RMSE() = %v, want %v", rmse, tt.wantRMSE)
			}
			mae, err := MAE(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("MAE() error = %v", err)
			}
			if math.Abs(mae-tt.wantMAE) > 1e-10 {
				t.Errorf("MAE() = %v, want %v", mae, tt.wantMAE)
			}
		})
	}
}

func TestMetricInputErrors(t *testing.T) {
	metrics := map[string]func(a, b *mat.VecDense) (float64, error){
		"MSE":  MSE,
		"RMSE": RMSE,
		"MAE":  MAE,
		"R2":   R2Score,
		"MAPE": MAPE,
	}

	for name, fn := range metrics {
		t.Run(name+"/dimension mismatch", func(t *testing.T) {
			_, err := fn(vec(1, 2, 3), vec(1, 2))
			var dimErr *errors.DimensionError
			if !errors.As(err, &dimErr) {
				t.Errorf("expected DimensionError, got %v", err)
			}
		})
		t.Run(name+"/empty", func(t *testing.T) {
			_, err := fn(&mat.VecDense{}, &mat.VecDense{})
			var valErr *errors.ValueError
			if !errors.As(err, &valErr) {
				t.Errorf("expected ValueError, got %v", err)
			}
		})
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{"perfect prediction", vec(1, 2, 3, 4, 5), vec(1, 2, 3, 4, 5), 1},
		{"worse than the mean", vec(1, 2, 3, 4), vec(4, 3, 2, 1), -3},
		{"mean prediction", vec(1, 2, 3), vec(2, 2, 2), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("R2Score() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("R2Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestR2ScoreNoVariance は定数の真値で NaN と ErrNoVariance が返ることを確認
func TestR2ScoreNoVariance(t *testing.T) {
	got, err := R2Score(vec(3, 3, 3, 3), vec(2, 3, 4, 3))
	if !errors.Is(err, ErrNoVariance) {
		t.Fatalf("R2Score() error = %v, want ErrNoVariance", err)
	}
	if !math.IsNaN(got) {
		t.Errorf("R2Score() = %v, want NaN", got)
	}
}

func TestMAPE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{"perfect prediction", vec(1, 2, 4), vec(1, 2, 4), 0},
		{"ten percent off everywhere", vec(10, 20, 40), vec(11, 18, 44), 10},
		{"negative truth uses absolute ratio", vec(-2, 4), vec(-1, 5), 37.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MAPE(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("MAPE() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("MAPE() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestMAPEZeroTarget は真値0の最初の行が ZeroTargetError で報告されることを確認
func TestMAPEZeroTarget(t *testing.T) {
	_, err := MAPE(vec(1, 2, 0, 3, 0), vec(1, 2, 1, 3, 1))
	var zt *errors.ZeroTargetError
	if !errors.As(err, &zt) {
		t.Fatalf("MAPE() error = %v, want ZeroTargetError", err)
	}
	if zt.Row != 2 {
		t.Errorf("Row = %d, want 2", zt.Row)
	}
}

// TestMAPENonFiniteTarget は NaN や Inf の真値が NaN の結果ではなくエラーになることを確認
func TestMAPENonFiniteTarget(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		row   string
	}{
		{"NaN", vec(1, math.NaN(), 2), "row 1"},
		{"+Inf", vec(1, 2, math.Inf(1)), "row 2"},
		{"-Inf", vec(math.Inf(-1), 2, 3), "row 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MAPE(tt.yTrue, vec(1, 1, 2))
			var valErr *errors.ValueError
			if !errors.As(err, &valErr) {
				t.Fatalf("MAPE() = %v, %v; want ValueError", got, err)
			}
			if !strings.Contains(err.Error(), tt.row) {
				t.Errorf("error should name %s: %v", tt.row, err)
			}
		})
	}
}

func TestVecFromMatrix(t *testing.T) {
	v, err := VecFromMatrix(mat.NewDense(3, 1, []float64{1, 2, 3}))
	if err != nil {
		t.Fatalf("VecFromMatrix() error = %v", err)
	}
	if v.Len() != 3 || v.AtVec(2) != 3 {
		t.Errorf("VecFromMatrix() = %v", mat.Formatted(v))
	}
	if _, err := VecFromMatrix(mat.NewDense(2, 2, nil)); err == nil {
		t.Error("VecFromMatrix() on a 2-column matrix should fail")
	}
}

func BenchmarkMAPE(b *testing.B) {
	size := 10000
	yTrue := mat.NewVecDense(size, nil)
	yPred := mat.NewVecDense(size, nil)
	for i := 0; i < size; i++ {
		yTrue.SetVec(i, float64(i+1))
		yPred.SetVec(i, float64(i+1)+0.1*float64(i%10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MAPE(yTrue, yPred)
	}
}
