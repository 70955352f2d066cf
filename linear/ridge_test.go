package linear

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// createBenchmarkData は y = 1 + Σ (j+1)/2 * x_j + 小さなノイズ を生成する
func createBenchmarkData(rows, cols int) (*mat.Dense, *mat.Dense) {
	// シードを固定して再現性を確保
	rng := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, rng.Float64()*2.0-1.0)
		}
	}

	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := 1.0 // 切片
		for j := 0; j < cols; j++ {
			sum += X.At(i, j) * float64(j+1) * 0.5
		}
		sum += (rng.Float64() - 0.5) * 0.1
		y.Set(i, 0, sum)
	}
	return X, y
}

func TestRidgeRecoversLinearModel(t *testing.T) {
	X, y := createBenchmarkData(500, 3)
	r := NewRidge(WithAlpha(1e-6))

	if err := r.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	want := []float64{0.5, 1.0, 1.5}
	for j, w := range r.GetWeights() {
		if math.Abs(w-want[j]) > 0.02 {
			t.Errorf("weight[%d] = %v, want ~%v", j, w, want[j])
		}
	}
	if math.Abs(r.GetIntercept()-1.0) > 0.02 {
		t.Errorf("intercept = %v, want ~1.0", r.GetIntercept())
	}

	score, err := r.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.99 {
		t.Errorf("R² = %v, want > 0.99", score)
	}
}

// TestRidgeShrinkage は alpha を大きくすると係数が縮小することを確認
func TestRidgeShrinkage(t *testing.T) {
	X, y := createBenchmarkData(200, 2)

	norm := func(alpha float64) float64 {
		r := NewRidge(WithAlpha(alpha))
		if err := r.Fit(X, y); err != nil {
			t.Fatalf("Fit(alpha=%v) failed: %v", alpha, err)
		}
		return mat.Norm(r.Weights, 2)
	}

	small, large := norm(0.01), norm(1000)
	if large >= small {
		t.Errorf("|w| with alpha=1000 (%v) should be smaller than with alpha=0.01 (%v)", large, small)
	}
}

// TestRidgeInterceptNotPenalized は定数の目的変数に対して切片だけで当てはまることを確認
func TestRidgeInterceptNotPenalized(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{7, 7, 7, 7})

	r := NewRidge(WithAlpha(100))
	if err := r.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if math.Abs(r.GetIntercept()-7) > 1e-12 {
		t.Errorf("intercept = %v, want 7", r.GetIntercept())
	}
}

func TestRidgeNoIntercept(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})

	r := NewRidge(WithAlpha(0), WithFitIntercept(false))
	if err := r.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if r.GetIntercept() != 0 {
		t.Errorf("intercept = %v, want 0", r.GetIntercept())
	}
	if w := r.GetWeights()[0]; math.Abs(w-2) > 1e-10 {
		t.Errorf("weight = %v, want 2", w)
	}
}

func TestRidgeErrors(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})

	tests := []struct {
		name  string
		check func() error
		isErr func(error) bool
	}{
		{
			name:  "predict before fit",
			check: func() error { _, err := NewRidge().Predict(X); return err },
			isErr: func(err error) bool { var e *errors.NotFittedError; return errors.As(err, &e) },
		},
		{
			name:  "row mismatch",
			check: func() error { return NewRidge().Fit(X, mat.NewDense(2, 1, nil)) },
			isErr: func(err error) bool { var e *errors.DimensionError; return errors.As(err, &e) },
		},
		{
			name:  "negative alpha",
			check: func() error { return NewRidge(WithAlpha(-1)).Fit(X, y) },
			isErr: func(err error) bool { var e *errors.ValidationError; return errors.As(err, &e) },
		},
		{
			name: "feature mismatch",
			check: func() error {
				r := NewRidge()
				if err := r.Fit(X, y); err != nil {
					return err
				}
				_, err := r.Predict(mat.NewDense(1, 3, nil))
				return err
			},
			isErr: func(err error) bool { var e *errors.DimensionError; return errors.As(err, &e) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if err == nil || !tt.isErr(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// BenchmarkRidgeFit はFitメソッドのベンチマークを実行する
func BenchmarkRidgeFit(b *testing.B) {
	sizes := []struct {
		name string
		rows int
		cols int
	}{
		{"Small_100x10", 100, 10},
		{"Medium_2000x10", 2000, 10},
		{"Large_10000x57", 10000, 57},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			X, y := createBenchmarkData(size.rows, size.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := NewRidge().Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
