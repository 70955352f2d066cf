package metrics

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrNoVariance は yTrue がすべて同じ値で R² が定義できないことを表す
var ErrNoVariance = errors.New("yTrue has no variance")

// residuals は入力を検証して yTrue - yPred を返す
func residuals(op string, yTrue, yPred *mat.VecDense) ([]float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	r := make([]float64, n)
	for i := range r {
		r[i] = yTrue.AtVec(i) - yPred.AtVec(i)
	}
	return r, nil
}

// MSE は平均二乗誤差
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	r, err := residuals("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Dot(r, r) / float64(len(r)), nil
}

// RMSE は MSE の平方根
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	r, err := residuals("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Norm(r, 1) / float64(len(r)), nil
}

// R2Score は決定係数 1 - RSS/TSS を計算する。
// yTrue が定数の場合は NaN と ErrNoVariance を返す。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	r, err := residuals("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	truth := mat.Col(nil, 0, yTrue)
	mean := stat.Mean(truth, nil)
	var tss float64
	for _, v := range truth {
		tss += (v - mean) * (v - mean)
	}
	if tss == 0 {
		return math.NaN(), errors.Wrap(ErrNoVariance, "R2Score")
	}
	return 1 - floats.Dot(r, r)/tss, nil
}

// MAPE は平均絶対パーセンテージ誤差 100/n * Σ|(yTrue - yPred)/yTrue| を計算する。
// yTrue に 0 が含まれる場合は最初の行を ZeroTargetError で、
// NaN や ±Inf が含まれる場合はその行を ValueError で返す。
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	r, err := residuals("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i, d := range r {
		a := yTrue.AtVec(i)
		switch {
		case math.IsNaN(a) || math.IsInf(a, 0):
			return 0, errors.NewValueError("MAPE", fmt.Sprintf("non-finite target %v at row %d", a, i))
		case a == 0:
			return 0, errors.NewZeroTargetError("MAPE", i)
		}
		sum += math.Abs(d / a)
	}
	return sum / float64(len(r)) * 100, nil
}

// VecFromMatrix は n×1 の予測行列を VecDense に変換する
func VecFromMatrix(m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if c != 1 {
		return nil, errors.NewValueError("VecFromMatrix", "must be a column vector (n×1 matrix)")
	}
	if r == 0 {
		return nil, errors.NewValueError("VecFromMatrix", "empty matrix")
	}
	return mat.NewVecDense(r, mat.Col(nil, 0, m)), nil
}
