// Package linear provides a closed-form ridge regressor used as a baseline
// next to the neural network.
package linear

import (
	"fmt"

	"github.com/YuminosukeSato/ratecurve/core/model"
	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Ridge は L2 正則化付きの線形回帰モデル
type Ridge struct {
	model.BaseEstimator

	alpha        float64
	fitIntercept bool

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数
}

var (
	_ model.Regressor       = (*Ridge)(nil)
	_ model.ParameterGetter = (*Ridge)(nil)
)

// NewRidge は新しい Ridge モデルを作成する（alpha=1.0, fit_intercept=true）
func NewRidge(opts ...Option) *Ridge {
	r := &Ridge{alpha: 1.0, fitIntercept: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fit は (XcᵀXc + αI) w = Xcᵀyc を解いて学習する。
// 切片は中心化により正則化の対象外になる。
func (r *Ridge) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	ry, cy := y.Dims()

	if rows == 0 || cols == 0 {
		return errors.NewModelError("Ridge.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != rows {
		return errors.NewDimensionError("Ridge.Fit", rows, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("Ridge.Fit", "y must be a column vector")
	}
	if r.alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", r.alpha)
	}

	// 列平均と目的変数の平均
	xMean := make([]float64, cols)
	yMean := 0.0
	if r.fitIntercept {
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				xMean[j] += X.At(i, j)
			}
			yMean += y.At(i, 0)
		}
		for j := range xMean {
			xMean[j] /= float64(rows)
		}
		yMean /= float64(rows)
	}

	Xc := mat.NewDense(rows, cols, nil)
	yc := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			Xc.Set(i, j, X.At(i, j)-xMean[j])
		}
		yc.SetVec(i, y.At(i, 0)-yMean)
	}

	var gram mat.SymDense
	gram.SymOuterK(1, Xc.T())
	for j := 0; j < cols; j++ {
		gram.SetSym(j, j, gram.At(j, j)+r.alpha)
	}

	var XTy mat.VecDense
	XTy.MulVec(Xc.T(), yc)

	weights := mat.NewVecDense(cols, nil)
	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); ok {
		if err := chol.SolveVecTo(weights, &XTy); err != nil {
			return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
		}
	} else if err := weights.SolveVec(&gram, &XTy); err != nil {
		// alpha=0 で特異なグラム行列
		return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	if err := errors.CheckMatrix("Ridge.Fit", weights, 0); err != nil {
		return err
	}

	r.Weights = weights
	r.Intercept = 0
	if r.fitIntercept {
		r.Intercept = yMean - mat.Dot(mat.NewVecDense(cols, xMean), weights)
	}
	r.NFeatures = cols
	r.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (r *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}

	rows, cols := X.Dims()
	if cols != r.NFeatures {
		return nil, errors.NewDimensionError("Ridge.Predict", r.NFeatures, cols, 1)
	}

	// 予測: y = X * weights + intercept
	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		pred := r.Intercept
		for j := 0; j < cols; j++ {
			pred += X.At(i, j) * r.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// GetWeights は学習された重み（係数）を返す
func (r *Ridge) GetWeights() []float64 {
	if r.Weights == nil {
		return nil
	}
	return mat.Col(nil, 0, r.Weights)
}

// GetIntercept は学習された切片を返す
func (r *Ridge) GetIntercept() float64 {
	if !r.IsFitted() {
		return 0
	}
	return r.Intercept
}

// Score はモデルの決定係数（R²）を計算する
func (r *Ridge) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}

	n, _ := y.Dims()
	var yMean float64
	for i := 0; i < n; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(n)

	// 全変動 (TSS) と残差変動 (RSS)
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrue := y.At(i, 0)
		d := yTrue - yPred.At(i, 0)
		tss += (yTrue - yMean) * (yTrue - yMean)
		rss += d * d
	}
	if tss == 0 {
		return 0, errors.Newf("total sum of squares is zero")
	}
	return 1 - rss/tss, nil
}

// GetParams はハイパーパラメータを返す
func (r *Ridge) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":         r.alpha,
		"fit_intercept": r.fitIntercept,
	}
}

func (r *Ridge) String() string {
	return fmt.Sprintf("Ridge(alpha=%g, fit_intercept=%t)", r.alpha, r.fitIntercept)
}
