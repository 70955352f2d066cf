// Package model_selection は scikit-learn の model_selection 互換のデータ分割を提供します。
package model_selection

import (
	"math"
	"math/rand"

	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Split は学習/検証の分割結果。TrainIndex と TestIndex は各行の元の行番号を分割後の順で保持する
type Split struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest *mat.VecDense
	TrainIndex    []int
	TestIndex     []int
}

// TestCount は n 行に対する検証行数 ceil(n*testSize) を返す
func TestCount(n int, testSize float64) int {
	return int(math.Ceil(float64(n) * testSize))
}

// TrainTestSplit は seed で初期化した乱数で X と y の行を並べ替え、
// ceil(n*testSize) 行を検証用に取り分ける。同じ seed なら常に同じ分割になる
func TrainTestSplit(X mat.Matrix, y mat.Vector, testSize float64, seed int64) (*Split, error) {
	n, c := X.Dims()
	if y.Len() != n {
		return nil, errors.NewDimensionError("TrainTestSplit", n, y.Len(), 0)
	}
	if !(testSize > 0 && testSize < 1) {
		return nil, errors.NewValidationError("test_size", "must be in the open interval (0, 1)", testSize)
	}

	nTest := TestCount(n, testSize)
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return nil, errors.NewValueError("TrainTestSplit",
			"test_size leaves an empty train or test partition for the given number of rows")
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	s := &Split{
		TestIndex:  append([]int(nil), perm[:nTest]...),
		TrainIndex: append([]int(nil), perm[nTest:]...),
	}
	s.XTest, s.YTest = takeRows(X, y, s.TestIndex, c)
	s.XTrain, s.YTrain = takeRows(X, y, s.TrainIndex, c)
	return s, nil
}

func takeRows(X mat.Matrix, y mat.Vector, rows []int, c int) (*mat.Dense, *mat.VecDense) {
	xs := mat.NewDense(len(rows), c, nil)
	ys := mat.NewVecDense(len(rows), nil)
	for i, src := range rows {
		for j := 0; j < c; j++ {
			xs.Set(i, j, X.At(src, j))
		}
		ys.SetVec(i, y.AtVec(src))
	}
	return xs, ys
}
