package metrics

import (
	"github.com/YuminosukeSato/ratecurve/pkg/errors"
)

// OrderingViolations は curves[k][i] < curves[k+1][i] となる k が存在する
// インデックス i の数を返す（各インデックスは最大1回だけ数える）
func OrderingViolations(curves ...[]float64) (int, error) {
	if len(curves) < 2 {
		return 0, errors.NewValueError("OrderingViolations", "at least two curves are required")
	}

	n := len(curves[0])
	for _, c := range curves[1:] {
		if len(c) != n {
			return 0, errors.NewDimensionError("OrderingViolations", n, len(c), 0)
		}
	}

	count := 0
	for i := 0; i < n; i++ {
		for k := 0; k+1 < len(curves); k++ {
			if curves[k][i] < curves[k+1][i] {
				count++
				break
			}
		}
	}
	return count, nil
}
