package neural_network

import (
	"math"

	"github.com/YuminosukeSato/ratecurve/pkg/errors"
)

// activation は活性化関数と、その出力で表した導関数の組
type activation struct {
	f  func(z float64) float64
	df func(a float64) float64
}

var activations = map[string]activation{
	"identity": {
		f:  func(z float64) float64 { return z },
		df: func(float64) float64 { return 1 },
	},
	"logistic": {
		f:  func(z float64) float64 { return 1 / (1 + errors.StabilizeExp(-z)) },
		df: func(a float64) float64 { return a * (1 - a) },
	},
	"tanh": {
		f:  math.Tanh,
		df: func(a float64) float64 { return 1 - a*a },
	},
	"relu": {
		f: func(z float64) float64 {
			if z > 0 {
				return z
			}
			return 0
		},
		df: func(a float64) float64 {
			if a > 0 {
				return 1
			}
			return 0
		},
	},
}
