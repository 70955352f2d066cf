package grid

import (
	"strconv"

	"github.com/YuminosukeSato/ratecurve/dataset"
)

// Profile holds the representative value of every column that is held
// constant in an evaluation grid.
type Profile map[string]float64

// yield curve used for the representative record, by tenor in months
var defaultYields = map[int]float64{
	6: 4.66, 12: 4.71, 18: 4.71, 24: 4.71, 30: 4.71, 36: 4.7, 42: 4.69,
	48: 4.69, 54: 4.68, 60: 4.67, 66: 4.66, 72: 4.64, 78: 4.63, 84: 4.62,
	90: 4.61, 96: 4.6, 102: 4.58, 108: 4.57, 114: 4.56, 120: 4.55,
	126: 4.54, 132: 4.53, 138: 4.51, 144: 4.5, 150: 4.49, 156: 4.48,
	162: 4.47, 168: 4.46, 174: 4.45, 180: 4.44, 186: 4.42, 192: 4.41,
	198: 4.4, 204: 4.38, 210: 4.37, 216: 4.36, 222: 4.34, 228: 4.33,
	234: 4.31, 240: 4.3, 246: 4.28, 252: 4.27, 258: 4.25, 264: 4.24,
	270: 4.22, 276: 4.21, 282: 4.2, 288: 4.18, 294: 4.17, 300: 4.15,
}

// DefaultProfile returns the representative record used for the phi sweep.
func DefaultProfile() Profile {
	p := Profile{
		dataset.ExternalColumn: 0,
		"dd_freq_m":            0,
		"dd_freq_q":            0,
		"dd_freq_h":            0,
		"dd_pcode_H":           0,
		"dd_pcode_M":           1,
		"dd_pcode_L":           0,
		"fa":                   0,
		"buy_age":              60,
		"YM":                   2006.583,
		"male":                 1,
		"dd_sales_D":           0,
		"dd_scheme_no":         1,
	}
	for tenor, v := range defaultYields {
		p["yield"+strconv.Itoa(tenor)] = v
	}
	return p
}

// With returns a copy of p with overrides applied.
func (p Profile) With(overrides map[string]float64) Profile {
	out := make(Profile, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
