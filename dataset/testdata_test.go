package dataset

import (
	"math/rand"
)

// syntheticTable returns n rows containing every column any feature set needs.
func syntheticTable(n int, seed int64) *Table {
	rng := rand.New(rand.NewSource(seed))
	names := []string{TargetColumn, ExternalColumn}
	for _, sel := range Selectors() {
		fs, _ := Lookup(sel)
		for _, c := range fs.Names() {
			if !contains(names, c) {
				names = append(names, c)
			}
		}
	}

	cols := make(map[string][]float64, len(names))
	for _, name := range names {
		col := make([]float64, n)
		for i := range col {
			switch name {
			case TargetColumn:
				col[i] = 1 + rng.Float64()
			case PhiColumn:
				col[i] = float64(100 * (i + 1))
			case DecisionColumn:
				col[i] = float64(5 * (i % 3))
			default:
				col[i] = rng.Float64()
			}
		}
		cols[name] = col
	}
	t, err := NewTable(names, cols)
	if err != nil {
		panic(err)
	}
	return t
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
