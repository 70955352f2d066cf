package dataset

import (
	"strconv"
	"strings"

	"github.com/YuminosukeSato/ratecurve/pkg/errors"
)

// Well-known column names.
const (
	TargetColumn   = "rate"
	PhiColumn      = "phi"
	DecisionColumn = "decision_gar"
	ExternalColumn = "external"
)

// Selector chooses one of the predefined feature sets.
type Selector int

const (
	Smallest Selector = iota + 1
	Small
	New
	Large
)

// FeatureSet is one registry entry. The training column order is Base
// followed by Columns; the evaluation grid uses the same order.
type FeatureSet struct {
	Selector Selector
	Name     string
	Base     string
	Columns  []string
}

// Names returns the full column order of the feature matrix.
func (fs FeatureSet) Names() []string {
	names := make([]string, 0, len(fs.Columns)+1)
	names = append(names, fs.Base)
	return append(names, fs.Columns...)
}

// Width is the number of feature-matrix columns.
func (fs FeatureSet) Width() int { return len(fs.Columns) + 1 }

var yieldTenors = []int{
	6, 12, 18, 24, 30, 36, 42,
	96, 102, 108, 114, 120, 126, 132, 138, 144, 150, 156, 162, 168, 174, 180,
	186, 192, 198, 204, 210, 216, 222, 228, 234, 240, 246, 252, 258, 264, 270,
	276, 282, 288, 294, 300,
}

func yieldColumns() []string {
	cols := make([]string, len(yieldTenors))
	for i, tenor := range yieldTenors {
		cols[i] = "yield" + strconv.Itoa(tenor)
	}
	return cols
}

var registry = map[Selector]FeatureSet{
	Smallest: {
		Selector: Smallest,
		Name:     "smallest",
		Base:     PhiColumn,
		Columns:  []string{DecisionColumn},
	},
	Small: {
		Selector: Small,
		Name:     "small",
		Base:     ExternalColumn,
		Columns:  []string{"dd_freq_m", "dd_freq_q", "dd_freq_h", PhiColumn, DecisionColumn},
	},
	New: {
		Selector: New,
		Name:     "new",
		Base:     ExternalColumn,
		Columns:  []string{DecisionColumn, "buy_age", "YM", "male"},
	},
	Large: {
		Selector: Large,
		Name:     "large",
		Base:     ExternalColumn,
		Columns: append([]string{
			"dd_freq_m", "dd_freq_q", "dd_freq_h", PhiColumn, DecisionColumn,
			"dd_pcode_H", "dd_pcode_M", "dd_pcode_L", "fa", "buy_age", "YM", "male",
			"dd_sales_D", "dd_scheme_no",
		}, yieldColumns()...),
	},
}

// Selectors lists the valid selectors in order.
func Selectors() []Selector {
	return []Selector{Smallest, Small, New, Large}
}

// Lookup returns the feature set for sel. An unknown selector is a
// ConfigError; there is no fallback.
func Lookup(sel Selector) (FeatureSet, error) {
	fs, ok := registry[sel]
	if !ok {
		return FeatureSet{}, errors.NewConfigError("selector", int(sel), "must be one of 1 (smallest), 2 (small), 3 (new), 4 (large)")
	}
	fs.Columns = append([]string(nil), fs.Columns...)
	return fs, nil
}

// ParseSelector accepts "1".."4" or a feature-set name.
func ParseSelector(s string) (Selector, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		sel := Selector(n)
		if _, err := Lookup(sel); err != nil {
			return 0, err
		}
		return sel, nil
	}
	for sel, fs := range registry {
		if fs.Name == s {
			return sel, nil
		}
	}
	return 0, errors.NewConfigError("selector", s, "unknown feature set")
}

// String returns the feature-set name, or "selector(N)" when invalid.
func (s Selector) String() string {
	if fs, ok := registry[s]; ok {
		return fs.Name
	}
	return "selector(" + strconv.Itoa(int(s)) + ")"
}
