package grid

import (
	"testing"

	"github.com/YuminosukeSato/ratecurve/dataset"
	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"github.com/google/go-cmp/cmp"
)

func lookup(t *testing.T, sel dataset.Selector) dataset.FeatureSet {
	t.Helper()
	fs, err := dataset.Lookup(sel)
	if err != nil {
		t.Fatalf("Lookup(%v) failed: %v", sel, err)
	}
	return fs
}

func TestDefaultSweep(t *testing.T) {
	phi := DefaultSweep().Values()
	if len(phi) != 9999 {
		t.Fatalf("len = %d, want 9999", len(phi))
	}
	if phi[0] != 100 || phi[1] != 200 || phi[len(phi)-1] != 999900 {
		t.Errorf("phi = [%v %v ... %v], want [100 200 ... 999900]", phi[0], phi[1], phi[len(phi)-1])
	}
}

func TestSweepValidate(t *testing.T) {
	tests := []struct {
		name  string
		sweep Sweep
	}{
		{"no points", Sweep{Start: 100, Step: 100, Points: 0}},
		{"zero step", Sweep{Start: 100, Step: 0, Points: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ce *errors.ConfigError
			if err := tt.sweep.Validate(); !errors.As(err, &ce) {
				t.Errorf("Validate() error = %v, want ConfigError", err)
			}
		})
	}
}

// TestBuildAlignment は各グリッドの列順が学習時と一致し phi と decision_gar だけが変わることを確認
func TestBuildAlignment(t *testing.T) {
	for _, sel := range dataset.Selectors() {
		t.Run(sel.String(), func(t *testing.T) {
			fs := lookup(t, sel)
			b, err := NewBuilder(fs, DefaultProfile(), DefaultSweep())
			if err != nil {
				t.Fatalf("NewBuilder failed: %v", err)
			}

			grids, err := b.BuildAll([]float64{0, 5, 10})
			if err != nil {
				t.Fatalf("BuildAll failed: %v", err)
			}
			if len(grids) != 3 {
				t.Fatalf("got %d grids, want 3", len(grids))
			}

			names := fs.Names()
			decCol := indexOf(names, dataset.DecisionColumn)
			phiCol := indexOf(names, dataset.PhiColumn)
			for _, g := range grids {
				if diff := cmp.Diff(names, g.FeatureNames); diff != "" {
					t.Errorf("feature names differ from training order (-want +got):\n%s", diff)
				}
				r, c := g.X.Dims()
				if r != 9999 || c != fs.Width() {
					t.Fatalf("shape = (%d, %d), want (9999, %d)", r, c, fs.Width())
				}
				for _, i := range []int{0, 4999, 9998} {
					if got := g.X.At(i, decCol); got != g.Level {
						t.Errorf("row %d decision_gar = %v, want %v", i, got, g.Level)
					}
					if phiCol >= 0 && g.X.At(i, phiCol) != g.Phi[i] {
						t.Errorf("row %d phi = %v, want %v", i, g.X.At(i, phiCol), g.Phi[i])
					}
				}
			}
			if b.SweepsPhi() != (phiCol >= 0) {
				t.Errorf("SweepsPhi() = %v", b.SweepsPhi())
			}
		})
	}
}

func TestBuildLargeConstants(t *testing.T) {
	b, err := NewBuilder(lookup(t, dataset.Large), DefaultProfile(), Sweep{Start: 100, Step: 100, Points: 3})
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	g, err := b.Build(5)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := map[string]float64{
		"external":     0,
		"dd_pcode_M":   1,
		"buy_age":      60,
		"YM":           2006.583,
		"male":         1,
		"dd_scheme_no": 1,
		"yield6":       4.66,
		"yield96":      4.6,
		"yield300":     4.15,
	}
	for name, v := range want {
		j := indexOf(g.FeatureNames, name)
		if j < 0 {
			t.Fatalf("column %q missing", name)
		}
		for i := 0; i < 3; i++ {
			if g.X.At(i, j) != v {
				t.Errorf("row %d %s = %v, want %v", i, name, g.X.At(i, j), v)
			}
		}
	}
}

func TestNewBuilderMissingProfileValue(t *testing.T) {
	profile := DefaultProfile()
	delete(profile, "buy_age")

	_, err := NewBuilder(lookup(t, dataset.New), profile, DefaultSweep())
	var mc *errors.MissingColumnError
	if !errors.As(err, &mc) {
		t.Fatalf("NewBuilder() error = %v, want MissingColumnError", err)
	}
	if mc.Column != "buy_age" {
		t.Errorf("Column = %q, want buy_age", mc.Column)
	}
}

func TestProfileWith(t *testing.T) {
	base := DefaultProfile()
	p := base.With(map[string]float64{"buy_age": 45, "extra": 1})
	if p["buy_age"] != 45 || p["extra"] != 1 {
		t.Errorf("overrides not applied: buy_age=%v extra=%v", p["buy_age"], p["extra"])
	}
	if base["buy_age"] != 60 {
		t.Errorf("base profile mutated: buy_age=%v", base["buy_age"])
	}
}

func TestBuildAllNoLevels(t *testing.T) {
	b, err := NewBuilder(lookup(t, dataset.Smallest), DefaultProfile(), DefaultSweep())
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	if _, err := b.BuildAll(nil); err == nil {
		t.Error("BuildAll(nil) should fail")
	}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
