// Package grid builds synthetic evaluation grids: every feature is held at a
// representative constant except phi, which is swept, and decision_gar,
// which is fixed to one level per grid.
package grid

import (
	"github.com/YuminosukeSato/ratecurve/dataset"
	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Sweep describes the phi axis: Start, Start+Step, ... for Points values.
type Sweep struct {
	Start  float64
	Step   float64
	Points int
}

// DefaultSweep is phi = 100, 200, ..., 999900.
func DefaultSweep() Sweep {
	return Sweep{Start: 100, Step: 100, Points: 9999}
}

// Validate checks that the sweep has at least one point and moves.
func (s Sweep) Validate() error {
	if s.Points < 1 {
		return errors.NewConfigError("grid.points", s.Points, "must be at least 1")
	}
	if s.Step == 0 {
		return errors.NewConfigError("grid.phi_step", s.Step, "must be non-zero")
	}
	return nil
}

// Values returns the phi values of the sweep.
func (s Sweep) Values() []float64 {
	v := make([]float64, s.Points)
	for i := range v {
		v[i] = s.Start + float64(i)*s.Step
	}
	return v
}

// Grid is one evaluation matrix. Row i of X corresponds to Phi[i].
type Grid struct {
	Level        float64
	Phi          []float64
	X            *mat.Dense
	FeatureNames []string
}

// Builder produces grids whose column order equals the training order of
// its feature set.
type Builder struct {
	names    []string
	template []float64
	phiCol   int
	decCol   int
	sweep    Sweep
}

// NewBuilder resolves the constant row for fs from profile. Every column
// other than phi and decision_gar must have a profile value.
func NewBuilder(fs dataset.FeatureSet, profile Profile, sweep Sweep) (*Builder, error) {
	if err := sweep.Validate(); err != nil {
		return nil, err
	}

	names := fs.Names()
	b := &Builder{
		names:    names,
		template: make([]float64, len(names)),
		phiCol:   -1,
		decCol:   -1,
		sweep:    sweep,
	}
	for j, name := range names {
		switch name {
		case dataset.PhiColumn:
			b.phiCol = j
		case dataset.DecisionColumn:
			b.decCol = j
		default:
			v, ok := profile[name]
			if !ok {
				return nil, errors.NewMissingColumnError(name, "grid profile")
			}
			b.template[j] = v
		}
	}
	if b.decCol < 0 {
		return nil, errors.NewMissingColumnError(dataset.DecisionColumn, "feature set "+fs.Name)
	}
	return b, nil
}

// SweepsPhi reports whether phi is a feature column. When it is not, every
// row of a grid is identical.
func (b *Builder) SweepsPhi() bool {
	return b.phiCol >= 0
}

// FeatureNames returns the grid column order.
func (b *Builder) FeatureNames() []string {
	return append([]string(nil), b.names...)
}

// Build returns the grid with decision_gar fixed to level.
func (b *Builder) Build(level float64) (*Grid, error) {
	phi := b.sweep.Values()
	width := len(b.names)
	data := make([]float64, len(phi)*width)

	for i, p := range phi {
		row := data[i*width : (i+1)*width]
		copy(row, b.template)
		row[b.decCol] = level
		if b.phiCol >= 0 {
			row[b.phiCol] = p
		}
	}

	return &Grid{
		Level:        level,
		Phi:          phi,
		X:            mat.NewDense(len(phi), width, data),
		FeatureNames: b.FeatureNames(),
	}, nil
}

// BuildAll builds one grid per level, in order.
func (b *Builder) BuildAll(levels []float64) ([]*Grid, error) {
	if len(levels) == 0 {
		return nil, errors.NewValueError("grid.BuildAll", "no decision levels")
	}
	grids := make([]*Grid, 0, len(levels))
	for _, level := range levels {
		g, err := b.Build(level)
		if err != nil {
			return nil, err
		}
		grids = append(grids, g)
	}
	return grids, nil
}
