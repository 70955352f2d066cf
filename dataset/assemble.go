package dataset

import (
	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Dataset is an assembled feature matrix with its target.
type Dataset struct {
	X            *mat.Dense
	Y            *mat.VecDense
	FeatureNames []string
	FeatureSet   FeatureSet
}

// Assemble builds the feature matrix for sel from t: the base column first,
// then the listed columns in registry order, and the rate target.
func Assemble(t *Table, sel Selector) (*Dataset, error) {
	fs, err := Lookup(sel)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, errors.NewModelError("dataset.Assemble", "empty table", errors.ErrEmptyData)
	}

	target, err := t.Column(TargetColumn)
	if err != nil {
		return nil, err
	}

	names := fs.Names()
	X := mat.NewDense(t.Len(), len(names), nil)
	for j, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		X.SetCol(j, col)
	}

	return &Dataset{
		X:            X,
		Y:            mat.NewVecDense(t.Len(), append([]float64(nil), target...)),
		FeatureNames: names,
		FeatureSet:   fs,
	}, nil
}
