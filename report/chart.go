// Package report renders the prediction curves and prints run diagnostics.
package report

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one labeled curve.
type Series struct {
	Label string
	X     []float64
	Y     []float64
}

// Chart describes a line chart with a legend.
type Chart struct {
	Title        string
	XLabel       string
	YLabel       string
	Series       []Series
	WidthInches  float64
	HeightInches float64
}

// supported by plot.Save
var chartFormats = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".tif": true,
	".tiff": true, ".svg": true, ".pdf": true, ".eps": true, ".tex": true,
}

// DecisionLabel returns the legend label for a decision_gar level.
func DecisionLabel(level float64) string {
	return "decision_" + strconv.FormatFloat(level, 'g', -1, 64)
}

// DecisionChart builds the phi chart with one curve per decision level.
// curves[i] holds the predictions for levels[i], index-aligned with phi.
func DecisionChart(phi, levels []float64, curves [][]float64) (Chart, error) {
	if len(levels) != len(curves) {
		return Chart{}, errors.NewDimensionError("report.DecisionChart", len(levels), len(curves), 0)
	}
	c := Chart{
		XLabel:       "phi",
		YLabel:       "Predicted",
		WidthInches:  8,
		HeightInches: 5,
	}
	for i, level := range levels {
		if len(curves[i]) != len(phi) {
			return Chart{}, errors.NewDimensionError("report.DecisionChart", len(phi), len(curves[i]), 0)
		}
		c.Series = append(c.Series, Series{Label: DecisionLabel(level), X: phi, Y: curves[i]})
	}
	return c, nil
}

// RenderChart draws c and saves it to path. The image format follows the
// file extension.
func RenderChart(path string, c Chart) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !chartFormats[ext] {
		return errors.NewValidationError("chart", "unsupported image format", path)
	}
	if len(c.Series) == 0 {
		return errors.NewValueError("report.RenderChart", "no series to draw")
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range c.Series {
		if len(s.X) != len(s.Y) {
			return errors.NewDimensionError("report.RenderChart", len(s.X), len(s.Y), 0)
		}
		pts := make(plotter.XYs, len(s.X))
		for k := range s.X {
			pts[k].X = s.X[k]
			pts[k].Y = s.Y[k]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "series %s", s.Label)
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}

	width, height := c.WidthInches, c.HeightInches
	if width <= 0 {
		width = 8
	}
	if height <= 0 {
		height = 5
	}
	if err := p.Save(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving chart to %s", path)
	}
	return nil
}
