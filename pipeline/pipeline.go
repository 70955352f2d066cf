// Package pipeline runs one end-to-end pass: load, assemble, scale, split,
// fit, evaluate, sweep the evaluation grids and report.
package pipeline

import (
	"math"
	"time"

	"github.com/YuminosukeSato/ratecurve/config"
	"github.com/YuminosukeSato/ratecurve/core/model"
	"github.com/YuminosukeSato/ratecurve/dataset"
	"github.com/YuminosukeSato/ratecurve/grid"
	"github.com/YuminosukeSato/ratecurve/linear"
	"github.com/YuminosukeSato/ratecurve/metrics"
	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"github.com/YuminosukeSato/ratecurve/pkg/log"
	"github.com/YuminosukeSato/ratecurve/preprocessing"
	"github.com/YuminosukeSato/ratecurve/report"
	"github.com/YuminosukeSato/ratecurve/sklearn/model_selection"
	"github.com/YuminosukeSato/ratecurve/sklearn/neural_network"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// Evaluation holds held-out scores.
type Evaluation struct {
	MAPE float64
	RMSE float64
	MAE  float64
	R2   float64 // NaN when the held-out target has no variance
}

// Result is everything a run produced.
type Result struct {
	RunID      string
	FeatureSet dataset.FeatureSet
	Scaler     *preprocessing.StandardScaler
	Model      *neural_network.MLPRegressor
	Split      *model_selection.Split
	Eval       Evaluation
	Baseline   *Evaluation // nil when the baseline is disabled or failed
	Grids      []*grid.Grid
	Curves     [][]float64 // one prediction curve per decision level
	Violations int
	ChartPath  string
}

// Summary converts r to the printable report.
func (r *Result) Summary() report.Summary {
	s := report.Summary{
		RunID:      r.RunID,
		FeatureSet: r.FeatureSet.Name,
		Features:   r.FeatureSet.Width(),
		TrainRows:  len(r.Split.TrainIndex),
		TestRows:   len(r.Split.TestIndex),
		Iterations: r.Model.NIter(),
		MAPE:       r.Eval.MAPE,
		RMSE:       r.Eval.RMSE,
		MAE:        r.Eval.MAE,
		R2:         r.Eval.R2,
		Violations: r.Violations,
		ChartPath:  r.ChartPath,
	}
	if len(r.Curves) > 0 {
		s.GridPoints = len(r.Curves[0])
	}
	if r.Baseline != nil {
		s.HasBaseline = true
		s.BaseMAPE = r.Baseline.MAPE
	}
	return s
}

// Run loads cfg.Data and runs the pipeline on it.
func Run(cfg *config.Config, logger log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.GetLogger()
	}

	start := time.Now()
	table, err := dataset.LoadCSV(cfg.Data)
	if err != nil {
		logger.Error("failed to load data", err, log.PathKey, cfg.Data)
		return nil, err
	}
	logger.Info("data loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, cfg.Data,
		log.SamplesKey, table.Len(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return RunTable(cfg, table, logger)
}

// RunTable runs the pipeline on an already loaded table.
func RunTable(cfg *config.Config, table *dataset.Table, logger log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.GetLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString()}
	logger = logger.With(log.RunIDKey, res.RunID, log.ComponentKey, "pipeline")

	sel, err := cfg.FeatureSelector()
	if err != nil {
		return nil, err
	}

	// preprocessing
	ds, err := dataset.Assemble(table, sel)
	if err != nil {
		logger.Error("feature assembly failed", err, log.SelectorKey, sel.String())
		return nil, err
	}
	res.FeatureSet = ds.FeatureSet
	logger.Info("features assembled",
		log.PhaseKey, log.PhasePreprocessing,
		log.OperationKey, log.OperationAssemble,
		log.SelectorKey, sel.String(),
		log.SamplesKey, ds.Y.Len(),
		log.FeaturesKey, len(ds.FeatureNames),
	)

	res.Scaler = preprocessing.NewStandardScalerDefault()
	scaled, err := res.Scaler.FitTransformNamed(ds.X, ds.FeatureNames)
	if err != nil {
		return nil, err
	}

	res.Split, err = model_selection.TrainTestSplit(scaled, ds.Y, cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, err
	}
	logger.Info("data split",
		log.OperationKey, log.OperationSplit,
		log.TestSizeKey, cfg.TestSize,
		log.RandomSeedKey, cfg.Seed,
		"train_rows", len(res.Split.TrainIndex),
		"test_rows", len(res.Split.TestIndex),
	)

	// training
	m := cfg.Model
	res.Model = neural_network.NewMLPRegressor(
		neural_network.WithHiddenLayerSizes(m.HiddenLayerSize),
		neural_network.WithActivation(m.Activation),
		neural_network.WithSolver("adam"),
		neural_network.WithLearningRateInit(m.LearningRateInit),
		neural_network.WithAlpha(m.Alpha),
		neural_network.WithTol(m.Tol),
		neural_network.WithMaxIter(m.MaxIter),
		neural_network.WithBatchSize(m.BatchSize),
		neural_network.WithNIterNoChange(m.NIterNoChange),
		neural_network.WithShuffle(m.Shuffle),
		neural_network.WithRandomState(cfg.Seed),
		neural_network.WithLogger(logger.With(log.ModelNameKey, "MLPRegressor")),
	)
	start := time.Now()
	err = errors.SafeExecute("pipeline.fit", func() error {
		return res.Model.Fit(res.Split.XTrain, res.Split.YTrain)
	})
	if err != nil {
		logger.Error("training failed", err, log.PhaseKey, log.PhaseTraining)
		return nil, err
	}
	logger.Info("model trained",
		log.PhaseKey, log.PhaseTraining,
		log.HyperParamsKey, res.Model.String(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	// validation
	res.Eval, err = evaluate(res.Model, res.Split)
	if err != nil {
		logger.Error("held-out evaluation failed", err, log.PhaseKey, log.PhaseValidation)
		return nil, err
	}
	logger.Info("held-out evaluation",
		log.PhaseKey, log.PhaseValidation,
		log.ModelNameKey, "MLPRegressor",
		log.MAPEKey, res.Eval.MAPE,
		log.RMSEKey, res.Eval.RMSE,
		log.MAEKey, res.Eval.MAE,
		log.R2ScoreKey, res.Eval.R2,
	)

	if cfg.Baseline {
		res.Baseline = baseline(m.RidgeAlpha, res.Split, logger)
	}

	// inference over the evaluation grids
	if err := sweep(cfg, res, logger); err != nil {
		logger.Error("grid sweep failed", err, log.PhaseKey, log.PhaseInference)
		return nil, err
	}

	// reporting
	if cfg.Output.Chart != "" {
		chart, err := report.DecisionChart(res.Grids[0].Phi, cfg.Grid.DecisionLevels, res.Curves)
		if err != nil {
			return nil, err
		}
		chart.Title = "Predicted rate by phi (" + res.FeatureSet.Name + ")"
		chart.WidthInches = cfg.Output.WidthInches
		chart.HeightInches = cfg.Output.HeightInches
		if err := report.RenderChart(cfg.Output.Chart, chart); err != nil {
			logger.Error("chart rendering failed", err, log.PathKey, cfg.Output.Chart)
			return nil, err
		}
		res.ChartPath = cfg.Output.Chart
		logger.Info("chart written",
			log.PhaseKey, log.PhaseReporting,
			log.OperationKey, log.OperationRender,
			log.PathKey, cfg.Output.Chart,
		)
	}

	return res, nil
}

// evaluate scores est on the held-out partition. A zero target is reported
// with its table row.
func evaluate(est model.Predictor, split *model_selection.Split) (Evaluation, error) {
	var ev Evaluation

	raw, err := est.Predict(split.XTest)
	if err != nil {
		return ev, err
	}
	pred, err := metrics.VecFromMatrix(raw)
	if err != nil {
		return ev, err
	}

	ev.MAPE, err = metrics.MAPE(split.YTest, pred)
	if err != nil {
		var zt *errors.ZeroTargetError
		if errors.As(err, &zt) {
			return ev, errors.NewZeroTargetError(zt.Metric, split.TestIndex[zt.Row])
		}
		return ev, err
	}
	if ev.RMSE, err = metrics.RMSE(split.YTest, pred); err != nil {
		return ev, err
	}
	if ev.MAE, err = metrics.MAE(split.YTest, pred); err != nil {
		return ev, err
	}
	ev.R2, err = metrics.R2Score(split.YTest, pred)
	if errors.Is(err, metrics.ErrNoVariance) {
		errors.Warn(errors.NewUndefinedMetricWarning("r2", "constant held-out target", math.NaN()))
		ev.R2 = math.NaN()
		err = nil
	}
	return ev, err
}

// baseline fits the ridge reference on the training partition. A failure is
// logged and yields nil; the MLP result stands on its own.
func baseline(alpha float64, split *model_selection.Split, logger log.Logger) *Evaluation {
	ridge := linear.NewRidge(linear.WithAlpha(alpha))
	if err := ridge.Fit(split.XTrain, split.YTrain); err != nil {
		logger.Warn("baseline skipped", log.ModelNameKey, "Ridge", log.ErrorKey, err.Error())
		return nil
	}
	ev, err := evaluate(ridge, split)
	if err != nil {
		logger.Warn("baseline skipped", log.ModelNameKey, "Ridge", log.ErrorKey, err.Error())
		return nil
	}
	logger.Info("baseline evaluation",
		log.PhaseKey, log.PhaseValidation,
		log.ModelNameKey, "Ridge",
		log.MAPEKey, ev.MAPE,
		log.RMSEKey, ev.RMSE,
	)
	return &ev
}

// sweep builds one grid per decision level, scales it with the fitted scaler
// and predicts a curve for each.
func sweep(cfg *config.Config, res *Result, logger log.Logger) error {
	g := cfg.Grid
	profile := grid.DefaultProfile().With(g.Constants)
	builder, err := grid.NewBuilder(res.FeatureSet, profile, grid.Sweep{Start: g.PhiStart, Step: g.PhiStep, Points: g.Points})
	if err != nil {
		return err
	}
	if !builder.SweepsPhi() {
		logger.Warn("phi is not a feature of this set, grid curves are flat",
			log.SelectorKey, res.FeatureSet.Name)
	}

	res.Grids, err = builder.BuildAll(g.DecisionLevels)
	if err != nil {
		return err
	}

	res.Curves = make([][]float64, len(res.Grids))
	for i, gr := range res.Grids {
		scaled, err := res.Scaler.TransformNamed(gr.X, gr.FeatureNames)
		if err != nil {
			return err
		}
		pred, err := res.Model.Predict(scaled)
		if err != nil {
			return err
		}
		res.Curves[i] = mat.Col(nil, 0, pred)
	}

	res.Violations, err = metrics.OrderingViolations(res.Curves...)
	if err != nil {
		return err
	}
	logger.Info("ordering check",
		log.PhaseKey, log.PhaseInference,
		log.ViolationsKey, res.Violations,
		log.SamplesKey, g.Points,
	)
	return nil
}
