// Package ratecurve predicts rates from tabular records with a small
// multi-layer perceptron and checks how the prediction responds to phi at
// different decision_gar levels.
//
// One run loads a CSV file, assembles a feature matrix from one of four
// predefined feature sets, standardizes it, trains an MLPRegressor, reports
// the held-out MAPE and then sweeps phi over synthetic evaluation grids
// (decision_gar = 0, 5, 10). The predicted curves are expected to satisfy
// pred(0) ≥ pred(5) ≥ pred(10) at every phi; the number of indices that do
// not is reported as "Count: N out of M" and the curves are drawn to a chart.
//
// # Installation
//
//	go install github.com/YuminosukeSato/ratecurve/cmd/ratecurve@latest
//
// # Quick Start
//
//	ratecurve features            # list the feature sets
//	ratecurve config > ratecurve.yaml
//	ratecurve run --data data_JMP_impute.csv --selector large --chart prediction.png
//
// The same flow is available as a library:
//
//	cfg := config.Default()
//	cfg.Data = "data_JMP_impute.csv"
//	res, err := pipeline.Run(cfg, log.GetLogger())
//	if err != nil {
//	    log.GetLogger().Error("run failed", err)
//	    os.Exit(1)
//	}
//	report.WriteSummary(os.Stdout, res.Summary())
//
// # Packages
//
//   - dataset: CSV loading, the feature-set registry and matrix assembly
//   - preprocessing: StandardScaler with a feature-name and order guard
//   - sklearn/model_selection: seeded TrainTestSplit
//   - sklearn/neural_network: MLPRegressor (Adam, L2, early stopping)
//   - linear: Ridge regression, used as a baseline
//   - metrics: MAPE, MSE, RMSE, MAE, R² and the ordering-violation count
//   - grid: evaluation grids built from a representative profile
//   - report: chart rendering (gonum/plot) and the console summary
//   - config: YAML configuration
//   - pipeline: the end-to-end run
//   - core/model: estimator state and interfaces
//   - pkg/errors, pkg/log: structured errors and zerolog-based logging
//
// # scikit-learn Compatibility
//
// StandardScaler, TrainTestSplit and MLPRegressor follow scikit-learn's
// semantics (population standard deviation, ceil(n*test_size) held-out rows,
// Glorot initialization, Adam with bias correction, tol/n_iter_no_change
// stopping) so results can be compared with a Python run of the same data.
package ratecurve
