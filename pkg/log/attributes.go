// Package log defines standard attribute keys for pipeline logging.
//
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that log lines from different stages can be filtered
// and joined.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "MLPRegressor", "StandardScaler", "Ridge"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	ComponentKey = "ml.component"

	// PhaseKey indicates the pipeline phase.
	PhaseKey = "ml.phase"

	// RunIDKey identifies one pipeline run.
	RunIDKey = "run.id"
)

// Data shape and provenance.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ColumnKey   = "data.column"
	PathKey     = "data.path"
	RowKey      = "data.row"
)

// Performance and training metrics.
const (
	DurationMsKey = "perf.duration_ms"
	LossKey       = "metrics.loss"
	MAPEKey       = "metrics.mape"
	RMSEKey       = "metrics.rmse"
	MAEKey        = "metrics.mae"
	R2ScoreKey    = "metrics.r2_score"
	IterationKey  = "training.iteration"

	// ViolationsKey records how many grid indices break the expected
	// decision ordering.
	ViolationsKey = "metrics.ordering_violations"
)

// Hyperparameters and configuration.
const (
	HyperParamsKey    = "model.hyperparams"
	LearningRateKey   = "hyperparams.learning_rate"
	RegularizationKey = "hyperparams.regularization"
	RandomSeedKey     = "config.random_seed"
	SelectorKey       = "config.selector"
	TestSizeKey       = "config.test_size"
)

// Error context.
const (
	ErrorKey      = "error"
	StacktraceKey = "error.stacktrace"
	ErrorTypeKey  = "error.type"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
	OperationLoad         = "load"
	OperationAssemble     = "assemble"
	OperationSplit        = "split"
	OperationRender       = "render"

	PhasePreprocessing = "preprocessing"
	PhaseTraining      = "training"
	PhaseValidation    = "validation"
	PhaseInference     = "inference"
	PhaseReporting     = "reporting"
)
