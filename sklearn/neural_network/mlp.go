// Package neural_network は scikit-learn 互換の多層パーセプトロン回帰（adam ソルバー）を提供します。
package neural_network

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/YuminosukeSato/ratecurve/core/model"
	"github.com/YuminosukeSato/ratecurve/pkg/errors"
	"github.com/YuminosukeSato/ratecurve/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// MLPRegressor は恒等出力の順伝播ネットワークで、L2正則化付き二乗損失で学習する
type MLPRegressor struct {
	state *model.StateManager

	// ハイパーパラメータ
	hiddenLayerSizes []int
	activation       string  // "identity", "logistic", "tanh", "relu"
	solver           string  // "adam"
	alpha            float64 // L2 penalty
	batchSize        int     // 0 means min(200, n_samples)
	learningRateInit float64
	maxIter          int
	shuffle          bool
	randomState      int64 // negative means unseeded
	tol              float64
	beta1            float64
	beta2            float64
	epsilon          float64
	nIterNoChange    int

	// 学習済みパラメータ
	coefs      []*mat.Dense // coefs[i] is fan_in x fan_out
	intercepts [][]float64
	lossCurve  []float64
	bestLoss   float64
	nIter      int
	nOutputs   int

	logger log.Logger
}

var (
	_ model.Regressor       = (*MLPRegressor)(nil)
	_ model.ParameterGetter = (*MLPRegressor)(nil)
)

// MLPRegressorOption は MLPRegressor の設定オプション
type MLPRegressorOption func(*MLPRegressor)

// NewMLPRegressor は scikit-learn と同じ既定値で MLPRegressor を作成する
func NewMLPRegressor(opts ...MLPRegressorOption) *MLPRegressor {
	m := &MLPRegressor{
		state:            model.NewStateManager("MLPRegressor"),
		hiddenLayerSizes: []int{100},
		activation:       "relu",
		solver:           "adam",
		alpha:            1e-4,
		learningRateInit: 1e-3,
		maxIter:          200,
		shuffle:          true,
		randomState:      -1,
		tol:              1e-4,
		beta1:            0.9,
		beta2:            0.999,
		epsilon:          1e-8,
		nIterNoChange:    10,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithHiddenLayerSizes は各隠れ層のユニット数を設定
func WithHiddenLayerSizes(sizes ...int) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.hiddenLayerSizes = append([]int(nil), sizes...)
	}
}

// WithActivation は隠れ層の活性化関数を設定
func WithActivation(activation string) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.activation = activation
	}
}

// WithSolver はオプティマイザを設定（"adam" のみ対応）
func WithSolver(solver string) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.solver = solver
	}
}

// WithAlpha はL2正則化の強さを設定
func WithAlpha(alpha float64) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.alpha = alpha
	}
}

// WithBatchSize はミニバッチサイズを設定（0 なら min(200, n_samples)）
func WithBatchSize(size int) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.batchSize = size
	}
}

// WithLearningRateInit は初期学習率を設定
func WithLearningRateInit(lr float64) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.learningRateInit = lr
	}
}

// WithMaxIter は最大エポック数を設定
func WithMaxIter(maxIter int) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.maxIter = maxIter
	}
}

// WithShuffle はエポックごとにサンプルをシャッフルするかを設定
func WithShuffle(shuffle bool) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.shuffle = shuffle
	}
}

// WithRandomState は重み初期化とシャッフルの乱数シードを設定（負ならシードなし）
func WithRandomState(seed int64) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.randomState = seed
	}
}

// WithTol は早期終了に使う損失改善の許容値を設定
func WithTol(tol float64) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.tol = tol
	}
}

// WithNIterNoChange は tol 以上の改善がないエポックを何回まで許すかを設定
func WithNIterNoChange(n int) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.nIterNoChange = n
	}
}

// WithAdamParams は Adam のモーメント減衰率と epsilon を設定
func WithAdamParams(beta1, beta2, epsilon float64) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.beta1 = beta1
		m.beta2 = beta2
		m.epsilon = epsilon
	}
}

// WithLogger はエポックごとのデバッグ出力に使うロガーを設定
func WithLogger(logger log.Logger) MLPRegressorOption {
	return func(m *MLPRegressor) {
		m.logger = logger
	}
}

func (m *MLPRegressor) validateParams() error {
	for i, size := range m.hiddenLayerSizes {
		if size <= 0 {
			return errors.NewValidationError(fmt.Sprintf("hidden_layer_sizes[%d]", i), "must be positive", size)
		}
	}
	if _, ok := activations[m.activation]; !ok {
		return errors.NewValidationError("activation", "must be one of identity, logistic, tanh, relu", m.activation)
	}
	if m.solver != "adam" {
		return errors.NewValidationError("solver", "only adam is supported", m.solver)
	}
	if m.alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", m.alpha)
	}
	if m.learningRateInit <= 0 {
		return errors.NewValidationError("learning_rate_init", "must be positive", m.learningRateInit)
	}
	if m.maxIter <= 0 {
		return errors.NewValidationError("max_iter", "must be positive", m.maxIter)
	}
	if m.batchSize < 0 {
		return errors.NewValidationError("batch_size", "must be non-negative", m.batchSize)
	}
	if m.nIterNoChange <= 0 {
		return errors.NewValidationError("n_iter_no_change", "must be positive", m.nIterNoChange)
	}
	if m.beta1 < 0 || m.beta1 >= 1 || m.beta2 < 0 || m.beta2 >= 1 {
		return errors.NewValidationError("beta", "beta_1 and beta_2 must be in [0, 1)", [2]float64{m.beta1, m.beta2})
	}
	return nil
}

// Fit は X (n_samples×n_features) と y (n_samples×n_outputs) でネットワークを学習させる
func (m *MLPRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "MLPRegressor.Fit")

	nSamples, nFeatures := X.Dims()
	yRows, nOutputs := y.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("MLPRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("MLPRegressor.Fit", nSamples, yRows, 0)
	}
	if err := m.validateParams(); err != nil {
		return err
	}

	m.state.Reset()
	rng := m.newRand()
	layerSizes := make([]int, 0, len(m.hiddenLayerSizes)+2)
	layerSizes = append(layerSizes, nFeatures)
	layerSizes = append(layerSizes, m.hiddenLayerSizes...)
	layerSizes = append(layerSizes, nOutputs)
	m.initialize(layerSizes, rng)

	Xd := mat.DenseCopyOf(X)
	Yd := mat.DenseCopyOf(y)

	batchSize := m.batchSize
	if batchSize == 0 {
		batchSize = 200
	}
	if batchSize > nSamples {
		batchSize = nSamples
	}

	params := m.paramSlices()
	opt := newAdam(params, m.learningRateInit, m.beta1, m.beta2, m.epsilon)
	logger := m.getLogger()

	index := make([]int, nSamples)
	for i := range index {
		index[i] = i
	}

	m.lossCurve = m.lossCurve[:0]
	m.bestLoss = math.Inf(1)
	noImprovement := 0
	converged := false

	for epoch := 0; epoch < m.maxIter; epoch++ {
		if m.shuffle {
			rng.Shuffle(nSamples, func(i, j int) { index[i], index[j] = index[j], index[i] })
		}

		accumulated := 0.0
		for start := 0; start < nSamples; start += batchSize {
			end := start + batchSize
			if end > nSamples {
				end = nSamples
			}
			xb, yb := gatherRows(Xd, Yd, index[start:end])
			batchLoss, grads := m.backprop(xb, yb)
			opt.update(params, grads)
			accumulated += batchLoss * float64(end-start)
		}

		loss := accumulated / float64(nSamples)
		m.nIter = epoch + 1
		if err := errors.CheckScalar("MLPRegressor.Fit", loss, m.nIter); err != nil {
			return err
		}
		m.lossCurve = append(m.lossCurve, loss)
		logger.Debug("epoch finished", log.IterationKey, m.nIter, log.LossKey, loss)

		if loss > m.bestLoss-m.tol {
			noImprovement++
		} else {
			noImprovement = 0
		}
		if loss < m.bestLoss {
			m.bestLoss = loss
		}
		if noImprovement > m.nIterNoChange {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("MLPRegressor", m.nIter,
			"maximum iterations reached and the optimization hasn't converged yet"))
	}

	m.nOutputs = nOutputs
	m.state.SetFitted(nFeatures, nSamples)
	logger.Info("MLPRegressor fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.IterationKey, m.nIter,
		log.LossKey, m.lossCurve[len(m.lossCurve)-1],
		"converged", converged,
	)
	return nil
}

// Predict は n_samples×n_outputs の予測行列を返す
func (m *MLPRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, c := X.Dims()
	if err := m.state.RequireFeatures("Predict", c); err != nil {
		return nil, err
	}
	if r == 0 {
		return nil, errors.NewModelError("MLPRegressor.Predict", "no rows to predict", errors.ErrEmptyData)
	}
	activations := m.forward(mat.DenseCopyOf(X))
	out := activations[len(activations)-1]
	if err := errors.CheckMatrix("MLPRegressor.Predict", out, m.nIter); err != nil {
		return nil, err
	}
	return out, nil
}

// IsFitted は学習済みかどうかを返す
func (m *MLPRegressor) IsFitted() bool {
	return m.state.IsFitted()
}

// LossCurve は各エポック終了時の学習損失を返す
func (m *MLPRegressor) LossCurve() []float64 {
	return append([]float64(nil), m.lossCurve...)
}

// NIter は直近の Fit で実行したエポック数を返す
func (m *MLPRegressor) NIter() int {
	return m.nIter
}

// BestLoss は直近の Fit で最小だったエポック損失を返す
func (m *MLPRegressor) BestLoss() float64 {
	return m.bestLoss
}

// GetParams は scikit-learn と同じ名前でハイパーパラメータを返す
func (m *MLPRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"hidden_layer_sizes": append([]int(nil), m.hiddenLayerSizes...),
		"activation":         m.activation,
		"solver":             m.solver,
		"alpha":              m.alpha,
		"batch_size":         m.batchSize,
		"learning_rate_init": m.learningRateInit,
		"max_iter":           m.maxIter,
		"shuffle":            m.shuffle,
		"random_state":       m.randomState,
		"tol":                m.tol,
		"beta_1":             m.beta1,
		"beta_2":             m.beta2,
		"epsilon":            m.epsilon,
		"n_iter_no_change":   m.nIterNoChange,
	}
}

// String はモデルの短い説明を返す
func (m *MLPRegressor) String() string {
	return fmt.Sprintf("MLPRegressor(hidden_layer_sizes=%v, activation=%s, solver=%s, alpha=%g, learning_rate_init=%g)",
		m.hiddenLayerSizes, m.activation, m.solver, m.alpha, m.learningRateInit)
}

func (m *MLPRegressor) getLogger() log.Logger {
	if m.logger != nil {
		return m.logger
	}
	return log.GetLogger().With(log.ModelNameKey, "MLPRegressor")
}

func (m *MLPRegressor) newRand() *rand.Rand {
	if m.randomState >= 0 {
		return rand.New(rand.NewSource(m.randomState))
	}
	return rand.New(rand.NewSource(rand.Int63()))
}

// initialize は Glorot 一様分布で重みと切片を初期化する
func (m *MLPRegressor) initialize(layerSizes []int, rng *rand.Rand) {
	nLayers := len(layerSizes) - 1
	m.coefs = make([]*mat.Dense, nLayers)
	m.intercepts = make([][]float64, nLayers)

	factor := 6.0
	if m.activation == "logistic" {
		factor = 2.0
	}
	for i := 0; i < nLayers; i++ {
		fanIn, fanOut := layerSizes[i], layerSizes[i+1]
		bound := math.Sqrt(factor / float64(fanIn+fanOut))

		w := make([]float64, fanIn*fanOut)
		for k := range w {
			w[k] = (2*rng.Float64() - 1) * bound
		}
		b := make([]float64, fanOut)
		for k := range b {
			b[k] = (2*rng.Float64() - 1) * bound
		}
		m.coefs[i] = mat.NewDense(fanIn, fanOut, w)
		m.intercepts[i] = b
	}
}

// paramSlices は学習対象パラメータのビューを固定順（全係数行列、続いて全切片）で返す
func (m *MLPRegressor) paramSlices() [][]float64 {
	params := make([][]float64, 0, 2*len(m.coefs))
	for _, w := range m.coefs {
		params = append(params, w.RawMatrix().Data)
	}
	return append(params, m.intercepts...)
}

// forward は入力層から順に各層の出力を返す
func (m *MLPRegressor) forward(X *mat.Dense) []*mat.Dense {
	act := activations[m.activation]
	out := make([]*mat.Dense, len(m.coefs)+1)
	out[0] = X
	rows, _ := X.Dims()

	for i, w := range m.coefs {
		_, fanOut := w.Dims()
		z := mat.NewDense(rows, fanOut, nil)
		z.Mul(out[i], w)

		last := i == len(m.coefs)-1
		b := m.intercepts[i]
		for r := 0; r < rows; r++ {
			row := z.RawRowView(r)
			for k := range row {
				row[k] += b[k]
				if !last {
					row[k] = act.f(row[k])
				}
			}
		}
		out[i+1] = z
	}
	return out
}

// backprop は正則化込みのバッチ損失と、paramSlices と同じ順の勾配を計算する
func (m *MLPRegressor) backprop(xb, yb *mat.Dense) (float64, [][]float64) {
	act := activations[m.activation]
	nLayers := len(m.coefs)
	acts := m.forward(xb)
	batch, nOut := yb.Dims()
	n := float64(batch)

	delta := mat.NewDense(batch, nOut, nil)
	delta.Sub(acts[nLayers], yb)

	sq := 0.0
	for _, v := range delta.RawMatrix().Data {
		sq += v * v
	}
	loss := sq / (2 * n * float64(nOut))

	l2 := 0.0
	for _, w := range m.coefs {
		for _, v := range w.RawMatrix().Data {
			l2 += v * v
		}
	}
	loss += 0.5 * m.alpha * l2 / n

	coefGrads := make([][]float64, nLayers)
	interceptGrads := make([][]float64, nLayers)

	for i := nLayers - 1; i >= 0; i-- {
		fanIn, fanOut := m.coefs[i].Dims()

		g := mat.NewDense(fanIn, fanOut, nil)
		g.Mul(acts[i].T(), delta)
		g.Add(g, scaled(m.alpha, m.coefs[i]))
		g.Scale(1/n, g)
		coefGrads[i] = g.RawMatrix().Data

		ig := make([]float64, fanOut)
		for r := 0; r < batch; r++ {
			row := delta.RawRowView(r)
			for k := range ig {
				ig[k] += row[k]
			}
		}
		for k := range ig {
			ig[k] /= n
		}
		interceptGrads[i] = ig

		if i > 0 {
			prev := mat.NewDense(batch, fanIn, nil)
			prev.Mul(delta, m.coefs[i].T())
			a := acts[i]
			for r := 0; r < batch; r++ {
				pr := prev.RawRowView(r)
				ar := a.RawRowView(r)
				for k := range pr {
					pr[k] *= act.df(ar[k])
				}
			}
			delta = prev
		}
	}

	return loss, append(coefGrads, interceptGrads...)
}

func scaled(f float64, a mat.Matrix) *mat.Dense {
	var s mat.Dense
	s.Scale(f, a)
	return &s
}

func gatherRows(X, Y *mat.Dense, rows []int) (*mat.Dense, *mat.Dense) {
	_, xc := X.Dims()
	_, yc := Y.Dims()
	xb := mat.NewDense(len(rows), xc, nil)
	yb := mat.NewDense(len(rows), yc, nil)
	for i, src := range rows {
		xb.SetRow(i, X.RawRowView(src))
		yb.SetRow(i, Y.RawRowView(src))
	}
	return xb, yb
}
