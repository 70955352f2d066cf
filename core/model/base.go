package model

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// BaseEstimator は変換器・モデルに埋め込む学習状態
// 学習済みの特徴量名を合わせて保持し、評価時の列順チェックに使う
type BaseEstimator struct {
	state        EstimatorState
	featureNames []string
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
	e.featureNames = nil
}

// SetFeatureNames は学習時の特徴量名を記録する（コピーを保持する）
func (e *BaseEstimator) SetFeatureNames(names []string) {
	if names == nil {
		e.featureNames = nil
		return
	}
	e.featureNames = append([]string(nil), names...)
}

// FeatureNames は学習時の特徴量名を返す。未設定ならnil
func (e *BaseEstimator) FeatureNames() []string {
	if e.featureNames == nil {
		return nil
	}
	return append([]string(nil), e.featureNames...)
}
