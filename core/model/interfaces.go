package model

import "gonum.org/v1/gonum/mat"

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform は学習済みパラメータでデータを変換する（再学習はしない）
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// NamedTransformer は学習時の列名と順序を検証しながら変換できる変換器
type NamedTransformer interface {
	Transformer

	// TransformNamed は names が学習時の列名・順序と一致する場合のみ変換する
	TransformNamed(X mat.Matrix, names []string) (mat.Matrix, error)
}
