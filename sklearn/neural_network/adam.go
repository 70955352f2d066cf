package neural_network

import "math"

// adam はバイアス補正を学習率に織り込んだ Adam オプティマイザ（scikit-learn の AdamOptimizer と同じ更新式）
type adam struct {
	learningRateInit float64
	beta1, beta2     float64
	epsilon          float64
	t                int
	ms, vs           [][]float64
}

func newAdam(params [][]float64, lr, beta1, beta2, epsilon float64) *adam {
	a := &adam{
		learningRateInit: lr,
		beta1:            beta1,
		beta2:            beta2,
		epsilon:          epsilon,
		ms:               make([][]float64, len(params)),
		vs:               make([][]float64, len(params)),
	}
	for i, p := range params {
		a.ms[i] = make([]float64, len(p))
		a.vs[i] = make([]float64, len(p))
	}
	return a
}

// update は params をその場で1ステップ更新する。grads は params と同じ形であること
func (a *adam) update(params, grads [][]float64) {
	a.t++
	t := float64(a.t)
	lr := a.learningRateInit * math.Sqrt(1-math.Pow(a.beta2, t)) / (1 - math.Pow(a.beta1, t))

	for i, p := range params {
		g, m, v := grads[i], a.ms[i], a.vs[i]
		for k := range p {
			m[k] = a.beta1*m[k] + (1-a.beta1)*g[k]
			v[k] = a.beta2*v[k] + (1-a.beta2)*g[k]*g[k]
			p[k] -= lr * m[k] / (math.Sqrt(v[k]) + a.epsilon)
		}
	}
}
