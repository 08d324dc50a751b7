package scoring

import (
	"math"

	"MatchServer/config"
)

// Axes 精选推荐的各维度得分，均在 [0,1]
type Axes struct {
	Distance     float64
	Age          float64
	Interest     float64
	Lifestyle    float64
	Completeness float64
	Activity     float64
}

// Composite 加权求和后 ×100 四舍五入，结果限定在 0-100
func (a Axes) Composite(w config.StandoutWeights) int {
	sum := a.Distance*w.Distance +
		a.Age*w.Age +
		a.Interest*w.Interest +
		a.Lifestyle*w.Lifestyle +
		a.Completeness*w.Completeness +
		a.Activity*w.Activity

	score := int(math.Round(sum * 100))
	return max(0, min(100, score))
}
