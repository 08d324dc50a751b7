package scoring

import (
	"math"
	"time"

	"MatchServer/model"
)

// Neutral 信息不足时各维度的中性分
const Neutral = 0.5

// AgeDiff 两人年龄差（绝对值）
func AgeDiff(a, b *model.UserProfile, at time.Time) int {
	diff := a.Age(at) - b.Age(at)
	if diff < 0 {
		return -diff
	}
	return diff
}

// AgeScore 年龄差相对双方平均可接受年龄跨度越小分越高
func AgeScore(seeker, candidate *model.UserProfile, at time.Time) float64 {
	avgRange := float64(seeker.MaxAge-seeker.MinAge+candidate.MaxAge-candidate.MinAge) / 2
	if avgRange <= 0 {
		return Neutral
	}
	return math.Max(0, 1-float64(AgeDiff(seeker, candidate, at))/avgRange)
}

// WithinAgeRange candidate 的年龄是否落在 seeker 的偏好区间内
func WithinAgeRange(seeker, candidate *model.UserProfile, at time.Time) bool {
	age := candidate.Age(at)
	return age >= seeker.MinAge && age <= seeker.MaxAge
}
