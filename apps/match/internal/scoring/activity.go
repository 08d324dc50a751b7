package scoring

import (
	"time"

	"MatchServer/config"
)

// ActivityScore 按整小时计算距今时长后落桶，超出所有分桶得 floor；从未更新过返回 0.5
func ActivityScore(updatedAt, now time.Time, buckets []config.ActivityBucket, floor float64) float64 {
	if updatedAt.IsZero() {
		return Neutral
	}
	since := now.Sub(updatedAt).Truncate(time.Hour)
	for _, b := range buckets {
		if since < b.Within {
			return b.Score
		}
	}
	return floor
}
