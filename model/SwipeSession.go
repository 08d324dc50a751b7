package model

import "time"

// SwipeSession 用户一次连续滑动的会话统计，存放在 Redis Hash 中
type SwipeSession struct {
	UserId         string
	StartedAt      time.Time
	LastActivityAt time.Time
	SwipeCount     int
	LikeCount      int
	PassCount      int
	MatchCount     int
}

// NewSwipeSession 开启新会话
func NewSwipeSession(userID string, now time.Time) *SwipeSession {
	return &SwipeSession{UserId: userID, StartedAt: now, LastActivityAt: now}
}

// IsTimedOut 距离上次活动超过 timeout 即视为结束
func (s *SwipeSession) IsTimedOut(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivityAt) > timeout
}

// SwipesPerMinute 会话内的平均滑动速度
func (s *SwipeSession) SwipesPerMinute(now time.Time) float64 {
	minutes := now.Sub(s.StartedAt).Minutes()
	if minutes < 1.0/60 {
		minutes = 1.0 / 60
	}
	return float64(s.SwipeCount) / minutes
}
