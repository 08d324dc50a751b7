package repository

import (
	"math/rand/v2"
	"strconv"
	"time"

	"MatchServer/model"
)

// getRandomExpireTime 生成带随机抖动的过期时间：基础时间 ± 10%
func getRandomExpireTime(baseExpire time.Duration) time.Duration {
	jitterRange := float64(baseExpire) * 0.1
	jitter := time.Duration(rand.Float64()*jitterRange*2 - jitterRange)
	return baseExpire + jitter
}

// ==================== 滑动会话 Hash 编解码 ====================

const (
	sessionFieldUser         = "user_id"
	sessionFieldStartedAt    = "started_at"
	sessionFieldLastActivity = "last_activity_at"
	sessionFieldSwipes       = "swipe_count"
	sessionFieldLikes        = "like_count"
	sessionFieldPasses       = "pass_count"
	sessionFieldMatches      = "match_count"
)

// encodeSession 会话转为 Hash 字段，时间以毫秒时间戳存储
func encodeSession(s *model.SwipeSession) map[string]interface{} {
	return map[string]interface{}{
		sessionFieldUser:         s.UserId,
		sessionFieldStartedAt:    s.StartedAt.UnixMilli(),
		sessionFieldLastActivity: s.LastActivityAt.UnixMilli(),
		sessionFieldSwipes:       s.SwipeCount,
		sessionFieldLikes:        s.LikeCount,
		sessionFieldPasses:       s.PassCount,
		sessionFieldMatches:      s.MatchCount,
	}
}

// decodeSession 从 Hash 字段还原会话，空 Hash 视为不存在
func decodeSession(fields map[string]string) (*model.SwipeSession, bool) {
	if len(fields) == 0 || fields[sessionFieldUser] == "" {
		return nil, false
	}
	return &model.SwipeSession{
		UserId:         fields[sessionFieldUser],
		StartedAt:      parseMillis(fields[sessionFieldStartedAt]),
		LastActivityAt: parseMillis(fields[sessionFieldLastActivity]),
		SwipeCount:     parseInt(fields[sessionFieldSwipes]),
		LikeCount:      parseInt(fields[sessionFieldLikes]),
		PassCount:      parseInt(fields[sessionFieldPasses]),
		MatchCount:     parseInt(fields[sessionFieldMatches]),
	}, true
}

func parseMillis(raw string) time.Time {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func parseInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
