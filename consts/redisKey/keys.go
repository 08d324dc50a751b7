package rediskey

import (
	"fmt"
	"time"
)

// ==================== TTL 常量 ====================

const (
	// DailyPickViewedTTL 每日推荐已查看集合 TTL（略大于保留天数，由清理任务兜底删除）
	DailyPickViewedTTL = 32 * 24 * time.Hour

	// SwipeSessionGraceTTL 滑动会话在超时之后额外保留的时间
	SwipeSessionGraceTTL = 10 * time.Minute

	// NotifyUnreadTTL 通知未读计数 TTL
	NotifyUnreadTTL = 7 * 24 * time.Hour
)

// ==================== Key 前缀 ====================

const (
	// DailyPickViewedPrefix 每日推荐已查看集合前缀，SCAN 清理时使用
	DailyPickViewedPrefix = "match:daily_pick:viewed:"
)

// ==================== Key 构造函数 ====================

// DailyPickViewedKey 生成每日推荐已查看集合 Key: match:daily_pick:viewed:{date}
// date 格式 2006-01-02，成员为 user_id
func DailyPickViewedKey(date string) string {
	return DailyPickViewedPrefix + date
}

// SwipeSessionKey 生成滑动会话 Key: match:swipe:session:{user_id}
func SwipeSessionKey(userID string) string {
	return fmt.Sprintf("match:swipe:session:%s", userID)
}

// NotifyUnreadKey 生成通知未读计数 Key: match:notify:unread:{user_id}
func NotifyUnreadKey(userID string) string {
	return fmt.Sprintf("match:notify:unread:%s", userID)
}
