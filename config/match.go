package config

import (
	"errors"
	"fmt"
	"time"
)

// StandoutWeights 精选推荐综合分各维度权重
type StandoutWeights struct {
	Distance     float64 `json:"distance" yaml:"distance" env:"DISTANCE"`
	Age          float64 `json:"age" yaml:"age" env:"AGE"`
	Interest     float64 `json:"interest" yaml:"interest" env:"INTEREST"`
	Lifestyle    float64 `json:"lifestyle" yaml:"lifestyle" env:"LIFESTYLE"`
	Completeness float64 `json:"completeness" yaml:"completeness" env:"COMPLETENESS"`
	Activity     float64 `json:"activity" yaml:"activity" env:"ACTIVITY"`
}

// Sum 权重之和
func (w StandoutWeights) Sum() float64 {
	return w.Distance + w.Age + w.Interest + w.Lifestyle + w.Completeness + w.Activity
}

// ActivityBucket 距离上次资料更新不足 Within 时活跃度得 Score
type ActivityBucket struct {
	Within time.Duration `json:"within" yaml:"within"`
	Score  float64       `json:"score" yaml:"score"`
}

// MatchConfig 匹配引擎业务配置
type MatchConfig struct {
	// 撤销
	UndoWindowSeconds int `json:"undoWindowSeconds" yaml:"undoWindowSeconds" env:"UNDO_WINDOW_SECONDS"`

	// 每日配额（按用户时区的自然日）
	DailyLikeLimit  int  `json:"dailyLikeLimit" yaml:"dailyLikeLimit" env:"DAILY_LIKE_LIMIT"`
	UnlimitedLikes  bool `json:"unlimitedLikes" yaml:"unlimitedLikes" env:"UNLIMITED_LIKES"`
	DailyPassLimit  int  `json:"dailyPassLimit" yaml:"dailyPassLimit" env:"DAILY_PASS_LIMIT"`
	UnlimitedPasses bool `json:"unlimitedPasses" yaml:"unlimitedPasses" env:"UNLIMITED_PASSES"`

	// 推荐
	StandoutWeights    StandoutWeights `json:"standoutWeights" yaml:"standoutWeights" envPrefix:"STANDOUT_WEIGHT_"`
	NearbyDistanceKm   float64         `json:"nearbyDistanceKm" yaml:"nearbyDistanceKm" env:"NEARBY_DISTANCE_KM"`
	CloseDistanceKm    float64         `json:"closeDistanceKm" yaml:"closeDistanceKm" env:"CLOSE_DISTANCE_KM"`
	SimilarAgeDiff     int             `json:"similarAgeDiff" yaml:"similarAgeDiff" env:"SIMILAR_AGE_DIFF"`
	CompatibleAgeDiff  int             `json:"compatibleAgeDiff" yaml:"compatibleAgeDiff" env:"COMPATIBLE_AGE_DIFF"`
	MinSharedInterests int             `json:"minSharedInterests" yaml:"minSharedInterests" env:"MIN_SHARED_INTERESTS"`
	DiversityDays      int             `json:"diversityDays" yaml:"diversityDays" env:"DIVERSITY_DAYS"`
	MaxStandouts       int             `json:"maxStandouts" yaml:"maxStandouts" env:"MAX_STANDOUTS"`
	StandoutCacheSize  int             `json:"standoutCacheSize" yaml:"standoutCacheSize" env:"STANDOUT_CACHE_SIZE"`

	// 活跃度阶梯衰减，按 Within 升序；超出所有分桶得 ActivityFloor。分桶只能通过配置文件调整
	ActivityBuckets []ActivityBucket `json:"activityBuckets" yaml:"activityBuckets"`
	ActivityFloor   float64          `json:"activityFloor" yaml:"activityFloor" env:"ACTIVITY_FLOOR"`

	// 消息
	MessageMaxLength   int `json:"messageMaxLength" yaml:"messageMaxLength" env:"MESSAGE_MAX_LENGTH"`
	MessageMaxPageSize int `json:"messageMaxPageSize" yaml:"messageMaxPageSize" env:"MESSAGE_MAX_PAGE_SIZE"`

	// 用户时区，决定每日配额/每日推荐的零点
	UserTimeZone string `json:"userTimeZone" yaml:"userTimeZone" env:"USER_TIME_ZONE"`

	// 滑动会话统计
	SessionTimeout          time.Duration `json:"sessionTimeout" yaml:"sessionTimeout" env:"SESSION_TIMEOUT"`
	MaxSwipesPerSession     int           `json:"maxSwipesPerSession" yaml:"maxSwipesPerSession" env:"MAX_SWIPES_PER_SESSION"`
	SuspiciousSwipeVelocity float64       `json:"suspiciousSwipeVelocity" yaml:"suspiciousSwipeVelocity" env:"SUSPICIOUS_SWIPE_VELOCITY"` // 次/分钟

	// 清理
	FriendRequestExpiry        time.Duration `json:"friendRequestExpiry" yaml:"friendRequestExpiry" env:"FRIEND_REQUEST_EXPIRY"`
	DailyPickViewRetentionDays int           `json:"dailyPickViewRetentionDays" yaml:"dailyPickViewRetentionDays" env:"DAILY_PICK_VIEW_RETENTION_DAYS"`
	StandoutRetentionDays      int           `json:"standoutRetentionDays" yaml:"standoutRetentionDays" env:"STANDOUT_RETENTION_DAYS"`
}

// DefaultMatchConfig 返回默认业务配置。
// 活跃度分桶与权重只是可调的默认值。
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		UndoWindowSeconds: 30,
		DailyLikeLimit:    100,
		UnlimitedLikes:    false,
		DailyPassLimit:    0,
		UnlimitedPasses:   true,
		StandoutWeights: StandoutWeights{
			Distance:     0.20,
			Age:          0.15,
			Interest:     0.25,
			Lifestyle:    0.20,
			Completeness: 0.10,
			Activity:     0.10,
		},
		NearbyDistanceKm:           5,
		CloseDistanceKm:            10,
		SimilarAgeDiff:             2,
		CompatibleAgeDiff:          5,
		MinSharedInterests:         3,
		DiversityDays:              3,
		MaxStandouts:               10,
		StandoutCacheSize:          10000,
		ActivityFloor:              0.1,
		MessageMaxLength:           1000,
		MessageMaxPageSize:         100,
		UserTimeZone:               "UTC",
		SessionTimeout:             5 * time.Minute,
		MaxSwipesPerSession:        500,
		SuspiciousSwipeVelocity:    30,
		FriendRequestExpiry:        30 * 24 * time.Hour,
		DailyPickViewRetentionDays: 30,
		StandoutRetentionDays:      30,
		ActivityBuckets: []ActivityBucket{
			{Within: time.Hour, Score: 1.0},
			{Within: 24 * time.Hour, Score: 0.9},
			{Within: 72 * time.Hour, Score: 0.7},
			{Within: 7 * 24 * time.Hour, Score: 0.5},
			{Within: 30 * 24 * time.Hour, Score: 0.3},
		},
	}
}

// UndoWindow 撤销窗口时长
func (c MatchConfig) UndoWindow() time.Duration {
	return time.Duration(c.UndoWindowSeconds) * time.Second
}

// Location 解析用户时区
func (c MatchConfig) Location() (*time.Location, error) {
	if c.UserTimeZone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.UserTimeZone)
}

// Validate 启动时校验，配置错误直接拒绝启动
func (c MatchConfig) Validate() error {
	var errs []error
	if c.UndoWindowSeconds <= 0 {
		errs = append(errs, errors.New("undoWindowSeconds must be positive"))
	}
	if !c.UnlimitedLikes && c.DailyLikeLimit < 0 {
		errs = append(errs, errors.New("dailyLikeLimit must not be negative"))
	}
	if !c.UnlimitedPasses && c.DailyPassLimit < 0 {
		errs = append(errs, errors.New("dailyPassLimit must not be negative"))
	}
	w := c.StandoutWeights
	for name, v := range map[string]float64{
		"distance": w.Distance, "age": w.Age, "interest": w.Interest,
		"lifestyle": w.Lifestyle, "completeness": w.Completeness, "activity": w.Activity,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("standout weight %s must not be negative", name))
		}
	}
	if w.Sum() <= 0 {
		errs = append(errs, errors.New("standout weights must not all be zero"))
	}
	if c.CloseDistanceKm < c.NearbyDistanceKm {
		errs = append(errs, errors.New("closeDistanceKm must be >= nearbyDistanceKm"))
	}
	for i, b := range c.ActivityBuckets {
		if b.Within <= 0 || b.Score < 0 || b.Score > 1 {
			errs = append(errs, fmt.Errorf("activityBuckets[%d]: within must be positive and score in [0,1]", i))
		}
		if i > 0 && b.Within <= c.ActivityBuckets[i-1].Within {
			errs = append(errs, fmt.Errorf("activityBuckets[%d]: within must be ascending", i))
		}
	}
	if c.ActivityFloor < 0 || c.ActivityFloor > 1 {
		errs = append(errs, errors.New("activityFloor must be in [0,1]"))
	}
	if c.DiversityDays < 0 {
		errs = append(errs, errors.New("diversityDays must not be negative"))
	}
	if c.MaxStandouts <= 0 {
		errs = append(errs, errors.New("maxStandouts must be positive"))
	}
	if c.MessageMaxLength <= 0 || c.MessageMaxPageSize <= 0 {
		errs = append(errs, errors.New("message limits must be positive"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("userTimeZone %q: %w", c.UserTimeZone, err))
	}
	return errors.Join(errs...)
}
