package repository

import (
	"context"
	"strings"

	"MatchServer/consts/redisKey"
	"MatchServer/pkg/breaker"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

var addWithExpireScript = redis.NewScript(luaAddWithExpire)

// dailyPickViewRepositoryImpl 每日推荐查看记录：每天一个 Set，成员为 user_id
type dailyPickViewRepositoryImpl struct {
	redisClient *redis.Client
	cb          *gobreaker.CircuitBreaker
}

// NewDailyPickViewRepository 创建每日推荐查看记录仓储实例
func NewDailyPickViewRepository(redisClient *redis.Client, cb *gobreaker.CircuitBreaker) IDailyPickViewRepository {
	return &dailyPickViewRepositoryImpl{redisClient: redisClient, cb: cb}
}

// MarkViewed SADD，Key 首次创建时设置过期时间
func (r *dailyPickViewRepositoryImpl) MarkViewed(ctx context.Context, userID, date string) error {
	return breaker.Do(r.cb, func() error {
		if r.redisClient == nil {
			return ErrRedis
		}
		expireSeconds := int(rediskey.DailyPickViewedTTL.Seconds())
		err := addWithExpireScript.Run(ctx, r.redisClient,
			[]string{rediskey.DailyPickViewedKey(date)},
			userID,
			expireSeconds,
		).Err()
		return WrapRedisError(err)
	})
}

// HasViewed SISMEMBER
func (r *dailyPickViewRepositoryImpl) HasViewed(ctx context.Context, userID, date string) (bool, error) {
	return breaker.Get(r.cb, func() (bool, error) {
		if r.redisClient == nil {
			return false, ErrRedis
		}
		ok, err := r.redisClient.SIsMember(ctx, rediskey.DailyPickViewedKey(date), userID).Result()
		if err != nil {
			return false, WrapRedisError(err)
		}
		return ok, nil
	})
}

// DeleteBefore SCAN 前缀，删除日期早于 date 的集合
func (r *dailyPickViewRepositoryImpl) DeleteBefore(ctx context.Context, date string) (int64, error) {
	return breaker.Get(r.cb, func() (int64, error) {
		if r.redisClient == nil {
			return 0, ErrRedis
		}
		var (
			cursor  uint64
			deleted int64
		)
		for {
			keys, next, err := r.redisClient.Scan(ctx, cursor, rediskey.DailyPickViewedPrefix+"*", 200).Result()
			if err != nil {
				return deleted, WrapRedisError(err)
			}

			stale := make([]string, 0, len(keys))
			for _, key := range keys {
				if strings.TrimPrefix(key, rediskey.DailyPickViewedPrefix) < date {
					stale = append(stale, key)
				}
			}
			if len(stale) > 0 {
				n, err := r.redisClient.Del(ctx, stale...).Result()
				if err != nil {
					return deleted, WrapRedisError(err)
				}
				deleted += n
			}

			cursor = next
			if cursor == 0 {
				return deleted, nil
			}
		}
	})
}
