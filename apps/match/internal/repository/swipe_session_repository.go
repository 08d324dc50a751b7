package repository

import (
	"context"
	"time"

	"MatchServer/consts/redisKey"
	"MatchServer/model"
	"MatchServer/pkg/breaker"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// swipeSessionRepositoryImpl 滑动会话存放在 Redis Hash 中，过期即结束
// redisClient 为 nil 时所有操作返回 ErrRedis，由调用方降级
type swipeSessionRepositoryImpl struct {
	redisClient *redis.Client
	cb          *gobreaker.CircuitBreaker
}

// NewSwipeSessionRepository 创建滑动会话仓储实例
func NewSwipeSessionRepository(redisClient *redis.Client, cb *gobreaker.CircuitBreaker) ISwipeSessionRepository {
	return &swipeSessionRepositoryImpl{redisClient: redisClient, cb: cb}
}

// Get HGETALL，空 Hash 返回 ErrRedisNil
func (r *swipeSessionRepositoryImpl) Get(ctx context.Context, userID string) (*model.SwipeSession, error) {
	return breaker.Get(r.cb, func() (*model.SwipeSession, error) {
		if r.redisClient == nil {
			return nil, ErrRedis
		}
		fields, err := r.redisClient.HGetAll(ctx, rediskey.SwipeSessionKey(userID)).Result()
		if err != nil {
			return nil, WrapRedisError(err)
		}
		session, ok := decodeSession(fields)
		if !ok {
			return nil, ErrRedisNil
		}
		return session, nil
	})
}

// Save HSET + EXPIRE 放在同一个事务管道里
func (r *swipeSessionRepositoryImpl) Save(ctx context.Context, session *model.SwipeSession, ttl time.Duration) error {
	return breaker.Do(r.cb, func() error {
		if r.redisClient == nil {
			return ErrRedis
		}
		key := rediskey.SwipeSessionKey(session.UserId)
		_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, encodeSession(session))
			pipe.Expire(ctx, key, ttl)
			return nil
		})
		return WrapRedisError(err)
	})
}

// Delete 删除会话
func (r *swipeSessionRepositoryImpl) Delete(ctx context.Context, userID string) error {
	return breaker.Do(r.cb, func() error {
		if r.redisClient == nil {
			return ErrRedis
		}
		return WrapRedisError(r.redisClient.Del(ctx, rediskey.SwipeSessionKey(userID)).Err())
	})
}
