package repository

import (
	"context"
	"errors"
	"strconv"

	"MatchServer/consts/redisKey"
	"MatchServer/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var incrementIfExistsScript = redis.NewScript(luaIncrementIfExists)

// notificationRepositoryImpl 通知数据访问层实现
// MySQL 为准，Redis 只缓存未读计数；redisClient 为 nil 时退化为纯 MySQL
type notificationRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewNotificationRepository 创建通知仓储实例
func NewNotificationRepository(db *gorm.DB, redisClient *redis.Client) INotificationRepository {
	return &notificationRepositoryImpl{db: db, redisClient: redisClient}
}

// Save 保存通知，并尽力而为地递增未读计数
func (r *notificationRepositoryImpl) Save(ctx context.Context, n *model.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return WrapDBError(err)
	}

	if r.redisClient == nil {
		return nil
	}
	// 只有 Key 存在时才增量更新，Key 不存在时交给读接口全量加载
	expireSeconds := int(getRandomExpireTime(rediskey.NotifyUnreadTTL).Seconds())
	err := incrementIfExistsScript.Run(ctx, r.redisClient,
		[]string{rediskey.NotifyUnreadKey(n.UserId)},
		expireSeconds,
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		LogRedisError(ctx, err)
	}
	return nil
}

// ListByUser 查询用户通知
func (r *notificationRepositoryImpl) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*model.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var list []*model.Notification
	if err := query.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return list, nil
}

// MarkRead 标记已读，成功后删除未读计数缓存
func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, userID string, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return false, WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	if r.redisClient != nil {
		if err := r.redisClient.Del(ctx, rediskey.NotifyUnreadKey(userID)).Err(); err != nil {
			LogRedisError(ctx, err)
		}
	}
	return true, nil
}

// CountUnread 优先读 Redis，未命中或失败回源 MySQL 并回写
func (r *notificationRepositoryImpl) CountUnread(ctx context.Context, userID string) (int64, error) {
	key := rediskey.NotifyUnreadKey(userID)
	if r.redisClient != nil {
		raw, err := r.redisClient.Get(ctx, key).Result()
		if err == nil {
			if n, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
				return n, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			LogRedisError(ctx, err)
		}
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, WrapDBError(err)
	}

	if r.redisClient != nil {
		ttl := getRandomExpireTime(rediskey.NotifyUnreadTTL)
		if err := r.redisClient.Set(ctx, key, count, ttl).Err(); err != nil {
			LogRedisError(ctx, err)
		}
	}
	return count, nil
}
