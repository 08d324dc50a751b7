package repository

import (
	"context"
	"time"

	"MatchServer/model"

	"gorm.io/gorm"
)

// likeRepositoryImpl 滑动记录数据访问层实现
type likeRepositoryImpl struct {
	db *gorm.DB
}

// NewLikeRepository 创建滑动记录仓储实例
func NewLikeRepository(db *gorm.DB) ILikeRepository {
	return &likeRepositoryImpl{db: db}
}

// Exists 有序对是否已有滑动记录
func (r *likeRepositoryImpl) Exists(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// Save 保存滑动记录
func (r *likeRepositoryImpl) Save(ctx context.Context, like *model.Like) error {
	return WrapDBError(r.db.WithContext(ctx).Create(like).Error)
}

// ReciprocalExists 对方是否已经 LIKE 过自己
func (r *likeRepositoryImpl) ReciprocalExists(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("from_user_id = ? AND to_user_id = ? AND direction = ?", toUserID, fromUserID, model.DirectionLike).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// GetByID 根据ID查询滑动记录
func (r *likeRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Like, error) {
	var like model.Like
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&like).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &like, nil
}

// Delete 删除滑动记录
func (r *likeRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Like{})
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteLikeAndMatch 同一事务内删除滑动与匹配，任一步失败整体回滚
func (r *likeRepositoryImpl) DeleteLikeAndMatch(ctx context.Context, likeID, matchID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", likeID).Delete(&model.Like{})
		if result.Error != nil {
			return result.Error
		}
		// 滑动已不存在说明存储与撤销槽位不一致，回滚并交给上层处理
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}

		if matchID == "" {
			return nil
		}
		return tx.Where("id = ?", matchID).Delete(&model.Match{}).Error
	})
	return WrapDBError(err)
}

// CountSince 统计自 since 起的滑动次数
func (r *likeRepositoryImpl) CountSince(ctx context.Context, userID string, direction model.LikeDirection, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("from_user_id = ? AND direction = ? AND created_at >= ?", userID, direction, since).
		Count(&count).Error
	if err != nil {
		return 0, WrapDBError(err)
	}
	return count, nil
}

// ListSwipedUserIDs 用户滑动过的所有对象
func (r *likeRepositoryImpl) ListSwipedUserIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("from_user_id = ?", userID).
		Pluck("to_user_id", &ids).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return ids, nil
}

// ListPendingLikerIDs 喜欢了我、我还没有滑动过的用户
// 已匹配的用户必然被我 LIKE 过，因此天然被排除
func (r *likeRepositoryImpl) ListPendingLikerIDs(ctx context.Context, userID string) ([]string, error) {
	answered := r.db.Model(&model.Like{}).
		Select("to_user_id").
		Where("from_user_id = ?", userID)

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("to_user_id = ? AND direction = ?", userID, model.DirectionLike).
		Where("from_user_id NOT IN (?)", answered).
		Order("created_at DESC").
		Pluck("from_user_id", &ids).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return ids, nil
}
