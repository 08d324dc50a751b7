package repository

import (
	"context"
	"time"

	"MatchServer/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// standoutRepositoryImpl 精选推荐数据访问层实现
type standoutRepositoryImpl struct {
	db *gorm.DB
}

// NewStandoutRepository 创建精选推荐仓储实例
func NewStandoutRepository(db *gorm.DB) IStandoutRepository {
	return &standoutRepositoryImpl{db: db}
}

// GetForDate 查询用户某天的精选列表
func (r *standoutRepositoryImpl) GetForDate(ctx context.Context, seekerID, date string) ([]*model.Standout, error) {
	var list []*model.Standout
	err := r.db.WithContext(ctx).
		Where("seeker_id = ? AND date = ?", seekerID, date).
		Order("`rank` ASC").
		Find(&list).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return list, nil
}

// SaveForDate 首个写入者生效：同一天已有列表时返回 ErrDuplicateKey，调用方回读已有列表。
// 并发首写在 MySQL 上表现为唯一索引冲突或死锁，分别映射为 ErrDuplicateKey / ErrLockConflict
func (r *standoutRepositoryImpl) SaveForDate(ctx context.Context, seekerID, date string, standouts []*model.Standout) error {
	if len(standouts) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&model.Standout{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("seeker_id = ? AND date = ?", seekerID, date).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateKey
		}
		return tx.CreateInBatches(standouts, 50).Error
	})
	return WrapDBError(err)
}

// MarkInteracted 只记录第一次互动时间
func (r *standoutRepositoryImpl) MarkInteracted(ctx context.Context, seekerID, standoutUserID, date string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&model.Standout{}).
		Where("seeker_id = ? AND standout_user_id = ? AND date = ? AND interacted_at IS NULL", seekerID, standoutUserID, date).
		Update("interacted_at", at).Error
	return WrapDBError(err)
}

// DeleteBefore 删除早于 date 的记录（YYYY-MM-DD 字典序即时间序）
func (r *standoutRepositoryImpl) DeleteBefore(ctx context.Context, date string) (int64, error) {
	result := r.db.WithContext(ctx).Where("date < ?", date).Delete(&model.Standout{})
	if result.Error != nil {
		return 0, WrapDBError(result.Error)
	}
	return result.RowsAffected, nil
}
