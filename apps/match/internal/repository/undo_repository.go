package repository

import (
	"context"
	"time"

	"MatchServer/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// undoRepositoryImpl 撤销槽位数据访问层实现
type undoRepositoryImpl struct {
	db *gorm.DB
}

// NewUndoRepository 创建撤销槽位仓储实例
func NewUndoRepository(db *gorm.DB) IUndoRepository {
	return &undoRepositoryImpl{db: db}
}

// Save 每个用户一个槽位，主键冲突时整行覆盖
func (r *undoRepositoryImpl) Save(ctx context.Context, state *model.UndoState) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"like_id", "to_user_id", "direction", "liked_at", "match_id", "expires_at"}),
		}).
		Create(state).Error
	return WrapDBError(err)
}

// GetByUser 查询用户的撤销槽位
func (r *undoRepositoryImpl) GetByUser(ctx context.Context, userID string) (*model.UndoState, error) {
	var state model.UndoState
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &state, nil
}

// DeleteByUser 清除槽位
func (r *undoRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	return WrapDBError(r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.UndoState{}).Error)
}

// DeleteExpired 删除已过期槽位
func (r *undoRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.UndoState{})
	if result.Error != nil {
		return 0, WrapDBError(result.Error)
	}
	return result.RowsAffected, nil
}

// FindAll 查询全部槽位
func (r *undoRepositoryImpl) FindAll(ctx context.Context) ([]*model.UndoState, error) {
	var states []*model.UndoState
	if err := r.db.WithContext(ctx).Find(&states).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return states, nil
}
