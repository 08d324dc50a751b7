package repository

import (
	"context"

	"MatchServer/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// matchRepositoryImpl 匹配关系数据访问层实现
type matchRepositoryImpl struct {
	db *gorm.DB
}

// NewMatchRepository 创建匹配仓储实例
func NewMatchRepository(db *gorm.DB) IMatchRepository {
	return &matchRepositoryImpl{db: db}
}

// GetByID 根据规范化对 ID 查询匹配
func (r *matchRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Match, error) {
	var m model.Match
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &m, nil
}

// Create INSERT ... ON DUPLICATE KEY 不做任何修改
// RowsAffected=0 表示对方并发创建已经成功，由调用方回读
func (r *matchRepositoryImpl) Create(ctx context.Context, match *model.Match) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(match)
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDuplicateKey
	}
	return nil
}

// UpdateState CAS 更新：WHERE id = ? AND state = expected
func (r *matchRepositoryImpl) UpdateState(ctx context.Context, match *model.Match, expected model.MatchState) error {
	result := r.db.WithContext(ctx).
		Model(&model.Match{}).
		Where("id = ? AND state = ?", match.Id, expected).
		Updates(map[string]interface{}{
			"state":      match.State,
			"updated_at": match.UpdatedAt,
			"ended_at":   match.EndedAt,
			"ended_by":   match.EndedBy,
			"end_reason": match.EndReason,
		})
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStateConflict
	}
	return nil
}

// ListByUser 查询用户参与的匹配
func (r *matchRepositoryImpl) ListByUser(ctx context.Context, userID string, states ...model.MatchState) ([]*model.Match, error) {
	query := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID)
	if len(states) > 0 {
		query = query.Where("state IN ?", states)
	}

	var matches []*model.Match
	if err := query.Order("created_at DESC").Find(&matches).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return matches, nil
}
