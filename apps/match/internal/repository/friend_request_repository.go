package repository

import (
	"context"
	"time"

	"MatchServer/model"

	"gorm.io/gorm"
)

// friendRequestRepositoryImpl 转朋友申请数据访问层实现
type friendRequestRepositoryImpl struct {
	db *gorm.DB
}

// NewFriendRequestRepository 创建转朋友申请仓储实例
func NewFriendRequestRepository(db *gorm.DB) IFriendRequestRepository {
	return &friendRequestRepositoryImpl{db: db}
}

// Create 创建申请，同一对已有待处理申请时返回 ErrDuplicateKey
func (r *friendRequestRepositoryImpl) Create(ctx context.Context, req *model.FriendRequest) error {
	return WrapDBError(r.db.WithContext(ctx).Create(req).Error)
}

// GetByID 根据ID查询申请
func (r *friendRequestRepositoryImpl) GetByID(ctx context.Context, id string) (*model.FriendRequest, error) {
	var req model.FriendRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &req, nil
}

// GetPendingBetween 查询一对用户之间的待处理申请（不区分发起方）
func (r *friendRequestRepositoryImpl) GetPendingBetween(ctx context.Context, userA, userB string) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := r.db.WithContext(ctx).
		Where("pair_key = ? AND status = ?", model.PairID(userA, userB), model.FriendRequestPending).
		Order("created_at DESC").
		First(&req).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return &req, nil
}

// ListPendingFor 查询发给用户的待处理申请
func (r *friendRequestRepositoryImpl) ListPendingFor(ctx context.Context, userID string) ([]*model.FriendRequest, error) {
	var reqs []*model.FriendRequest
	err := r.db.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", userID, model.FriendRequestPending).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return reqs, nil
}

// UpdateStatus CAS 更新：只处理仍为 PENDING 的申请，同时释放 pending_key
func (r *friendRequestRepositoryImpl) UpdateStatus(ctx context.Context, req *model.FriendRequest) error {
	result := r.db.WithContext(ctx).
		Model(&model.FriendRequest{}).
		Where("id = ? AND status = ?", req.Id, model.FriendRequestPending).
		Updates(map[string]interface{}{
			"status":       req.Status,
			"responded_at": req.RespondedAt,
			"pending_key":  gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	// 幂等判断：RowsAffected=0 表示已被处理
	if result.RowsAffected == 0 {
		return ErrRequestNotPending
	}
	return nil
}

// ExpireBefore 批量过期长期未处理的申请
func (r *friendRequestRepositoryImpl) ExpireBefore(ctx context.Context, cutoff, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.FriendRequest{}).
		Where("status = ? AND created_at < ?", model.FriendRequestPending, cutoff).
		Updates(map[string]interface{}{
			"status":       model.FriendRequestExpired,
			"responded_at": now,
			"pending_key":  gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return 0, WrapDBError(result.Error)
	}
	return result.RowsAffected, nil
}
