package repository

import (
	"context"

	"MatchServer/model"

	"gorm.io/gorm"
)

// userRepositoryImpl 用户资料数据访问层实现
type userRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository 创建用户资料仓储实例
func NewUserRepository(db *gorm.DB) IUserRepository {
	return &userRepositoryImpl{db: db}
}

// GetByID 查询用户资料
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (*model.UserProfile, error) {
	var user model.UserProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &user, nil
}

// BatchGetByIDs 批量查询用户资料
func (r *userRepositoryImpl) BatchGetByIDs(ctx context.Context, ids []string) ([]*model.UserProfile, error) {
	if len(ids) == 0 {
		return []*model.UserProfile{}, nil
	}
	var users []*model.UserProfile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return users, nil
}

// ListActive 查询除 excludeID 外的全部激活用户
func (r *userRepositoryImpl) ListActive(ctx context.Context, excludeID string) ([]*model.UserProfile, error) {
	var users []*model.UserProfile
	err := r.db.WithContext(ctx).
		Where("state = ? AND id <> ?", model.UserStateActive, excludeID).
		Find(&users).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return users, nil
}
