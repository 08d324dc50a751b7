package model

import (
	"errors"
	"time"
)

// LikeDirection 滑动方向
type LikeDirection string

const (
	DirectionLike LikeDirection = "LIKE"
	DirectionPass LikeDirection = "PASS"
)

// ErrSelfLike 不能对自己滑动
var ErrSelfLike = errors.New("cannot like or pass yourself")

// ErrInvalidDirection 未知的滑动方向
var ErrInvalidDirection = errors.New("invalid like direction")

// Like 一次有方向的滑动（喜欢/跳过），创建后不可变。
// 约束：uidx_from_to 保证同一有序对只有一条记录（引擎先查重，唯一索引兜底）。
type Like struct {
	Id         string        `gorm:"column:id;type:char(36);primaryKey;comment:uuid"`
	FromUserId string        `gorm:"column:from_user_id;type:char(36);not null;uniqueIndex:uidx_from_to;index:idx_from_direction_created,priority:1;comment:发起方"`
	ToUserId   string        `gorm:"column:to_user_id;type:char(36);not null;uniqueIndex:uidx_from_to;index:idx_to_direction,priority:1;comment:接收方"`
	Direction  LikeDirection `gorm:"column:direction;type:varchar(8);not null;index:idx_from_direction_created,priority:2;index:idx_to_direction,priority:2;comment:LIKE/PASS"`
	CreatedAt  time.Time     `gorm:"column:created_at;not null;index:idx_from_direction_created,priority:3"`
}

func (Like) TableName() string { return "match_like" }

// NewLike 创建一条滑动记录
func NewLike(id, fromUserID, toUserID string, direction LikeDirection, now time.Time) (*Like, error) {
	if fromUserID == toUserID {
		return nil, ErrSelfLike
	}
	if direction != DirectionLike && direction != DirectionPass {
		return nil, ErrInvalidDirection
	}
	return &Like{
		Id:         id,
		FromUserId: fromUserID,
		ToUserId:   toUserID,
		Direction:  direction,
		CreatedAt:  now,
	}, nil
}

// IsLike 是否为喜欢
func (l *Like) IsLike() bool { return l.Direction == DirectionLike }
