package model

import "time"

// Standout 某用户某天的精选推荐条目，按 Rank 排序。
// 持久化后用于当天复用与跨天去重。
type Standout struct {
	Id             int64      `gorm:"column:id;primaryKey;autoIncrement"`
	SeekerId       string     `gorm:"column:seeker_id;type:char(36);not null;uniqueIndex:uidx_seeker_date_user,priority:1"`
	StandoutUserId string     `gorm:"column:standout_user_id;type:char(36);not null;uniqueIndex:uidx_seeker_date_user,priority:3"`
	Date           string     `gorm:"column:date;type:char(10);not null;uniqueIndex:uidx_seeker_date_user,priority:2;index;comment:YYYY-MM-DD"`
	Rank           int        `gorm:"column:rank;not null"`
	Score          int        `gorm:"column:score;not null;comment:0-100"`
	Reason         string     `gorm:"column:reason;type:varchar(64);not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null"`
	InteractedAt   *time.Time `gorm:"column:interacted_at"`
}

func (Standout) TableName() string { return "match_standout" }
