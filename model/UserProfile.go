package model

import "time"

// UserState 账号状态
type UserState string

const (
	UserStateIncomplete UserState = "INCOMPLETE"
	UserStateActive     UserState = "ACTIVE"
	UserStatePaused     UserState = "PAUSED"
	UserStateBanned     UserState = "BANNED"
)

// 生活方式取值，空串表示未填写
const (
	WantsKidsNo      = "NO"
	WantsKidsOpen    = "OPEN"
	WantsKidsSomeday = "SOMEDAY"
	WantsKidsHasKids = "HAS_KIDS"
)

// UserProfile 推荐与匹配所需的用户资料（资料编辑不在本服务内）
type UserProfile struct {
	Id            string    `gorm:"column:id;type:char(36);primaryKey"`
	Nickname      string    `gorm:"column:nickname;type:varchar(64)"`
	State         UserState `gorm:"column:state;type:varchar(16);not null;default:INCOMPLETE;index"`
	Gender        string    `gorm:"column:gender;type:varchar(16)"`
	InterestedIn  []string  `gorm:"column:interested_in;type:json;serializer:json;comment:感兴趣的性别"`
	BirthDate     time.Time `gorm:"column:birth_date"`
	MinAge        int       `gorm:"column:min_age;not null;default:18"`
	MaxAge        int       `gorm:"column:max_age;not null;default:99"`
	MaxDistanceKm int       `gorm:"column:max_distance_km;not null;default:50"`
	Lat           *float64  `gorm:"column:lat"`
	Lon           *float64  `gorm:"column:lon"`
	Interests     []string  `gorm:"column:interests;type:json;serializer:json"`
	Smoking       string    `gorm:"column:smoking;type:varchar(16)"`
	Drinking      string    `gorm:"column:drinking;type:varchar(16)"`
	WantsKids     string    `gorm:"column:wants_kids;type:varchar(16)"`
	LookingFor    string    `gorm:"column:looking_for;type:varchar(16)"`
	Bio           string    `gorm:"column:bio;type:varchar(500)"`
	PhotoUrls     []string  `gorm:"column:photo_urls;type:json;serializer:json"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }

// IsActive 是否为激活状态
func (u *UserProfile) IsActive() bool { return u.State == UserStateActive }

// HasLocation 是否设置了位置
func (u *UserProfile) HasLocation() bool { return u.Lat != nil && u.Lon != nil }

// Age 按给定时间计算周岁，未填写生日返回 0
func (u *UserProfile) Age(at time.Time) int {
	if u.BirthDate.IsZero() {
		return 0
	}
	years := at.Year() - u.BirthDate.Year()
	if at.Month() < u.BirthDate.Month() || (at.Month() == u.BirthDate.Month() && at.Day() < u.BirthDate.Day()) {
		years--
	}
	return years
}

// IsInterestedIn 是否对该性别感兴趣
func (u *UserProfile) IsInterestedIn(gender string) bool {
	for _, g := range u.InterestedIn {
		if g == gender {
			return true
		}
	}
	return false
}
