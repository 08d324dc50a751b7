package scoring

import (
	"strings"

	"MatchServer/model"
)

//go:generate mockgen -destination=mocks/completion_mock.go -package=mocks MatchServer/apps/match/internal/scoring ICompletionCalculator

// MinInterestsForComplete 兴趣至少填写的个数
const MinInterestsForComplete = 3

// Completion 资料完整度
type Completion struct {
	Percentage int // 0-100
	Filled     []string
	Missing    []string
}

// ICompletionCalculator 资料完整度计算
type ICompletionCalculator interface {
	Calculate(user *model.UserProfile) Completion
}

// fieldCompletion 逐字段检查，完整度 = 已填字段 / 全部字段
type fieldCompletion struct{}

// NewCompletionCalculator 创建按字段计算的完整度计算器
func NewCompletionCalculator() ICompletionCalculator {
	return fieldCompletion{}
}

// Calculate 计算资料完整度
func (fieldCompletion) Calculate(u *model.UserProfile) Completion {
	checks := []struct {
		name string
		ok   bool
	}{
		{"Name", strings.TrimSpace(u.Nickname) != ""},
		{"Bio", strings.TrimSpace(u.Bio) != ""},
		{"Birth Date", !u.BirthDate.IsZero()},
		{"Gender", u.Gender != ""},
		{"Interested In", len(u.InterestedIn) > 0},
		{"Location", u.HasLocation()},
		{"Photo", len(u.PhotoUrls) > 0},
		{"Smoking", u.Smoking != ""},
		{"Drinking", u.Drinking != ""},
		{"Kids Stance", u.WantsKids != ""},
		{"Looking For", u.LookingFor != ""},
		{"Interests", len(toSet(u.Interests)) >= MinInterestsForComplete},
	}

	c := Completion{}
	for _, check := range checks {
		if check.ok {
			c.Filled = append(c.Filled, check.name)
		} else {
			c.Missing = append(c.Missing, check.name)
		}
	}
	c.Percentage = len(c.Filled) * 100 / len(checks)
	return c
}
