// Package clock 提供可注入的时钟，业务代码不直接调用 time.Now。
package clock

import (
	"sync"
	"time"
)

// Clock 时间来源
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System 返回系统时钟
func System() Clock { return systemClock{} }

// Fake 可手动拨动的时钟，测试专用，并发安全
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake 创建停在 t 的时钟
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

// Now 返回当前假时间
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance 向前拨动
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Set 设置为指定时间
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// StartOfDay 返回 t 在 loc 时区当天零点
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DateString 返回 t 在 loc 时区的日期 YYYY-MM-DD
func DateString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

// EpochDay 返回 t 在 loc 时区的日期距 1970-01-01 的天数
func EpochDay(t time.Time, loc *time.Location) int64 {
	local := t.In(loc)
	d := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return d.Unix() / 86400
}
