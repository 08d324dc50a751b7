package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake_AdvanceAndSet(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := NewFake(t0)
	assert.Equal(t, t0, f.Now())

	f.Advance(31 * time.Second)
	assert.Equal(t, t0.Add(31*time.Second), f.Now())

	f.Set(t0)
	assert.Equal(t, t0, f.Now())
}

func TestDayHelpers_RespectTimezone(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	// UTC 16:30 已是上海次日 00:30
	ts := time.Date(2026, 3, 1, 16, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-02", DateString(ts, shanghai))
	assert.Equal(t, "2026-03-01", DateString(ts, time.UTC))

	start := StartOfDay(ts, shanghai)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, shanghai), start)
	assert.Equal(t, EpochDay(ts, time.UTC)+1, EpochDay(ts, shanghai))
	assert.Equal(t, int64(0), EpochDay(time.Unix(0, 0), time.UTC))
}
