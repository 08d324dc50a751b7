package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMatchConfig(), cfg.Match)
	assert.Equal(t, 30*time.Second, cfg.Match.UndoWindow())
}

func TestLoad_YAMLThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.yaml")
	content := `
match:
  undoWindowSeconds: 45
  dailyLikeLimit: 50
  userTimeZone: Asia/Shanghai
  sessionTimeout: 10m
  standoutWeights:
    interest: 0.5
  activityBuckets:
    - within: 2h
      score: 1
    - within: 168h
      score: 0.6
  activityFloor: 0.05
redis:
  addr: redis:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("MATCH_DAILY_LIKE_LIMIT", "75")
	t.Setenv("MATCH_STANDOUT_WEIGHT_ACTIVITY", "0.3")
	t.Setenv("SERVER_METRICS_ADDR", ":19091")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.Match.UndoWindowSeconds)
	assert.Equal(t, 75, cfg.Match.DailyLikeLimit)
	assert.Equal(t, "Asia/Shanghai", cfg.Match.UserTimeZone)
	assert.Equal(t, 10*time.Minute, cfg.Match.SessionTimeout)
	assert.InDelta(t, 0.5, cfg.Match.StandoutWeights.Interest, 1e-9)
	assert.InDelta(t, 0.3, cfg.Match.StandoutWeights.Activity, 1e-9)
	// YAML 未出现的字段保留默认值
	assert.InDelta(t, 0.20, cfg.Match.StandoutWeights.Distance, 1e-9)
	// 分桶整体替换而不是与默认值合并
	assert.Equal(t, []ActivityBucket{
		{Within: 2 * time.Hour, Score: 1},
		{Within: 168 * time.Hour, Score: 0.6},
	}, cfg.Match.ActivityBuckets)
	assert.InDelta(t, 0.05, cfg.Match.ActivityFloor, 1e-9)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, ":19091", cfg.Server.MetricsAddr)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestMatchConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *MatchConfig)
		wantErr bool
	}{
		{name: "默认配置合法", mutate: func(c *MatchConfig) {}},
		{name: "撤销窗口为0", mutate: func(c *MatchConfig) { c.UndoWindowSeconds = 0 }, wantErr: true},
		{name: "负权重", mutate: func(c *MatchConfig) { c.StandoutWeights.Age = -0.1 }, wantErr: true},
		{name: "权重全为0", mutate: func(c *MatchConfig) { c.StandoutWeights = StandoutWeights{} }, wantErr: true},
		{name: "未知时区", mutate: func(c *MatchConfig) { c.UserTimeZone = "Mars/Olympus" }, wantErr: true},
		{name: "近距离大于同城距离", mutate: func(c *MatchConfig) { c.NearbyDistanceKm = 20 }, wantErr: true},
		{name: "活跃度分桶未升序", mutate: func(c *MatchConfig) {
			c.ActivityBuckets = []ActivityBucket{{Within: 2 * time.Hour, Score: 1}, {Within: time.Hour, Score: 0.5}}
		}, wantErr: true},
		{name: "活跃度得分超出范围", mutate: func(c *MatchConfig) { c.ActivityBuckets[0].Score = 1.5 }, wantErr: true},
		{name: "活跃度下限为负", mutate: func(c *MatchConfig) { c.ActivityFloor = -0.1 }, wantErr: true},
		{name: "无活跃度分桶", mutate: func(c *MatchConfig) { c.ActivityBuckets = nil }},
		{name: "无限点赞时忽略负数上限", mutate: func(c *MatchConfig) { c.UnlimitedLikes = true; c.DailyLikeLimit = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMatchConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
