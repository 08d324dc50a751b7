package service

import (
	"errors"
	"fmt"
)

// ErrMissingService 引擎缺少某个服务实例
var ErrMissingService = errors.New("match engine: missing service")

// Engine 匹配引擎对外暴露的全部服务，由上层传输层（gRPC/HTTP）持有并分发请求
type Engine struct {
	Matching       IMatchingService
	Undo           IUndoService
	Recommendation IRecommendationService
	Finder         ICandidateFinder
	Messaging      IMessagingService
	Relationship   IRelationshipService
	Activity       IActivityService
	Notifier       INotifier
}

// Validate 检查所有服务都已装配，缺失视为启动错误
func (e *Engine) Validate() error {
	missing := []struct {
		name    string
		missing bool
	}{
		{"matching", e.Matching == nil},
		{"undo", e.Undo == nil},
		{"recommendation", e.Recommendation == nil},
		{"finder", e.Finder == nil},
		{"messaging", e.Messaging == nil},
		{"relationship", e.Relationship == nil},
		{"activity", e.Activity == nil},
		{"notifier", e.Notifier == nil},
	}
	for _, s := range missing {
		if s.missing {
			return fmt.Errorf("%w: %s", ErrMissingService, s.name)
		}
	}
	return nil
}
