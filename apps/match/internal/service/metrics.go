package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 引擎指标，由 main 中的 /metrics 暴露
var (
	swipeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "match",
		Name:      "swipe_total",
		Help:      "滑动次数，按结果分类",
	}, []string{"outcome"})

	matchCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "match",
		Name:      "match_created_total",
		Help:      "新建匹配数",
	})

	undoTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "match",
		Name:      "undo_total",
		Help:      "撤销次数，按结果分类",
	}, []string{"result"})

	transitionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "match",
		Name:      "transition_total",
		Help:      "关系流转次数",
	}, []string{"action", "outcome"})

	messageSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "match",
		Name:      "message_sent_total",
		Help:      "发送成功的消息数",
	})

	sessionBlockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "match",
		Name:      "session_blocked_total",
		Help:      "因会话滑动上限被拦截的次数",
	})
)
