package util

import (
	"context"

	"MatchServer/pkg/logger"

	"github.com/google/uuid"
)

// WithTraceID 在上下文中放入 trace_id，日志会自动带上
// traceID 为空时生成一个新的 UUID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = uuid.New().String()
	}
	return context.WithValue(ctx, logger.TraceIDKey, traceID)
}

// TraceIDFrom 读取上下文中的 trace_id
func TraceIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(logger.TraceIDKey).(string)
	return id
}

// PropagateTrace 为异步任务复制需要透传的字段（供 async.SetContextPropagator 使用）
func PropagateTrace(parent context.Context) context.Context {
	ctx := context.Background()
	if id := TraceIDFrom(parent); id != "" {
		ctx = WithTraceID(ctx, id)
	}
	return ctx
}

// NewUUID 生成新的 UUID
func NewUUID() string {
	return uuid.New().String()
}
