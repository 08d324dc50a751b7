package service

import (
	"context"
	"strconv"

	"MatchServer/consts"
	"MatchServer/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// internalError 记录日志后返回统一的内部错误，message 为业务码
func internalError(ctx context.Context, msg string, err error, fields ...zap.Field) error {
	fields = append(fields, logger.ErrorField("error", err))
	logger.Error(ctx, msg, fields...)
	return status.Error(codes.Internal, strconv.Itoa(consts.CodeInternalError))
}

// invalidArgument 参数错误
func invalidArgument(code int) error {
	return status.Error(codes.InvalidArgument, strconv.Itoa(code))
}
