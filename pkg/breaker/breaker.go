package breaker

import (
	"context"
	"errors"

	"MatchServer/config"
	"MatchServer/pkg/logger"

	"github.com/sony/gobreaker"
)

// ErrOpen 熔断器打开或半开请求数已满时返回。
var ErrOpen = errors.New("circuit breaker open")

// New 按配置创建熔断器：请求数达到下限且失败率超过阈值时熔断。
// ignore 中的错误（如缓存未命中）不计入失败。
func New(name string, cfg config.BreakerConfig, ignore ...error) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			for _, e := range ignore {
				if errors.Is(err, e) {
					return true
				}
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "熔断器状态变化",
				logger.String("name", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
}

// Do 在熔断器保护下执行 fn；熔断状态统一转换为 ErrOpen。
func Do(cb *gobreaker.CircuitBreaker, fn func() error) error {
	_, err := cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpen
	}
	return err
}

// Get 与 Do 相同，但携带返回值。
func Get[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var out T
	err := Do(cb, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
