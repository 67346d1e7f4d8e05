package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"match-engine-go/internal/logger"
)

const (
	defaultQPM           = 30
	defaultMaxRetries    = 3
	defaultRetryWaitTime = 1 * time.Second
)

// RateLimitedChatModel 对大模型调用进行限流的代理。
// 每次调用先从令牌桶拿令牌，可重试的失败按指数退避重试并记录告警。
type RateLimitedChatModel struct {
	original      model.ChatModel
	rateLimiter   *TokenBucket
	retryWaitTime time.Duration
	maxRetries    int
}

var _ model.ChatModel = (*RateLimitedChatModel)(nil)

// ProxyOption 代理的配置选项
type ProxyOption func(*RateLimitedChatModel)

// WithRetryPolicy 设置重试等待时间和最大重试次数
func WithRetryPolicy(waitTime time.Duration, maxRetries int) ProxyOption {
	return func(rl *RateLimitedChatModel) {
		if waitTime > 0 {
			rl.retryWaitTime = waitTime
		}
		if maxRetries >= 0 {
			rl.maxRetries = maxRetries
		}
	}
}

// NewRateLimitedChatModel 创建一个新的限流模型代理；qpm<=0时取默认值
func NewRateLimitedChatModel(original model.ChatModel, qpm int, options ...ProxyOption) *RateLimitedChatModel {
	if qpm <= 0 {
		qpm = defaultQPM
	}
	rl := &RateLimitedChatModel{
		original:      original,
		rateLimiter:   NewTokenBucket(qpm, qpm/2),
		retryWaitTime: defaultRetryWaitTime,
		maxRetries:    defaultMaxRetries,
	}
	for _, opt := range options {
		opt(rl)
	}
	return rl
}

// Generate 代理Generate方法，增加限流和重试逻辑
func (rl *RateLimitedChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	var response *schema.Message

	err := rl.callWithRetry(ctx, func() error {
		var genErr error
		response, genErr = rl.original.Generate(ctx, messages, options...)
		return genErr
	})

	return response, err
}

// Stream 代理Stream方法，增加限流和重试逻辑
func (rl *RateLimitedChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	var stream *schema.StreamReader[*schema.Message]

	err := rl.callWithRetry(ctx, func() error {
		var streamErr error
		stream, streamErr = rl.original.Stream(ctx, messages, options...)
		return streamErr
	})

	return stream, err
}

// BindTools 代理BindTools方法；本项目的分类调用不使用工具
func (rl *RateLimitedChatModel) BindTools(tools []*schema.ToolInfo) error {
	return rl.original.BindTools(tools)
}

// callWithRetry 先取令牌再执行；可重试错误按指数退避，每次重试记录告警
func (rl *RateLimitedChatModel) callWithRetry(ctx context.Context, fn func() error) error {
	var err error

	for retry := 0; retry <= rl.maxRetries; retry++ {
		if err = rl.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		err = fn()
		if err == nil {
			return nil
		}

		if !isRetryableModelError(err) || retry >= rl.maxRetries {
			return err
		}

		backoffTime := rl.retryWaitTime * time.Duration(1<<uint(retry))
		logger.Ctx(ctx).Warn().Err(err).
			Int("attempt", retry+1).
			Dur("backoff", backoffTime).
			Msg("模型调用失败，退避后重试")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoffTime):
			// 继续重试
		}
	}

	return err
}

// isRetryableModelError 判断模型调用错误是否可重试：
// 网络类瞬时故障和配额限制值得重试，请求本身非法则不值得。
func isRetryableModelError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	retryableFragments := []string{
		"timeout",
		"deadline exceeded",
		"connection reset",
		"EOF",
		"connection refused",
		"429 Too Many Requests",
		"rate limit",
		"no such host",
		"服务器繁忙",
		"请求超过限额",
		"QPS限制",
	}
	for _, fragment := range retryableFragments {
		if strings.Contains(errStr, fragment) {
			return true
		}
	}
	return false
}
