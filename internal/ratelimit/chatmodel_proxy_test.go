package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyChatModel 前failUntil次调用返回指定错误，之后成功
type flakyChatModel struct {
	calls     int
	failUntil int
	err       error
}

func (m *flakyChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	if m.calls <= m.failUntil {
		return nil, m.err
	}
	return schema.AssistantMessage("ok", nil), nil
}

func (m *flakyChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("streaming not implemented in fake")
}

func (m *flakyChatModel) BindTools(_ []*schema.ToolInfo) error {
	return nil
}

// TestGenerateRetriesRetryableError 验证可重试错误按策略重试直至成功
func TestGenerateRetriesRetryableError(t *testing.T) {
	inner := &flakyChatModel{failUntil: 2, err: errors.New("429 Too Many Requests")}
	proxy := NewRateLimitedChatModel(inner, 600, WithRetryPolicy(time.Millisecond, 3))

	resp, err := proxy.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, inner.calls, "应在第三次调用成功")
}

// TestGenerateDoesNotRetryPermanentError 验证不可重试的错误立即返回
func TestGenerateDoesNotRetryPermanentError(t *testing.T) {
	permanent := errors.New("invalid api key")
	inner := &flakyChatModel{failUntil: 10, err: permanent}
	proxy := NewRateLimitedChatModel(inner, 600, WithRetryPolicy(time.Millisecond, 3))

	_, err := proxy.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, inner.calls, "不可重试错误不应触发重试")
}

// TestGenerateExhaustsRetries 验证重试次数用尽后返回最后一次的错误
func TestGenerateExhaustsRetries(t *testing.T) {
	transient := errors.New("connection reset by peer")
	inner := &flakyChatModel{failUntil: 10, err: transient}
	proxy := NewRateLimitedChatModel(inner, 600, WithRetryPolicy(time.Millisecond, 2))

	_, err := proxy.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.ErrorIs(t, err, transient)
	assert.Equal(t, 3, inner.calls, "首次调用加2次重试")
}

// TestProxyDefaults 验证非法QPM与默认重试策略
func TestProxyDefaults(t *testing.T) {
	proxy := NewRateLimitedChatModel(&flakyChatModel{}, 0)
	assert.InDelta(t, float64(defaultQPM)/60.0, proxy.rateLimiter.rate, 1e-9, "QPM<=0时取默认值")
	assert.Equal(t, defaultMaxRetries, proxy.maxRetries)
	assert.Equal(t, defaultRetryWaitTime, proxy.retryWaitTime)
}

// TestIsRetryableModelError 验证错误分类
func TestIsRetryableModelError(t *testing.T) {
	assert.True(t, isRetryableModelError(errors.New("context deadline exceeded")))
	assert.True(t, isRetryableModelError(errors.New("rate limit reached")))
	assert.True(t, isRetryableModelError(errors.New("服务器繁忙，请稍后再试")))
	assert.False(t, isRetryableModelError(errors.New("invalid request payload")))
	assert.False(t, isRetryableModelError(nil))
}
