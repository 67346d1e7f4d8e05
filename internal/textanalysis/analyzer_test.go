package textanalysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"match-engine-go/internal/config"
)

// mockChatModel 返回固定响应的 model.ChatModel 模拟实现
type mockChatModel struct {
	response         string
	err              error
	receivedMessages []*schema.Message
}

func (m *mockChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.receivedMessages = append(m.receivedMessages, input...)
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.response, nil), nil
}

func (m *mockChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("streaming not implemented in mock")
}

func (m *mockChatModel) BindTools(_ []*schema.ToolInfo) error {
	return nil
}

// TestClassifyTextValidJSON 验证标准JSON响应的解析
func TestClassifyTextValidJSON(t *testing.T) {
	mock := &mockChatModel{response: `{"positive": 0.8, "negative": 0.1, "confidence": 0.9}`}
	classifier := NewLLMSentimentClassifier(mock, &config.TextAnalysisConfig{TimeoutSeconds: 5})

	signal, err := classifier.ClassifyText(context.Background(), "I led the team to ship the project ahead of schedule.")
	require.NoError(t, err, "合法JSON响应不应报错")
	assert.InDelta(t, 0.8, signal.Positive, 1e-9)
	assert.InDelta(t, 0.1, signal.Negative, 1e-9)
	assert.InDelta(t, 0.9, signal.Confidence, 1e-9)
}

// TestClassifyTextJSONWrappedInProse 验证模型输出夹杂解释文本时仍能提取JSON
func TestClassifyTextJSONWrappedInProse(t *testing.T) {
	mock := &mockChatModel{response: "好的，以下是分析结果：\n```json\n{\"positive\": 0.6, \"negative\": 0.2, \"confidence\": 0.7}\n```\n希望对你有帮助。"}
	classifier := NewLLMSentimentClassifier(mock, nil)

	signal, err := classifier.ClassifyText(context.Background(), "Delivered multiple features this quarter.")
	require.NoError(t, err, "夹杂文本的响应应能提取出JSON")
	assert.InDelta(t, 0.6, signal.Positive, 1e-9)
}

// TestClassifyTextPromptContainsInput 验证候选人文本被嵌入提示词
func TestClassifyTextPromptContainsInput(t *testing.T) {
	mock := &mockChatModel{response: `{"positive": 0.5, "negative": 0.3, "confidence": 0.8}`}
	classifier := NewLLMSentimentClassifier(mock, nil)

	text := "Built a payments reconciliation pipeline."
	_, err := classifier.ClassifyText(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, mock.receivedMessages, 2, "应发送system+user两条消息")
	assert.Equal(t, schema.System, mock.receivedMessages[0].Role)
	assert.Equal(t, schema.User, mock.receivedMessages[1].Role)
	assert.True(t, strings.Contains(mock.receivedMessages[1].Content, text), "用户消息应包含待分析文本")
}

// TestClassifyTextEmptyInput 验证空文本直接拒绝，不浪费一次模型调用
func TestClassifyTextEmptyInput(t *testing.T) {
	mock := &mockChatModel{response: `{"positive": 0.5, "negative": 0.5, "confidence": 0.5}`}
	classifier := NewLLMSentimentClassifier(mock, nil)

	_, err := classifier.ClassifyText(context.Background(), "   ")
	require.Error(t, err, "空白文本应报错")
	assert.Empty(t, mock.receivedMessages, "空文本不应触发模型调用")
}

// TestClassifyTextModelError 验证模型调用失败时错误被包装上抛
func TestClassifyTextModelError(t *testing.T) {
	modelErr := errors.New("429 Too Many Requests")
	mock := &mockChatModel{err: modelErr}
	classifier := NewLLMSentimentClassifier(mock, nil)

	_, err := classifier.ClassifyText(context.Background(), "Some text to classify.")
	require.Error(t, err)
	assert.ErrorIs(t, err, modelErr, "原始错误应可通过errors.Is追溯")
}

// TestClassifyTextMalformedResponse 验证无法提取JSON时报错
func TestClassifyTextMalformedResponse(t *testing.T) {
	mock := &mockChatModel{response: "抱歉，我无法对该文本进行分析。"}
	classifier := NewLLMSentimentClassifier(mock, nil)

	_, err := classifier.ClassifyText(context.Background(), "Some text to classify.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "提取JSON失败")
}

// TestClassifyTextOutOfRangeSignal 验证越界数值被拒绝
func TestClassifyTextOutOfRangeSignal(t *testing.T) {
	mock := &mockChatModel{response: `{"positive": 1.5, "negative": 0.1, "confidence": 0.9}`}
	classifier := NewLLMSentimentClassifier(mock, nil)

	_, err := classifier.ClassifyText(context.Background(), "Some text to classify.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "结果无效")
}

// TestClassifierOptions 验证自定义模板与超时选项生效
func TestClassifierOptions(t *testing.T) {
	mock := &mockChatModel{response: `{"positive": 0.5, "negative": 0.5, "confidence": 0.5}`}
	classifier := NewLLMSentimentClassifier(mock, nil,
		WithCustomPromptTemplate("分析这段文本: %s"),
		WithTimeout(2*time.Second))

	assert.Equal(t, "分析这段文本: %s", classifier.promptTemplate)
	assert.Equal(t, 2*time.Second, classifier.timeout)

	_, err := classifier.ClassifyText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "分析这段文本: hello", mock.receivedMessages[1].Content)
}
