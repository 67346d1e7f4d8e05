// Package textanalysis 通过大模型为候选人自由文本提供情感分类能力。
// 调用方把任何失败都当作"无信号"处理，所以这里只负责尽力返回有效结果。
package textanalysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"

	"match-engine-go/internal/config"
	"match-engine-go/internal/engine"
)

// LLMSentimentClassifier 封装ChatModel的情感分类器，实现引擎的文本分析接口
type LLMSentimentClassifier struct {
	llmModel       model.ChatModel
	promptTemplate string
	timeout        time.Duration
}

// Option 分类器的配置选项
type Option func(*LLMSentimentClassifier)

// WithCustomPromptTemplate 设置自定义提示词模板
func WithCustomPromptTemplate(template string) Option {
	return func(c *LLMSentimentClassifier) {
		c.promptTemplate = template
	}
}

// WithTimeout 设置单次分类调用的超时
func WithTimeout(timeout time.Duration) Option {
	return func(c *LLMSentimentClassifier) {
		c.timeout = timeout
	}
}

// NewLLMSentimentClassifier 创建情感分类器实例
func NewLLMSentimentClassifier(llmModel model.ChatModel, cfg *config.TextAnalysisConfig, options ...Option) *LLMSentimentClassifier {
	classifier := &LLMSentimentClassifier{
		llmModel: llmModel,
		timeout:  10 * time.Second,
	}
	if cfg != nil && cfg.TimeoutSeconds > 0 {
		classifier.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	classifier.generatePromptTemplate()

	for _, opt := range options {
		opt(classifier)
	}
	return classifier
}

// generatePromptTemplate 内部方法，生成情感分类的Prompt模板
func (c *LLMSentimentClassifier) generatePromptTemplate() {
	c.promptTemplate = `你是一位专业的文本情感分析师。你的任务是对下面的【候选人自述文本】做整体情感倾向分析。

请严格按照以下JSON格式输出你的分析结果：
1.  "positive": 浮点数 (0.0-1.0)，文本的正向情感强度。
2.  "negative": 浮点数 (0.0-1.0)，文本的负向情感强度。
3.  "confidence": 浮点数 (0.0-1.0)，你对本次判断的置信度。

**JSON格式要求：**
- 输出必须是标准JSON格式，字段名请使用双引号。
- 不要在JSON之外添加任何文本。

【候选人自述文本】:
"""
%s
"""

请给出客观、稳定的分析。输出必须是纯JSON，不要包含任何非JSON内容。`
}

// ClassifyText 对文本做情感分类，实现 engine.TextAnalyzer
func (c *LLMSentimentClassifier) ClassifyText(ctx context.Context, text string) (*engine.SentimentSignal, error) {
	if c.llmModel == nil {
		return nil, fmt.Errorf("情感分类器未初始化ChatModel")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("待分类文本为空")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(c.promptTemplate, text)
	messages := []*einoschema.Message{
		einoschema.SystemMessage("你是一位客观、稳定的文本情感分析助手。"),
		einoschema.UserMessage(prompt),
	}

	response, err := c.llmModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("情感分类调用失败: %w", err)
	}
	if response == nil || response.Content == "" {
		return nil, fmt.Errorf("情感分类返回空响应")
	}

	jsonStr := extractJSONFromResponse(response.Content)
	if jsonStr == "" {
		return nil, fmt.Errorf("从响应中提取JSON失败: %s", response.Content)
	}

	var signal engine.SentimentSignal
	if err := json.Unmarshal([]byte(jsonStr), &signal); err != nil {
		return nil, fmt.Errorf("解析情感分类JSON失败: %w", err)
	}

	if err := validateSignal(&signal); err != nil {
		return nil, fmt.Errorf("情感分类结果无效: %w", err)
	}
	return &signal, nil
}

// validateSignal 验证分类结果是否在合法区间
func validateSignal(signal *engine.SentimentSignal) error {
	if signal.Positive < 0 || signal.Positive > 1 {
		return fmt.Errorf("positive 必须在[0,1]区间, 实际为 %f", signal.Positive)
	}
	if signal.Negative < 0 || signal.Negative > 1 {
		return fmt.Errorf("negative 必须在[0,1]区间, 实际为 %f", signal.Negative)
	}
	if signal.Confidence < 0 || signal.Confidence > 1 {
		return fmt.Errorf("confidence 必须在[0,1]区间, 实际为 %f", signal.Confidence)
	}
	return nil
}

// extractJSONFromResponse 从文本中提取第一个括号配平的JSON对象
func extractJSONFromResponse(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	level := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
