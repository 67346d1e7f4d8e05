package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"match-engine-go/internal/cache"
	"match-engine-go/internal/types"
)

// stubAnalyzer 可编程的情感信号桩
type stubAnalyzer struct {
	signal *SentimentSignal
	err    error
	calls  int
}

func (s *stubAnalyzer) ClassifyText(_ context.Context, _ string) (*SentimentSignal, error) {
	s.calls++
	return s.signal, s.err
}

// longText 生成一段超过最小长度门槛、带指定语言特征的文本
func longText(base string) string {
	return base + " " + strings.Repeat("The remaining narrative keeps going with ordinary wording. ", 3)
}

// TestInferShortTextReturnsNeutral 验证不足100字符的文本直接短路返回中性向量
func TestInferShortTextReturnsNeutral(t *testing.T) {
	analyzer := &stubAnalyzer{}
	ti := NewTraitInferrer(analyzer, nil)

	vector := ti.Infer(context.Background(), "too short")

	assert.Equal(t, types.NeutralPersonalityVector(), vector, "短文本应返回中性向量")
	assert.Zero(t, analyzer.calls, "短文本不应触发外部情感分类")
}

// TestInferTechnicalText 验证技术术语密集的文本映射到技术沟通风格
func TestInferTechnicalText(t *testing.T) {
	ti := NewTraitInferrer(nil, nil)
	text := longText("Designed the backend architecture with a distributed database and a low latency API pipeline.")

	vector := ti.Infer(context.Background(), text)

	assert.Equal(t, types.CommunicationTechnical, vector.CommunicationStyle, "技术密集文本应推断为技术沟通风格")
}

// TestInferFormalOverridesTechnical 验证正式语言优先于技术密度
func TestInferFormalOverridesTechnical(t *testing.T) {
	ti := NewTraitInferrer(nil, nil)
	text := longText("Furthermore, the backend architecture uses a distributed database with an API pipeline.")

	vector := ti.Infer(context.Background(), text)

	assert.Equal(t, types.CommunicationFormal, vector.CommunicationStyle, "正式语言应覆盖技术风格")
}

// TestInferCollaborationAndAnalytical 验证协作与分析语言的映射
func TestInferCollaborationAndAnalytical(t *testing.T) {
	ti := NewTraitInferrer(nil, nil)
	text := longText("Partnered with cross-functional teams and analyzed metrics to drive research outcomes.")

	vector := ti.Infer(context.Background(), text)

	assert.Equal(t, types.WorkingCollaborative, vector.WorkingPreference, "协作语言应映射到协作偏好")
	assert.Equal(t, types.ProblemSolvingAnalytical, vector.ProblemSolving, "分析语言应映射到分析型解题")
	assert.Equal(t, types.DecisionDataDriven, vector.DecisionMaking, "分析语言应映射到数据驱动决策")
}

// TestInferLeadershipWithoutCollaboration 验证领导语言在无协作语言时映射到独立偏好
func TestInferLeadershipWithoutCollaboration(t *testing.T) {
	ti := NewTraitInferrer(nil, nil)
	text := longText("Led the initiative and managed roadmap execution while mentoring direct reports.")

	vector := ti.Infer(context.Background(), text)

	assert.Equal(t, types.WorkingIndependent, vector.WorkingPreference, "纯领导语言应映射到独立推进偏好")
	assert.Equal(t, types.DecisionDecisive, vector.DecisionMaking, "领导语言应映射到果断决策")
}

// TestInferConfidenceClamped 验证置信度钳制在[0.3, 0.95]
func TestInferConfidenceClamped(t *testing.T) {
	t.Run("上限", func(t *testing.T) {
		analyzer := &stubAnalyzer{signal: &SentimentSignal{Positive: 1.0, Confidence: 1.0}}
		ti := NewTraitInferrer(analyzer, nil)
		// 含成就语言：1.0 + 0.2 应钳到0.95
		vector := ti.Infer(context.Background(), longText("Achieved a major milestone and delivered improvements."))
		assert.Equal(t, 0.95, vector.Confidence, "置信度上限应钳制在0.95")
	})

	t.Run("下限", func(t *testing.T) {
		analyzer := &stubAnalyzer{signal: &SentimentSignal{Positive: 0.0, Confidence: 0.9}}
		ti := NewTraitInferrer(analyzer, nil)
		vector := ti.Infer(context.Background(), longText("An ordinary description without notable wording."))
		assert.Equal(t, 0.3, vector.Confidence, "置信度下限应钳制在0.3")
	})
}

// TestInferAnalyzerFailureDegrades 验证情感信号失败时只影响置信度、不影响向量
func TestInferAnalyzerFailureDegrades(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("上游超时")}
	ti := NewTraitInferrer(analyzer, nil)
	text := longText("Partnered with teams and achieved measurable delivery improvements together with stakeholders.")

	vector := ti.Infer(context.Background(), text)

	require.Equal(t, 1, analyzer.calls, "应尝试调用情感分类一次")
	assert.Equal(t, types.WorkingCollaborative, vector.WorkingPreference, "信号失败不应影响模式映射")
	// 中性0.5 + 成就加成0.2
	assert.InDelta(t, 0.7, vector.Confidence, 1e-9, "信号失败时以中性0.5起算置信度")
}

// TestInferUsesCache 验证同文本的推断结果按MD5缓存命中
func TestInferUsesCache(t *testing.T) {
	analyzer := &stubAnalyzer{signal: &SentimentSignal{Positive: 0.6, Confidence: 0.8}}
	memory := cache.NewMemory()
	ti := NewTraitInferrer(analyzer, memory)
	text := longText("Collaborated with teams to deliver analytics dashboards and improved key metrics.")

	first := ti.Infer(context.Background(), text)
	second := ti.Infer(context.Background(), text)

	assert.Equal(t, first, second, "缓存命中时应返回相同向量")
	assert.Equal(t, 1, analyzer.calls, "第二次推断应命中缓存，不再调用情感分类")
}

// TestLearningOrientation 验证学习导向由语言特征确定性合成
func TestLearningOrientation(t *testing.T) {
	assert.InDelta(t, 0.4, LearningOrientation("plain text with nothing special"), 1e-9, "无特征文本为基线0.4")

	full := "Achieved results by pioneering novel prototypes and analyzing experiment metrics."
	assert.InDelta(t, 1.0, LearningOrientation(full), 1e-9, "成就+创新+分析应合成到1.0")

	assert.Equal(t, LearningOrientation(full), LearningOrientation(full), "学习导向必须是确定性的")
}
