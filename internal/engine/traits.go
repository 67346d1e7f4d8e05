package engine

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"match-engine-go/internal/constants"
	"match-engine-go/internal/logger"
	"match-engine-go/internal/tracing"
	"match-engine-go/internal/types"
)

// 确定性的语言模式探测器。
// 全部在包加载时编译，推断过程不依赖任何随机性。
var (
	formalPattern        = regexp.MustCompile(`(?i)\b(furthermore|moreover|consequently|nevertheless|pursuant|herewith|accordingly|respectively)\b`)
	technicalPattern     = regexp.MustCompile(`(?i)\b(api|sdk|database|distributed|architecture|microservice|algorithm|latency|kubernetes|pipeline|protocol|backend|frontend|infrastructure)\b`)
	leadershipPattern    = regexp.MustCompile(`(?i)\b(led|leading|managed|managing|mentored|directed|supervised|coordinated|head of|spearheaded)\b`)
	collaborationPattern = regexp.MustCompile(`(?i)\b(team|teams|collaborat\w*|cross-functional|partnered|stakeholders|together with)\b`)
	achievementPattern   = regexp.MustCompile(`(?i)\b(achieved|delivered|increased|improved|reduced|exceeded|accomplished|launched|won)\b`)
	innovationPattern    = regexp.MustCompile(`(?i)\b(innovat\w*|novel|pioneered|invented|redesigned|reimagined|prototype[ds]?|experiment\w*)\b`)
	analyticalPattern    = regexp.MustCompile(`(?i)\b(analy\w*|metrics|data-driven|research\w*|statistic\w*|measured|evaluat\w*|insight\w*)\b`)
	quantitativePattern  = regexp.MustCompile(`\d+(\.\d+)?\s*(%|percent|million|billion|k\b|x\b)`)
)

// textPatterns 一段文本上探测到的语言模式组合
type textPatterns struct {
	Formal        bool
	Technical     bool
	Leadership    bool
	Collaboration bool
	Achievement   bool
	Innovation    bool
	Analytical    bool
	Quantitative  bool
}

// detectPatterns 对文本运行全部关键词/正则探测器
func detectPatterns(text string) textPatterns {
	return textPatterns{
		Formal:        formalPattern.MatchString(text),
		Technical:     len(technicalPattern.FindAllString(text, 4)) >= 3,
		Leadership:    leadershipPattern.MatchString(text),
		Collaboration: collaborationPattern.MatchString(text),
		Achievement:   achievementPattern.MatchString(text),
		Innovation:    innovationPattern.MatchString(text),
		Analytical:    analyticalPattern.MatchString(text),
		Quantitative:  quantitativePattern.MatchString(text),
	}
}

// TraitInferrer 把自由文本转成人格/风格向量；结果按文本MD5缓存7天
type TraitInferrer struct {
	analyzer TextAnalyzer
	cache    Cache
}

// NewTraitInferrer 创建特质推断器。analyzer和cache都允许为nil（降级运行）。
func NewTraitInferrer(analyzer TextAnalyzer, cache Cache) *TraitInferrer {
	return &TraitInferrer{analyzer: analyzer, cache: cache}
}

// Infer 推断文本对应的人格向量。
// 文本不足100字符时，直接短路返回中性向量；外部情感信号失败时仅影响置信度。
func (ti *TraitInferrer) Infer(ctx context.Context, text string) types.PersonalityVector {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < constants.MinMeaningfulTextLength {
		return types.NeutralPersonalityVector()
	}

	cacheKey := fmt.Sprintf(constants.KeyTraitVector, textMD5(trimmed))
	if ti.cache != nil {
		if payload, found := ti.cache.Get(ctx, cacheKey); found {
			var cached types.PersonalityVector
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached
			}
			// 缓存损坏时走重算路径
			logger.Ctx(ctx).Warn().Str("key", cacheKey).Msg("特质向量缓存反序列化失败，忽略缓存")
		}
	}

	patterns := detectPatterns(trimmed)
	vector := mapPatternsToVector(patterns)
	vector.Confidence = ti.confidence(ctx, trimmed, patterns)

	if ti.cache != nil {
		if payload, err := json.Marshal(vector); err == nil {
			ti.cache.Set(ctx, cacheKey, payload, constants.TraitVectorCacheTTL)
		}
	}
	return vector
}

// mapPatternsToVector 按固定优先级把模式组合映射到四个特质类别。
// 优先级：正式语言覆盖口语默认值；技术密度次之；类推每个类别都有确定顺序。
func mapPatternsToVector(p textPatterns) types.PersonalityVector {
	vector := types.NeutralPersonalityVector()

	// 沟通风格：正式 > 技术 > 直接(量化论据) > 口语默认
	switch {
	case p.Formal:
		vector.CommunicationStyle = types.CommunicationFormal
	case p.Technical:
		vector.CommunicationStyle = types.CommunicationTechnical
	case p.Quantitative && !p.Collaboration:
		vector.CommunicationStyle = types.CommunicationDirect
	}

	// 工作偏好：协作语言 > 领导语言(独立推进) > 协作默认
	switch {
	case p.Collaboration:
		vector.WorkingPreference = types.WorkingCollaborative
	case p.Leadership:
		vector.WorkingPreference = types.WorkingIndependent
	}

	// 解题风格：分析 > 创新 > 系统默认
	switch {
	case p.Analytical:
		vector.ProblemSolving = types.ProblemSolvingAnalytical
	case p.Innovation:
		vector.ProblemSolving = types.ProblemSolvingCreative
	}

	// 决策风格：量化证据 > 领导语言(果断) > 数据驱动默认
	switch {
	case p.Quantitative || p.Analytical:
		vector.DecisionMaking = types.DecisionDataDriven
	case p.Leadership:
		vector.DecisionMaking = types.DecisionDecisive
	}

	return vector
}

// confidence 计算推断置信度：外部情感正向分 + 成就语言加成0.2，钳制到[0.3, 0.95]。
// 情感信号不可用时以中性0.5起算，只记警告不报错。
func (ti *TraitInferrer) confidence(ctx context.Context, text string, p textPatterns) float64 {
	base := 0.5
	if ti.analyzer != nil {
		signal, err := ti.analyzer.ClassifyText(ctx, text)
		if err != nil || signal == nil {
			logger.Ctx(ctx).Warn().Err(err).
				Str("text_excerpt", tracing.SafeProfileText(text)).
				Msg("文本情感信号不可用，置信度按中性处理")
		} else {
			base = clamp01(signal.Positive)
		}
	}
	if p.Achievement {
		base += 0.2
	}
	return clampRange(base, constants.TraitConfidenceFloor, constants.TraitConfidenceCeiling)
}

// LearningOrientation 由成就/创新语言推导学习导向，区间[0,1]
func LearningOrientation(text string) float64 {
	p := detectPatterns(text)
	score := 0.4
	if p.Achievement {
		score += 0.2
	}
	if p.Innovation {
		score += 0.3
	}
	if p.Analytical {
		score += 0.1
	}
	return clamp01(score)
}

// textMD5 计算文本MD5十六进制摘要，用作缓存键
func textMD5(text string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(text)))
}
