package types

// DimensionScores 单岗位的七维得分明细，每一维都在[0,1]。
// 数据缺失的维度取文档化的中性值：无要求=1.0，信号不足=0.7。
type DimensionScores struct {
	Skills      float64 `json:"skills"`
	Experience  float64 `json:"experience"`
	Education   float64 `json:"education"`
	Location    float64 `json:"location"`
	Salary      float64 `json:"salary"`
	Personality float64 `json:"personality"`
	CulturalFit float64 `json:"cultural_fit"`
}

// PriorityTier 投递优先级档位
type PriorityTier string

const (
	// PriorityImmediate 立即投递 (成功概率>0.8)
	PriorityImmediate PriorityTier = "IMMEDIATE"
	// PriorityHigh 高优先级 (>0.65)
	PriorityHigh PriorityTier = "HIGH"
	// PriorityMedium 中优先级 (>0.45)
	PriorityMedium PriorityTier = "MEDIUM"
	// PriorityLow 低优先级
	PriorityLow PriorityTier = "LOW"
)

// TierForProbability 由成功概率推导优先级档位
func TierForProbability(p float64) PriorityTier {
	switch {
	case p > 0.8:
		return PriorityImmediate
	case p > 0.65:
		return PriorityHigh
	case p > 0.45:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Recommendation 一条洞察：差距与对应的建议成对出现
type Recommendation struct {
	Gap    string `json:"gap"`
	Advice string `json:"advice"`
}

// MatchResult 单个岗位的最终匹配输出
type MatchResult struct {
	JobID    string `json:"job_id"`
	JobTitle string `json:"job_title"`
	OrgName  string `json:"org_name"`
	Industry string `json:"industry"`

	// OverallScore 综合匹配分，区间[0,1]
	OverallScore float64 `json:"overall_score"`
	// SuccessProbability 投递成功概率估计，区间[0.1, 0.95]
	SuccessProbability float64         `json:"success_probability"`
	Dimensions         DimensionScores `json:"dimensions"`

	Strengths        []string         `json:"strengths"`
	Recommendations  []Recommendation `json:"recommendations"`
	RiskFactors      []string         `json:"risk_factors"`
	UniqueAdvantages []string         `json:"unique_advantages"`
	Priority         PriorityTier     `json:"priority"`

	// GrowthPotential 职业成长潜力估计，区间[0,1]，用作排序第三关键字
	GrowthPotential float64 `json:"growth_potential"`
}

// MarketSignals 三个可插拔的外部市场信号；不可用时取固定中性常量
type MarketSignals struct {
	// Competition 市场竞争程度估计，区间[0,1]，越高竞争越激烈
	Competition float64 `json:"competition"`
	// HistoricalSuccess 同类候选人历史成功率估计，区间[0,1]
	HistoricalSuccess float64 `json:"historical_success"`
	// OrgResponsiveness 组织响应积极度估计，区间[0,1]
	OrgResponsiveness float64 `json:"org_responsiveness"`
}

// RecommendOptions GetRecommendations 的选项
type RecommendOptions struct {
	Limit    int     `json:"limit"`
	MinScore float64 `json:"min_score"`
	// IncludeGrowthJobs 为真时，放行低于MinScore不超过0.15且成长潜力>0.7的结果
	IncludeGrowthJobs   bool          `json:"include_growth_jobs"`
	PreferredIndustries []string      `json:"preferred_industries,omitempty"`
	CareerStage         CareerStage   `json:"career_stage,omitempty"`
	RiskTolerance       RiskTolerance `json:"risk_tolerance,omitempty"`
}
