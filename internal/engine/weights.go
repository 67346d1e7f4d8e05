package engine

import (
	"strings"

	"match-engine-go/internal/constants"
	"match-engine-go/internal/types"
)

// IndustryWeights 行业维度权重画像。
// 不变式：七个权重之和 = 1.0（允许浮点舍入误差），见权重表测试。
type IndustryWeights struct {
	Skills      float64
	Experience  float64
	Education   float64
	Location    float64
	Salary      float64
	Personality float64
	CulturalFit float64
}

// Sum 返回权重之和，供不变式校验
func (w IndustryWeights) Sum() float64 {
	return w.Skills + w.Experience + w.Education + w.Location + w.Salary + w.Personality + w.CulturalFit
}

// industryWeightTable 行业权重查表
var industryWeightTable = map[string]IndustryWeights{
	"technology": {
		Skills: 0.30, Experience: 0.20, Education: 0.05,
		Location: 0.10, Salary: 0.10, Personality: 0.10, CulturalFit: 0.15,
	},
	"finance": {
		Skills: 0.20, Experience: 0.25, Education: 0.20,
		Location: 0.10, Salary: 0.10, Personality: 0.05, CulturalFit: 0.10,
	},
	"healthcare": {
		Skills: 0.20, Experience: 0.20, Education: 0.25,
		Location: 0.15, Salary: 0.05, Personality: 0.05, CulturalFit: 0.10,
	},
	"retail": {
		Skills: 0.20, Experience: 0.15, Education: 0.05,
		Location: 0.25, Salary: 0.15, Personality: 0.10, CulturalFit: 0.10,
	},
	"manufacturing": {
		Skills: 0.25, Experience: 0.25, Education: 0.10,
		Location: 0.20, Salary: 0.10, Personality: 0.05, CulturalFit: 0.05,
	},
	"media": {
		Skills: 0.25, Experience: 0.15, Education: 0.05,
		Location: 0.10, Salary: 0.10, Personality: 0.20, CulturalFit: 0.15,
	},
}

// generalWeights 行业未被识别时的通用权重
var generalWeights = IndustryWeights{
	Skills: 0.25, Experience: 0.20, Education: 0.10,
	Location: 0.15, Salary: 0.10, Personality: 0.10, CulturalFit: 0.10,
}

// WeightsForIndustry 取行业权重，未识别时回退到通用权重
func WeightsForIndustry(industry string) IndustryWeights {
	if w, ok := industryWeightTable[strings.ToLower(strings.TrimSpace(industry))]; ok {
		return w
	}
	return generalWeights
}

// KnownIndustries 返回权重表覆盖的全部行业键，供不变式测试遍历
func KnownIndustries() []string {
	keys := make([]string, 0, len(industryWeightTable))
	for k := range industryWeightTable {
		keys = append(keys, k)
	}
	return keys
}

// ComposeOverall 按行业权重把七维得分合成综合分，区间[0,1]
func ComposeOverall(scores types.DimensionScores, weights IndustryWeights) float64 {
	overall := scores.Skills*weights.Skills +
		scores.Experience*weights.Experience +
		scores.Education*weights.Education +
		scores.Location*weights.Location +
		scores.Salary*weights.Salary +
		scores.Personality*weights.Personality +
		scores.CulturalFit*weights.CulturalFit
	return clamp01(overall)
}

// SuccessProbability 混合综合分与三个外部市场信号得到成功概率。
// 公式: 0.6×综合分 + 0.2×(1−竞争度) + 0.15×历史成功率 + 0.05×组织响应度，
// 钳制到[0.1, 0.95]。
func SuccessProbability(overall float64, signals types.MarketSignals) float64 {
	p := 0.6*overall +
		0.2*(1.0-clamp01(signals.Competition)) +
		0.15*clamp01(signals.HistoricalSuccess) +
		0.05*clamp01(signals.OrgResponsiveness)
	return clampRange(p, constants.SuccessProbabilityFloor, constants.SuccessProbabilityCeiling)
}

// NeutralMarketSignals 返回三个信号的文档化中性默认值
func NeutralMarketSignals() types.MarketSignals {
	return types.MarketSignals{
		Competition:       constants.NeutralCompetitionEstimate,
		HistoricalSuccess: constants.NeutralHistoricalSuccessRate,
		OrgResponsiveness: constants.NeutralOrgResponsivenessScore,
	}
}

// growthIndustries 高成长行业加成表
var growthIndustries = map[string]float64{
	"technology": 0.15,
	"healthcare": 0.10,
	"media":      0.05,
}

// EstimateGrowthPotential 确定性地估计岗位的职业成长潜力，区间[0,1]。
// 由组织规模基线 + 行业加成 + 候选人上升空间组成，不含任何随机量。
func EstimateGrowthPotential(candidate *types.CandidateProfile, job *types.JobPosting) float64 {
	base := 0.5
	switch job.Organization.Size {
	case types.OrgSizeStartup:
		base = 0.7
	case types.OrgSizeSMB:
		base = 0.6
	case types.OrgSizeEnterprise:
		base = 0.5
	}

	base += growthIndustries[strings.ToLower(strings.TrimSpace(job.Organization.Industry))]

	// 候选人年限低于岗位上限，说明还有上升空间
	if job.Experience.MaxYears > 0 && candidate.YearsOfExperience < job.Experience.MaxYears {
		base += 0.1
	}

	return clamp01(base)
}
