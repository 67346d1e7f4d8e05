package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"match-engine-go/internal/types"
)

// TestGenerateInsightsStrengthsAndGaps 验证高分维度产出优势、低分维度产出差距+建议
func TestGenerateInsightsStrengthsAndGaps(t *testing.T) {
	result := &types.MatchResult{
		SuccessProbability: 0.7,
		Dimensions: types.DimensionScores{
			Skills:      0.95,
			Experience:  0.85,
			Education:   0.6,
			Location:    0.45,
			Salary:      0.3,
			Personality: 0.7,
			CulturalFit: 0.7,
		},
	}
	candidate := &types.CandidateProfile{}
	job := &types.JobPosting{Organization: types.Organization{Industry: "technology"}}

	GenerateInsights(result, candidate, job)

	assert.Len(t, result.Strengths, 2, "高于0.8的两个维度应产出优势")
	assert.Contains(t, result.Strengths, strengthMessages["skills"])
	assert.Contains(t, result.Strengths, strengthMessages["experience"])

	require.Len(t, result.Recommendations, 2, "低于0.5的两个维度应产出差距建议")
	for _, rec := range result.Recommendations {
		assert.NotEmpty(t, rec.Gap, "差距文案不应为空")
		assert.NotEmpty(t, rec.Advice, "每条差距必须配对建议")
	}
}

// TestGenerateInsightsRiskFactors 验证各风险规则
func TestGenerateInsightsRiskFactors(t *testing.T) {
	t.Run("技能与经验风险", func(t *testing.T) {
		result := &types.MatchResult{
			Dimensions: types.DimensionScores{
				Skills: 0.3, Experience: 0.2, Education: 1, Location: 1,
				Salary: 1, Personality: 1, CulturalFit: 1,
			},
		}
		GenerateInsights(result, &types.CandidateProfile{}, &types.JobPosting{})
		assert.Len(t, result.RiskFactors, 2, "技能与经验双低应产出两条风险")
	})

	t.Run("低风险偏好遇上高波动组织", func(t *testing.T) {
		result := &types.MatchResult{
			Dimensions: types.DimensionScores{
				Skills: 1, Experience: 1, Education: 1, Location: 1,
				Salary: 1, Personality: 1, CulturalFit: 1,
			},
		}
		candidate := &types.CandidateProfile{RiskTolerance: types.RiskToleranceLow}
		job := &types.JobPosting{Organization: types.Organization{Size: types.OrgSizeStartup}}

		GenerateInsights(result, candidate, job)
		require.Len(t, result.RiskFactors, 1, "低风险偏好+初创组织应产出一条风险")
	})

	t.Run("无风险", func(t *testing.T) {
		result := &types.MatchResult{
			Dimensions: types.DimensionScores{
				Skills: 1, Experience: 1, Education: 1, Location: 1,
				Salary: 1, Personality: 1, CulturalFit: 1,
			},
		}
		candidate := &types.CandidateProfile{RiskTolerance: types.RiskToleranceHigh}
		job := &types.JobPosting{Organization: types.Organization{Size: types.OrgSizeEnterprise}}

		GenerateInsights(result, candidate, job)
		assert.Empty(t, result.RiskFactors, "全维度高分且风险偏好匹配时无风险")
	})
}

// TestGenerateInsightsUniqueAdvantages 验证独特优势规则
func TestGenerateInsightsUniqueAdvantages(t *testing.T) {
	result := &types.MatchResult{
		Dimensions: types.DimensionScores{
			Skills: 0.95, Experience: 0.7, Education: 0.7, Location: 0.7,
			Salary: 0.7, Personality: 0.9, CulturalFit: 0.7,
		},
	}
	candidate := &types.CandidateProfile{LearningOrientation: 0.85}

	GenerateInsights(result, candidate, &types.JobPosting{})

	assert.Len(t, result.UniqueAdvantages, 3, "三条独特优势规则应全部命中")
}

// TestGenerateInsightsPriorityTiers 验证优先级档位由成功概率推导
func TestGenerateInsightsPriorityTiers(t *testing.T) {
	cases := []struct {
		probability float64
		expected    types.PriorityTier
	}{
		{0.90, types.PriorityImmediate},
		{0.81, types.PriorityImmediate},
		{0.80, types.PriorityHigh},
		{0.66, types.PriorityHigh},
		{0.65, types.PriorityMedium},
		{0.46, types.PriorityMedium},
		{0.45, types.PriorityLow},
		{0.10, types.PriorityLow},
	}
	for _, tc := range cases {
		result := &types.MatchResult{SuccessProbability: tc.probability}
		GenerateInsights(result, &types.CandidateProfile{}, &types.JobPosting{})
		assert.Equal(t, tc.expected, result.Priority, "概率%.2f应映射到%s档", tc.probability, tc.expected)
	}
}

// TestGenerateInsightsDeterministic 验证洞察生成是纯函数
func TestGenerateInsightsDeterministic(t *testing.T) {
	build := func() *types.MatchResult {
		return &types.MatchResult{
			SuccessProbability: 0.6,
			Dimensions: types.DimensionScores{
				Skills: 0.95, Experience: 0.2, Education: 0.6, Location: 0.45,
				Salary: 0.9, Personality: 0.88, CulturalFit: 0.35,
			},
		}
	}
	candidate := &types.CandidateProfile{LearningOrientation: 0.9, RiskTolerance: types.RiskToleranceLow}
	job := &types.JobPosting{Organization: types.Organization{Industry: "media", Size: types.OrgSizeStartup}}

	a, b := build(), build()
	GenerateInsights(a, candidate, job)
	GenerateInsights(b, candidate, job)

	assert.Equal(t, a, b, "同样输入的洞察输出必须逐字段一致")
}
