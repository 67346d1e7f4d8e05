package engine

import (
	"match-engine-go/internal/types"
)

// 洞察阈值
const (
	strengthThreshold = 0.8
	gapThreshold      = 0.5
	riskSkills        = 0.4
	riskExperience    = 0.3
	riskCulturalFit   = 0.4
	advantagePersonal = 0.85
	advantageSkills   = 0.9
	advantageLearning = 0.8
)

// 维度 -> 固定优势文案
var strengthMessages = map[string]string{
	"skills":       "技能组合与岗位要求高度吻合",
	"experience":   "工作年限正好落在岗位期望区间",
	"education":    "学历完全满足岗位要求",
	"location":     "工作地点高度契合，无需搬迁",
	"salary":       "薪资预期与岗位预算对齐",
	"personality":  "个人风格与岗位期望的工作方式一致",
	"cultural_fit": "与组织文化天然契合",
}

// 维度 -> 固定差距文案与建议，成对出现
var gapAdvice = map[string]types.Recommendation{
	"skills": {
		Gap:    "核心技能覆盖不足",
		Advice: "优先补齐岗位列出的缺失技能，或在简历中突出相近技能的迁移能力",
	},
	"experience": {
		Gap:    "工作年限与岗位要求有差距",
		Advice: "强调项目复杂度与实际职责，弥补绝对年限的不足",
	},
	"education": {
		Gap:    "学历低于岗位声明的要求",
		Advice: "补充相关认证课程，或突出同等实践经验",
	},
	"location": {
		Gap:    "工作地点存在错位",
		Advice: "确认是否接受搬迁或申请远程办公安排",
	},
	"salary": {
		Gap:    "薪资预期与岗位预算偏差较大",
		Advice: "重新评估薪资区间，或在面试中说明总包诉求的灵活性",
	},
	"personality": {
		Gap:    "个人风格与岗位期望的工作方式不一致",
		Advice: "在求职信中展示适配岗位沟通与协作方式的具体事例",
	},
	"cultural_fit": {
		Gap:    "与组织文化匹配度偏低",
		Advice: "面试前研究该组织的工作方式，判断是否真的适合自己",
	},
}

// dimensionEntries 以固定顺序遍历七个维度，保证洞察输出确定有序
func dimensionEntries(d types.DimensionScores) []struct {
	Key   string
	Score float64
} {
	return []struct {
		Key   string
		Score float64
	}{
		{"skills", d.Skills},
		{"experience", d.Experience},
		{"education", d.Education},
		{"location", d.Location},
		{"salary", d.Salary},
		{"personality", d.Personality},
		{"cultural_fit", d.CulturalFit},
	}
}

// GenerateInsights 从得分明细确定性地派生优势/差距/风险/独特优势，并填充优先级档位。
// 同样的输入永远产出同样的洞察，不查询任何外部依赖。
func GenerateInsights(result *types.MatchResult, candidate *types.CandidateProfile, job *types.JobPosting) {
	d := result.Dimensions

	for _, entry := range dimensionEntries(d) {
		if entry.Score > strengthThreshold {
			result.Strengths = append(result.Strengths, strengthMessages[entry.Key])
		}
		if entry.Score < gapThreshold {
			result.Recommendations = append(result.Recommendations, gapAdvice[entry.Key])
		}
	}

	// 风险因素
	if d.Skills < riskSkills {
		result.RiskFactors = append(result.RiskFactors, "技能差距过大，投递通过初筛的概率偏低")
	}
	if d.Experience < riskExperience {
		result.RiskFactors = append(result.RiskFactors, "经验严重不足，可能在硬性门槛处被过滤")
	}
	if d.CulturalFit < riskCulturalFit {
		result.RiskFactors = append(result.RiskFactors, "文化契合度低，即使入职也存在留存风险")
	}
	if candidate.RiskTolerance == types.RiskToleranceLow && CultureForOrg(job.Organization).Volatile {
		result.RiskFactors = append(result.RiskFactors, "候选人风险偏好低，而该组织波动性高")
	}

	// 独特优势
	if d.Personality > advantagePersonal {
		result.UniqueAdvantages = append(result.UniqueAdvantages, "个人风格与岗位要求几乎完美匹配，是天然的差异化优势")
	}
	if d.Skills > advantageSkills {
		result.UniqueAdvantages = append(result.UniqueAdvantages, "技能覆盖接近满分，属于该岗位的稀缺候选人")
	}
	if candidate.LearningOrientation >= advantageLearning {
		result.UniqueAdvantages = append(result.UniqueAdvantages, "表现出强学习导向，适合要求快速上手的岗位")
	}

	result.Priority = types.TierForProbability(result.SuccessProbability)
}
