package engine

import (
	"regexp"

	"match-engine-go/internal/types"
)

// 面向雇主侧文案的关键词探测器。
// 与求职者侧共用同一套探测思路，但词表针对岗位描述语言。
var (
	reqTeamPattern        = regexp.MustCompile(`(?i)\b(team player|team-oriented|cross-functional|collaborat\w*|work closely|partner\w*)\b`)
	reqIndependentPattern = regexp.MustCompile(`(?i)\b(self-starter|independent\w*|autonomous\w*|own\w* projects|minimal supervision)\b`)
	reqStructuredPattern  = regexp.MustCompile(`(?i)\b(process-driven|compliance|regulated|procedures|methodolog\w*|standards)\b`)
	reqFastPacedPattern   = regexp.MustCompile(`(?i)\b(fast-paced|dynamic environment|agile|adapt\w*|startup environment|wear many hats)\b`)
	reqLeadPattern        = regexp.MustCompile(`(?i)\b(lead|mentor\w*|drive|ownership|decision[- ]maker|strategic)\b`)
	reqFormalPattern      = regexp.MustCompile(`(?i)\b(professional communication|executive|board|client-facing|stakeholder management|formal)\b`)
	reqTechCommPattern    = regexp.MustCompile(`(?i)\b(technical documentation|design documents|rfcs?|code review\w*|architecture discussions)\b`)
	reqAnalyticalPattern  = regexp.MustCompile(`(?i)\b(analytical|data-driven|metrics|problem[- ]solv\w*|quantitative|root cause)\b`)
	reqCreativePattern    = regexp.MustCompile(`(?i)\b(creative|innovative|out[- ]of[- ]the[- ]box|novel solutions|design thinking)\b`)
	reqConsultPattern     = regexp.MustCompile(`(?i)\b(consensus|stakeholder input|consult\w*|alignment|buy-in)\b`)
)

// InferJobRequirement 从岗位描述+要求文本推断每个特质类别的可接受风格集合。
// 一个岗位可以同时容忍多种风格；什么都探测不到时对应集合为空（无偏好）。
func InferJobRequirement(job *types.JobPosting) types.TraitRequirement {
	text := job.Description + "\n" + job.Requirements
	var req types.TraitRequirement

	// 沟通风格
	if reqFormalPattern.MatchString(text) {
		req.CommunicationStyles = append(req.CommunicationStyles, types.CommunicationFormal)
	}
	if reqTechCommPattern.MatchString(text) {
		req.CommunicationStyles = append(req.CommunicationStyles, types.CommunicationTechnical)
	}
	if reqFastPacedPattern.MatchString(text) {
		req.CommunicationStyles = append(req.CommunicationStyles, types.CommunicationDirect)
	}

	// 工作偏好
	if reqTeamPattern.MatchString(text) {
		req.WorkingPreferences = append(req.WorkingPreferences, types.WorkingCollaborative)
	}
	if reqIndependentPattern.MatchString(text) {
		req.WorkingPreferences = append(req.WorkingPreferences, types.WorkingIndependent)
	}
	if reqStructuredPattern.MatchString(text) {
		req.WorkingPreferences = append(req.WorkingPreferences, types.WorkingStructured)
	}
	if reqFastPacedPattern.MatchString(text) {
		req.WorkingPreferences = append(req.WorkingPreferences, types.WorkingFlexible)
	}

	// 解题风格
	if reqAnalyticalPattern.MatchString(text) {
		req.ProblemSolving = append(req.ProblemSolving, types.ProblemSolvingAnalytical)
	}
	if reqCreativePattern.MatchString(text) {
		req.ProblemSolving = append(req.ProblemSolving, types.ProblemSolvingCreative)
	}
	if reqStructuredPattern.MatchString(text) {
		req.ProblemSolving = append(req.ProblemSolving, types.ProblemSolvingSystematic)
	}

	// 决策风格
	if reqAnalyticalPattern.MatchString(text) {
		req.DecisionMaking = append(req.DecisionMaking, types.DecisionDataDriven)
	}
	if reqConsultPattern.MatchString(text) {
		req.DecisionMaking = append(req.DecisionMaking, types.DecisionConsultative)
	}
	if reqLeadPattern.MatchString(text) {
		req.DecisionMaking = append(req.DecisionMaking, types.DecisionDecisive)
	}

	return req
}
