package types

import "match-engine-go/internal/constants"

// CommunicationStyle 沟通风格（封闭枚举）
type CommunicationStyle string

const (
	// CommunicationFormal 正式书面风格
	CommunicationFormal CommunicationStyle = "FORMAL"
	// CommunicationConversational 口语化风格
	CommunicationConversational CommunicationStyle = "CONVERSATIONAL"
	// CommunicationTechnical 技术术语密集风格
	CommunicationTechnical CommunicationStyle = "TECHNICAL"
	// CommunicationDirect 简洁直接风格
	CommunicationDirect CommunicationStyle = "DIRECT"
)

// WorkingPreference 工作偏好（封闭枚举）
type WorkingPreference string

const (
	// WorkingCollaborative 协作型
	WorkingCollaborative WorkingPreference = "COLLABORATIVE"
	// WorkingIndependent 独立型
	WorkingIndependent WorkingPreference = "INDEPENDENT"
	// WorkingStructured 流程结构型
	WorkingStructured WorkingPreference = "STRUCTURED"
	// WorkingFlexible 灵活适应型
	WorkingFlexible WorkingPreference = "FLEXIBLE"
)

// ProblemSolvingStyle 解决问题风格（封闭枚举）
type ProblemSolvingStyle string

const (
	// ProblemSolvingAnalytical 分析型
	ProblemSolvingAnalytical ProblemSolvingStyle = "ANALYTICAL"
	// ProblemSolvingCreative 创造型
	ProblemSolvingCreative ProblemSolvingStyle = "CREATIVE"
	// ProblemSolvingSystematic 系统型
	ProblemSolvingSystematic ProblemSolvingStyle = "SYSTEMATIC"
	// ProblemSolvingPragmatic 务实型
	ProblemSolvingPragmatic ProblemSolvingStyle = "PRAGMATIC"
)

// DecisionMakingStyle 决策风格（封闭枚举）
type DecisionMakingStyle string

const (
	// DecisionDataDriven 数据驱动型
	DecisionDataDriven DecisionMakingStyle = "DATA_DRIVEN"
	// DecisionIntuitive 直觉型
	DecisionIntuitive DecisionMakingStyle = "INTUITIVE"
	// DecisionConsultative 协商型
	DecisionConsultative DecisionMakingStyle = "CONSULTATIVE"
	// DecisionDecisive 果断型
	DecisionDecisive DecisionMakingStyle = "DECISIVE"
)

// PersonalityVector 从自由文本推断出的人格/风格向量
type PersonalityVector struct {
	CommunicationStyle CommunicationStyle  `json:"communication_style"`
	WorkingPreference  WorkingPreference   `json:"working_preference"`
	ProblemSolving     ProblemSolvingStyle `json:"problem_solving"`
	DecisionMaking     DecisionMakingStyle `json:"decision_making"`

	// Confidence 推断置信度，区间[0,1]；短文本或无文本时钳制在[0.3, 0.95]
	Confidence float64 `json:"confidence"`
}

// NeutralPersonalityVector 返回文档化的中性默认人格向量。
// 特质推断失败或文本不足时，上游一律回退到该值，绝不让整个请求失败。
func NeutralPersonalityVector() PersonalityVector {
	return PersonalityVector{
		CommunicationStyle: CommunicationConversational,
		WorkingPreference:  WorkingCollaborative,
		ProblemSolving:     ProblemSolvingSystematic,
		DecisionMaking:     DecisionDataDriven,
		Confidence:         constants.NeutralTraitConfidence,
	}
}

// TraitRequirement 岗位推断出的可接受风格集合。
// 一个岗位对每个特质类别可以容忍多个取值，空集合表示无偏好。
type TraitRequirement struct {
	CommunicationStyles []CommunicationStyle  `json:"communication_styles"`
	WorkingPreferences  []WorkingPreference   `json:"working_preferences"`
	ProblemSolving      []ProblemSolvingStyle `json:"problem_solving"`
	DecisionMaking      []DecisionMakingStyle `json:"decision_making"`
}

// 兼容邻接表：非完全一致但可共处的风格组合。
// 用显式表驱动"相邻兼容"判断，而不是字符串匹配。
var (
	communicationNeighbors = map[CommunicationStyle][]CommunicationStyle{
		CommunicationFormal:         {CommunicationTechnical, CommunicationDirect},
		CommunicationConversational: {CommunicationDirect},
		CommunicationTechnical:      {CommunicationFormal, CommunicationDirect},
		CommunicationDirect:         {CommunicationFormal, CommunicationConversational, CommunicationTechnical},
	}

	workingNeighbors = map[WorkingPreference][]WorkingPreference{
		WorkingCollaborative: {WorkingFlexible},
		WorkingIndependent:   {WorkingStructured, WorkingFlexible},
		WorkingStructured:    {WorkingIndependent},
		WorkingFlexible:      {WorkingCollaborative, WorkingIndependent},
	}

	problemSolvingNeighbors = map[ProblemSolvingStyle][]ProblemSolvingStyle{
		ProblemSolvingAnalytical: {ProblemSolvingSystematic},
		ProblemSolvingCreative:   {ProblemSolvingPragmatic},
		ProblemSolvingSystematic: {ProblemSolvingAnalytical, ProblemSolvingPragmatic},
		ProblemSolvingPragmatic:  {ProblemSolvingCreative, ProblemSolvingSystematic},
	}

	decisionNeighbors = map[DecisionMakingStyle][]DecisionMakingStyle{
		DecisionDataDriven:   {DecisionConsultative},
		DecisionIntuitive:    {DecisionDecisive},
		DecisionConsultative: {DecisionDataDriven},
		DecisionDecisive:     {DecisionIntuitive, DecisionDataDriven},
	}
)

// CommunicationNeighbors 返回与给定沟通风格相邻兼容的风格集合
func CommunicationNeighbors(s CommunicationStyle) []CommunicationStyle {
	return communicationNeighbors[s]
}

// WorkingNeighbors 返回与给定工作偏好相邻兼容的偏好集合
func WorkingNeighbors(p WorkingPreference) []WorkingPreference {
	return workingNeighbors[p]
}

// ProblemSolvingNeighbors 返回与给定解决问题风格相邻兼容的风格集合
func ProblemSolvingNeighbors(s ProblemSolvingStyle) []ProblemSolvingStyle {
	return problemSolvingNeighbors[s]
}

// DecisionNeighbors 返回与给定决策风格相邻兼容的风格集合
func DecisionNeighbors(s DecisionMakingStyle) []DecisionMakingStyle {
	return decisionNeighbors[s]
}
