package types

// CareerStage 职业阶段，由工作年限推导
type CareerStage string

const (
	// CareerStageEntry 入门阶段 (<2年)
	CareerStageEntry CareerStage = "ENTRY"
	// CareerStageEarly 早期阶段 (2-5年)
	CareerStageEarly CareerStage = "EARLY"
	// CareerStageMid 中期阶段 (5-10年)
	CareerStageMid CareerStage = "MID"
	// CareerStageSenior 资深阶段 (10-15年)
	CareerStageSenior CareerStage = "SENIOR"
	// CareerStageExecutive 高管阶段 (>=15年)
	CareerStageExecutive CareerStage = "EXECUTIVE"
)

// RiskTolerance 候选人风险承受度
type RiskTolerance string

const (
	// RiskToleranceLow 低风险偏好
	RiskToleranceLow RiskTolerance = "LOW"
	// RiskToleranceMedium 中等风险偏好
	RiskToleranceMedium RiskTolerance = "MEDIUM"
	// RiskToleranceHigh 高风险偏好
	RiskToleranceHigh RiskTolerance = "HIGH"
)

// EducationRecord 一条教育经历
type EducationRecord struct {
	Institution   string `json:"institution"`
	Qualification string `json:"qualification"` // 自由文本，如 "BSc Computer Science"
	FieldOfStudy  string `json:"field_of_study"`
	CompletedYear int    `json:"completed_year"`
}

// SalaryRange 薪资区间（月薪或年薪由调用方约定，引擎只比较中位数）
type SalaryRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Midpoint 返回区间中位数；区间为空时返回0
func (r SalaryRange) Midpoint() float64 {
	if r.Min <= 0 && r.Max <= 0 {
		return 0
	}
	if r.Min <= 0 {
		return r.Max
	}
	if r.Max <= 0 {
		return r.Min
	}
	return (r.Min + r.Max) / 2
}

// IsZero 判断该区间是否未填写
func (r SalaryRange) IsZero() bool {
	return r.Min <= 0 && r.Max <= 0
}

// Location 地理位置
type Location struct {
	City   string `json:"city"`
	Region string `json:"region"` // 省/州/大区
}

// CandidateProfile 求职者的富化视图：原始记录 + 推导属性。
// 每次匹配请求按需重建（可走缓存），从不原地修改，重算时整体替换。
type CandidateProfile struct {
	CandidateID       string             `json:"candidate_id"`
	Name              string             `json:"name"`
	Skills            []string           `json:"skills"`
	YearsOfExperience float64            `json:"years_of_experience"` // 不变式: >= 0
	Education         []EducationRecord  `json:"education"`
	Location          Location           `json:"location"`
	SalaryExpectation SalaryRange        `json:"salary_expectation"`
	Summary           string             `json:"summary"` // CV自由文本或由结构化字段合成的摘要
	Personality       PersonalityVector  `json:"personality"`
	CareerStage       CareerStage        `json:"career_stage"`
	IndustryYears     map[string]float64 `json:"industry_years"` // 行业 -> 年限
	RiskTolerance     RiskTolerance      `json:"risk_tolerance"`

	// LearningOrientation 学习导向，区间[0,1]，由成就/创新语言密度推导
	LearningOrientation float64 `json:"learning_orientation"`
}

// StageForYears 由工作年限推导职业阶段
func StageForYears(years float64) CareerStage {
	switch {
	case years < 2:
		return CareerStageEntry
	case years < 5:
		return CareerStageEarly
	case years < 10:
		return CareerStageMid
	case years < 15:
		return CareerStageSenior
	default:
		return CareerStageExecutive
	}
}
