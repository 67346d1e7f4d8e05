package models

import (
	"time"

	"gorm.io/datatypes"
)

// Candidate 候选人主表
type Candidate struct {
	CandidateID       string         `gorm:"type:char(36);primaryKey"`
	Name              string         `gorm:"type:varchar(255)"`
	YearsOfExperience float64        `gorm:"type:decimal(4,1);default:0"`
	City              string         `gorm:"type:varchar(255)"`
	Region            string         `gorm:"type:varchar(255)"`
	SalaryExpectMin   float64        `gorm:"type:decimal(14,2);default:0"`
	SalaryExpectMax   float64        `gorm:"type:decimal(14,2);default:0"`
	RiskTolerance     string         `gorm:"type:varchar(20)"`
	SkillsJSON        datatypes.JSON `gorm:"type:json"` // []string
	EducationJSON     datatypes.JSON `gorm:"type:json"` // []types.EducationRecord
	IndustryYearsJSON datatypes.JSON `gorm:"type:json"` // map[string]float64
	CVText            string         `gorm:"type:mediumtext"`
	CreatedAt         time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt         time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// Organization 组织表
type Organization struct {
	OrgID    string `gorm:"type:char(36);primaryKey"`
	Name     string `gorm:"type:varchar(255);not null"`
	Industry string `gorm:"type:varchar(100);index:idx_orgs_industry"`
	Size     string `gorm:"type:varchar(20)"` // STARTUP / SMB / ENTERPRISE
}

func (Organization) TableName() string {
	return "organizations"
}

// Job 岗位表
type Job struct {
	JobID                string         `gorm:"type:char(36);primaryKey"`
	Title                string         `gorm:"type:varchar(255);not null"`
	OrgID                string         `gorm:"type:char(36);not null;index:idx_jobs_org_id"`
	RequiredSkillsJSON   datatypes.JSON `gorm:"type:json"` // []string
	PreferredSkillsJSON  datatypes.JSON `gorm:"type:json"` // []string
	ExperienceMinYears   float64        `gorm:"type:decimal(4,1);default:0"`
	ExperienceMaxYears   float64        `gorm:"type:decimal(4,1);default:0"`
	EducationRequirement string         `gorm:"type:varchar(255)"`
	City                 string         `gorm:"type:varchar(255)"`
	Region               string         `gorm:"type:varchar(255)"`
	Remote               bool           `gorm:"default:false"`
	SalaryMin            float64        `gorm:"type:decimal(14,2);default:0"`
	SalaryMax            float64        `gorm:"type:decimal(14,2);default:0"`
	Description          string         `gorm:"type:text"`
	Requirements         string         `gorm:"type:text"`
	Status               string         `gorm:"type:varchar(50);default:'ACTIVE';index:idx_jobs_status"`
	CreatedAt            time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt            time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Organization Organization `gorm:"foreignKey:OrgID;references:OrgID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Job) TableName() string {
	return "jobs"
}

// JobMarketStats 岗位维度的市场聚合统计，为成功概率提供确定性的外部信号
type JobMarketStats struct {
	JobID string `gorm:"type:char(36);primaryKey"`
	// CompetitionEstimate 竞争度估计 [0,1]，由投递量聚合任务离线刷新
	CompetitionEstimate float64 `gorm:"type:float"`
	// HistoricalSuccessRate 同类候选人历史成功率 [0,1]
	HistoricalSuccessRate float64   `gorm:"type:float"`
	UpdatedAt             time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (JobMarketStats) TableName() string {
	return "job_market_stats"
}

// OrgResponsiveness 组织响应度聚合统计
type OrgResponsiveness struct {
	OrgID string `gorm:"type:char(36);primaryKey"`
	// Score 响应积极度 [0,1]，由回复率/回复时延聚合得出
	Score     float64   `gorm:"type:float"`
	UpdatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (OrgResponsiveness) TableName() string {
	return "org_responsiveness"
}

// MatchSnapshot 一次匹配运行的紧凑快照，供事后分析与版本对比
type MatchSnapshot struct {
	SnapshotID    uint64         `gorm:"primaryKey;autoIncrement"`
	RunID         string         `gorm:"type:char(36);not null;index:idx_ms_run_id"`
	CandidateID   string         `gorm:"type:char(36);not null;index:idx_ms_candidate_id"`
	EngineVersion string         `gorm:"type:varchar(50);not null"`
	ResultsJSON   datatypes.JSON `gorm:"type:json"` // 排名靠前结果的紧凑表示
	CreatedAt     time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
}

func (MatchSnapshot) TableName() string {
	return "match_snapshots"
}
