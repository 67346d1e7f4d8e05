package types

// OrgSizeBucket 组织规模分桶
type OrgSizeBucket string

const (
	// OrgSizeStartup 初创 (<50人)
	OrgSizeStartup OrgSizeBucket = "STARTUP"
	// OrgSizeSMB 中小型 (50-500人)
	OrgSizeSMB OrgSizeBucket = "SMB"
	// OrgSizeEnterprise 大型企业 (>500人)
	OrgSizeEnterprise OrgSizeBucket = "ENTERPRISE"
)

// Organization 发布岗位的组织
type Organization struct {
	OrgID    string        `json:"org_id"`
	Name     string        `json:"name"`
	Industry string        `json:"industry"`
	Size     OrgSizeBucket `json:"size"`
}

// ExperienceRange 岗位经验年限要求；两端都可缺省(<=0表示未填)
// 不变式: 两端都存在时 MinYears <= MaxYears
type ExperienceRange struct {
	MinYears float64 `json:"min_years"`
	MaxYears float64 `json:"max_years"`
}

// JobPosting 目标岗位
type JobPosting struct {
	JobID           string          `json:"job_id"`
	Title           string          `json:"title"`
	RequiredSkills  []string        `json:"required_skills"`
	PreferredSkills []string        `json:"preferred_skills"`
	Experience      ExperienceRange `json:"experience"`
	// EducationRequirement 自由文本学历要求，如 "Bachelor's degree"；空串表示无要求
	EducationRequirement string       `json:"education_requirement"`
	Location             Location     `json:"location"`
	Remote               bool         `json:"remote"`
	Salary               SalaryRange  `json:"salary"`
	Description          string       `json:"description"`
	Requirements         string       `json:"requirements"`
	Organization         Organization `json:"organization"`
}

// JobFilter 岗位池查询过滤条件
type JobFilter struct {
	// JobIDs 限定的岗位ID集合，空表示全部活跃岗位
	JobIDs []string `json:"job_ids,omitempty"`
	// Industries 限定的行业集合，空表示不限
	Industries []string `json:"industries,omitempty"`
	// Limit 拉取岗位数上限，<=0表示使用存储层默认值
	Limit int `json:"limit,omitempty"`
}
