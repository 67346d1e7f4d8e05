package engine

import (
	"strings"

	"match-engine-go/internal/types"
)

// 维度得分的文档化中性值
const (
	// scoreNoRequirement 岗位未声明要求时的得分
	scoreNoRequirement = 1.0
	// scoreInsufficientSignal 双方数据不足以判断时的得分
	scoreInsufficientSignal = 0.7
)

// clamp01 把x钳制到[0,1]
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// clampRange 把x钳制到[lo,hi]
func clampRange(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

//
// 技能维度
//

// skillAliases 技能别名表：同一技能的不同写法归一到规范名
var skillAliases = map[string]string{
	"js":         "javascript",
	"ecmascript": "javascript",
	"ts":         "typescript",
	"golang":     "go",
	"py":         "python",
	"reactjs":    "react",
	"react.js":   "react",
	"nodejs":     "node.js",
	"node":       "node.js",
	"vuejs":      "vue",
	"vue.js":     "vue",
	"postgres":   "postgresql",
	"k8s":        "kubernetes",
	"tf":         "terraform",
	"ml":         "machine learning",
	"ci/cd":      "cicd",
}

// skillDomains 技能领域分组：同组技能视为语义相近，用于语义加分
var skillDomains = map[string]string{
	"javascript": "web-frontend",
	"typescript": "web-frontend",
	"react":      "web-frontend",
	"vue":        "web-frontend",
	"angular":    "web-frontend",
	"node.js":    "web-frontend",
	"html":       "web-frontend",
	"css":        "web-frontend",

	"python":           "data",
	"pandas":           "data",
	"numpy":            "data",
	"machine learning": "data",
	"spark":            "data",

	"mysql":      "database",
	"postgresql": "database",
	"sql":        "database",
	"mongodb":    "database",
	"redis":      "database",

	"docker":     "infrastructure",
	"kubernetes": "infrastructure",
	"terraform":  "infrastructure",
	"aws":        "infrastructure",
	"azure":      "infrastructure",
	"gcp":        "infrastructure",
	"cicd":       "infrastructure",

	"go":   "backend",
	"java": "backend",
	"c#":   "backend",
	"rust": "backend",
	"php":  "backend",
}

// normalizeSkill 技能归一化：小写、去空白、别名展开
func normalizeSkill(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := skillAliases[s]; ok {
		return canonical
	}
	return s
}

// expandSkill 把一个技能展开成小的等价集合（规范名 + 全部别名）
func expandSkill(s string) map[string]struct{} {
	canonical := normalizeSkill(s)
	set := map[string]struct{}{canonical: {}}
	for alias, c := range skillAliases {
		if c == canonical {
			set[alias] = struct{}{}
		}
	}
	return set
}

// levenshtein 计算两个字符串的编辑距离
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(nums ...int) int {
	m := nums[0]
	for _, n := range nums[1:] {
		if n < m {
			m = n
		}
	}
	return m
}

// stringSimilarity 归一化字符串相似度，区间[0,1]
func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

// ScoreSkills 技能维度打分。
// 分子 = 精确匹配数 + 0.5×近似匹配数(相似度>=0.8) + 语义加分(同领域，上限0.3)，
// 分母 = 岗位技能数，结果封顶1.0。岗位零技能要求时恒为1.0。
func ScoreSkills(candidate *types.CandidateProfile, job *types.JobPosting) float64 {
	jobSkills := dedupSkills(append(append([]string{}, job.RequiredSkills...), job.PreferredSkills...))
	if len(jobSkills) == 0 {
		return scoreNoRequirement
	}

	candidateSets := make([]map[string]struct{}, 0, len(candidate.Skills))
	candidateNames := make([]string, 0, len(candidate.Skills))
	for _, s := range candidate.Skills {
		n := normalizeSkill(s)
		if n == "" {
			continue
		}
		candidateSets = append(candidateSets, expandSkill(n))
		candidateNames = append(candidateNames, n)
	}

	// 语义加分仅在双方都有自由文本时启用
	textAvailable := strings.TrimSpace(candidate.Summary) != "" &&
		strings.TrimSpace(job.Description+job.Requirements) != ""

	var exact, near float64
	var semanticBonus float64
	for _, js := range jobSkills {
		jobSet := expandSkill(js)
		if intersects(jobSet, candidateSets) {
			exact++
			continue
		}
		if nearestSimilarity(js, candidateNames) >= 0.8 {
			near++
			continue
		}
		// 未命中但处于同一技能领域：语义加分，每个技能0.15，总量封顶0.3
		if textAvailable && semanticBonus < 0.3 && sharesDomain(js, candidateNames) {
			semanticBonus += 0.15
			if semanticBonus > 0.3 {
				semanticBonus = 0.3
			}
		}
	}

	score := (exact + 0.5*near + semanticBonus) / float64(len(jobSkills))
	return clamp01(score)
}

// dedupSkills 归一化并去重技能列表
func dedupSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		n := normalizeSkill(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// intersects 判断岗位技能的等价集合是否与任一候选人技能等价集合相交
func intersects(jobSet map[string]struct{}, candidateSets []map[string]struct{}) bool {
	for _, cs := range candidateSets {
		for k := range jobSet {
			if _, ok := cs[k]; ok {
				return true
			}
		}
	}
	return false
}

// nearestSimilarity 返回岗位技能与候选人技能集的最大字符串相似度
func nearestSimilarity(jobSkill string, candidateNames []string) float64 {
	best := 0.0
	for _, cn := range candidateNames {
		if sim := stringSimilarity(jobSkill, cn); sim > best {
			best = sim
		}
	}
	return best
}

// sharesDomain 判断岗位技能与任一候选人技能是否属于同一领域分组
func sharesDomain(jobSkill string, candidateNames []string) bool {
	jd, ok := skillDomains[jobSkill]
	if !ok {
		return false
	}
	for _, cn := range candidateNames {
		if cd, ok := skillDomains[cn]; ok && cd == jd {
			return true
		}
	}
	return false
}

//
// 经验维度
//

// ScoreExperience 经验维度打分。
// 区间内=1.0；低于下限每差1年扣0.2(下探到0)；超过上限每多1年扣0.05(保底0.7)。
func ScoreExperience(candidate *types.CandidateProfile, job *types.JobPosting) float64 {
	years := candidate.YearsOfExperience
	if years < 0 {
		years = 0
	}

	min, max := job.Experience.MinYears, job.Experience.MaxYears
	// 两端都缺省视为无要求
	if min <= 0 && max <= 0 {
		return scoreNoRequirement
	}
	// 畸形区间容错：只信任下限
	if min > 0 && max > 0 && min > max {
		max = 0
	}

	if min > 0 && years < min {
		deficit := min - years
		s := 1.0 - 0.2*deficit
		if s < 0 {
			s = 0
		}
		return s
	}
	if max > 0 && years > max {
		excess := years - max
		s := 1.0 - 0.05*excess
		if s < 0.7 {
			s = 0.7
		}
		return s
	}
	return 1.0
}

//
// 教育维度
//

// educationLevels 学历序数，按关键词从高到低匹配
var educationLevels = []struct {
	keywords []string
	level    int
}{
	{[]string{"doctor", "phd", "dphil"}, 6},
	{[]string{"master", "mba", "msc", "m.sc", "meng"}, 5},
	{[]string{"honour", "honors", "postgraduate"}, 4},
	{[]string{"bachelor", "degree", "bsc", "b.sc", "btech", "beng", "ba "}, 4},
	{[]string{"diploma"}, 3},
	{[]string{"certificate", "certification"}, 2},
	{[]string{"matric", "grade 12", "high school", "secondary"}, 1},
}

// educationLevelOf 把学历自由文本映射到序数；无法识别返回0
func educationLevelOf(text string) int {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return 0
	}
	for _, entry := range educationLevels {
		for _, kw := range entry.keywords {
			if strings.Contains(t, kw) {
				return entry.level
			}
		}
	}
	return 0
}

// ScoreEducation 教育维度打分。
// 岗位无要求=1.0；达标=1.0；有学历但不达标=max(0.5, 候选/要求)；无任何学历=0.3。
func ScoreEducation(candidate *types.CandidateProfile, job *types.JobPosting) float64 {
	required := educationLevelOf(job.EducationRequirement)
	if required == 0 {
		return scoreNoRequirement
	}

	highest := 0
	for _, rec := range candidate.Education {
		if lvl := educationLevelOf(rec.Qualification); lvl > highest {
			highest = lvl
		}
	}

	if highest >= required {
		return 1.0
	}
	if len(candidate.Education) == 0 {
		return 0.3
	}
	ratio := float64(highest) / float64(required)
	if ratio < 0.5 {
		return 0.5
	}
	return ratio
}

//
// 地点维度
//

// ScoreLocation 地点维度打分。
// 远程=1.0；同城=1.0；同区域异城=0.8；其余0.4。岗位未填地点视为无要求。
func ScoreLocation(candidate *types.CandidateProfile, job *types.JobPosting) float64 {
	if job.Remote {
		return 1.0
	}

	jobCity := strings.ToLower(strings.TrimSpace(job.Location.City))
	jobRegion := strings.ToLower(strings.TrimSpace(job.Location.Region))
	if jobCity == "" && jobRegion == "" {
		return scoreNoRequirement
	}

	candCity := strings.ToLower(strings.TrimSpace(candidate.Location.City))
	candRegion := strings.ToLower(strings.TrimSpace(candidate.Location.Region))
	if candCity == "" && candRegion == "" {
		return scoreInsufficientSignal
	}

	if jobCity != "" && jobCity == candCity {
		return 1.0
	}
	if jobRegion != "" && jobRegion == candRegion {
		return 0.8
	}
	return 0.4
}

//
// 薪资维度
//

// ScoreSalary 薪资维度打分，比较双方区间中位数的相对差。
// 任一侧无数据=1.0；<=10%=1.0；<=20%=0.8；<=30%=0.6；否则max(0.2, 1-相对差)。
func ScoreSalary(candidate *types.CandidateProfile, job *types.JobPosting) float64 {
	if candidate.SalaryExpectation.IsZero() || job.Salary.IsZero() {
		return scoreNoRequirement
	}

	cm := candidate.SalaryExpectation.Midpoint()
	jm := job.Salary.Midpoint()
	if cm <= 0 || jm <= 0 {
		return scoreNoRequirement
	}

	relDiff := (jm - cm) / cm
	if relDiff < 0 {
		relDiff = -relDiff
	}

	switch {
	case relDiff <= 0.10:
		return 1.0
	case relDiff <= 0.20:
		return 0.8
	case relDiff <= 0.30:
		return 0.6
	default:
		s := 1.0 - relDiff
		if s < 0.2 {
			s = 0.2
		}
		return s
	}
}

//
// 人格维度
//

// 兼容度等级：完全一致、相邻兼容、不兼容
const (
	compatExact    = 1.0
	compatNeighbor = 0.7
	compatNone     = 0.4
)

// communicationCompat 计算沟通风格与可接受集合的兼容度；空集合视为无偏好
func communicationCompat(style types.CommunicationStyle, acceptable []types.CommunicationStyle) float64 {
	if len(acceptable) == 0 {
		return compatExact
	}
	for _, a := range acceptable {
		if a == style {
			return compatExact
		}
	}
	for _, n := range types.CommunicationNeighbors(style) {
		for _, a := range acceptable {
			if a == n {
				return compatNeighbor
			}
		}
	}
	return compatNone
}

func workingCompat(pref types.WorkingPreference, acceptable []types.WorkingPreference) float64 {
	if len(acceptable) == 0 {
		return compatExact
	}
	for _, a := range acceptable {
		if a == pref {
			return compatExact
		}
	}
	for _, n := range types.WorkingNeighbors(pref) {
		for _, a := range acceptable {
			if a == n {
				return compatNeighbor
			}
		}
	}
	return compatNone
}

func problemSolvingCompat(style types.ProblemSolvingStyle, acceptable []types.ProblemSolvingStyle) float64 {
	if len(acceptable) == 0 {
		return compatExact
	}
	for _, a := range acceptable {
		if a == style {
			return compatExact
		}
	}
	for _, n := range types.ProblemSolvingNeighbors(style) {
		for _, a := range acceptable {
			if a == n {
				return compatNeighbor
			}
		}
	}
	return compatNone
}

func decisionCompat(style types.DecisionMakingStyle, acceptable []types.DecisionMakingStyle) float64 {
	if len(acceptable) == 0 {
		return compatExact
	}
	for _, a := range acceptable {
		if a == style {
			return compatExact
		}
	}
	for _, n := range types.DecisionNeighbors(style) {
		for _, a := range acceptable {
			if a == n {
				return compatNeighbor
			}
		}
	}
	return compatNone
}

// ScorePersonality 人格维度打分。
// 四个类别分别计算兼容度后加权：沟通30%、工作偏好30%、解题20%、决策20%；保底0.3。
func ScorePersonality(personality types.PersonalityVector, requirement types.TraitRequirement) float64 {
	score := 0.3*communicationCompat(personality.CommunicationStyle, requirement.CommunicationStyles) +
		0.3*workingCompat(personality.WorkingPreference, requirement.WorkingPreferences) +
		0.2*problemSolvingCompat(personality.ProblemSolving, requirement.ProblemSolving) +
		0.2*decisionCompat(personality.DecisionMaking, requirement.DecisionMaking)
	if score < 0.3 {
		score = 0.3
	}
	return clamp01(score)
}

//
// 文化契合维度
//

// OrgCulture 由行业+规模推断出的组织文化画像
type OrgCulture struct {
	Communication []types.CommunicationStyle
	Working       []types.WorkingPreference
	Decision      []types.DecisionMakingStyle
	// Volatile 高波动组织（结合低风险承受度触发风险提示）
	Volatile bool
}

// industryCultures 行业文化基线查表
var industryCultures = map[string]OrgCulture{
	"technology": {
		Communication: []types.CommunicationStyle{types.CommunicationTechnical, types.CommunicationDirect},
		Working:       []types.WorkingPreference{types.WorkingCollaborative, types.WorkingFlexible},
		Decision:      []types.DecisionMakingStyle{types.DecisionDataDriven},
	},
	"finance": {
		Communication: []types.CommunicationStyle{types.CommunicationFormal},
		Working:       []types.WorkingPreference{types.WorkingStructured},
		Decision:      []types.DecisionMakingStyle{types.DecisionDataDriven, types.DecisionConsultative},
	},
	"healthcare": {
		Communication: []types.CommunicationStyle{types.CommunicationFormal, types.CommunicationConversational},
		Working:       []types.WorkingPreference{types.WorkingStructured, types.WorkingCollaborative},
		Decision:      []types.DecisionMakingStyle{types.DecisionConsultative},
	},
	"retail": {
		Communication: []types.CommunicationStyle{types.CommunicationConversational, types.CommunicationDirect},
		Working:       []types.WorkingPreference{types.WorkingFlexible},
		Decision:      []types.DecisionMakingStyle{types.DecisionDecisive},
	},
	"manufacturing": {
		Communication: []types.CommunicationStyle{types.CommunicationDirect},
		Working:       []types.WorkingPreference{types.WorkingStructured},
		Decision:      []types.DecisionMakingStyle{types.DecisionDecisive, types.DecisionDataDriven},
	},
	"media": {
		Communication: []types.CommunicationStyle{types.CommunicationConversational},
		Working:       []types.WorkingPreference{types.WorkingCollaborative, types.WorkingFlexible},
		Decision:      []types.DecisionMakingStyle{types.DecisionIntuitive},
	},
}

// defaultCulture 行业未知时的通用文化画像（无强偏好）
var defaultCulture = OrgCulture{}

// CultureForOrg 查表推断组织文化；初创规模叠加灵活/果断并标记高波动
func CultureForOrg(org types.Organization) OrgCulture {
	culture, ok := industryCultures[strings.ToLower(strings.TrimSpace(org.Industry))]
	if !ok {
		culture = defaultCulture
	}
	switch org.Size {
	case types.OrgSizeStartup:
		culture.Volatile = true
		culture.Working = appendUniqueWorking(culture.Working, types.WorkingFlexible)
		culture.Decision = appendUniqueDecision(culture.Decision, types.DecisionDecisive)
	case types.OrgSizeEnterprise:
		culture.Working = appendUniqueWorking(culture.Working, types.WorkingStructured)
	}
	return culture
}

func appendUniqueWorking(list []types.WorkingPreference, p types.WorkingPreference) []types.WorkingPreference {
	for _, x := range list {
		if x == p {
			return list
		}
	}
	return append(list, p)
}

func appendUniqueDecision(list []types.DecisionMakingStyle, d types.DecisionMakingStyle) []types.DecisionMakingStyle {
	for _, x := range list {
		if x == d {
			return list
		}
	}
	return append(list, d)
}

// ScoreCulturalFit 文化契合维度打分。
// 权重：沟通40%、工作环境兼容30%、决策30%。
func ScoreCulturalFit(candidate *types.CandidateProfile, job *types.JobPosting) float64 {
	culture := CultureForOrg(job.Organization)
	score := 0.4*communicationCompat(candidate.Personality.CommunicationStyle, culture.Communication) +
		0.3*workingCompat(candidate.Personality.WorkingPreference, culture.Working) +
		0.3*decisionCompat(candidate.Personality.DecisionMaking, culture.Decision)
	return clamp01(score)
}

// ScoreDimensions 汇总计算全部七个维度
func ScoreDimensions(candidate *types.CandidateProfile, job *types.JobPosting, requirement types.TraitRequirement) types.DimensionScores {
	return types.DimensionScores{
		Skills:      ScoreSkills(candidate, job),
		Experience:  ScoreExperience(candidate, job),
		Education:   ScoreEducation(candidate, job),
		Location:    ScoreLocation(candidate, job),
		Salary:      ScoreSalary(candidate, job),
		Personality: ScorePersonality(candidate.Personality, requirement),
		CulturalFit: ScoreCulturalFit(candidate, job),
	}
}
