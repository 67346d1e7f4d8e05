package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"match-engine-go/internal/constants"
	"match-engine-go/internal/logger"
	"match-engine-go/internal/types"
)

const (
	// defaultScoringWorkers 默认的岗位打分并发上限
	defaultScoringWorkers = 8
	// defaultMarketTimeout 市场数据单次查询的默认超时；引擎不允许在外部依赖上无限期阻塞
	defaultMarketTimeout = 5 * time.Second
)

// MatchEngine 候选人-岗位匹配引擎。
// 所有依赖显式注入，引擎本身无全局状态；单次请求内的打分是纯函数扇出，
// 唯一的共享可变状态是注入的缓存。
type MatchEngine struct {
	profiles ProfileStore
	jobs     JobStore

	analyzer  TextAnalyzer
	market    MarketDataProvider
	cache     Cache
	snapshots SnapshotSink

	inferrer       *TraitInferrer
	scoringWorkers int
	marketTimeout  time.Duration
	version        string
}

// NewMatchEngine 创建匹配引擎。profiles和jobs是必需依赖，其余通过Option注入。
func NewMatchEngine(profiles ProfileStore, jobs JobStore, opts ...Option) (*MatchEngine, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile store 不能为空")
	}
	if jobs == nil {
		return nil, fmt.Errorf("job store 不能为空")
	}

	e := &MatchEngine{
		profiles:       profiles,
		jobs:           jobs,
		scoringWorkers: defaultScoringWorkers,
		marketTimeout:  defaultMarketTimeout,
		version:        constants.DefaultEngineVer,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.inferrer = NewTraitInferrer(e.analyzer, e.cache)
	return e, nil
}

// CalculateMatches 计算候选人对岗位池中每个岗位的匹配结果。
// 结果按(候选人ID, 过滤条件)缓存2小时；缓存命中返回整个列表，未命中全量重算。
func (e *MatchEngine) CalculateMatches(ctx context.Context, candidateID string, filter types.JobFilter) ([]*types.MatchResult, error) {
	cacheKey := e.matchCacheKey(candidateID, filter, types.RecommendOptions{})
	if cached, ok := e.cachedResults(ctx, cacheKey); ok {
		return cached, nil
	}

	results, err := e.computeMatches(ctx, candidateID, filter, types.RecommendOptions{})
	if err != nil {
		return nil, err
	}

	e.storeResults(ctx, cacheKey, results)
	return results, nil
}

// GetRecommendations 产出排序、过滤、多样化后的最终推荐列表。
// 结果按(候选人ID, 选项)独立缓存，与CalculateMatches的缓存互不污染。
func (e *MatchEngine) GetRecommendations(ctx context.Context, candidateID string, opts types.RecommendOptions) ([]*types.MatchResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	cacheKey := e.matchCacheKey(candidateID, types.JobFilter{}, opts)
	if cached, ok := e.cachedResults(ctx, cacheKey); ok {
		return cached, nil
	}

	results, err := e.computeMatches(ctx, candidateID, types.JobFilter{}, opts)
	if err != nil {
		return nil, err
	}

	RankResults(results, opts.PreferredIndustries)
	filtered := FilterByScore(results, opts)
	final := Diversify(filtered, opts.Limit)

	e.storeResults(ctx, cacheKey, final)
	return final, nil
}

// computeMatches 富化档案、应用请求级覆盖、拉取岗位池、并发打分并收集结果
func (e *MatchEngine) computeMatches(ctx context.Context, candidateID string, filter types.JobFilter, opts types.RecommendOptions) ([]*types.MatchResult, error) {
	profile, err := e.enrichProfile(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	applyProfileOverrides(profile, opts)

	jobs, err := e.jobs.GetJobs(ctx, filter)
	if err != nil {
		return nil, NewEngineError(candidateID, "jobs", err.Error())
	}
	if len(jobs) == 0 {
		return nil, NewNoJobsError(candidateID, "岗位池为空")
	}

	// 有界并发扇出：打分无共享可变状态，收集端用互斥锁汇总
	semaphore := make(chan struct{}, e.scoringWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]*types.MatchResult, 0, len(jobs))

	for _, job := range jobs {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(job *types.JobPosting) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result, err := e.scoreJob(ctx, profile, job)
			if err != nil {
				// 单岗位失败只剔除该岗位，不让整个请求失败
				logger.Ctx(ctx).Warn().Err(err).
					Str("candidate_id", candidateID).
					Str("job_id", job.JobID).
					Msg("单岗位打分失败，已从结果中剔除")
				return
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(job)
	}
	wg.Wait()

	// 收集顺序受并发调度影响，按JobID定序保证幂等输出
	sort.Slice(results, func(i, j int) bool {
		return results[i].JobID < results[j].JobID
	})

	e.persistSnapshot(ctx, candidateID, results)
	return results, nil
}

// scoreJob 对单个岗位完成 推断->打分->合成->洞察 的完整流水线。
// 任何panic都被兜住转成ScoringFailure，维度打分自身从不panic。
func (e *MatchEngine) scoreJob(ctx context.Context, profile *types.CandidateProfile, job *types.JobPosting) (result *types.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &MatchError{
				CandidateID: profile.CandidateID,
				Op:          "score",
				BaseErr:     ErrScoringFailure,
				Detail:      fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	requirement := InferJobRequirement(job)
	dimensions := ScoreDimensions(profile, job, requirement)

	weights := WeightsForIndustry(job.Organization.Industry)
	overall := ComposeOverall(dimensions, weights)

	signals := e.marketSignals(ctx, profile.CandidateID, job)
	probability := SuccessProbability(overall, signals)

	result = &types.MatchResult{
		JobID:              job.JobID,
		JobTitle:           job.Title,
		OrgName:            job.Organization.Name,
		Industry:           job.Organization.Industry,
		OverallScore:       overall,
		SuccessProbability: probability,
		Dimensions:         dimensions,
		GrowthPotential:    EstimateGrowthPotential(profile, job),
	}
	GenerateInsights(result, profile, job)
	return result, nil
}

// enrichProfile 组装富化候选人档案：基础字段 + 特质向量 + 推导属性。
// 特质推断失败不会让请求失败，回退到文档化的中性向量。
func (e *MatchEngine) enrichProfile(ctx context.Context, candidateID string) (*types.CandidateProfile, error) {
	profile, err := e.profiles.GetCandidateProfile(ctx, candidateID)
	if err != nil {
		return nil, NewProfileNotFoundError(candidateID, err.Error())
	}
	if profile == nil {
		return nil, NewProfileNotFoundError(candidateID, "存储层返回空档案")
	}

	if profile.YearsOfExperience < 0 {
		profile.YearsOfExperience = 0
	}

	cvText, err := e.profiles.GetCandidateCV(ctx, candidateID)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("candidate_id", candidateID).Msg("读取CV文本失败，改用结构化字段合成摘要")
		cvText = ""
	}
	if strings.TrimSpace(cvText) == "" {
		cvText = SynthesizeSummary(profile)
	}
	profile.Summary = cvText

	profile.Personality = e.inferrer.Infer(ctx, cvText)
	profile.CareerStage = types.StageForYears(profile.YearsOfExperience)
	profile.LearningOrientation = LearningOrientation(cvText)
	if profile.RiskTolerance == "" {
		profile.RiskTolerance = types.RiskToleranceMedium
	}

	return profile, nil
}

// applyProfileOverrides 用请求选项覆盖档案的推导属性。
// 只影响本次请求的打分与洞察：风险承受度参与高波动组织的风险判定，
// 职业阶段覆盖由年限推导出的档位。
func applyProfileOverrides(profile *types.CandidateProfile, opts types.RecommendOptions) {
	if opts.CareerStage != "" {
		profile.CareerStage = opts.CareerStage
	}
	if opts.RiskTolerance != "" {
		profile.RiskTolerance = opts.RiskTolerance
	}
}

// SynthesizeSummary 没有CV自由文本时，从结构化字段合成一段摘要供特质推断使用
func SynthesizeSummary(profile *types.CandidateProfile) string {
	var sb strings.Builder
	if profile.Name != "" {
		sb.WriteString(profile.Name)
		sb.WriteString(" ")
	}
	fmt.Fprintf(&sb, "has %.0f years of experience. ", profile.YearsOfExperience)
	if len(profile.Skills) > 0 {
		sb.WriteString("Skills: ")
		sb.WriteString(strings.Join(profile.Skills, ", "))
		sb.WriteString(". ")
	}
	for _, rec := range profile.Education {
		fmt.Fprintf(&sb, "Studied %s at %s. ", rec.Qualification, rec.Institution)
	}
	for _, entry := range sortedIndustryYears(profile.IndustryYears) {
		fmt.Fprintf(&sb, "Worked %.0f years in %s. ", entry.Years, entry.Industry)
	}
	return sb.String()
}

type industryYears struct {
	Industry string
	Years    float64
}

// sortedIndustryYears map遍历顺序不确定，固定排序保证合成摘要可复现
func sortedIndustryYears(m map[string]float64) []industryYears {
	out := make([]industryYears, 0, len(m))
	for k, v := range m {
		out = append(out, industryYears{Industry: k, Years: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Industry < out[j].Industry })
	return out
}

// marketSignals 取三个市场信号，带4小时缓存；任何失败都降级到中性常量
func (e *MatchEngine) marketSignals(ctx context.Context, candidateID string, job *types.JobPosting) types.MarketSignals {
	signals := NeutralMarketSignals()
	if e.market == nil {
		return signals
	}

	cacheKey := fmt.Sprintf(constants.KeyMarketEstimate, candidateID, job.JobID)
	if e.cache != nil {
		if payload, found := e.cache.Get(ctx, cacheKey); found {
			var cached types.MarketSignals
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached
			}
		}
	}

	if v, err := e.fetchSignal(ctx, candidateID, "market_competition", func(c context.Context) (float64, error) {
		return e.market.CompetitionEstimate(c, candidateID, job.JobID)
	}); err == nil {
		signals.Competition = clamp01(v)
	} else {
		logger.Ctx(ctx).Warn().Err(err).Str("job_id", job.JobID).Msg("竞争度信号不可用，使用中性默认值")
	}
	if v, err := e.fetchSignal(ctx, candidateID, "market_history", func(c context.Context) (float64, error) {
		return e.market.HistoricalSuccessRate(c, candidateID, job.JobID)
	}); err == nil {
		signals.HistoricalSuccess = clamp01(v)
	} else {
		logger.Ctx(ctx).Warn().Err(err).Str("job_id", job.JobID).Msg("历史成功率信号不可用，使用中性默认值")
	}
	if v, err := e.fetchSignal(ctx, candidateID, "market_responsiveness", func(c context.Context) (float64, error) {
		return e.market.OrgResponsiveness(c, job.Organization.OrgID)
	}); err == nil {
		signals.OrgResponsiveness = clamp01(v)
	} else {
		logger.Ctx(ctx).Warn().Err(err).Str("org_id", job.Organization.OrgID).Msg("组织响应度信号不可用，使用中性默认值")
	}

	if e.cache != nil {
		if payload, err := json.Marshal(signals); err == nil {
			e.cache.Set(ctx, cacheKey, payload, constants.MarketDataCacheTTL)
		}
	}
	return signals
}

// fetchSignal 带超时地取单个市场信号，失败时包装为外部信号错误
func (e *MatchEngine) fetchSignal(ctx context.Context, candidateID, op string, fetch func(context.Context) (float64, error)) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.marketTimeout)
	defer cancel()

	v, err := fetch(ctx)
	if err != nil {
		return 0, NewExternalSignalError(candidateID, op, err.Error())
	}
	return v, nil
}

// matchCacheKey 由候选人ID和请求选项生成确定性的缓存键
func (e *MatchEngine) matchCacheKey(candidateID string, filter types.JobFilter, opts types.RecommendOptions) string {
	canonical, _ := json.Marshal(struct {
		Filter  types.JobFilter        `json:"filter"`
		Options types.RecommendOptions `json:"options"`
	}{filter, opts})
	return fmt.Sprintf(constants.KeyMatchResultList, candidateID, textMD5(string(canonical)))
}

// cachedResults 从缓存取整个结果列表
func (e *MatchEngine) cachedResults(ctx context.Context, key string) ([]*types.MatchResult, bool) {
	if e.cache == nil {
		return nil, false
	}
	payload, found := e.cache.Get(ctx, key)
	if !found {
		return nil, false
	}
	var results []*types.MatchResult
	if err := json.Unmarshal(payload, &results); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("匹配结果缓存反序列化失败，忽略缓存")
		return nil, false
	}
	return results, true
}

// storeResults 把整个结果列表写入缓存；写冲突按最后写入者获胜容忍
func (e *MatchEngine) storeResults(ctx context.Context, key string, results []*types.MatchResult) {
	if e.cache == nil {
		return
	}
	payload, err := json.Marshal(results)
	if err != nil {
		return
	}
	e.cache.Set(ctx, key, payload, constants.MatchListCacheTTL)
}

// persistSnapshot 落库一次匹配运行的快照，失败只记警告
func (e *MatchEngine) persistSnapshot(ctx context.Context, candidateID string, results []*types.MatchResult) {
	if e.snapshots == nil {
		return
	}
	runID := uuid.New().String()
	if err := e.snapshots.SaveMatchSnapshot(ctx, runID, candidateID, e.version, results); err != nil {
		logger.Ctx(ctx).Warn().Err(err).
			Str("candidate_id", candidateID).
			Str("run_id", runID).
			Msg("匹配快照落库失败")
	}
}
