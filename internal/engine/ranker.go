package engine

import (
	"math"
	"sort"
	"strings"

	"match-engine-go/internal/types"
)

// scoreTieTolerance 综合分差在该范围内视为同档，转入次级排序键
const scoreTieTolerance = 0.1

// growthScoreSlack IncludeGrowthJobs 放行的分数宽限
const growthScoreSlack = 0.15

// growthPotentialBar 放行成长型岗位所需的成长潜力下限
const growthPotentialBar = 0.7

// diversityShare 多样化阶段占目标数量的比例
const diversityShare = 0.7

// RankResults 对匹配结果排序。
// 排序键依次为：综合分(降序，0.1容差内视为同档)、偏好行业、成功概率、成长潜力；
// 最后用JobID定序，保证完全确定性。输入切片原地排序。
func RankResults(results []*types.MatchResult, preferredIndustries []string) {
	preferred := make(map[string]struct{}, len(preferredIndustries))
	for _, ind := range preferredIndustries {
		preferred[strings.ToLower(strings.TrimSpace(ind))] = struct{}{}
	}

	// 先按JobID定序，消除上游并发收集的顺序抖动
	sort.Slice(results, func(i, j int) bool {
		return results[i].JobID < results[j].JobID
	})

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if math.Abs(a.OverallScore-b.OverallScore) > scoreTieTolerance {
			return a.OverallScore > b.OverallScore
		}
		if len(preferred) > 0 {
			_, aPref := preferred[strings.ToLower(a.Industry)]
			_, bPref := preferred[strings.ToLower(b.Industry)]
			if aPref != bPref {
				return aPref
			}
		}
		if a.SuccessProbability != b.SuccessProbability {
			return a.SuccessProbability > b.SuccessProbability
		}
		if a.GrowthPotential != b.GrowthPotential {
			return a.GrowthPotential > b.GrowthPotential
		}
		return a.JobID < b.JobID
	})
}

// FilterByScore 按最低分过滤。
// IncludeGrowthJobs 为真时，低于门槛不超过0.15且成长潜力>0.7的结果同样放行。
func FilterByScore(results []*types.MatchResult, opts types.RecommendOptions) []*types.MatchResult {
	out := make([]*types.MatchResult, 0, len(results))
	for _, r := range results {
		if r.OverallScore >= opts.MinScore {
			out = append(out, r)
			continue
		}
		if opts.IncludeGrowthJobs &&
			r.OverallScore >= opts.MinScore-growthScoreSlack &&
			r.GrowthPotential > growthPotentialBar {
			out = append(out, r)
		}
	}
	return out
}

// Diversify 贪心多样化：顺着已排序的列表走，优先选取组织或行业尚未出现过的条目，
// 直到填满目标数量的70%；剩余名额不再考虑多样性，按排名补足。
func Diversify(results []*types.MatchResult, limit int) []*types.MatchResult {
	if limit <= 0 || len(results) <= 1 {
		if limit > 0 && len(results) > limit {
			return results[:limit]
		}
		return results
	}

	target := limit
	if target > len(results) {
		target = len(results)
	}
	diverseTarget := int(math.Ceil(diversityShare * float64(target)))

	picked := make([]*types.MatchResult, 0, target)
	pickedSet := make(map[string]struct{}, target)
	seenOrgs := make(map[string]struct{})
	seenIndustries := make(map[string]struct{})

	// 第一阶段：只收多样化条目
	for _, r := range results {
		if len(picked) >= diverseTarget {
			break
		}
		orgKey := strings.ToLower(r.OrgName)
		indKey := strings.ToLower(r.Industry)
		_, orgSeen := seenOrgs[orgKey]
		_, indSeen := seenIndustries[indKey]
		if orgSeen && indSeen {
			continue
		}
		picked = append(picked, r)
		pickedSet[r.JobID] = struct{}{}
		seenOrgs[orgKey] = struct{}{}
		seenIndustries[indKey] = struct{}{}
	}

	// 第二阶段：按排名补满剩余名额
	for _, r := range results {
		if len(picked) >= target {
			break
		}
		if _, ok := pickedSet[r.JobID]; ok {
			continue
		}
		picked = append(picked, r)
		pickedSet[r.JobID] = struct{}{}
	}

	// 补位阶段可能打乱了相对排名，最终输出仍按原排序呈现
	sort.SliceStable(picked, func(i, j int) bool {
		return rankIndex(results, picked[i]) < rankIndex(results, picked[j])
	})
	return picked
}

// rankIndex 返回条目在已排序全量列表中的位置
func rankIndex(sorted []*types.MatchResult, r *types.MatchResult) int {
	for i, x := range sorted {
		if x.JobID == r.JobID {
			return i
		}
	}
	return len(sorted)
}
