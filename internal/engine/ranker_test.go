package engine

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"match-engine-go/internal/types"
)

func resultWith(jobID, org, industry string, overall, probability, growth float64) *types.MatchResult {
	return &types.MatchResult{
		JobID:              jobID,
		OrgName:            org,
		Industry:           industry,
		OverallScore:       overall,
		SuccessProbability: probability,
		GrowthPotential:    growth,
	}
}

// TestRankResultsByScore 验证分差超过容差时严格按综合分降序
func TestRankResultsByScore(t *testing.T) {
	results := []*types.MatchResult{
		resultWith("job-a", "OrgA", "technology", 0.50, 0.5, 0.5),
		resultWith("job-b", "OrgB", "finance", 0.90, 0.5, 0.5),
		resultWith("job-c", "OrgC", "retail", 0.70, 0.5, 0.5),
	}

	RankResults(results, nil)

	assert.Equal(t, "job-b", results[0].JobID, "最高分应排第一")
	assert.Equal(t, "job-c", results[1].JobID, "次高分应排第二")
	assert.Equal(t, "job-a", results[2].JobID, "最低分应排最后")
}

// TestRankResultsTieBreaksByPreferredIndustry 验证0.1容差内偏好行业优先
func TestRankResultsTieBreaksByPreferredIndustry(t *testing.T) {
	results := []*types.MatchResult{
		resultWith("job-a", "OrgA", "finance", 0.82, 0.5, 0.5),
		resultWith("job-b", "OrgB", "technology", 0.78, 0.5, 0.5),
	}

	RankResults(results, []string{"Technology"})

	assert.Equal(t, "job-b", results[0].JobID, "同档分数内偏好行业应排前")
}

// TestRankResultsTieBreaksByProbabilityAndGrowth 验证次级排序键依次生效
func TestRankResultsTieBreaksByProbabilityAndGrowth(t *testing.T) {
	results := []*types.MatchResult{
		resultWith("job-a", "OrgA", "technology", 0.80, 0.55, 0.9),
		resultWith("job-b", "OrgB", "technology", 0.78, 0.70, 0.2),
		resultWith("job-c", "OrgC", "technology", 0.76, 0.55, 0.5),
	}

	RankResults(results, nil)

	assert.Equal(t, "job-b", results[0].JobID, "同档内成功概率高者应排前")
	assert.Equal(t, "job-a", results[1].JobID, "概率再平时成长潜力高者应排前")
	assert.Equal(t, "job-c", results[2].JobID, "全部次级键都较低者应排最后")
}

// TestRankResultsDeterministic 验证同样输入的两次排序产出完全一致的顺序
func TestRankResultsDeterministic(t *testing.T) {
	build := func() []*types.MatchResult {
		out := make([]*types.MatchResult, 0, 20)
		for i := 0; i < 20; i++ {
			out = append(out, resultWith(
				fmt.Sprintf("job-%02d", i),
				fmt.Sprintf("Org%d", i%5),
				"technology",
				0.75, // 全部同分，只靠次级键与JobID定序
				0.5,
				0.5,
			))
		}
		return out
	}

	a, b := build(), build()
	RankResults(a, nil)
	RankResults(b, nil)

	for i := range a {
		require.Equal(t, a[i].JobID, b[i].JobID, "第%d位的排序结果应完全一致", i)
	}
}

// TestFilterByScore 验证最低分过滤与成长岗位放行
func TestFilterByScore(t *testing.T) {
	results := []*types.MatchResult{
		resultWith("job-a", "OrgA", "technology", 0.80, 0.5, 0.5),
		resultWith("job-b", "OrgB", "technology", 0.60, 0.5, 0.9),
		resultWith("job-c", "OrgC", "technology", 0.40, 0.5, 0.9),
		resultWith("job-d", "OrgD", "technology", 0.60, 0.5, 0.3),
	}

	t.Run("纯分数过滤", func(t *testing.T) {
		filtered := FilterByScore(results, types.RecommendOptions{MinScore: 0.7})
		require.Len(t, filtered, 1, "只有job-a高于0.7")
		assert.Equal(t, "job-a", filtered[0].JobID)
	})

	t.Run("放行高成长岗位", func(t *testing.T) {
		filtered := FilterByScore(results, types.RecommendOptions{MinScore: 0.7, IncludeGrowthJobs: true})
		require.Len(t, filtered, 2, "高成长的job-b应在0.15宽限内被放行")
		assert.Equal(t, "job-a", filtered[0].JobID)
		assert.Equal(t, "job-b", filtered[1].JobID)
	})

	t.Run("宽限之外不放行", func(t *testing.T) {
		filtered := FilterByScore(results, types.RecommendOptions{MinScore: 0.7, IncludeGrowthJobs: true})
		for _, r := range filtered {
			assert.NotEqual(t, "job-c", r.JobID, "低于宽限下界的岗位不应被放行")
		}
	})

	t.Run("低成长不放行", func(t *testing.T) {
		filtered := FilterByScore(results, types.RecommendOptions{MinScore: 0.7, IncludeGrowthJobs: true})
		for _, r := range filtered {
			assert.NotEqual(t, "job-d", r.JobID, "成长潜力不足的岗位不应被放行")
		}
	})
}

// TestDiversifySingleOrgBound 验证单一组织在结果中的占比受多样化约束。
// 前10名全部来自同一组织时，限额10的输出中该组织最多出现 限额-⌈0.7×限额⌉+1 个多样位之外的坑位，
// 其余组织/行业的条目应被提前拉入。
func TestDiversifySingleOrgBound(t *testing.T) {
	results := make([]*types.MatchResult, 0, 30)
	// 排名前20都是MegaCorp，后10来自10家不同组织
	for i := 0; i < 20; i++ {
		results = append(results, resultWith(fmt.Sprintf("job-%02d", i), "MegaCorp", "technology", 0.9, 0.5, 0.5))
	}
	for i := 0; i < 10; i++ {
		results = append(results, resultWith(
			fmt.Sprintf("alt-%02d", i),
			fmt.Sprintf("Org%d", i),
			fmt.Sprintf("industry-%d", i),
			0.8, 0.5, 0.5,
		))
	}

	limit := 10
	picked := Diversify(results, limit)
	require.Len(t, picked, limit, "输出数量应等于限额")

	megaCount := 0
	for _, r := range picked {
		if r.OrgName == "MegaCorp" {
			megaCount++
		}
	}
	diverseSlots := int(math.Ceil(0.7 * float64(limit)))
	maxMega := 1 + (limit - diverseSlots) // 多样化阶段只容得下1个MegaCorp，补位阶段全部可用
	assert.LessOrEqual(t, megaCount, maxMega, "单一组织不应占满推荐列表")
	assert.GreaterOrEqual(t, len(picked)-megaCount, diverseSlots-1, "多样化坑位应被其他组织填充")
}

// TestDiversifyPreservesRankOrder 验证多样化后的输出仍按原排名呈现
func TestDiversifyPreservesRankOrder(t *testing.T) {
	results := []*types.MatchResult{
		resultWith("job-a", "OrgA", "technology", 0.9, 0.5, 0.5),
		resultWith("job-b", "OrgA", "technology", 0.8, 0.5, 0.5),
		resultWith("job-c", "OrgB", "finance", 0.7, 0.5, 0.5),
		resultWith("job-d", "OrgC", "retail", 0.6, 0.5, 0.5),
	}

	picked := Diversify(results, 3)
	require.Len(t, picked, 3)

	lastIndex := -1
	for _, r := range picked {
		idx := rankIndex(results, r)
		assert.Greater(t, idx, lastIndex, "输出顺序应保持原排名单调递增")
		lastIndex = idx
	}
}

// TestDiversifySmallInput 验证输入不足限额时原样返回
func TestDiversifySmallInput(t *testing.T) {
	results := []*types.MatchResult{
		resultWith("job-a", "OrgA", "technology", 0.9, 0.5, 0.5),
	}
	assert.Len(t, Diversify(results, 10), 1, "输入少于限额时应全部返回")
	assert.Empty(t, Diversify(nil, 10), "空输入应返回空")
}
