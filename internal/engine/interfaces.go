package engine

import (
	"context"
	"time"

	"match-engine-go/internal/types"
)

//
// 存储相关接口
//

// ProfileStore 候选人档案存储接口
type ProfileStore interface {
	// GetCandidateProfile 按ID取原始候选人档案（未富化）
	GetCandidateProfile(ctx context.Context, candidateID string) (*types.CandidateProfile, error)

	// GetCandidateCV 取候选人的CV自由文本；没有时返回空串而非错误
	GetCandidateCV(ctx context.Context, candidateID string) (string, error)
}

// JobStore 岗位池存储接口
type JobStore interface {
	// GetJobs 按过滤条件取岗位池
	GetJobs(ctx context.Context, filter types.JobFilter) ([]*types.JobPosting, error)
}

//
// 外部信号接口
//

// SentimentSignal 文本分析能力返回的情感信号
type SentimentSignal struct {
	// Positive 正向情感分，区间[0,1]
	Positive float64 `json:"positive"`
	// Negative 负向情感分，区间[0,1]
	Negative float64 `json:"negative"`
	// Confidence 分类器自身置信度，区间[0,1]
	Confidence float64 `json:"confidence"`
}

// TextAnalyzer 外部情感/分类能力。实现方必须在有界超时内返回；
// 任何错误都被调用方视为"无信号"并以中性默认值降级。
type TextAnalyzer interface {
	ClassifyText(ctx context.Context, text string) (*SentimentSignal, error)
}

// MarketDataProvider 可选的市场数据提供方。
// 三个估计都不可用时，引擎替换为固定的中性常量。
type MarketDataProvider interface {
	// CompetitionEstimate 岗位的市场竞争估计，区间[0,1]
	CompetitionEstimate(ctx context.Context, candidateID, jobID string) (float64, error)

	// HistoricalSuccessRate 同类候选人投递该岗位的历史成功率估计
	HistoricalSuccessRate(ctx context.Context, candidateID, jobID string) (float64, error)

	// OrgResponsiveness 组织响应积极度估计
	OrgResponsiveness(ctx context.Context, orgID string) (float64, error)
}

//
// 缓存与落库接口
//

// Cache 注入式缓存抽象：带TTL的Get/Set。
// 实现必须并发安全；写冲突按"最后写入者获胜"容忍。
type Cache interface {
	// Get 取出键对应的JSON负载；不存在或已过期时 found=false
	Get(ctx context.Context, key string) (value []byte, found bool)

	// Set 写入键值并设定TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// SnapshotSink 匹配结果快照的落库出口；失败非致命
type SnapshotSink interface {
	// SaveMatchSnapshot 持久化一次匹配运行的紧凑快照
	SaveMatchSnapshot(ctx context.Context, runID, candidateID, engineVersion string, results []*types.MatchResult) error
}
