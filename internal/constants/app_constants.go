package constants

import "time"

const (
	// DefaultEngineVer 当前匹配引擎算法版本，写入快照便于事后对比
	DefaultEngineVer = "1.0"

	// 缓存TTL常量，按载荷类型区分
	TraitVectorCacheTTL = 7 * 24 * time.Hour // 人格特质向量：7天
	MarketDataCacheTTL  = 4 * time.Hour      // 市场数据估计：4小时
	MatchListCacheTTL   = 2 * time.Hour      // 匹配结果列表：2小时

	// MinMeaningfulTextLength 低于该长度的自由文本不做特质推断，直接返回中性向量
	MinMeaningfulTextLength = 100

	// 外部信号不可用时的中性默认值
	NeutralCompetitionEstimate    = 0.5
	NeutralHistoricalSuccessRate  = 0.5
	NeutralOrgResponsivenessScore = 0.5

	// NeutralTraitConfidence 中性人格向量的置信度
	NeutralTraitConfidence = 0.7

	// 推断置信度的钳制区间
	TraitConfidenceFloor   = 0.3
	TraitConfidenceCeiling = 0.95

	// 成功概率的钳制区间
	SuccessProbabilityFloor   = 0.1
	SuccessProbabilityCeiling = 0.95
)
