package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// MatchModulePrefix 匹配模块
	MatchModulePrefix = "match"
	// TraitModulePrefix 特质推断模块
	TraitModulePrefix = "trait"
	// MarketModulePrefix 市场数据模块
	MarketModulePrefix = "market"

	// EntityResult 匹配结果实体
	EntityResult = "result"
	// EntityVector 特质向量实体
	EntityVector = "vector"
	// EntityEstimate 市场估计实体
	EntityEstimate = "estimate"

	// KeyMatchResultList 候选人匹配结果列表缓存 (STRING, JSON编码)
	// 格式: app:match:result:{candidateID}:{optionsHash}
	KeyMatchResultList = AppPrefix + ":" + MatchModulePrefix + ":" + EntityResult + ":%s:%s"

	// KeyTraitVector 自由文本对应的特质向量缓存 (STRING, JSON编码)
	// 格式: app:trait:vector:{textMD5}
	KeyTraitVector = AppPrefix + ":" + TraitModulePrefix + ":" + EntityVector + ":%s"

	// KeyMarketEstimate 候选人-岗位维度的市场估计缓存 (STRING, JSON编码)
	// 格式: app:market:estimate:{candidateID}:{jobID}
	KeyMarketEstimate = AppPrefix + ":" + MarketModulePrefix + ":" + EntityEstimate + ":%s:%s"
)
