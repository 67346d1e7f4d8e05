package engine

import "time"

// Option MatchEngine 的配置选项
type Option func(*MatchEngine)

// WithTextAnalyzer 设置外部文本分析能力；nil表示始终走中性默认
func WithTextAnalyzer(analyzer TextAnalyzer) Option {
	return func(e *MatchEngine) {
		e.analyzer = analyzer
	}
}

// WithMarketData 设置市场数据提供方；nil表示三个信号全部取中性常量
func WithMarketData(provider MarketDataProvider) Option {
	return func(e *MatchEngine) {
		e.market = provider
	}
}

// WithCache 设置结果缓存；nil表示每次请求全量重算
func WithCache(cache Cache) Option {
	return func(e *MatchEngine) {
		e.cache = cache
	}
}

// WithSnapshotSink 设置匹配快照落库出口；nil表示不落库
func WithSnapshotSink(sink SnapshotSink) Option {
	return func(e *MatchEngine) {
		e.snapshots = sink
	}
}

// WithScoringWorkers 设置岗位打分并发上限
func WithScoringWorkers(workers int) Option {
	return func(e *MatchEngine) {
		if workers > 0 {
			e.scoringWorkers = workers
		}
	}
}

// WithMarketTimeout 设置市场数据单次查询的超时
func WithMarketTimeout(timeout time.Duration) Option {
	return func(e *MatchEngine) {
		if timeout > 0 {
			e.marketTimeout = timeout
		}
	}
}

// WithEngineVersion 覆盖写入快照的引擎版本号
func WithEngineVersion(version string) Option {
	return func(e *MatchEngine) {
		if version != "" {
			e.version = version
		}
	}
}
