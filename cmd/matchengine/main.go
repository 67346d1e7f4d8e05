package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"match-engine-go/internal/config"
	"match-engine-go/internal/engine"
	"match-engine-go/internal/llm"
	"match-engine-go/internal/logger"
	"match-engine-go/internal/ratelimit"
	"match-engine-go/internal/storage"
	"match-engine-go/internal/textanalysis"
	"match-engine-go/internal/types"
)

func main() {
	var (
		configPath    string
		candidateID   string
		limit         int
		minScore      float64
		industries    []string
		includeGrowth bool
		migrate       bool
	)
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.StringVar(&candidateID, "candidate", "", "待匹配的候选人ID")
	pflag.IntVar(&limit, "limit", 10, "返回的推荐数量上限")
	pflag.Float64Var(&minScore, "min-score", 0, "过滤低于该综合分的结果")
	pflag.StringSliceVar(&industries, "industries", nil, "偏好行业列表")
	pflag.BoolVar(&includeGrowth, "include-growth", false, "是否纳入高成长潜力岗位")
	pflag.BoolVar(&migrate, "migrate", false, "仅执行建表迁移后退出")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logger)
	logger.Info().Msg("配置加载成功")

	// logger挂到上下文，引擎内部的降级告警通过 logger.Ctx 输出
	ctx, cancel := context.WithCancel(logger.WithContext(context.Background()))
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Warn().Msg("收到退出信号，取消进行中的匹配")
		cancel()
	}()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储失败")
	}
	defer storageManager.Close()
	logger.Info().Msg("存储服务初始化成功")

	if migrate {
		if err := storageManager.MySQL.AutoMigrate(); err != nil {
			logger.Fatal().Err(err).Msg("建表迁移失败")
		}
		logger.Info().Msg("建表迁移完成")
		return
	}

	if candidateID == "" {
		fmt.Fprintln(os.Stderr, "必须通过 --candidate 指定候选人ID")
		os.Exit(1)
	}

	options := []engine.Option{
		engine.WithMarketData(storageManager.MySQL),
		engine.WithCache(storageManager.Redis),
		engine.WithScoringWorkers(cfg.Engine.ScoringWorkers),
		engine.WithMarketTimeout(time.Duration(cfg.Engine.MarketTimeoutSeconds) * time.Second),
	}
	if cfg.Engine.SnapshotEnabled {
		options = append(options, engine.WithSnapshotSink(storageManager.MySQL))
	}

	// LLM未配置时引擎自动降级为中性特质推断
	if cfg.LLM.APIKey != "" {
		chatModel, err := llm.NewQwenChatModel(&cfg.LLM)
		if err != nil {
			logger.Fatal().Err(err).Msg("初始化LLM客户端失败")
		}
		limitedModel := ratelimit.NewRateLimitedChatModel(chatModel, cfg.LLM.QPM)
		analyzer := textanalysis.NewLLMSentimentClassifier(limitedModel, &cfg.TextAnalysis)
		options = append(options, engine.WithTextAnalyzer(analyzer))
		logger.Info().Int("qpm", cfg.LLM.QPM).Msg("文本分析能力已启用")
	} else {
		logger.Warn().Msg("未配置LLM API密钥，特质推断将使用中性默认值")
	}

	matchEngine, err := engine.NewMatchEngine(storageManager.MySQL, storageManager.MySQL, options...)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化匹配引擎失败")
	}

	results, err := matchEngine.GetRecommendations(ctx, candidateID, types.RecommendOptions{
		Limit:               limit,
		MinScore:            minScore,
		IncludeGrowthJobs:   includeGrowth,
		PreferredIndustries: industries,
	})
	if err != nil {
		logger.Fatal().Err(err).Str("candidate_id", candidateID).Msg("获取岗位推荐失败")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		logger.Fatal().Err(err).Msg("输出推荐结果失败")
	}
	logger.Info().Int("count", len(results)).Str("candidate_id", candidateID).Msg("岗位推荐完成")
}
