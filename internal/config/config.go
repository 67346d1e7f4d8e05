package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"match-engine-go/internal/logger"
)

// EnvConfigPath 环境变量，优先于默认搜索路径
const EnvConfigPath = "MATCH_ENGINE_CONFIG"

// MySQLConfig MySQL连接配置
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// 连接池设置
	MaxOpenConns    int `yaml:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int `yaml:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime int `yaml:"conn_max_lifetime"` // 连接最大生命周期(分钟)
	LogLevel        int `yaml:"gorm_log_level"`    // GORM日志级别 1-4
	DefaultJobLimit int `yaml:"default_job_limit"` // 岗位池默认拉取上限
}

// DSN 拼接GORM使用的MySQL连接串
func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// RedisConfig Redis连接配置
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns"`
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
}

// TextAnalysisConfig 外部文本分析能力配置
type TextAnalysisConfig struct {
	// TimeoutSeconds 单次分类调用的超时；超时按"无信号"处理，不向上传播
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LLMConfig 大模型接入配置（OpenAI兼容接口）
type LLMConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
	APIURL string `yaml:"api_url"`
	// QPM 每分钟允许的模型调用数，防止打爆配额
	QPM int `yaml:"qpm"`
}

// EngineConfig 匹配引擎自身的运行参数
type EngineConfig struct {
	// ScoringWorkers 岗位打分的并发上限，防止压垮文本分析/市场数据依赖
	ScoringWorkers int `yaml:"scoring_workers"`
	// MarketTimeoutSeconds 市场数据单次查询超时
	MarketTimeoutSeconds int `yaml:"market_timeout_seconds"`
	// SnapshotEnabled 是否把匹配结果快照落库
	SnapshotEnabled bool `yaml:"snapshot_enabled"`
}

// Config 应用程序配置
type Config struct {
	MySQL        MySQLConfig        `yaml:"mysql"`
	Redis        RedisConfig        `yaml:"redis"`
	LLM          LLMConfig          `yaml:"llm"`
	TextAnalysis TextAnalysisConfig `yaml:"text_analysis"`
	Engine       EngineConfig       `yaml:"engine"`
	Logger       logger.Config      `yaml:"logger"`
}

// LoadConfig 加载YAML配置文件。
// path为空时依次尝试环境变量 MATCH_ENGINE_CONFIG、./config.yaml、./config/config.yaml。
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		for _, candidate := range []string{"config.yaml", filepath.Join("config", "config.yaml")} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path == "" {
		return nil, fmt.Errorf("未找到配置文件，请通过参数或环境变量 %s 指定", EnvConfigPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败 %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败 %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults 在反序列化之后补齐未填写的默认值
func (c *Config) applyDefaults() {
	if c.MySQL.Port == 0 {
		c.MySQL.Port = 3306
	}
	if c.MySQL.MaxOpenConns == 0 {
		c.MySQL.MaxOpenConns = 25
	}
	if c.MySQL.MaxIdleConns == 0 {
		c.MySQL.MaxIdleConns = 5
	}
	if c.MySQL.ConnMaxLifetime == 0 {
		c.MySQL.ConnMaxLifetime = 60
	}
	if c.MySQL.DefaultJobLimit == 0 {
		c.MySQL.DefaultJobLimit = 200
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = 2
	}
	if c.Redis.DialTimeoutSeconds == 0 {
		c.Redis.DialTimeoutSeconds = 5
	}
	if c.Redis.ReadTimeoutSeconds == 0 {
		c.Redis.ReadTimeoutSeconds = 3
	}
	if c.Redis.WriteTimeoutSeconds == 0 {
		c.Redis.WriteTimeoutSeconds = 3
	}
	if c.LLM.QPM == 0 {
		c.LLM.QPM = 30
	}
	if c.TextAnalysis.TimeoutSeconds == 0 {
		c.TextAnalysis.TimeoutSeconds = 10
	}
	if c.Engine.ScoringWorkers == 0 {
		c.Engine.ScoringWorkers = 8
	}
	if c.Engine.MarketTimeoutSeconds == 0 {
		c.Engine.MarketTimeoutSeconds = 5
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "json"
	}
}
