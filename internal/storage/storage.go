package storage

import (
	"context"
	"fmt"

	"match-engine-go/internal/config"
	"match-engine-go/internal/logger"
)

// Storage 聚合所有持久化组件，统一初始化和关闭
type Storage struct {
	MySQL *MySQL
	Redis *Redis
}

// NewStorage 按配置初始化全部存储组件。
// 任一组件初始化失败时回滚已建立的连接并返回错误。
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config 不能为空")
	}

	s := &Storage{}

	mysqlStore, err := NewMySQL(&cfg.MySQL)
	if err != nil {
		return nil, fmt.Errorf("初始化MySQL失败: %w", err)
	}
	s.MySQL = mysqlStore
	logger.Info().Str("host", cfg.MySQL.Host).Str("database", cfg.MySQL.Database).Msg("MySQL连接已建立")

	redisStore, err := NewRedisAdapter(&cfg.Redis)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("初始化Redis失败: %w", err)
	}
	s.Redis = redisStore
	if err := s.Redis.Ping(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("redis连接检查失败: %w", err)
	}
	logger.Info().Str("address", cfg.Redis.Address).Msg("Redis连接已建立")

	return s, nil
}

// Close 依次关闭全部存储组件，记录但不中断于单个失败
func (s *Storage) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭MySQL连接失败")
		}
	}
}
