package cache

import (
	"context"
	"sync"
	"time"
)

// Clock 时间源抽象，测试中可注入假时钟
type Clock func() time.Time

// entry 一条缓存记录：负载 + 写入时刻 + TTL
type entry struct {
	payload  []byte
	storedAt time.Time
	ttl      time.Duration
}

// Memory 进程内TTL缓存。
// 读写并发安全；条目写入后不可变，过期采用惰性删除。
// 适用于测试和无Redis的单机部署，接口与Redis实现一致。
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     Clock
}

// NewMemory 创建进程内缓存，使用真实时钟
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock 创建带指定时钟的进程内缓存，供测试用假时钟
func NewMemoryWithClock(clock Clock) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     clock,
	}
}

// Get 取出键对应的负载；不存在或已过期时 found=false
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	// 有效性判定: now - storedAt < ttl
	if m.now().Sub(e.storedAt) >= e.ttl {
		m.mu.Lock()
		// 二次检查，期间可能已被覆盖写
		if cur, ok := m.entries[key]; ok && cur.storedAt.Equal(e.storedAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.payload, true
}

// Set 写入键值并设定TTL；ttl<=0时不写入
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.entries[key] = entry{
		payload:  value,
		storedAt: m.now(),
		ttl:      ttl,
	}
	m.mu.Unlock()
}

// Len 返回当前条目数（含未被惰性清理的过期条目），仅用于观测
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
