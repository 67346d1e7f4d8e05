package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 可手动推进的测试时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestMemoryGetSet 验证基本的读写与未命中
func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, found := m.Get(ctx, "missing")
	assert.False(t, found, "不存在的键应返回未命中")

	m.Set(ctx, "k", []byte("v"), time.Minute)
	val, found := m.Get(ctx, "k")
	require.True(t, found, "写入后应命中")
	assert.Equal(t, []byte("v"), val, "读出的值应与写入一致")
}

// TestMemoryTTLExpiry 验证TTL到期后键不可见（用注入时钟推进时间）
func TestMemoryTTLExpiry(t *testing.T) {
	clock := newFakeClock()
	m := NewMemoryWithClock(clock.Now)
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), 10*time.Minute)

	clock.Advance(9 * time.Minute)
	_, found := m.Get(ctx, "k")
	assert.True(t, found, "TTL未到期时应命中")

	clock.Advance(2 * time.Minute)
	_, found = m.Get(ctx, "k")
	assert.False(t, found, "TTL到期后应未命中")
}

// TestMemoryExpiredEntryEvicted 验证过期条目在读取时被惰性清除
func TestMemoryExpiredEntryEvicted(t *testing.T) {
	clock := newFakeClock()
	m := NewMemoryWithClock(clock.Now)
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), time.Minute)
	require.Equal(t, 1, m.Len())

	clock.Advance(2 * time.Minute)
	_, found := m.Get(ctx, "k")
	require.False(t, found)
	assert.Equal(t, 0, m.Len(), "过期条目应在读取时被清除")
}

// TestMemoryOverwriteResetsTTL 验证覆盖写会重置TTL
func TestMemoryOverwriteResetsTTL(t *testing.T) {
	clock := newFakeClock()
	m := NewMemoryWithClock(clock.Now)
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v1"), 10*time.Minute)
	clock.Advance(8 * time.Minute)
	m.Set(ctx, "k", []byte("v2"), 10*time.Minute)

	clock.Advance(5 * time.Minute)
	val, found := m.Get(ctx, "k")
	require.True(t, found, "覆盖写后TTL应重新起算")
	assert.Equal(t, []byte("v2"), val, "最后写入者获胜")
}

// TestMemoryNonPositiveTTLIgnored 验证非正TTL的写入被丢弃
func TestMemoryNonPositiveTTLIgnored(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), 0)
	_, found := m.Get(ctx, "k")
	assert.False(t, found, "TTL<=0的写入应被忽略")
}

// TestMemoryConcurrentAccess 验证并发读写不丢数据不竞态
func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%8)
			m.Set(ctx, key, []byte{byte(i)}, time.Minute)
			m.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, m.Len(), "并发写入后应保留全部8个键")
}
