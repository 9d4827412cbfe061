package cache

import (
	"Foryou/internal/pkg/util"
	"sort"
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTLCache 进程内带过期时间的缓存，容量超限时按写入时间淘汰最旧的一半
type TTLCache[K comparable, V any] struct {
	mu       sync.Mutex
	items    map[K]entry[V]
	ttl      time.Duration
	capacity int
	now      util.Clock
}

func NewTTLCache[K comparable, V any](ttl time.Duration, capacity int, now util.Clock) *TTLCache[K, V] {
	if now == nil {
		now = time.Now
	}
	return &TTLCache[K, V]{
		items:    make(map[K]entry[V]),
		ttl:      ttl,
		capacity: capacity,
		now:      now,
	}
}

// Get 只返回未过期的值
func (s *TTLCache[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[key]
	if !ok || s.now().Sub(e.storedAt) > s.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (s *TTLCache[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = entry[V]{value: value, storedAt: s.now()}
}

// EvictIfOverCapacity 条目数超过容量时删除最旧的一半，返回删除数量
func (s *TTLCache[K, V]) EvictIfOverCapacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capacity <= 0 || len(s.items) <= s.capacity {
		return 0
	}

	type aged struct {
		key      K
		storedAt time.Time
	}
	all := make([]aged, 0, len(s.items))
	for k, e := range s.items {
		all = append(all, aged{key: k, storedAt: e.storedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].storedAt.Before(all[j].storedAt)
	})

	n := len(all) / 2
	for _, a := range all[:n] {
		delete(s.items, a.key)
	}
	return n
}

func (s *TTLCache[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// DeleteFunc 删除所有键满足 pred 的条目
func (s *TTLCache[K, V]) DeleteFunc(pred func(K) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k := range s.items {
		if pred(k) {
			delete(s.items, k)
			removed++
		}
	}
	return removed
}

func (s *TTLCache[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
