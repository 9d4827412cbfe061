package util

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Random 可注入的随机源，测试中用固定种子复现抖动与测试组规模
type Random interface {
	Float64() float64
	IntN(n int) int
}

type lockedRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandom 创建并发安全的随机源，seed 为 0 时使用当前时间
func NewRandom(seed uint64) Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRandom{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedRandom) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *lockedRandom) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Clock 当前时间来源
type Clock func() time.Time
