package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		counts   Counts
		expected float64
	}{
		{name: "empty", counts: Counts{}, expected: 0},
		{name: "watch time only", counts: Counts{WatchTime: 10}, expected: 20},
		{
			name:     "all signals",
			counts:   Counts{WatchTime: 1, Likes: 1, Comments: 1, Shares: 1, Completions: 1, Views: 100},
			expected: 2 + 5 + 6 + 8 + 10,
		},
		{name: "negative counts clamp to zero", counts: Counts{WatchTime: -5, Likes: -3, Shares: 2}, expected: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Score(tt.counts), 1e-9)
		})
	}
}

func TestScore_MonotonicInEachCount(t *testing.T) {
	base := Counts{WatchTime: 30, Likes: 4, Comments: 2, Shares: 1, Completions: 3, Views: 50}
	bumps := map[string]func(c *Counts){
		"watch time":  func(c *Counts) { c.WatchTime += 0.5 },
		"likes":       func(c *Counts) { c.Likes++ },
		"comments":    func(c *Counts) { c.Comments++ },
		"shares":      func(c *Counts) { c.Shares++ },
		"completions": func(c *Counts) { c.Completions++ },
		"views":       func(c *Counts) { c.Views++ },
	}

	for name, bump := range bumps {
		t.Run(name, func(t *testing.T) {
			prev := Score(base)
			c := base
			for i := 0; i < 20; i++ {
				bump(&c)
				next := Score(c)
				assert.GreaterOrEqual(t, next, prev)
				prev = next
			}
		})
	}
}

func TestScore_DeeperEngagementWeighsMore(t *testing.T) {
	assert.Greater(t, Score(Counts{Completions: 1}), Score(Counts{Shares: 1}))
	assert.Greater(t, Score(Counts{Shares: 1}), Score(Counts{Comments: 1}))
	assert.Greater(t, Score(Counts{Comments: 1}), Score(Counts{Likes: 1}))
	assert.Greater(t, Score(Counts{Likes: 1}), Score(Counts{WatchTime: 1}))
}

func TestEngagementRatio(t *testing.T) {
	assert.Equal(t, 0.0, EngagementRatio(Counts{Likes: 10}))
	assert.InDelta(t, 0.5, EngagementRatio(Counts{Likes: 2, Comments: 2, Shares: 1, Views: 10}), 1e-9)
}
