package service

import (
	"Foryou/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterestService_RecordCompletion(t *testing.T) {
	ctx := context.Background()
	repo := newFakeInterestRepo()
	svc := NewInterestService(repo)

	video := &model.Video{
		ID:       1,
		Category: strPtr("dance"),
		Hashtags: model.StringList{"#Fyp", "fyp", " #trend ", "#"},
	}
	require.NoError(t, svc.RecordCompletion(ctx, 7, video))

	assert.Equal(t, CategoryStep, repo.weight(7, "dance"))
	assert.Equal(t, HashtagStep, repo.weight(7, "#fyp"), "duplicate tags count once")
	assert.Equal(t, HashtagStep, repo.weight(7, "#trend"))
	assert.Len(t, repo.weights[7], 3)
}

func TestInterestService_WeightCapped(t *testing.T) {
	ctx := context.Background()
	repo := newFakeInterestRepo()
	svc := NewInterestService(repo)
	video := &model.Video{ID: 1, Category: strPtr("food")}

	for i := 0; i < 250; i++ {
		require.NoError(t, svc.RecordCompletion(ctx, 1, video))
	}
	assert.Equal(t, MaxInterestWeight, repo.weight(1, "food"))
}

func TestInterestService_NoCategory(t *testing.T) {
	ctx := context.Background()
	repo := newFakeInterestRepo()
	svc := NewInterestService(repo)

	require.NoError(t, svc.RecordCompletion(ctx, 1, &model.Video{ID: 1}))
	require.NoError(t, svc.RecordCompletion(ctx, 0, &model.Video{ID: 1, Category: strPtr("x")}))
	assert.Empty(t, repo.weights)
}

func TestInterestService_GetUserInterestsTop20(t *testing.T) {
	ctx := context.Background()
	repo := newFakeInterestRepo()
	svc := NewInterestService(repo)
	for i := 0; i < 30; i++ {
		for j := 0; j <= i; j++ {
			require.NoError(t, repo.IncrementWeight(ctx, 3, string(rune('a'+i)), 1, 100))
		}
	}

	got, err := svc.GetUserInterests(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, TopInterestsLimit)
	assert.Equal(t, 30.0, got[string(rune('a'+29))])
	_, ok := got["a"]
	assert.False(t, ok)
}

func TestInterestService_HashtagsDoNotCrowdOutCategories(t *testing.T) {
	ctx := context.Background()
	repo := newFakeInterestRepo()
	svc := NewInterestService(repo)
	for i := 0; i < 25; i++ {
		require.NoError(t, repo.IncrementWeight(ctx, 4, HashtagInterestKey(string(rune('a'+i))), 90, 100))
	}
	require.NoError(t, repo.IncrementWeight(ctx, 4, "dance", CategoryStep, MaxInterestWeight))

	got, err := svc.GetUserInterests(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"dance": CategoryStep}, got)
}
