package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/loopscope/internal/store"
)

// countingInterpreter records how many times Classify was invoked.
type countingInterpreter struct {
	calls int
	fail  bool
}

func (c *countingInterpreter) Classify(_ context.Context, _ PatternSummary) (*Classification, error) {
	c.calls++
	if c.fail {
		return nil, fmt.Errorf("upstream unavailable")
	}
	return &Classification{Label: LabelMixed, Confidence: "low", Reasoning: "test"}, nil
}

func TestCachingInterpreterMemoizes(t *testing.T) {
	inner := &countingInterpreter{}
	ci := NewCachingInterpreter(inner, nil)
	ctx := context.Background()
	summary := PatternSummary{Kind: KindDeathLoop, Apps: []string{"a", "b"}}

	for i := 0; i < 5; i++ {
		result, err := ci.Classify(ctx, summary)
		require.NoError(t, err)
		assert.Equal(t, LabelMixed, result.Label)
	}
	assert.Equal(t, 1, inner.calls, "wrapped interpreter should be called once")
}

func TestCachingInterpreterUsesBackingStore(t *testing.T) {
	backing := store.NewMemoryStore()
	ctx := context.Background()
	summary := PatternSummary{Kind: KindDeathLoop, Apps: []string{"a", "b"}}

	// Seed the store as if a previous process classified this pattern.
	seeded, err := json.Marshal(Classification{Label: LabelProductive, Confidence: "high", Reasoning: "seeded"})
	require.NoError(t, err)
	require.NoError(t, backing.Put(ctx, summary.CacheKey(), seeded))

	inner := &countingInterpreter{}
	ci := NewCachingInterpreter(inner, backing)

	result, err := ci.Classify(ctx, summary)
	require.NoError(t, err)
	assert.Equal(t, LabelProductive, result.Label)
	assert.Equal(t, 0, inner.calls, "store hit should skip the wrapped interpreter")
}

func TestCachingInterpreterWritesThrough(t *testing.T) {
	backing := store.NewMemoryStore()
	inner := &countingInterpreter{}
	ci := NewCachingInterpreter(inner, backing)
	ctx := context.Background()
	summary := PatternSummary{Kind: KindCluster, Apps: []string{"x", "y"}}

	_, err := ci.Classify(ctx, summary)
	require.NoError(t, err)

	data, found, err := backing.Get(ctx, summary.CacheKey())
	require.NoError(t, err)
	require.True(t, found)

	var persisted Classification
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, LabelMixed, persisted.Label)
}

func TestCachingInterpreterPropagatesFailure(t *testing.T) {
	inner := &countingInterpreter{fail: true}
	ci := NewCachingInterpreter(inner, nil)

	_, err := ci.Classify(context.Background(), PatternSummary{Kind: KindDeathLoop, Apps: []string{"a", "b"}})
	require.Error(t, err)

	// Failures are not cached; the next call tries again.
	_, err = ci.Classify(context.Background(), PatternSummary{Kind: KindDeathLoop, Apps: []string{"a", "b"}})
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}
