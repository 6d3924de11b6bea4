package interpret

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/maypok86/otter/v2"

	"github.com/harrison/loopscope/internal/store"
)

// defaultCacheSize bounds the in-memory classification cache.
const defaultCacheSize = 4096

// CachingInterpreter memoizes another interpreter's verdicts. Lookups
// go through a bounded in-memory cache first, then the caller-injected
// store, and only then the wrapped interpreter. Classifications are
// written back to both layers, so repeated runs over the same window
// never re-classify a pattern.
type CachingInterpreter struct {
	inner Interpreter
	cache *otter.Cache[string, Classification]
	store store.Store
}

// NewCachingInterpreter wraps inner with memoization. backing may be
// nil, in which case only the in-memory layer is used.
func NewCachingInterpreter(inner Interpreter, backing store.Store) *CachingInterpreter {
	cache := otter.Must(&otter.Options[string, Classification]{
		MaximumSize: defaultCacheSize,
	})
	return &CachingInterpreter{
		inner: inner,
		cache: cache,
		store: backing,
	}
}

// Classify implements Interpreter.
func (ci *CachingInterpreter) Classify(ctx context.Context, summary PatternSummary) (*Classification, error) {
	key := summary.CacheKey()

	if cached, ok := ci.cache.GetIfPresent(key); ok {
		result := cached
		return &result, nil
	}

	if ci.store != nil {
		data, found, err := ci.store.Get(ctx, key)
		if err == nil && found {
			var result Classification
			if err := json.Unmarshal(data, &result); err == nil && result.Label != "" {
				ci.cache.Set(key, result)
				return &result, nil
			}
		}
	}

	result, err := ci.inner.Classify(ctx, summary)
	if err != nil {
		return nil, err
	}

	ci.cache.Set(key, *result)
	if ci.store != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("marshal classification: %w", err)
		}
		// Best effort: a failed write never fails the classification.
		_ = ci.store.Put(ctx, key, data)
	}
	return result, nil
}
