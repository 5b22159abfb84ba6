// ABOUTME: Memoizing wrapper around the derivation engine
// ABOUTME: Caches results by input value and collapses concurrent identical calls

package services

import (
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Simtestlab/bess-handbook/cache"
	"github.com/Simtestlab/bess-handbook/models"
)

// MemoEngine returns cached results for inputs it has already computed.
// Validation failures are never cached.
type MemoEngine struct {
	engine  Computer
	cache   *cache.Cache[models.DerivedResult]
	sfGroup singleflight.Group
}

// NewMemoEngine wraps engine with a result cache of the given TTL
func NewMemoEngine(engine Computer, ttl time.Duration) *MemoEngine {
	return &MemoEngine{
		engine: engine,
		cache:  cache.New[models.DerivedResult](ttl),
	}
}

func (m *MemoEngine) Compute(in models.DesignInput) (models.DerivedResult, error) {
	key := in.Key()
	if r, ok := m.cache.Get(key); ok {
		return r, nil
	}

	v, err, _ := m.sfGroup.Do(key, func() (interface{}, error) {
		r, err := m.engine.Compute(in)
		if err != nil {
			return nil, err
		}
		m.cache.Set(key, r)
		return r, nil
	})
	if err != nil {
		return models.DerivedResult{}, err
	}
	return v.(models.DerivedResult), nil
}

// Len reports how many results are cached
func (m *MemoEngine) Len() int {
	return m.cache.Len()
}

// Invalidate drops every cached result
func (m *MemoEngine) Invalidate() {
	m.cache.Flush()
}

// Close stops the cache cleanup goroutine
func (m *MemoEngine) Close() {
	m.cache.Stop()
}
