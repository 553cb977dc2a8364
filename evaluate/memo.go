package evaluate

import (
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memo caches a strategy's forecasts by training window contents and
// horizon. Errors are not cached.
type Memo struct {
	inner  Strategy
	cache  *lru.Cache[string, []float64]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Memoize wraps s with an LRU cache holding up to size forecasts.
func Memoize(s Strategy, size int) (*Memo, error) {
	cache, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, err
	}
	return &Memo{inner: s, cache: cache}, nil
}

// Name returns the wrapped strategy's name.
func (m *Memo) Name() string { return m.inner.Name() }

// Forecast returns a cached forecast or computes and stores one.
func (m *Memo) Forecast(train []float64, h int) ([]float64, error) {
	key := windowKey(train, h)
	if f, ok := m.cache.Get(key); ok {
		m.hits.Add(1)
		return clone(f), nil
	}
	m.misses.Add(1)

	f, err := m.inner.Forecast(train, h)
	if err != nil {
		return nil, err
	}
	m.cache.Add(key, clone(f))
	return f, nil
}

// Stats returns cache hits and misses.
func (m *Memo) Stats() (hits, misses uint64) {
	return m.hits.Load(), m.misses.Load()
}

// MemoizeAll wraps every strategy with its own cache.
func MemoizeAll(strategies []Strategy, size int) ([]Strategy, error) {
	out := make([]Strategy, len(strategies))
	for i, s := range strategies {
		m, err := Memoize(s, size)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// windowKey encodes the exact bits of every value so only identical
// windows share an entry.
func windowKey(train []float64, h int) string {
	var b strings.Builder
	b.Grow(len(train)*17 + 8)
	b.WriteString(strconv.Itoa(h))
	for _, v := range train {
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
	}
	return b.String()
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
