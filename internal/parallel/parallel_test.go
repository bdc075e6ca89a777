package parallel

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(100), counter)
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to sequential.
	cfg := DefaultConfig()

	var counter int64
	n := cfg.MinChunkSize - 1

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestForRange_CoversEachIndexOnce(t *testing.T) {
	tests := []struct {
		name string
		n    int
		cfg  Config
	}{
		{"sequential", 10, Sequential()},
		{"parallel", 1000, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16}},
		{"uneven", 1001, Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}},
		{"empty", 0, DefaultConfig()},
		{"zero workers", 50, Config{Enabled: true, MinChunkSize: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			var mu sync.Mutex
			var chunks int
			ForRange(tt.n, func(start, end int) {
				mu.Lock()
				chunks++
				mu.Unlock()
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			}, tt.cfg)
			for i, h := range hits {
				assert.Equal(t, int32(1), h, "index %d", i)
			}
			if !tt.cfg.Enabled || tt.n == 0 {
				assert.LessOrEqual(t, chunks, 1)
			}
		})
	}
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfgSeq)
		}
	})
}
