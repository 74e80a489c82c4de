package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	for _, cfg := range []Config{
		DefaultConfig(),
		{Enabled: true, NumWorkers: 4, MinChunkSize: 10},
		{Enabled: false},
		{Enabled: true, NumWorkers: 1},
	} {
		hits := make([]int32, 1000)
		For(len(hits), func(i int) {
			atomic.AddInt32(&hits[i], 1)
		}, cfg)
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("cfg %+v: index %d visited %d times", cfg, i, h)
			}
		}
	}
}

func TestFor_Empty(t *testing.T) {
	called := false
	For(0, func(int) { called = true }, DefaultConfig())
	assert.False(t, called)
}

func TestForWork(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8}
	var counter int64
	ForWork(16, 1000, 4000, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)
	assert.Equal(t, int64(16), counter)
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
