// Package parallel runs independent index ranges on a bounded set of
// goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Maximum number of goroutines running at once.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.GOMAXPROCS(0)
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// For executes f(i) for i in [0, n), splitting the range into chunks of at
// least MinChunkSize. It falls back to a plain loop when parallelism is
// disabled or the range fits in one chunk. f must be safe to call
// concurrently for distinct i.
func For(n int, f func(i int), cfg Config) {
	minChunk := max(cfg.MinChunkSize, 1)
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2*minChunk {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, minChunk)
	var g errgroup.Group
	g.SetLimit(cfg.NumWorkers)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				f(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// ForWork is For with the chunk size derived from the cost of one item, so
// that every goroutine gets at least minWork units. Use it when items are
// large (a matrix product per batch) rather than scalar.
func ForWork(n, workPerItem, minWork int, f func(i int), cfg Config) {
	cfg.MinChunkSize = max(1, minWork/max(workPerItem, 1))
	For(n, f, cfg)
}
