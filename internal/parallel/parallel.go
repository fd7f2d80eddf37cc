// Package parallel splits element-wise loops over tensor buffers across
// goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how a loop is split.
type Config struct {
	Enabled      bool // Whether loops may run on more than one goroutine.
	NumWorkers   int  // Upper bound on goroutines per loop.
	MinChunkSize int  // Minimum elements per goroutine.
}

// DefaultConfig returns a config sized to the CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096,
	}
}

// Chunks calls f once per contiguous range [start, end) covering [0, n).
// Ranges run concurrently when cfg allows it and n is large enough;
// otherwise f is called once with the whole range.
func Chunks(n int, cfg Config, f func(start, end int)) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2*cfg.MinChunkSize {
		f(0, n)
		return
	}

	size := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)
	var wg sync.WaitGroup
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(start, end)
		}()
	}
	wg.Wait()
}

// Fill sets out[i] = f(i) for every index of out.
func Fill[T any](out []T, cfg Config, f func(i int) T) {
	Chunks(len(out), cfg, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = f(i)
		}
	})
}
