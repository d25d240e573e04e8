//go:build test

package suggest

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// typing sessions, one keystroke per entry
var typingPatterns = [][]string{
	{"w1 w2 w", "w1 w2 w3", "w1 w2 w3 ", "w1 w2 w3 w4"},
	{"w7 w", "w7 w8", "w7 w80", "w7 w80 "},
	{"w100 w200 w3", "w100 w200 w30", "w100 w200 w300 "},
	{"the", "the ", "the c", "the ca", "the cat", "the cat "},
}

func newLeakEngine(t *testing.T) *Engine {
	t.Helper()
	rng := rand.New(rand.NewSource(3))
	words := make([]string, 100000)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", rng.Intn(1000))
	}
	e, err := NewEngine(words, DefaultOptions())
	if err != nil {
		t.Fatalf("engine initialization failed: %v", err)
	}
	return e
}

func readHeap() (uint64, int) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return m.Alloc, runtime.NumGoroutine()
}

func TestMemoryLeakBasic(t *testing.T) {
	e := newLeakEngine(t)

	for _, iterations := range []int{100, 500, 1000, 2500} {
		t.Run(fmt.Sprintf("iterations_%d", iterations), func(t *testing.T) {
			baseAlloc, baseGoroutines := readHeap()

			ops := 0
			for i := 0; i < iterations; i++ {
				for _, pattern := range typingPatterns {
					for _, text := range pattern {
						buf := NewStringBuffer(text)
						_ = e.Complete([]int{buf.Len()}, buf)
						ops++
					}
				}
			}

			alloc, goroutines := readHeap()
			memDelta := int64(alloc) - int64(baseAlloc)
			memPerOp := float64(memDelta) / float64(ops)
			t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
				iterations, ops, memDelta, memPerOp, goroutines-baseGoroutines)

			if memPerOp > 1000 {
				t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
			}
			if goroutines-baseGoroutines > 2 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", goroutines-baseGoroutines)
			}
		})
	}
}

func TestMemoryLeakConcurrent(t *testing.T) {
	e := newLeakEngine(t)

	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 1000},
		{workers: 4, iterationsPerWorker: 250},
		{workers: 8, iterationsPerWorker: 125},
	}

	for _, config := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", config.workers, config.iterationsPerWorker), func(t *testing.T) {
			baseAlloc, baseGoroutines := readHeap()

			var wg sync.WaitGroup
			var ops atomic.Int64
			for w := 0; w < config.workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < config.iterationsPerWorker; i++ {
						for _, pattern := range typingPatterns {
							for _, text := range pattern {
								buf := NewStringBuffer(text)
								_ = e.Complete([]int{buf.Len()}, buf)
								ops.Add(1)
							}
						}
					}
				}()
			}
			wg.Wait()

			alloc, goroutines := readHeap()
			memDelta := int64(alloc) - int64(baseAlloc)
			memPerOp := float64(memDelta) / float64(ops.Load())
			t.Logf("workers=%d total_ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
				config.workers, ops.Load(), memDelta, memPerOp, goroutines-baseGoroutines)

			if memPerOp > 1000 {
				t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
			}
			if goroutines-baseGoroutines > 3 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", goroutines-baseGoroutines)
			}
		})
	}
}
