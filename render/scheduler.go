package render

import (
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// Mode selects how extraction work is executed.
type Mode uint8

const (
	// SingleThread meshes the whole domain as one block on the calling goroutine.
	// Output is deterministic.
	SingleThread Mode = iota
	// FixedThreads meshes blocks on a pool of Config.Threads workers.
	FixedThreads
	// MaxThreads meshes blocks on a pool of GOMAXPROCS workers.
	MaxThreads
)

func (m Mode) String() string {
	switch m {
	case SingleThread:
		return "SingleThread"
	case FixedThreads:
		return "FixedThreads"
	case MaxThreads:
		return "MaxThreads"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// partition splits the domain of res cells into blocks of at most stride
// cells per axis. Blocks are disjoint and cover the domain; the last block
// along an axis may be smaller.
func partition(res, stride [3]int) []blockTask {
	nx := ceilDiv(res[0], stride[0])
	ny := ceilDiv(res[1], stride[1])
	nz := ceilDiv(res[2], stride[2])
	blocks := make([]blockTask, 0, nx*ny*nz)
	for k := 0; k < res[2]; k += stride[2] {
		for j := 0; j < res[1]; j += stride[1] {
			for i := 0; i < res[0]; i += stride[0] {
				blocks = append(blocks, blockTask{box: ibox{
					min: ivec{x: i, y: j, z: k},
					max: ivec{
						x: min(i+stride[0], res[0]),
						y: min(j+stride[1], res[1]),
						z: min(k+stride[2], res[2]),
					},
				}})
			}
		}
	}
	return blocks
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// workers returns the worker count of the configured mode.
func (cfg *Config) workers() int {
	switch cfg.Mode {
	case FixedThreads:
		return cfg.Threads
	case MaxThreads:
		return runtime.GOMAXPROCS(0)
	}
	return 1
}

// runSerial meshes the whole domain as a single block. The welding scope is
// the entire mesh.
func runSerial(cfg *Config, m *merger) error {
	bt := blockTask{box: cfg.domain()}
	bm, err := bt.safeRun(cfg, cfg.Grid)
	if err != nil {
		return err
	}
	return m.merge(bm)
}

// runParallel meshes blocks on a worker pool and merges each result as soon
// as its block completes. The first error is returned; blocks which have not
// started when an error occurs are skipped.
func runParallel(cfg *Config, blocks []blockTask, workers int, m *merger) error {
	pool := newWorkerPool(workers)
	defer pool.close()
	var (
		failed   atomic.Bool
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
		failed.Store(true)
	}
	work := make([]func(), len(blocks))
	for i := range blocks {
		bt := blocks[i]
		work[i] = func() {
			if failed.Load() {
				return
			}
			// Each block samples through its own accessor.
			bm, err := bt.safeRun(cfg, cfg.Grid)
			if err == nil {
				err = m.merge(bm)
			}
			if err != nil {
				Logger().Warn("isomesh: block failed", "min", bt.box.min, "max", bt.box.max, "err", err)
				fail(err)
			}
		}
	}
	pool.executeAll(work)
	return firstErr
}
