package render

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// workerPool runs closures on a fixed set of goroutines.
//
// Each worker owns a queue and steals from the other queues when its own is
// empty, which balances blocks that take uneven time to mesh.
//
// workerPool is safe for concurrent use.
type workerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// workQueues holds per-worker work queues.
	// Each worker primarily pulls from its own queue but can steal from others.
	workQueues []chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// newWorkerPool starts a pool of workers goroutines.
// If workers is 0 or negative GOMAXPROCS is used.
func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	// A few queued blocks per worker keep workers busy between steals.
	queueSize := max(workers*4, 8)
	p := &workerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

// worker runs work from its own queue, stealing from others when it is empty.
func (p *workerPool) worker(id int) {
	defer p.wg.Done()
	myQueue := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drainQueue(myQueue)
			return
		case work := <-myQueue:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			// Nothing to steal, block on own queue.
			select {
			case <-p.done:
				p.drainQueue(myQueue)
				return
			case work := <-myQueue:
				work()
			}
		}
	}
}

// drainQueue runs the work left in queue without blocking.
func (p *workerPool) drainQueue(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

// steal takes work from another worker's queue. Returns nil if all are empty.
func (p *workerPool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// executeAll distributes work round-robin across workers and blocks until
// every item has run. It is a no-op on a closed pool.
func (p *workerPool) executeAll(work []func()) {
	if len(work) == 0 || !p.running.Load() {
		return
	}
	var completion sync.WaitGroup
	completion.Add(len(work))
	for i, fn := range work {
		wrapped := func() {
			defer completion.Done()
			fn()
		}
		select {
		case p.workQueues[i%p.workers] <- wrapped:
		case <-p.done:
			completion.Done()
		}
	}
	completion.Wait()
}

// close stops the workers after their queued work completes.
// close is safe to call multiple times.
func (p *workerPool) close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}
