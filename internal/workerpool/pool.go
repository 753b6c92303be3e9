package workerpool

import "sync"

// Pool is a fixed-size worker pool shared process-wide by batch upload
// initiation. It caps the number of concurrent outstanding storage and
// repository calls regardless of how many batch requests are in flight.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

// New starts a pool of size workers pulling from a queue of queueDepth
// pending tasks. Submit blocks once the queue is full.
func New(size, queueDepth int) *Pool {
	if size < 1 {
		size = 1
	}
	if queueDepth < 0 {
		queueDepth = 0
	}
	p := &Pool{tasks: make(chan func(), queueDepth)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for fn := range p.tasks {
		fn()
	}
}

// Submit enqueues fn for execution, blocking while the queue is full.
// Submitting after Shutdown panics.
func (p *Pool) Submit(fn func()) {
	p.tasks <- fn
}

// Shutdown stops accepting work and blocks until all queued tasks have run.
func (p *Pool) Shutdown() {
	p.once.Do(func() { close(p.tasks) })
	p.wg.Wait()
}
