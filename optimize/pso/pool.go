package pso

import "sync"

// workerPool runs indexed jobs on a fixed set of goroutines.
type workerPool struct {
	jobs chan func()
	once sync.Once
}

func newWorkerPool(workers int) *workerPool {
	p := &workerPool{jobs: make(chan func(), workers)}

	for range workers {
		go func() {
			for job := range p.jobs {
				job()
			}
		}()
	}

	return p
}

// run calls fn(i) for i in [0, n) and returns once every call has returned.
func (p *workerPool) run(n int, fn func(i int)) {
	var wg sync.WaitGroup

	wg.Add(n)

	for i := range n {
		p.jobs <- func() {
			defer wg.Done()
			fn(i)
		}
	}

	wg.Wait()
}

func (p *workerPool) close() {
	p.once.Do(func() { close(p.jobs) })
}
