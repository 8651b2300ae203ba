// Package jobs runs long-lived operations, such as bulk migration and
// replica synchronization, on a bounded worker pool so they never block an
// HTTP request handler. Callers submit work and poll the returned handle.
package jobs

import (
	"context"
	"fmt"
	"sync"
)

type queue[T any] []T

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	*q = old[1:]
	return x
}

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

type workRequest struct {
	fn       Work[any]
	c        chan Result[any]
	ctx      context.Context
	progress *Progress
}

type worker struct {
	done chan any
	wg   *sync.WaitGroup
}

func (w worker) Work(r workRequest) {
	defer func() {
		if rec := recover(); rec != nil {
			r.c <- Result[any]{Err: fmt.Errorf("worker panicked: %v", rec)}
		}
		w.done <- struct{}{}
		w.wg.Done()
	}()

	v, err := r.fn(r.ctx, r.progress)
	r.progress.Set(1)
	r.c <- Result[any]{Data: v, Err: err}
}

func newWorker(done chan any, wg *sync.WaitGroup) worker {
	return worker{done: done, wg: wg}
}

// Runner owns a fixed set of workers and a FIFO of pending work. Submitted
// work queues up when all workers are busy.
type Runner struct {
	workers    *queue[worker]
	workQueue  *queue[workRequest]
	close      chan any
	done       chan any
	work       chan workRequest
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewRunner(nbWorkers int) *Runner {
	done := make(chan any, nbWorkers)
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		workers:    &queue[worker]{},
		workQueue:  &queue[workRequest]{},
		close:      make(chan any),
		done:       done,
		work:       make(chan workRequest),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	for range nbWorkers {
		r.workers.Push(newWorker(done, &r.wg))
	}
	go r.run()
	return r
}

// Submit hands work to the pool and returns the handle to poll it with.
func (r *Runner) Submit(w Work[any]) *Handle[any] {
	c := make(chan Result[any], 1)
	ctx, cancel := context.WithCancel(r.mainCtx)
	progress := &Progress{}

	select {
	case <-r.mainCtx.Done():
		// shutting down, report cancellation instead of queueing
		c <- Result[any]{Err: context.Canceled}
	case r.work <- workRequest{w, c, ctx, progress}:
	}

	return newHandle(c, cancel, progress)
}

func (r *Runner) Close() {
	r.once.Do(func() {
		r.mainCancel()
		r.close <- struct{}{}
		<-r.done
	})
}

func (r *Runner) run() {
	defer close(r.done)
	for {
		select {
		case w := <-r.work:
			r.workQueue.Push(w)
			r.dispatch()
		case <-r.done:
			r.workers.Push(newWorker(r.done, &r.wg))
			r.dispatch()
		case <-r.close:
			r.wg.Wait()
			return
		}
	}
}

// dispatch drains the work queue as far as available workers allow.
func (r *Runner) dispatch() {
	for r.workers.Len() > 0 && r.workQueue.Len() > 0 {
		req := r.workQueue.Pop()
		worker := r.workers.Pop()
		r.wg.Add(1)
		go worker.Work(req)
	}
}
