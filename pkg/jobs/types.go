package jobs

import (
	"context"
	"math"
	"sync/atomic"
)

// Work is a long-running unit executed off the request path. It reports its
// completion fraction through the supplied Progress.
type Work[T any] func(ctx context.Context, p *Progress) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

// Progress is a lock-free completion fraction in [0, 1], written by the
// worker and read by pollers.
type Progress struct {
	bits atomic.Uint64
}

func (p *Progress) Set(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	p.bits.Store(math.Float64bits(fraction))
}

func (p *Progress) Get() float64 {
	return math.Float64frombits(p.bits.Load())
}

// Handle is the caller's side of a submitted job: a result channel, a
// cancellation hook and the live progress fraction.
type Handle[T any] struct {
	result   chan Result[T]
	cancel   context.CancelFunc
	progress *Progress
}

func newHandle[T any](result chan Result[T], cancel context.CancelFunc, progress *Progress) *Handle[T] {
	return &Handle[T]{
		result:   result,
		cancel:   cancel,
		progress: progress,
	}
}

func (h *Handle[T]) C() chan Result[T] {
	return h.result
}

func (h *Handle[T]) Progress() float64 {
	return h.progress.Get()
}

func (h *Handle[T]) Stop() {
	h.cancel()
}
