package market

import (
	"context"
	"errors"
	"sync"

	"bitebase/internal/logging"
	"bitebase/internal/metrics"
)

var (
	ErrDispatcherStopped = errors.New("analysis dispatcher stopped")
	ErrQueueFull         = errors.New("analysis queue full")
)

// Dispatcher runs queued analyses on a fixed set of worker goroutines.
type Dispatcher struct {
	mu      sync.RWMutex
	jobs    chan *MarketAnalysis
	stopped bool
	wg      sync.WaitGroup
}

func NewDispatcher(queueSize int) *Dispatcher {
	if queueSize < 0 {
		queueSize = 0
	}
	return &Dispatcher{jobs: make(chan *MarketAnalysis, queueSize)}
}

// Start launches workers that call handle for each queued analysis. ctx is
// handed to handle; it is not used to stop the workers (see Stop).
func (d *Dispatcher) Start(ctx context.Context, workers int, handle func(context.Context, *MarketAnalysis)) {
	if workers < 1 {
		workers = 1
	}
	logger := logging.For("market")

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go func(worker int) {
			defer d.wg.Done()
			for a := range d.jobs {
				metrics.AnalysisQueueDepth.Dec()
				logger.Debug().Int("worker", worker).Str("analysis_id", a.ID).Msg("picked up analysis")
				handle(ctx, a)
			}
		}(i)
	}

	logger.Info().Int("workers", workers).Int("queue", cap(d.jobs)).Msg("analysis workers started")
}

// Submit enqueues a without blocking. It returns ErrQueueFull when every
// slot is taken.
func (d *Dispatcher) Submit(ctx context.Context, a *MarketAnalysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrDispatcherStopped
	}

	select {
	case d.jobs <- a:
		metrics.AnalysisQueueDepth.Inc()
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new work, lets the workers drain the queue and waits for them.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.jobs)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
