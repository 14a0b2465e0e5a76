package download

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/synset-downloader/internal/model"
	"github.com/handiism/synset-downloader/internal/queue"
)

// WorkerState is the lifecycle state of a pool worker.
type WorkerState int32

const (
	// WorkerIdle waits for a work item.
	WorkerIdle WorkerState = iota

	// WorkerRunning processes a work item.
	WorkerRunning

	// WorkerTerminated has left its loop.
	WorkerTerminated
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerRunning:
		return "running"
	case WorkerTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("WorkerState(%d)", int32(s))
	}
}

// PoolOptions configures a Pool.
type PoolOptions struct {
	// Workers is the number of concurrent workers.
	Workers int

	// DequeueTimeout bounds each wait on the queue.
	// Default: 1s
	DequeueTimeout time.Duration

	// OnProgress receives drop and failure events. It is called from worker
	// goroutines concurrently.
	OnProgress func(ProgressEvent)
}

// Pool runs a fixed number of workers over a shared queue.
//
// Each worker loops: dequeue, signal progress, fetch, decode, persist. Items
// that are redirected, fail to fetch or decode, or are not colour images are
// dropped without retry. Workers stop when the queue is sealed and drained or
// the context is done; an empty but unsealed queue keeps them waiting.
type Pool struct {
	queue     *queue.Queue
	signals   *Signals
	fetcher   Fetcher
	decoder   Decoder
	persister Persister
	stats     *Stats
	opts      PoolOptions
	states    []atomic.Int32
}

// NewPool creates a pool. stats may be nil.
func NewPool(q *queue.Queue, signals *Signals, fetcher Fetcher, decoder Decoder, persister Persister, stats *Stats, opts PoolOptions) *Pool {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.DequeueTimeout <= 0 {
		opts.DequeueTimeout = time.Second
	}
	if stats == nil {
		stats = &Stats{}
	}
	return &Pool{
		queue:     q,
		signals:   signals,
		fetcher:   fetcher,
		decoder:   decoder,
		persister: persister,
		stats:     stats,
		opts:      opts,
		states:    make([]atomic.Int32, opts.Workers),
	}
}

// Run starts the workers and blocks until all of them terminated.
func (p *Pool) Run(ctx context.Context) error {
	var g errgroup.Group
	for id := range p.opts.Workers {
		g.Go(func() error {
			p.work(ctx, id)
			return nil
		})
	}
	return g.Wait()
}

// States returns the current state of every worker.
func (p *Pool) States() []WorkerState {
	states := make([]WorkerState, len(p.states))
	for i := range p.states {
		states[i] = WorkerState(p.states[i].Load())
	}
	return states
}

// Stats returns the pool's counters.
func (p *Pool) Stats() *Stats {
	return p.stats
}

func (p *Pool) work(ctx context.Context, id int) {
	defer p.setState(id, WorkerTerminated)

	for {
		p.setState(id, WorkerIdle)

		item, res := p.queue.Dequeue(ctx, p.opts.DequeueTimeout)
		switch res {
		case queue.Empty:
			continue
		case queue.Drained, queue.Cancelled:
			return
		}

		p.setState(id, WorkerRunning)
		p.stats.Dequeued.Add(1)
		p.signals.Signal()

		p.process(ctx, item)
	}
}

func (p *Pool) process(ctx context.Context, item model.WorkItem) {
	outcome := p.fetcher.Fetch(ctx, item.URL)
	switch outcome.Kind {
	case model.OutcomeRedirected:
		p.stats.Redirected.Add(1)
		p.event(LevelVerbose, "%s/%d: redirected, dropped", item.Category, item.Index)
		return
	case model.OutcomeFailed:
		p.stats.FetchFailed.Add(1)
		p.event(LevelVerbose, "%s/%d: fetch failed (%s), dropped", item.Category, item.Index, outcome.Reason)
		return
	}

	img, err := p.decoder.Decode(outcome.Body)
	if err != nil {
		p.stats.DecodeFailed.Add(1)
		p.event(LevelVerbose, "%s/%d: not decodable, dropped", item.Category, item.Index)
		return
	}
	if !img.IsColor() {
		p.stats.NotColor.Add(1)
		p.event(LevelVerbose, "%s/%d: %d channel image, dropped", item.Category, item.Index, img.Channels)
		return
	}

	path, err := p.persister.Persist(img, item.Category, item.Index)
	if err != nil {
		p.stats.PersistFailed.Add(1)
		p.event(LevelError, "%s/%d: %v", item.Category, item.Index, err)
		return
	}

	p.stats.Persisted.Add(1)
	p.event(LevelVerbose, "Saved %s", path)
}

func (p *Pool) setState(id int, state WorkerState) {
	p.states[id].Store(int32(state))
}

func (p *Pool) event(level ProgressLevel, format string, args ...any) {
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}
