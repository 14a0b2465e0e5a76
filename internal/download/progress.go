package download

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Signals is the progress channel between workers and the observer.
//
// Workers call Signal once per dequeued item. A signal never blocks: the
// count is kept in a counter and the observer is poked through a channel
// with room for one pending wake-up, so a slow observer cannot stall workers
// and no signal is lost.
type Signals struct {
	count  atomic.Int64
	notify chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSignals creates an open progress channel.
func NewSignals() *Signals {
	return &Signals{
		notify: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Signal records that one work item was started.
func (s *Signals) Signal() {
	s.count.Add(1)
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Count returns the number of signals sent so far.
func (s *Signals) Count() int {
	return int(s.count.Load())
}

// Close marks that no more signals will be sent.
func (s *Signals) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Done is closed after Close.
func (s *Signals) Done() <-chan struct{} {
	return s.closed
}

// Observer consumes the progress channel and drives a Display.
type Observer struct {
	signals *Signals
	display Display
	poll    time.Duration
}

// NewObserver creates an observer. display may be nil. poll is how long the
// observer waits for a signal before re-checking for completion.
func NewObserver(signals *Signals, display Display, poll time.Duration) *Observer {
	if display == nil {
		display = nopDisplay{}
	}
	if poll <= 0 {
		poll = time.Second
	}
	return &Observer{signals: signals, display: display, poll: poll}
}

// Run reports progress against total until every expected item was started,
// the progress channel is closed, or ctx is done. It returns the number of
// signals observed.
//
// Run does not wait for work that was started but not finished: completion
// here means every item was dequeued.
func (o *Observer) Run(ctx context.Context, total int) int {
	o.display.Start(total)

	timer := time.NewTimer(o.poll)
	defer timer.Stop()

	done := 0
	for {
		if n := o.signals.Count(); n > done {
			done = n
			o.display.Advance(done, total)
		}
		if done >= total {
			break
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(o.poll)

		select {
		case <-o.signals.notify:
			continue
		case <-timer.C:
			continue
		case <-ctx.Done():
		case <-o.signals.Done():
			if n := o.signals.Count(); n > done {
				done = n
				o.display.Advance(done, total)
			}
		}
		break
	}

	o.display.Finish(done, total)
	return done
}

type nopDisplay struct{}

func (nopDisplay) Start(int)        {}
func (nopDisplay) Advance(int, int) {}
func (nopDisplay) Finish(int, int)  {}
