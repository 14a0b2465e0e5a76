package download

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/handiism/synset-downloader/internal/model"
	"github.com/handiism/synset-downloader/internal/queue"
)

// fakeFetcher answers by URL and records how many signals had been sent when
// each fetch started.
type fakeFetcher struct {
	signals  *Signals
	outcomes map[string]model.FetchOutcome

	mu          sync.Mutex
	calls       map[string]int
	signalsSeen []int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) model.FetchOutcome {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[url]++
	if f.signals != nil {
		f.signalsSeen = append(f.signalsSeen, f.signals.Count())
	}
	f.mu.Unlock()

	if outcome, ok := f.outcomes[url]; ok {
		return outcome
	}
	return model.Bytes([]byte("color"))
}

// fakeDecoder decodes "color" to an RGBA image and "gray" to a gray image.
type fakeDecoder struct{}

func (fakeDecoder) Decode(data []byte) (*model.DecodedImage, error) {
	rect := image.Rect(0, 0, 2, 2)
	switch string(data) {
	case "color":
		return model.NewDecodedImage(image.NewRGBA(rect)), nil
	case "gray":
		return model.NewDecodedImage(image.NewGray(rect)), nil
	default:
		return nil, errors.New("corrupt")
	}
}

// fakePersister records persisted items.
type fakePersister struct {
	mu    sync.Mutex
	saved map[model.WorkItem]int
	err   error
}

func (p *fakePersister) Persist(img *model.DecodedImage, category model.Category, index int) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saved == nil {
		p.saved = make(map[model.WorkItem]int)
	}
	p.saved[model.WorkItem{Category: category, Index: index}]++
	return model.DestinationPath("out", category, index), nil
}

func runPool(t *testing.T, items []model.WorkItem, workers int, fetcher *fakeFetcher, persister *fakePersister) (*Pool, *Signals) {
	t.Helper()

	q := queue.New()
	signals := NewSignals()
	if fetcher.signals == nil {
		fetcher.signals = signals
	}

	pool := NewPool(q, signals, fetcher, fakeDecoder{}, persister, nil, PoolOptions{
		Workers:        workers,
		DequeueTimeout: 50 * time.Millisecond,
	})

	done := make(chan error, 1)
	go func() { done <- pool.Run(context.Background()) }()

	if err := q.EnqueueAll(items); err != nil {
		t.Fatalf("EnqueueAll: %v", err)
	}
	q.Seal()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("pool did not terminate")
	}
	return pool, signals
}

func TestPool_ZeroItems(t *testing.T) {
	pool, signals := runPool(t, nil, 8, &fakeFetcher{}, &fakePersister{})

	if signals.Count() != 0 {
		t.Errorf("signals = %d, want 0", signals.Count())
	}
	for i, state := range pool.States() {
		if state != WorkerTerminated {
			t.Errorf("worker %d state = %v, want terminated", i, state)
		}
	}
}

func TestPool_OutcomesAndDrops(t *testing.T) {
	items := []model.WorkItem{
		{Category: "n1", Index: 0, URL: "ok"},
		{Category: "n1", Index: 1, URL: "redirect"},
		{Category: "n1", Index: 2, URL: "timeout"},
		{Category: "n1", Index: 3, URL: "corrupt"},
		{Category: "n1", Index: 4, URL: "gray"},
		{Category: "n2", Index: 0, URL: "ok2"},
	}
	fetcher := &fakeFetcher{outcomes: map[string]model.FetchOutcome{
		"redirect": model.Redirected(),
		"timeout":  model.Failed(model.ReasonTimeout, context.DeadlineExceeded),
		"corrupt":  model.Bytes([]byte("garbage")),
		"gray":     model.Bytes([]byte("gray")),
	}}
	persister := &fakePersister{}

	pool, signals := runPool(t, items, 3, fetcher, persister)

	if signals.Count() != len(items) {
		t.Errorf("signals = %d, want %d", signals.Count(), len(items))
	}

	want := map[model.WorkItem]int{
		{Category: "n1", Index: 0}: 1,
		{Category: "n2", Index: 0}: 1,
	}
	if len(persister.saved) != len(want) {
		t.Errorf("saved = %v, want %v", persister.saved, want)
	}
	for item, count := range want {
		if persister.saved[item] != count {
			t.Errorf("item %+v saved %d times, want %d", item, persister.saved[item], count)
		}
	}

	// Failed items are neither retried nor re-enqueued.
	for url, calls := range fetcher.calls {
		if calls != 1 {
			t.Errorf("%s fetched %d times, want 1", url, calls)
		}
	}

	snap := pool.Stats().Snapshot()
	if snap.Dequeued != 6 || snap.Persisted != 2 || snap.Redirected != 1 ||
		snap.FetchFailed != 1 || snap.DecodeFailed != 1 || snap.NotColor != 1 || snap.PersistFailed != 0 {
		t.Errorf("stats = %+v", snap)
	}
	if snap.Dropped() != 4 {
		t.Errorf("Dropped() = %d, want 4", snap.Dropped())
	}
}

func TestPool_SignalsBeforeFetch(t *testing.T) {
	items := model.NewWorkItems("n1", []string{"a", "b", "c", "d", "e"})
	fetcher := &fakeFetcher{}

	runPool(t, items, 1, fetcher, &fakePersister{})

	// With a single worker the i-th fetch must see exactly i+1 signals.
	if len(fetcher.signalsSeen) != len(items) {
		t.Fatalf("fetches = %d, want %d", len(fetcher.signalsSeen), len(items))
	}
	for i, seen := range fetcher.signalsSeen {
		if seen != i+1 {
			t.Errorf("fetch %d saw %d signals, want %d", i, seen, i+1)
		}
	}
}

func TestPool_ExclusiveDequeue(t *testing.T) {
	const total = 2000
	urls := make([]string, total)
	for i := range urls {
		urls[i] = "u"
	}
	items := model.NewWorkItems("n1", urls)
	persister := &fakePersister{}

	_, signals := runPool(t, items, 64, &fakeFetcher{}, persister)

	if signals.Count() != total {
		t.Errorf("signals = %d, want %d", signals.Count(), total)
	}
	if len(persister.saved) != total {
		t.Fatalf("saved %d distinct items, want %d", len(persister.saved), total)
	}
	for item, count := range persister.saved {
		if count != 1 {
			t.Errorf("item %d processed %d times", item.Index, count)
		}
	}
}

func TestPool_PersistFailureIsCounted(t *testing.T) {
	var events atomic.Int32
	q := queue.New()
	signals := NewSignals()
	pool := NewPool(q, signals, &fakeFetcher{}, fakeDecoder{}, &fakePersister{err: errors.New("disk full")}, nil, PoolOptions{
		Workers:        2,
		DequeueTimeout: 50 * time.Millisecond,
		OnProgress: func(e ProgressEvent) {
			if e.Level == LevelError {
				events.Add(1)
			}
		},
	})

	q.EnqueueAll(model.NewWorkItems("n1", []string{"a", "b", "c"}))
	q.Seal()
	if err := pool.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := pool.Stats().PersistFailed.Load(); got != 3 {
		t.Errorf("PersistFailed = %d, want 3", got)
	}
	if events.Load() != 3 {
		t.Errorf("error events = %d, want 3", events.Load())
	}
}

func TestPool_WaitsForLateWork(t *testing.T) {
	q := queue.New()
	signals := NewSignals()
	persister := &fakePersister{}
	pool := NewPool(q, signals, &fakeFetcher{}, fakeDecoder{}, persister, nil, PoolOptions{
		Workers:        4,
		DequeueTimeout: 20 * time.Millisecond,
	})

	done := make(chan struct{})
	go func() {
		pool.Run(context.Background())
		close(done)
	}()

	// Several dequeue timeouts pass before any work arrives.
	time.Sleep(100 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("pool terminated before the queue was sealed")
	default:
	}

	q.EnqueueAll(model.NewWorkItems("late", []string{"a", "b"}))
	q.Seal()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not terminate after Seal")
	}
	if len(persister.saved) != 2 {
		t.Errorf("saved = %d, want 2", len(persister.saved))
	}
}

func TestPool_Cancelled(t *testing.T) {
	q := queue.New()
	pool := NewPool(q, NewSignals(), &fakeFetcher{}, fakeDecoder{}, &fakePersister{}, nil, PoolOptions{
		Workers:        4,
		DequeueTimeout: time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not stop on cancellation")
	}
}
