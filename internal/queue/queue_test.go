package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/handiism/synset-downloader/internal/model"
)

func TestQueue_FIFO(t *testing.T) {
	q := New()
	items := model.NewWorkItems("n1", []string{"a", "b", "c"})
	if err := q.EnqueueAll(items); err != nil {
		t.Fatalf("EnqueueAll: %v", err)
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}

	for i := range items {
		got, res := q.Dequeue(context.Background(), time.Second)
		if res != Received {
			t.Fatalf("Dequeue() result = %v, want received", res)
		}
		if got != items[i] {
			t.Errorf("Dequeue() = %+v, want %+v", got, items[i])
		}
	}
}

func TestQueue_EmptyIsNotAnError(t *testing.T) {
	q := New()

	start := time.Now()
	_, res := q.Dequeue(context.Background(), 50*time.Millisecond)
	if res != Empty {
		t.Fatalf("result = %v, want empty", res)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("returned after %v, expected to wait for the timeout", elapsed)
	}
}

func TestQueue_SealDrains(t *testing.T) {
	q := New()
	q.Enqueue(model.WorkItem{Category: "n1"})
	q.Seal()
	q.Seal()

	if err := q.Enqueue(model.WorkItem{}); !errors.Is(err, ErrSealed) {
		t.Errorf("Enqueue after Seal = %v, want ErrSealed", err)
	}

	if _, res := q.Dequeue(context.Background(), time.Second); res != Received {
		t.Errorf("first result = %v, want received", res)
	}
	start := time.Now()
	if _, res := q.Dequeue(context.Background(), time.Minute); res != Drained {
		t.Errorf("second result = %v, want drained", res)
	}
	if time.Since(start) > time.Second {
		t.Error("drained queue should not wait for the timeout")
	}
}

func TestQueue_SealWakesWaiters(t *testing.T) {
	q := New()

	results := make(chan Result, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, res := q.Dequeue(context.Background(), time.Minute)
			results <- res
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.Seal()

	for i := 0; i < 4; i++ {
		select {
		case res := <-results:
			if res != Drained {
				t.Errorf("result = %v, want drained", res)
			}
		case <-time.After(time.Second):
			t.Fatal("waiter was not woken by Seal")
		}
	}
}

func TestQueue_EnqueueWakesWaiter(t *testing.T) {
	q := New()

	done := make(chan model.WorkItem)
	go func() {
		item, _ := q.Dequeue(context.Background(), time.Minute)
		done <- item
	}()

	time.Sleep(20 * time.Millisecond)
	q.Enqueue(model.WorkItem{Category: "late", Index: 3})

	select {
	case item := <-done:
		if item.Category != "late" || item.Index != 3 {
			t.Errorf("got %+v", item)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by Enqueue")
	}
}

func TestQueue_Cancelled(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, res := q.Dequeue(ctx, time.Minute); res != Cancelled {
		t.Errorf("result = %v, want cancelled", res)
	}
}

func TestQueue_ExclusiveDelivery(t *testing.T) {
	const (
		total     = 5000
		consumers = 32
	)

	q := New()
	urls := make([]string, total)
	for i := range urls {
		urls[i] = "http://img.example/x.jpg"
	}

	var (
		mu   sync.Mutex
		seen = make(map[int]int, total)
		wg   sync.WaitGroup
	)
	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, res := q.Dequeue(context.Background(), time.Second)
				if res == Drained {
					return
				}
				if res != Received {
					continue
				}
				mu.Lock()
				seen[item.Index]++
				mu.Unlock()
			}
		}()
	}

	// Produce in batches while consumers run.
	items := model.NewWorkItems("n1", urls)
	for start := 0; start < total; start += 500 {
		if err := q.EnqueueAll(items[start : start+500]); err != nil {
			t.Fatalf("EnqueueAll: %v", err)
		}
	}
	q.Seal()
	wg.Wait()

	if len(seen) != total {
		t.Fatalf("delivered %d distinct items, want %d", len(seen), total)
	}
	for index, count := range seen {
		if count != 1 {
			t.Errorf("item %d delivered %d times", index, count)
		}
	}
}
