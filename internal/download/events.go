package download

import "sync/atomic"

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Stats counts what happened to dequeued work items. All counters are safe
// for concurrent use.
type Stats struct {
	Dequeued      atomic.Int64
	Persisted     atomic.Int64
	Redirected    atomic.Int64
	FetchFailed   atomic.Int64
	DecodeFailed  atomic.Int64
	NotColor      atomic.Int64
	PersistFailed atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Dequeued      int64
	Persisted     int64
	Redirected    int64
	FetchFailed   int64
	DecodeFailed  int64
	NotColor      int64
	PersistFailed int64
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Dequeued:      s.Dequeued.Load(),
		Persisted:     s.Persisted.Load(),
		Redirected:    s.Redirected.Load(),
		FetchFailed:   s.FetchFailed.Load(),
		DecodeFailed:  s.DecodeFailed.Load(),
		NotColor:      s.NotColor.Load(),
		PersistFailed: s.PersistFailed.Load(),
	}
}

// Dropped returns the number of items discarded without a file.
func (s StatsSnapshot) Dropped() int64 {
	return s.Redirected + s.FetchFailed + s.DecodeFailed + s.NotColor
}
