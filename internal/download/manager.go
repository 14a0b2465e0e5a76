package download

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/handiism/synset-downloader/internal/config"
	"github.com/handiism/synset-downloader/internal/http"
	"github.com/handiism/synset-downloader/internal/imagenet"
	ioutils "github.com/handiism/synset-downloader/internal/io"
	"github.com/handiism/synset-downloader/internal/model"
	"github.com/handiism/synset-downloader/internal/queue"
)

// CategoryInfo summarizes a category scheduled for download.
type CategoryInfo struct {
	Category model.Category
	URLs     int
}

// Manager coordinates a download run.
//
// Initialize builds the worklist, drops categories already on disk, resolves
// URLs and creates the category directories. StartDownloads then runs the
// worker pool over the resulting work items while the calling goroutine
// observes progress.
type Manager struct {
	settings *config.Settings
	runID    string

	resolver  *imagenet.Resolver
	fetcher   Fetcher
	decoder   Decoder
	persister Persister
	display   Display

	categories []CategoryInfo
	skipped    []model.Category
	items      []model.WorkItem

	stats   *Stats
	signals *Signals

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new download Manager. onProgress receives log events
// and may be called from several goroutines at once.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	lookupClient := http.NewClient(http.Options{
		Timeout:   settings.LookupTimeoutDuration(),
		UserAgent: settings.UserAgent,
	})
	fetchClient := http.NewClient(http.Options{
		Timeout:             settings.FetchTimeoutDuration(),
		MaxIdleConnsPerHost: settings.Workers,
		UserAgent:           settings.UserAgent,
	})
	images := ioutils.NewImageService(settings.JPEGQuality)

	m := &Manager{
		settings:   settings,
		runID:      uuid.NewString(),
		fetcher:    NewHTTPFetcher(fetchClient),
		decoder:    images,
		persister:  NewFilePersister(settings.OutputDir, images, settings.MaxImageSize),
		stats:      &Stats{},
		signals:    NewSignals(),
		onProgress: onProgress,
	}

	m.resolver = imagenet.NewResolver(lookupClient, imagenet.Options{
		LookupURL:     settings.LookupURL,
		MaxRetries:    settings.LookupMaxRetries,
		RetryCooldown: settings.LookupRetryCooldownDuration(),
		OnRetry: func(category model.Category, attempt int, err error) {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Could not access urls for synset %s (attempt %d/%d): %v", category, attempt, settings.LookupMaxRetries, err),
				Level:   LevelWarning,
			})
		},
	})

	return m
}

// UseFetcher replaces the HTTP fetcher.
func (m *Manager) UseFetcher(f Fetcher) {
	m.fetcher = f
}

// UseDecoder replaces the image decoder.
func (m *Manager) UseDecoder(d Decoder) {
	m.decoder = d
}

// UsePersister replaces the file persister.
func (m *Manager) UsePersister(p Persister) {
	m.persister = p
}

// SetDisplay sets the progress display driven by StartDownloads.
func (m *Manager) SetDisplay(d Display) {
	m.display = d
}

// RunID returns the unique id of this run.
func (m *Manager) RunID() string {
	return m.runID
}

// Initialize prepares the work items.
//
// When categories is empty the worklist comes from the settings: the
// configured category list if any, otherwise the agenda file. Categories
// whose directory already holds data are skipped, as are categories whose
// directory path is taken by a file. A category whose URLs cannot be
// resolved is kept with an empty list.
func (m *Manager) Initialize(ctx context.Context, categories []model.Category) error {
	if len(categories) == 0 {
		var err error
		categories, err = imagenet.SelectCategories(m.settings.AgendaFile, m.settings.CategoryOverride())
		if err != nil {
			return err
		}
	}

	filtered, err := ioutils.FilterDownloaded(m.settings.OutputDir, categories)
	if err != nil {
		return err
	}
	for _, category := range filtered.Downloaded {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s: already downloaded", category), Level: LevelVerbose})
	}
	for _, category := range filtered.Blocked {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s: %s is not a directory", category, category.Dir(m.settings.OutputDir)), Level: LevelWarning})
	}
	pending := filtered.Pending

	m.mu.Lock()
	m.skipped = filtered.Downloaded
	m.categories = nil
	m.items = nil
	m.mu.Unlock()

	if len(pending) == 0 {
		m.progress(ProgressEvent{Message: "No synsets to download", Level: LevelInfo})
		return nil
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Retrieving urls for %d synset(s)", len(pending)), Level: LevelInfo})

	var (
		infos []CategoryInfo
		items []model.WorkItem
	)
	for _, res := range m.resolver.ResolveAll(ctx, pending, m.settings.MaxConcurrentResolves) {
		if res.Err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error getting urls for %s: %v", res.Category, res.Err), Level: LevelWarning})
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %d images", res.Category, len(res.URLs)), Level: LevelInfo})

		infos = append(infos, CategoryInfo{Category: res.Category, URLs: len(res.URLs)})
		items = append(items, model.NewWorkItems(res.Category, res.URLs)...)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Creating download directories in %q", m.settings.OutputDir), Level: LevelVerbose})
	if err := ioutils.MakeCategoryDirs(m.settings.OutputDir, pending); err != nil {
		return err
	}

	m.mu.Lock()
	m.categories = infos
	m.items = items
	m.mu.Unlock()

	m.progress(ProgressEvent{Message: fmt.Sprintf("Total number of downloads: %d", len(items)), Level: LevelInfo})
	return nil
}

// StartDownloads runs the worker pool over the initialized work items.
//
// All items are enqueued and the queue is sealed before progress is observed
// on the calling goroutine. After the observer has seen every item start,
// StartDownloads waits for in-flight items so Stats are final. On
// cancellation it returns ctx.Err() without waiting for the workers.
func (m *Manager) StartDownloads(ctx context.Context) error {
	m.mu.RLock()
	items := m.items
	m.mu.RUnlock()

	q := queue.New()
	pool := NewPool(q, m.signals, m.fetcher, m.decoder, m.persister, m.stats, PoolOptions{
		Workers:        m.settings.Workers,
		DequeueTimeout: m.settings.DequeueTimeoutDuration(),
		OnProgress:     m.onProgress,
	})

	m.progress(ProgressEvent{Message: fmt.Sprintf("Starting %d workers", m.settings.Workers), Level: LevelVerbose})

	poolDone := make(chan error, 1)
	go func() {
		err := pool.Run(ctx)
		m.signals.Close()
		poolDone <- err
	}()

	if err := q.EnqueueAll(items); err != nil {
		return err
	}
	q.Seal()

	NewObserver(m.signals, m.display, m.settings.DequeueTimeoutDuration()).Run(ctx, len(items))

	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case err := <-poolDone:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	snap := m.stats.Snapshot()
	if snap.PersistFailed > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%d image(s) could not be written", snap.PersistFailed), Level: LevelError})
		return &PersistError{Failed: snap.PersistFailed}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %d of %d images", snap.Persisted, len(items)), Level: LevelSuccess})
	return nil
}

// PersistError is returned by StartDownloads when images were fetched and
// decoded but could not be written.
type PersistError struct {
	Failed int64
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%d image(s) could not be written", e.Failed)
}

// IsPersistError reports whether err is a *PersistError.
func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}

// GetProgress returns the number of started work items and the total.
func (m *Manager) GetProgress() (started, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.signals.Count(), len(m.items)
}

// Stats returns a snapshot of the per-item outcome counters.
func (m *Manager) Stats() StatsSnapshot {
	return m.stats.Snapshot()
}

// Categories returns the categories scheduled for download.
func (m *Manager) Categories() []CategoryInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]CategoryInfo(nil), m.categories...)
}

// Skipped returns the categories found already downloaded.
func (m *Manager) Skipped() []model.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Category(nil), m.skipped...)
}

// GetCategoryNames returns a display line per scheduled category.
func (m *Manager) GetCategoryNames() []string {
	infos := m.Categories()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = fmt.Sprintf("%s (%d images)", info.Category, info.URLs)
	}
	return names
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
