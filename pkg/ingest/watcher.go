package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/casevault/casevault/pkg/telemetry"
)

// settleDelay gives writers a moment to finish before a new manifest
// is read.
const settleDelay = 100 * time.Millisecond

// Watcher ingests manifests from an uploads directory: existing files
// on startup, new files as they are created. It runs until its context
// is cancelled.
type Watcher struct {
	dir      string
	ingestor *Ingestor
	logger   *telemetry.Logger
	metrics  *telemetry.Metrics

	mu        sync.Mutex
	processed map[string]bool
}

// NewWatcher creates a watcher over dir. Metrics may be nil when
// telemetry is disabled.
func NewWatcher(dir string, ingestor *Ingestor, logger *telemetry.Logger, metrics *telemetry.Metrics) (*Watcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("uploads directory is required")
	}
	if logger == nil {
		logger = telemetry.FromContext(context.Background())
	}
	if metrics == nil {
		metrics = &telemetry.Metrics{}
	}
	return &Watcher{
		dir:       dir,
		ingestor:  ingestor,
		logger:    logger.NewComponentLogger("watcher"),
		metrics:   metrics,
		processed: make(map[string]bool),
	}, nil
}

// Run watches the uploads directory until ctx is cancelled. Ingest
// failures are logged and counted; they do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.logger.Infof("watching %s for manifests", w.dir)

	// Pick up manifests that arrived before the watch started.
	if err := w.scanExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopping")
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !SupportedManifest(event.Name) {
				continue
			}
			w.metrics.RecordWatcherEvent(event.Op.String())
			w.handle(ctx, event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("watcher error")
		}
	}
}

// scanExisting ingests manifests already present in the directory.
func (w *Watcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if !SupportedManifest(path) {
			continue
		}
		w.handle(ctx, path)
	}
	return nil
}

// handle ingests one manifest path at most once.
func (w *Watcher) handle(ctx context.Context, path string) {
	w.mu.Lock()
	if w.processed[path] {
		w.mu.Unlock()
		return
	}
	w.processed[path] = true
	w.mu.Unlock()

	// Let the writer finish before reading.
	select {
	case <-time.After(settleDelay):
	case <-ctx.Done():
		return
	}

	if _, err := w.ingestor.IngestFile(ctx, path); err != nil {
		w.logger.WithError(err).Errorf("failed to ingest %s", path)
	}
}
