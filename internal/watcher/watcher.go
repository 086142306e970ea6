// Package watcher invalidates cached assets when their sources change on
// disk. File events are debounced so editor save bursts trigger one flush,
// not dozens.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"assetforge/internal/cache"
	"assetforge/internal/logging"
)

// tagsForExt maps source extensions to the cache tags a change
// invalidates.
var tagsForExt = map[string][]string{
	".svg":  {cache.TagSprite},
	".yaml": {cache.TagSprite},
	".yml":  {cache.TagSprite},
	".css":  {cache.TagAssets},
	".js":   {cache.TagAssets},
	".scss": {cache.TagAssets},
}

// InvalidationWatcher flushes cache tags when watched asset sources
// change.
type InvalidationWatcher struct {
	watcher  *fsnotify.Watcher
	store    cache.Store
	logger   logging.Logger
	debounce time.Duration

	mutex   sync.Mutex
	pending map[string]struct{} // tags collected during the current window
	timer   *time.Timer
}

// New creates an invalidation watcher over the store.
func New(store cache.Store, debounce time.Duration, logger logging.Logger) (*InvalidationWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &InvalidationWatcher{
		watcher:  fsw,
		store:    store,
		logger:   logger.WithComponent("watcher"),
		debounce: debounce,
		pending:  make(map[string]struct{}),
	}, nil
}

// AddRecursive watches a directory tree.
func (w *InvalidationWatcher) AddRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Start processes events until the context is cancelled.
func (w *InvalidationWatcher) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, err, "watch error")
		}
	}
}

// Stop closes the underlying watcher.
func (w *InvalidationWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *InvalidationWatcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	tags, ok := tagsForExt[strings.ToLower(filepath.Ext(event.Name))]
	if !ok {
		return
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	for _, tag := range tags {
		w.pending[tag] = struct{}{}
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flushPending(ctx) })
}

func (w *InvalidationWatcher) flushPending(ctx context.Context) {
	w.mutex.Lock()
	tags := make([]string, 0, len(w.pending))
	for tag := range w.pending {
		tags = append(tags, tag)
	}
	w.pending = make(map[string]struct{})
	w.mutex.Unlock()

	for _, tag := range tags {
		w.store.FlushByTag(tag)
		w.logger.Info(ctx, "flushed cache tag after source change", "tag", tag)
	}
}
