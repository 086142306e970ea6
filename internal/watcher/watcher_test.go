package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetforge/internal/cache"
)

func TestInvalidationWatcher_FlushesTagOnSourceChange(t *testing.T) {
	store := cache.NewMemoryStore(1 << 20)
	store.Set("sprite-key", []byte("doc"), []string{cache.TagSprite}, 0)
	store.Set("css-key", []byte("css"), []string{cache.TagAssets}, 0)

	dir := t.TempDir()

	w, err := New(store, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()
	require.NoError(t, w.AddRecursive(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "icon.svg"), []byte("<svg/>"), 0644))

	assert.Eventually(t, func() bool {
		return !store.Has("sprite-key")
	}, time.Second, 10*time.Millisecond, "svg change must flush the sprite tag")
	assert.True(t, store.Has("css-key"), "unrelated tag must survive")
}

func TestInvalidationWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	store := cache.NewMemoryStore(1 << 20)
	store.Set("sprite-key", []byte("doc"), []string{cache.TagSprite}, 0)

	dir := t.TempDir()

	w, err := New(store, 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()
	require.NoError(t, w.AddRecursive(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(100 * time.Millisecond)

	assert.True(t, store.Has("sprite-key"), "non-asset files must not invalidate anything")
}

func TestInvalidationWatcher_AddRecursiveMissingRoot(t *testing.T) {
	w, err := New(cache.NewMemoryStore(1024), time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.AddRecursive("/nonexistent/assets"))
}
