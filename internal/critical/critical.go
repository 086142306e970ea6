// Package critical caches and inlines the above-the-fold CSS/JS snippets
// extracted per page and viewport class.
//
// Keys carry only (page, viewport): entries are invalidated by an explicit
// extraction rebuild, never by the key itself. A cold cache is a frequent,
// legitimate state — the inliner injects nothing and the page renders
// normally.
package critical

import (
	"strings"

	"assetforge/internal/cache"
	"assetforge/internal/fingerprint"
)

// Cache reads and writes critical-asset entries in the shared store.
type Cache struct {
	store cache.Store
}

// NewCache creates a critical-asset cache over the store.
func NewCache(store cache.Store) *Cache {
	return &Cache{store: store}
}

// CSS returns the critical CSS for a page and viewport. Absence is a valid
// cold-cache state, not an error.
func (c *Cache) CSS(pageID int, viewport fingerprint.Viewport) ([]byte, bool) {
	return c.store.Get(fingerprint.CriticalCSSKey(pageID, viewport))
}

// SetCSS stores extracted critical CSS for a page and viewport.
func (c *Cache) SetCSS(pageID int, viewport fingerprint.Viewport, css []byte) {
	c.store.Set(fingerprint.CriticalCSSKey(pageID, viewport), css,
		[]string{cache.TagAssets, cache.TagCritical}, 0)
}

// JS returns the critical JS for a page and viewport.
func (c *Cache) JS(pageID int, viewport fingerprint.Viewport) ([]byte, bool) {
	return c.store.Get(fingerprint.CriticalJSKey(pageID, viewport))
}

// SetJS stores extracted critical JS for a page and viewport.
func (c *Cache) SetJS(pageID int, viewport fingerprint.Viewport, js []byte) {
	c.store.Set(fingerprint.CriticalJSKey(pageID, viewport), js,
		[]string{cache.TagAssets, cache.TagCritical}, 0)
}

// Flush drops every critical-asset entry. This is the explicit external
// rebuild step: the next extraction repopulates the cache.
func (c *Cache) Flush() {
	c.store.FlushByTag(cache.TagCritical)
}

// mobileMarkers are the User-Agent fragments classifying a request as the
// mobile viewport class. Coarse on purpose: mobile/desktop is the only
// distinction the cache keys carry.
var mobileMarkers = []string{"Mobile", "Android", "iPhone", "iPad"}

// ViewportFor classifies a User-Agent header into a viewport class.
func ViewportFor(userAgent string) fingerprint.Viewport {
	for _, marker := range mobileMarkers {
		if strings.Contains(userAgent, marker) {
			return fingerprint.ViewportMobile
		}
	}
	return fingerprint.ViewportDesktop
}
