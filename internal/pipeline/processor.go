// Package pipeline turns raw CSS, JS and SCSS sources into processed,
// cached assets. Every processed result is stored under a deterministic
// fingerprint key, so recomputation is idempotent and concurrent writers
// racing on a cache entry are harmless.
package pipeline

import (
	"context"
	"os"
	"time"

	"assetforge/internal/cache"
	"assetforge/internal/errors"
	"assetforge/internal/fingerprint"
	"assetforge/internal/logging"
	"assetforge/internal/minify"
)

// Processor processes and caches text assets.
type Processor struct {
	store     cache.Store
	minifier  *minify.Minifier
	scss      minify.Compiler
	logger    logging.Logger
	collector *errors.Collector
	ttl       time.Duration
}

// NewProcessor creates a processor. The collector may be nil when nobody
// cares about the skipped-item report (request-path usage).
func NewProcessor(store cache.Store, scss minify.Compiler, logger logging.Logger, collector *errors.Collector) *Processor {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if scss == nil {
		scss = minify.PassthroughCompiler{}
	}
	return &Processor{
		store:     store,
		minifier:  minify.New(),
		scss:      scss,
		logger:    logger.WithComponent("pipeline"),
		collector: collector,
	}
}

// SetTTL sets the cache lifetime for processed assets. Zero keeps entries
// until flushed.
func (p *Processor) SetTTL(ttl time.Duration) {
	p.ttl = ttl
}

// CSS returns the processed form of a CSS asset, from cache when possible.
// A minification failure degrades to the raw source; it never fails the
// request.
func (p *Processor) CSS(ctx context.Context, identifier string, src []byte, minified bool) []byte {
	key := fingerprint.CSSKey(identifier, minified)
	if cached, found := p.store.Get(key); found {
		return cached
	}

	out := src
	if minified {
		m, err := p.minifier.CSS(src)
		if err != nil {
			p.logger.Warn(ctx, err, "CSS minification failed, serving raw source", "asset", identifier)
			p.record(identifier, "", "minification failed: "+err.Error())
		} else {
			out = m
		}
	}

	p.store.Set(key, out, []string{cache.TagAssets}, p.ttl)
	return out
}

// JS returns the processed form of a JS asset, from cache when possible.
func (p *Processor) JS(ctx context.Context, identifier string, src []byte, minified bool) []byte {
	key := fingerprint.JSKey(identifier, minified)
	if cached, found := p.store.Get(key); found {
		return cached
	}

	out := src
	if minified {
		m, err := p.minifier.JS(src)
		if err != nil {
			p.logger.Warn(ctx, err, "JS minification failed, serving raw source", "asset", identifier)
			p.record(identifier, "", "minification failed: "+err.Error())
		} else {
			out = m
		}
	}

	p.store.Set(key, out, []string{cache.TagAssets}, p.ttl)
	return out
}

// SCSSFile compiles a file-backed SCSS asset. The cache key carries the
// file's modification time, so edits invalidate themselves without any
// flush call. An unreadable file returns ok=false and is recorded, nothing
// more.
func (p *Processor) SCSSFile(ctx context.Context, identifier, path string) ([]byte, bool) {
	stat, err := os.Stat(path)
	if err != nil {
		p.record(identifier, path, "source not readable: "+err.Error())
		return nil, false
	}
	mtime := stat.ModTime()
	key := fingerprint.SCSSKey(identifier, &mtime, nil)
	if cached, found := p.store.Get(key); found {
		return cached, true
	}

	src, err := os.ReadFile(path)
	if err != nil {
		p.record(identifier, path, "source not readable: "+err.Error())
		return nil, false
	}

	out := p.compile(ctx, identifier, src)
	p.store.Set(key, out, []string{cache.TagAssets}, p.ttl)
	return out, true
}

// SCSSInline compiles inline SCSS content. The key derives from the
// content itself since no file timestamp exists.
func (p *Processor) SCSSInline(ctx context.Context, identifier string, src []byte) []byte {
	key := fingerprint.SCSSKey(identifier, nil, src)
	if cached, found := p.store.Get(key); found {
		return cached
	}

	out := p.compile(ctx, identifier, src)
	p.store.Set(key, out, []string{cache.TagAssets}, p.ttl)
	return out
}

func (p *Processor) compile(ctx context.Context, identifier string, src []byte) []byte {
	out, err := p.scss.Compile(ctx, src)
	if err != nil {
		p.logger.Warn(ctx, err, "SCSS compilation failed, serving raw source", "asset", identifier)
		p.record(identifier, "", "compilation failed: "+err.Error())
		return src
	}
	return out
}

func (p *Processor) record(asset, path, reason string) {
	if p.collector != nil {
		p.collector.Skipped(asset, path, reason)
	}
}
