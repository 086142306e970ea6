// Package sprite assembles the site-scoped SVG symbol set into a single
// sprite document.
package sprite

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"assetforge/internal/cache"
	"assetforge/internal/fingerprint"
	"assetforge/internal/logging"
	"assetforge/internal/registry"
)

// EmptyDocument is the minimal valid sprite served when no symbol survives
// filtering. The serving layer must never transmit an empty string.
const EmptyDocument = `<svg xmlns="http://www.w3.org/2000/svg" style="display:none"></svg>`

// Sprite is one assembled sprite document plus the ids that made it in, in
// first-seen merge order.
type Sprite struct {
	Document    string
	IncludedIDs []string
}

// Key returns the sprite's content-addressed cache key.
func (s Sprite) Key() string {
	return fingerprint.SpriteKey(s.IncludedIDs)
}

// FileReader abstracts reading symbol sources. Read failures are a normal
// condition: the affected symbol is silently omitted.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// DirReader reads symbol sources relative to a root directory.
type DirReader struct {
	Root string
}

func (r DirReader) ReadFile(path string) ([]byte, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.Root, path)
	}
	return os.ReadFile(path)
}

// DocumentInterceptor observes and may rewrite the assembled document. The
// id list is read-only context in originally-encountered order; ids cannot
// be removed at this point, only the document text can change.
type DocumentInterceptor func(document string, includedIDs []string) string

// Assembler builds sprites from the registry's site-scoped view.
type Assembler struct {
	registry     *registry.SymbolRegistry
	reader       FileReader
	store        cache.Store
	logger       logging.Logger
	interceptors []DocumentInterceptor
}

// NewAssembler creates a sprite assembler. The store may be nil for
// uncached assembly (tests, one-shot CLI runs).
func NewAssembler(reg *registry.SymbolRegistry, reader FileReader, store cache.Store, logger logging.Logger) *Assembler {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Assembler{
		registry: reg,
		reader:   reader,
		store:    store,
		logger:   logger.WithComponent("sprite"),
	}
}

// Intercept appends a whole-document interceptor.
func (a *Assembler) Intercept(i DocumentInterceptor) {
	a.interceptors = append(a.interceptors, i)
}

// Assemble renders the sprite for a site. An empty site means no site
// context, which keeps only unscoped symbols. Symbols whose source cannot
// be read are omitted from both the document and the id list; nothing here
// returns an error.
func (a *Assembler) Assemble(ctx context.Context, site string) Sprite {
	decls := a.registry.VisibleFor(site)

	var doc strings.Builder
	var includedIDs []string

	for _, decl := range decls {
		content, err := a.reader.ReadFile(decl.Config.Source)
		if err != nil {
			a.logger.Debug(ctx, "omitting unreadable symbol source",
				"symbol", decl.ID, "source", decl.Config.Source, "reason", err.Error())
			continue
		}
		doc.WriteString(renderSymbol(decl.ID, content))
		includedIDs = append(includedIDs, decl.ID)
	}

	if len(includedIDs) == 0 {
		return Sprite{Document: EmptyDocument}
	}

	document := `<svg xmlns="http://www.w3.org/2000/svg" style="display:none">` + doc.String() + `</svg>`
	for _, intercept := range a.interceptors {
		document = intercept(document, includedIDs)
	}

	sprite := Sprite{Document: document, IncludedIDs: includedIDs}
	if a.store != nil {
		key := sprite.Key()
		if cached, found := a.store.Get(key); found {
			sprite.Document = string(cached)
			return sprite
		}
		a.store.Set(key, []byte(sprite.Document), []string{cache.TagAssets, cache.TagSprite}, 0)
	}
	return sprite
}

var (
	svgOpenTag = regexp.MustCompile(`(?is)<svg\b[^>]*>`)
	viewBoxRe  = regexp.MustCompile(`(?i)viewBox\s*=\s*"([^"]*)"`)
)

// renderSymbol converts one source SVG into a <symbol> unit. The outer
// <svg> wrapper is stripped, keeping its viewBox; sources without a
// wrapper are embedded as-is.
func renderSymbol(id string, content []byte) string {
	source := strings.TrimSpace(string(content))

	viewBox := ""
	inner := source
	if loc := svgOpenTag.FindStringIndex(source); loc != nil {
		openTag := source[loc[0]:loc[1]]
		if match := viewBoxRe.FindStringSubmatch(openTag); match != nil {
			viewBox = match[1]
		}
		inner = source[loc[1]:]
		if end := strings.LastIndex(inner, "</svg>"); end >= 0 {
			inner = inner[:end]
		}
	}

	var symbol strings.Builder
	symbol.WriteString(`<symbol id="`)
	symbol.WriteString(id)
	symbol.WriteString(`"`)
	if viewBox != "" {
		symbol.WriteString(` viewBox="`)
		symbol.WriteString(viewBox)
		symbol.WriteString(`"`)
	}
	symbol.WriteString(`>`)
	symbol.WriteString(strings.TrimSpace(inner))
	symbol.WriteString(`</symbol>`)
	return symbol.String()
}
