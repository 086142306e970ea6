// Package preload discovers web fonts and produces the preload hints that
// let browsers fetch them before the CSS requests them.
package preload

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Font is one discovered font file.
type Font struct {
	// Path is relative to the discovery root, using slash separators.
	Path string
	// Format is the font container format (woff2, woff).
	Format string
}

// FontRegistry holds the discovered fonts. Construct one per process and
// run Discover explicitly; consumers receive the registry by injection.
type FontRegistry struct {
	fonts []Font
}

// NewFontRegistry creates an empty font registry.
func NewFontRegistry() *FontRegistry {
	return &FontRegistry{}
}

var fontFormats = map[string]string{
	".woff2": "woff2",
	".woff":  "woff",
}

// Discover walks the given directories and registers every font file
// found. Results are sorted by path so hint order is stable across runs.
// Repeated calls re-discover from scratch.
func (r *FontRegistry) Discover(dirs ...string) error {
	var fonts []Font
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			format, ok := fontFormats[strings.ToLower(filepath.Ext(path))]
			if !ok {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			fonts = append(fonts, Font{Path: filepath.ToSlash(rel), Format: format})
			return nil
		})
		if err != nil {
			return err
		}
	}

	sort.Slice(fonts, func(i, j int) bool { return fonts[i].Path < fonts[j].Path })
	r.fonts = fonts
	return nil
}

// Fonts returns the discovered fonts in stable order.
func (r *FontRegistry) Fonts() []Font {
	result := make([]Font, len(r.fonts))
	copy(result, r.fonts)
	return result
}

// LinkHeader renders the discovered fonts as an HTTP Link header value.
// publicPrefix is the URL path the font directory is served under.
func (r *FontRegistry) LinkHeader(publicPrefix string) string {
	parts := make([]string, 0, len(r.fonts))
	for _, font := range r.fonts {
		parts = append(parts,
			"<"+joinURL(publicPrefix, font.Path)+">; rel=preload; as=font; type=font/"+font.Format+"; crossorigin")
	}
	return strings.Join(parts, ", ")
}

// HTMLLinks renders the discovered fonts as <link rel="preload"> tags.
func (r *FontRegistry) HTMLLinks(publicPrefix string) string {
	var b strings.Builder
	for _, font := range r.fonts {
		b.WriteString(`<link rel="preload" href="`)
		b.WriteString(joinURL(publicPrefix, font.Path))
		b.WriteString(`" as="font" type="font/`)
		b.WriteString(font.Format)
		b.WriteString(`" crossorigin>`)
	}
	return b.String()
}

func joinURL(prefix, path string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + path
}
