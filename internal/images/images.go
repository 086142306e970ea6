// Package images plans responsive image variant sets. The actual pixel
// work belongs to the host's resizing backend behind the Resizer
// interface; everything here is pure planning, so the same inputs always
// produce the same srcset.
package images

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Resizer produces one resized rendition of a source image and returns the
// public URL it is reachable under. Implemented by the host backend.
type Resizer interface {
	Resize(ctx context.Context, src string, width int, format string) (string, error)
}

// Variant is one planned rendition.
type Variant struct {
	Width  int
	Format string
}

// Plan is the deterministic variant set for one source image.
type Plan struct {
	Src      string
	Variants []Variant
}

// NewPlan computes the variant set for a source image of sourceWidth
// pixels. Candidate widths above the source width are excluded (no
// upscaling), duplicates collapse, and the result is ordered by format
// then ascending width.
func NewPlan(src string, sourceWidth int, widths []int, formats []string) Plan {
	if len(formats) == 0 {
		formats = []string{strings.TrimPrefix(filepath.Ext(src), ".")}
	}

	seen := make(map[int]struct{})
	var usable []int
	for _, width := range widths {
		if width <= 0 || width > sourceWidth {
			continue
		}
		if _, dup := seen[width]; dup {
			continue
		}
		seen[width] = struct{}{}
		usable = append(usable, width)
	}
	sort.Ints(usable)

	var variants []Variant
	for _, format := range formats {
		for _, width := range usable {
			variants = append(variants, Variant{Width: width, Format: format})
		}
	}
	return Plan{Src: src, Variants: variants}
}

// VariantURL names a rendition next to the source file:
// hero.jpg at width 480 as webp -> hero-480.webp.
func (p Plan) VariantURL(v Variant) string {
	ext := filepath.Ext(p.Src)
	base := strings.TrimSuffix(p.Src, ext)
	return fmt.Sprintf("%s-%d.%s", base, v.Width, v.Format)
}

// SrcSet renders the srcset attribute value for one format.
func (p Plan) SrcSet(format string) string {
	var parts []string
	for _, v := range p.Variants {
		if v.Format != format {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %dw", p.VariantURL(v), v.Width))
	}
	return strings.Join(parts, ", ")
}

// Formats returns the distinct formats in plan order.
func (p Plan) Formats() []string {
	var formats []string
	seen := make(map[string]struct{})
	for _, v := range p.Variants {
		if _, dup := seen[v.Format]; dup {
			continue
		}
		seen[v.Format] = struct{}{}
		formats = append(formats, v.Format)
	}
	return formats
}

// Execute materializes every planned variant through the resizer. Failed
// renditions are skipped; the returned map holds the URLs that succeeded.
func (p Plan) Execute(ctx context.Context, resizer Resizer) map[Variant]string {
	results := make(map[Variant]string, len(p.Variants))
	for _, v := range p.Variants {
		url, err := resizer.Resize(ctx, p.Src, v.Width, v.Format)
		if err != nil {
			continue
		}
		results[v] = url
	}
	return results
}
