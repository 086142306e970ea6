// Package extension models the installed extensions that contribute assets
// to the pipeline and fixes the order their declarations merge in.
package extension

import (
	"os"
	"path/filepath"
	"sort"
)

// Extension is one installed extension contributing asset declarations.
type Extension struct {
	// Key is the unique extension identifier (its directory name).
	Key string
	// ManifestPath points at the extension's symbol manifest, if any.
	ManifestPath string
	// Priority orders merging; lower values merge first, so higher
	// priorities override on id collisions.
	Priority int
}

// Set holds extensions in a deterministic load order.
type Set struct {
	extensions []Extension
}

// NewSet creates a set with the given extensions in load order: ascending
// priority, ties broken by key. The order is stable across runs, which is
// what makes last-write-wins overrides predictable.
func NewSet(extensions ...Extension) *Set {
	ordered := make([]Extension, len(extensions))
	copy(ordered, extensions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].Key < ordered[j].Key
	})
	return &Set{extensions: ordered}
}

// Ordered returns the extensions in load order.
func (s *Set) Ordered() []Extension {
	result := make([]Extension, len(s.extensions))
	copy(result, s.extensions)
	return result
}

// Len returns the number of extensions in the set.
func (s *Set) Len() int {
	return len(s.extensions)
}

// DiscoverDir scans a directory for extensions. Every immediate
// subdirectory containing an icons.yaml manifest becomes an extension keyed
// by its directory name, all with equal priority, so the merge order is the
// lexical directory order. Directories without a manifest are skipped.
func DiscoverDir(root string) (*Set, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var extensions []Extension
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest := filepath.Join(root, entry.Name(), "icons.yaml")
		if _, err := os.Stat(manifest); err != nil {
			continue
		}
		extensions = append(extensions, Extension{
			Key:          entry.Name(),
			ManifestPath: manifest,
		})
	}
	return NewSet(extensions...), nil
}
