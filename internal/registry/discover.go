package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"assetforge/internal/extension"
)

// manifest is the on-disk shape of an extension's symbol declarations.
type manifest struct {
	Symbols map[string]SymbolConfig `yaml:"symbols"`
}

// Discover loads the symbol manifests of every extension in the set and
// merges them in load order. It is the explicit discovery step: build it
// once at startup and inject the registry into consumers. Declaration
// validation happens at this boundary; a manifest that cannot be read or
// parsed aborts discovery so misconfiguration surfaces at startup rather
// than as silently missing icons.
func (r *SymbolRegistry) Discover(set *extension.Set) error {
	for _, ext := range set.Ordered() {
		if ext.ManifestPath == "" {
			continue
		}
		data, err := os.ReadFile(ext.ManifestPath)
		if err != nil {
			return fmt.Errorf("extension %s: reading manifest: %w", ext.Key, err)
		}
		var m manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("extension %s: parsing manifest: %w", ext.Key, err)
		}
		r.RegisterBatch(ext.Key, m.Symbols)
	}
	return nil
}
