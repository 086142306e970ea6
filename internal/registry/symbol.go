// Package registry collects SVG symbol declarations contributed by
// extensions and merges them into one flat, site-scoped mapping.
//
// Extensions register declaration batches in load order. Within the merged
// view a symbol id is unique: when two batches declare the same id, the one
// registered later wins and fully replaces the earlier config (no sub-field
// merging). Interceptors run before each declaration is committed and may
// rename it, replace its config, or veto it entirely.
package registry

import (
	"sort"
	"sync"
)

// SymbolConfig is the declaration payload for one symbol.
type SymbolConfig struct {
	// Source is the path to the SVG file backing this symbol.
	Source string `yaml:"source"`
	// Sites restricts the symbol to the listed site identifiers.
	// Empty means visible everywhere.
	Sites []string `yaml:"sites,omitempty"`
}

// SymbolDeclaration is one committed symbol entry.
type SymbolDeclaration struct {
	ID              string
	Config          SymbolConfig
	OriginExtension string
}

// SymbolInterceptor inspects a declaration before it is committed. It
// returns the (possibly renamed or reconfigured) declaration and whether
// the entry should be kept. A vetoed entry is removed from the registry and
// from every downstream step, including the id list seen by document
// interceptors.
type SymbolInterceptor func(decl SymbolDeclaration) (SymbolDeclaration, bool)

// SymbolRegistry manages all registered symbol declarations.
type SymbolRegistry struct {
	mutex        sync.RWMutex
	symbols      map[string]SymbolDeclaration
	order        []string // first-seen id order across all batches
	interceptors []SymbolInterceptor
}

// NewSymbolRegistry creates an empty symbol registry.
func NewSymbolRegistry() *SymbolRegistry {
	return &SymbolRegistry{
		symbols: make(map[string]SymbolDeclaration),
	}
}

// Intercept appends a per-symbol interceptor. Interceptors fire in
// registration order against every declaration committed afterwards.
func (r *SymbolRegistry) Intercept(i SymbolInterceptor) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.interceptors = append(r.interceptors, i)
}

// RegisterBatch merges one extension's declaration batch into the registry.
// Batches must be registered in extension load order: a later batch
// unconditionally overrides earlier declarations that share an id. Ids
// within a batch are processed in lexical order so a batch merges the same
// way on every run.
func (r *SymbolRegistry) RegisterBatch(extensionKey string, batch map[string]SymbolConfig) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ids := make([]string, 0, len(batch))
	for id := range batch {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		r.commit(SymbolDeclaration{
			ID:              id,
			Config:          batch[id],
			OriginExtension: extensionKey,
		})
	}
}

// commit runs the interceptor chain and applies last-write-wins override
// semantics. Callers must hold the write lock.
func (r *SymbolRegistry) commit(decl SymbolDeclaration) {
	for _, intercept := range r.interceptors {
		modified, keep := intercept(decl)
		if !keep {
			// A veto removes any existing entry for the id as well.
			r.remove(decl.ID)
			return
		}
		if modified.ID != decl.ID {
			// Renamed inline during the same pass; a collision with an
			// existing id resolves by the usual override rule.
			r.remove(decl.ID)
		}
		decl = modified
	}

	if _, exists := r.symbols[decl.ID]; !exists {
		r.order = append(r.order, decl.ID)
	}
	r.symbols[decl.ID] = decl
}

// remove drops an id from the mapping and the first-seen order.
func (r *SymbolRegistry) remove(id string) {
	if _, exists := r.symbols[id]; !exists {
		return
	}
	delete(r.symbols, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a declaration by id.
func (r *SymbolRegistry) Get(id string) (SymbolDeclaration, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	decl, exists := r.symbols[id]
	return decl, exists
}

// Count returns the number of committed declarations.
func (r *SymbolRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.symbols)
}

// All returns every committed declaration in first-seen order.
func (r *SymbolRegistry) All() []SymbolDeclaration {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	result := make([]SymbolDeclaration, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.symbols[id])
	}
	return result
}

// VisibleFor returns the declarations visible to the given site, in
// first-seen order. An unscoped declaration is visible everywhere. A scoped
// declaration is visible only when its scope contains the site. When no
// site context is known (empty site), scoped declarations are excluded:
// they declared an opt-in restriction that cannot be verified.
func (r *SymbolRegistry) VisibleFor(site string) []SymbolDeclaration {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]SymbolDeclaration, 0, len(r.order))
	for _, id := range r.order {
		decl := r.symbols[id]
		if visibleFor(decl.Config.Sites, site) {
			result = append(result, decl)
		}
	}
	return result
}

func visibleFor(scope []string, site string) bool {
	if len(scope) == 0 {
		return true
	}
	if site == "" {
		return false
	}
	for _, s := range scope {
		if s == site {
			return true
		}
	}
	return false
}
