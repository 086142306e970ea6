package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterBatch_LaterBatchWins(t *testing.T) {
	r := NewSymbolRegistry()
	r.RegisterBatch("ext_a", map[string]SymbolConfig{
		"icon-a": {Source: "a1.svg"},
	})
	r.RegisterBatch("ext_b", map[string]SymbolConfig{
		"icon-a": {Source: "a2.svg"},
	})

	decl, found := r.Get("icon-a")
	require.True(t, found)
	assert.Equal(t, "a2.svg", decl.Config.Source, "later batch must fully replace the earlier declaration")
	assert.Equal(t, "ext_b", decl.OriginExtension)
	assert.Equal(t, 1, r.Count())
}

func TestRegisterBatch_OverrideReplacesWholeConfig(t *testing.T) {
	r := NewSymbolRegistry()
	r.RegisterBatch("ext_a", map[string]SymbolConfig{
		"icon-a": {Source: "a1.svg", Sites: []string{"brand-a"}},
	})
	r.RegisterBatch("ext_b", map[string]SymbolConfig{
		"icon-a": {Source: "a2.svg"},
	})

	decl, _ := r.Get("icon-a")
	assert.Empty(t, decl.Config.Sites, "override must not merge sub-fields from the losing declaration")
}

func TestRegisterBatch_OverrideKeepsFirstSeenOrder(t *testing.T) {
	r := NewSymbolRegistry()
	r.RegisterBatch("ext_a", map[string]SymbolConfig{
		"icon-a": {Source: "a1.svg"},
		"icon-b": {Source: "b1.svg"},
	})
	r.RegisterBatch("ext_b", map[string]SymbolConfig{
		"icon-a": {Source: "a2.svg"},
	})

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "icon-a", all[0].ID, "overridden id keeps its first-seen position")
	assert.Equal(t, "icon-b", all[1].ID)
	assert.Equal(t, "a2.svg", all[0].Config.Source)
}

func TestVisibleFor_SiteScoping(t *testing.T) {
	r := NewSymbolRegistry()
	r.RegisterBatch("ext_a", map[string]SymbolConfig{
		"global":  {Source: "g.svg"},
		"scoped":  {Source: "s.svg", Sites: []string{"brand-a"}},
		"scoped2": {Source: "s2.svg", Sites: []string{"brand-a", "brand-b"}},
	})

	ids := func(decls []SymbolDeclaration) []string {
		var out []string
		for _, d := range decls {
			out = append(out, d.ID)
		}
		return out
	}

	t.Run("matching site includes scoped symbols", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"global", "scoped", "scoped2"}, ids(r.VisibleFor("brand-a")))
	})

	t.Run("non-matching site excludes scoped symbols", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"global", "scoped2"}, ids(r.VisibleFor("brand-b")))
	})

	t.Run("unknown site keeps only unscoped symbols", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"global"}, ids(r.VisibleFor("brand-c")))
	})

	t.Run("no site context excludes all scoped symbols", func(t *testing.T) {
		// Scoped symbols declared an opt-in restriction that cannot be
		// verified without a site, so they stay out.
		assert.ElementsMatch(t, []string{"global"}, ids(r.VisibleFor("")))
	})
}

func TestIntercept_Veto(t *testing.T) {
	r := NewSymbolRegistry()
	r.Intercept(func(decl SymbolDeclaration) (SymbolDeclaration, bool) {
		if decl.ID == "blocked" {
			return decl, false
		}
		return decl, true
	})

	r.RegisterBatch("ext_a", map[string]SymbolConfig{
		"blocked": {Source: "b.svg"},
		"kept":    {Source: "k.svg"},
	})

	_, found := r.Get("blocked")
	assert.False(t, found, "vetoed declaration must not be committed")
	_, found = r.Get("kept")
	assert.True(t, found)
	assert.Equal(t, 1, r.Count())
}

func TestIntercept_VetoRemovesExistingEntry(t *testing.T) {
	r := NewSymbolRegistry()
	r.RegisterBatch("ext_a", map[string]SymbolConfig{
		"icon-a": {Source: "a1.svg"},
	})

	r.Intercept(func(decl SymbolDeclaration) (SymbolDeclaration, bool) {
		return decl, decl.ID != "icon-a"
	})
	r.RegisterBatch("ext_b", map[string]SymbolConfig{
		"icon-a": {Source: "a2.svg"},
	})

	_, found := r.Get("icon-a")
	assert.False(t, found, "a veto on an overriding declaration removes the earlier entry as well")
}

func TestIntercept_Rename(t *testing.T) {
	r := NewSymbolRegistry()
	r.Intercept(func(decl SymbolDeclaration) (SymbolDeclaration, bool) {
		if strings.HasPrefix(decl.ID, "legacy-") {
			decl.ID = strings.TrimPrefix(decl.ID, "legacy-")
		}
		return decl, true
	})

	r.RegisterBatch("ext_a", map[string]SymbolConfig{
		"legacy-star": {Source: "star.svg"},
	})

	_, found := r.Get("legacy-star")
	assert.False(t, found)
	decl, found := r.Get("star")
	require.True(t, found)
	assert.Equal(t, "star.svg", decl.Config.Source)
}

func TestIntercept_RenameCollisionLastWriteWins(t *testing.T) {
	r := NewSymbolRegistry()
	r.Intercept(func(decl SymbolDeclaration) (SymbolDeclaration, bool) {
		decl.ID = "merged"
		return decl, true
	})

	r.RegisterBatch("ext_a", map[string]SymbolConfig{
		"alpha": {Source: "alpha.svg"},
		"beta":  {Source: "beta.svg"},
	})

	decl, found := r.Get("merged")
	require.True(t, found)
	// Ids iterate lexically within a batch, so beta commits last and wins.
	assert.Equal(t, "beta.svg", decl.Config.Source)
	assert.Equal(t, 1, r.Count())
}

func TestIntercept_ReplaceConfig(t *testing.T) {
	r := NewSymbolRegistry()
	r.Intercept(func(decl SymbolDeclaration) (SymbolDeclaration, bool) {
		decl.Config.Source = "override/" + decl.Config.Source
		return decl, true
	})

	r.RegisterBatch("ext_a", map[string]SymbolConfig{
		"icon-a": {Source: "a.svg"},
	})

	decl, _ := r.Get("icon-a")
	assert.Equal(t, "override/a.svg", decl.Config.Source)
}
