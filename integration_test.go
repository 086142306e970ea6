package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetforge/internal/cache"
	"assetforge/internal/config"
	"assetforge/internal/critical"
	"assetforge/internal/extension"
	"assetforge/internal/logging"
	"assetforge/internal/minify"
	"assetforge/internal/pipeline"
	"assetforge/internal/preload"
	"assetforge/internal/registry"
	"assetforge/internal/server"
	"assetforge/internal/sprite"
)

func writeFixtureFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestIntegration_SpriteAndCSSServing(t *testing.T) {
	extDir := t.TempDir()
	srcDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(extDir, "shop", "icons.yaml"), `
symbols:
  cart:
    source: icons/cart.svg
  admin-gear:
    source: icons/gear.svg
    sites:
      - admin
`)
	writeFixtureFile(t, filepath.Join(srcDir, "icons", "cart.svg"),
		`<svg viewBox="0 0 24 24"><path d="M1 1h22"/></svg>`)
	writeFixtureFile(t, filepath.Join(srcDir, "icons", "gear.svg"),
		`<svg viewBox="0 0 16 16"><circle cx="8" cy="8" r="6"/></svg>`)
	writeFixtureFile(t, filepath.Join(srcDir, "site.css"),
		"body {\n  color: #ffffff;\n}\n")

	viper.Reset()
	viper.Set("assets.extensions_dir", extDir)
	viper.Set("assets.source_dir", srcDir)
	viper.Set("minify.css", true)
	viper.Set("preload.enabled", false)

	cfg, err := config.Load()
	require.NoError(t, err)

	logger := logging.NopLogger()
	store := cache.NewMemoryStore(cfg.Cache.MaxMemoryBytes)

	set, err := extension.DiscoverDir(cfg.Assets.ExtensionsDir)
	require.NoError(t, err)
	reg := registry.NewSymbolRegistry()
	require.NoError(t, reg.Discover(set))

	assembler := sprite.NewAssembler(reg, sprite.DirReader{Root: cfg.Assets.SourceDir}, store, logger)
	processor := pipeline.NewProcessor(store, minify.PassthroughCompiler{}, logger, nil)

	srv := server.New(cfg, assembler, processor, critical.NewCache(store), preload.NewFontRegistry(), store, logger)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	// Without a site context only unscoped symbols are served.
	resp, err := http.Get(ts.URL + "/assets/sprite.svg")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, `<symbol id="cart"`)
	assert.NotContains(t, body, "admin-gear")

	// The admin site sees its scoped symbol too.
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/assets/sprite.svg", nil)
	require.NoError(t, err)
	req.Header.Set("X-Site", "admin")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Contains(t, body, `<symbol id="cart"`)
	assert.Contains(t, body, `<symbol id="admin-gear"`)

	// CSS is minified on the way out and the result is cached.
	resp, err = http.Get(ts.URL + "/assets/css/site.css")
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, "body{color:#fff}", body)

	count, _, _, _ := store.Stats()
	assert.Greater(t, count, 0)
}

func TestIntegration_EmptyRegistryServesValidContainer(t *testing.T) {
	extDir := t.TempDir()
	srcDir := t.TempDir()

	viper.Reset()
	viper.Set("assets.extensions_dir", extDir)
	viper.Set("assets.source_dir", srcDir)
	viper.Set("preload.enabled", false)

	cfg, err := config.Load()
	require.NoError(t, err)

	logger := logging.NopLogger()
	store := cache.NewMemoryStore(cfg.Cache.MaxMemoryBytes)
	reg := registry.NewSymbolRegistry()
	assembler := sprite.NewAssembler(reg, sprite.DirReader{Root: srcDir}, store, logger)
	processor := pipeline.NewProcessor(store, minify.PassthroughCompiler{}, logger, nil)

	srv := server.New(cfg, assembler, processor, critical.NewCache(store), preload.NewFontRegistry(), store, logger)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/assets/sprite.svg")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, sprite.EmptyDocument, body)
	assert.True(t, strings.HasPrefix(body, "<svg"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
