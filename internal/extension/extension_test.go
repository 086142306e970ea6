package extension

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSet_OrdersByPriorityThenKey(t *testing.T) {
	set := NewSet(
		Extension{Key: "zeta", Priority: 0},
		Extension{Key: "alpha", Priority: 1},
		Extension{Key: "beta", Priority: 0},
	)

	var keys []string
	for _, ext := range set.Ordered() {
		keys = append(keys, ext.Key)
	}
	assert.Equal(t, []string{"beta", "zeta", "alpha"}, keys)
}

func TestNewSet_DeterministicForEqualPriorities(t *testing.T) {
	a := NewSet(Extension{Key: "b"}, Extension{Key: "a"}, Extension{Key: "c"})
	b := NewSet(Extension{Key: "c"}, Extension{Key: "a"}, Extension{Key: "b"})
	assert.Equal(t, a.Ordered(), b.Ordered())
}

func TestDiscoverDir(t *testing.T) {
	root := t.TempDir()

	withManifest := filepath.Join(root, "ext_icons")
	require.NoError(t, os.MkdirAll(withManifest, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(withManifest, "icons.yaml"), []byte("symbols: {}"), 0644))

	withoutManifest := filepath.Join(root, "ext_plain")
	require.NoError(t, os.MkdirAll(withoutManifest, 0755))

	set, err := DiscoverDir(root)
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "ext_icons", set.Ordered()[0].Key)
	assert.Equal(t, filepath.Join(withManifest, "icons.yaml"), set.Ordered()[0].ManifestPath)
}

func TestDiscoverDir_MissingRoot(t *testing.T) {
	_, err := DiscoverDir("/nonexistent/extensions")
	assert.Error(t, err)
}
