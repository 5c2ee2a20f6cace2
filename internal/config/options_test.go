package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.Equal(t, DefaultMaxEvalDepth, opts.MaxEvalDepth)
	require.True(t, opts.AnnexB)
}

func TestLoadOptionsMissingFileUsesDefaults(t *testing.T) {
	opts, err := LoadOptions(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultMaxEvalDepth, opts.MaxEvalDepth)
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funjs.yaml")
	content := `max_eval_depth: 500
annex_b: false
module_roots:
  - ./vendor
  - ./lib
strict: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.Equal(t, 500, opts.MaxEvalDepth)
	require.False(t, opts.AnnexB)
	require.Equal(t, []string{"./vendor", "./lib"}, opts.ModuleRoots)
	require.True(t, opts.Strict)
}

func TestLoadOptionsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funjs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\tnot yaml"), 0o644))
	_, err := LoadOptions(path)
	require.Error(t, err)
}

func TestLoadOptionsClampsDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funjs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_eval_depth: -1"), 0o644))
	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.Equal(t, DefaultMaxEvalDepth, opts.MaxEvalDepth)
}
