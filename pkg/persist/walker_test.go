package persist

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scode/shastity/pkg/metadata"
)

func TestWalkerClassifies(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("root/sub", 0755))
	require.NoError(t, afero.WriteFile(fs, "root/file", []byte("x"), 0644))

	entries, err := NewWalker(fs).Walk("root")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "file", entries[0].Name)
	assert.Equal(t, metadata.KindRegular, entries[0].Kind)
	assert.False(t, entries[0].Mtime.IsZero())

	assert.Equal(t, "sub", entries[1].Name)
	assert.Equal(t, metadata.KindDir, entries[1].Kind)
}

func TestWalkerMissingDir(t *testing.T) {
	_, err := NewWalker(afero.NewMemMapFs()).Walk("nope")
	assert.Error(t, err)
}
