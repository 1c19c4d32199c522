package file_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/svgflat/internal/adapters/file"
	"github.com/aretw0/svgflat/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache_Contract(t *testing.T) {
	ports.RunCacheContract(t, file.New(t.TempDir()))
}

func TestFileCache_Keys(t *testing.T) {
	ctx := context.Background()
	c := file.New(filepath.Join(t.TempDir(), "nested", "cache"))

	keys, err := c.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, c.Put(ctx, "abc", []byte("<svg/>")))
	require.NoError(t, c.Put(ctx, "def", []byte("<svg/>")))

	keys, err = c.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"abc", "def"}, keys)
}

func TestFileCache_RejectsPathKeys(t *testing.T) {
	ctx := context.Background()
	c := file.New(t.TempDir())

	assert.Error(t, c.Put(ctx, "../escape", []byte("x")))
	_, err := c.Get(ctx, "a/b")
	assert.Error(t, err)
	assert.Error(t, c.Delete(ctx, ""))
}

func TestFileCache_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".svgflat", "cache"), file.New("").BasePath)
}
