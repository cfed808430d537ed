package internal

import (
	"go/token"
	"os"
	"path/filepath"
	"testing"

	tt "github.com/gnolang/totality/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	filename := filepath.Join(dir, "colors.go")
	require.NoError(t, os.WriteFile(filename, []byte(colorSource), 0o644))

	issues := []tt.Issue{
		{
			Rule:     TotalityCheck,
			Filename: filename,
			Message:  "Match not exhaustive, values not matched: 2",
			Start:    token.Position{Filename: filename, Line: 12, Column: 2},
		},
	}

	cache := NewCache()

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get(filepath.Join(dir, "missing"))
		assert.False(t, found)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, cache.Set(dir, issues))
		got, found := cache.Get(dir)
		assert.True(t, found)
		assert.Equal(t, issues, got)
	})

	t.Run("FileModified", func(t *testing.T) {
		require.NoError(t, cache.Set(dir, issues))
		require.NoError(t, os.WriteFile(filename, []byte(colorSource+"\n// edited\n"), 0o644))
		_, found := cache.Get(dir)
		assert.False(t, found)
	})

	t.Run("FileAdded", func(t *testing.T) {
		require.NoError(t, cache.Set(dir, issues))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.go"), []byte("package colors\n"), 0o644))
		_, found := cache.Get(dir)
		assert.False(t, found)
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, cache.Set(dir, issues))
		cache.Invalidate(dir)
		_, found := cache.Get(dir)
		assert.False(t, found)
	})
}
