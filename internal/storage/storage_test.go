package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoStore_Unit(t *testing.T) {
	memFs := afero.NewMemMapFs()
	store := NewAferoStore(memFs)
	ctx := context.Background()

	filePath := "test/dir/state.json"
	fileContent := `{"units":[]}`

	t.Run("Save", func(t *testing.T) {
		bytesWritten, err := store.Save(ctx, filePath, bytes.NewReader([]byte(fileContent)))

		require.NoError(t, err)
		assert.Equal(t, int64(len(fileContent)), bytesWritten)

		readBytes, err := afero.ReadFile(memFs, filePath)
		require.NoError(t, err)
		assert.Equal(t, fileContent, string(readBytes))

		tmp, err := afero.Exists(memFs, filePath+".tmp")
		require.NoError(t, err)
		assert.False(t, tmp, "temp file should be renamed away")
	})

	t.Run("Get", func(t *testing.T) {
		file, err := store.Get(ctx, filePath)
		require.NoError(t, err)
		defer file.Close()

		readBytes, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, fileContent, string(readBytes))
	})

	t.Run("Overwrite", func(t *testing.T) {
		_, err := store.Save(ctx, filePath, bytes.NewReader([]byte("{}")))
		require.NoError(t, err)

		readBytes, err := afero.ReadFile(memFs, filePath)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(readBytes))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, filePath))

		exists, err := store.Exists(ctx, filePath)
		require.NoError(t, err)
		assert.False(t, exists, "file should not exist after deleting")
	})

	t.Run("Get non-existent file", func(t *testing.T) {
		_, err := store.Get(ctx, "path/to/nothing.json")
		assert.Error(t, err)
	})
}
