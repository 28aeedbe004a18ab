package localstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/internal/pkg/localstore"
	"vitrine/internal/pkg/logger"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, err := localstore.New(t.TempDir(), logger.NewNopLogger())
	require.NoError(t, err)

	in := []sample{{Name: "a", Count: 1}, {Name: "b", Count: 2}}
	require.NoError(t, store.Save("samples", in))

	var out []sample
	found, err := store.Load("samples", &out)

	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestStore_LoadMissingKey(t *testing.T) {
	store, err := localstore.New(t.TempDir(), logger.NewNopLogger())
	require.NoError(t, err)

	var out []sample
	found, err := store.Load("nada", &out)

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)
}

func TestStore_CorruptPayloadIsDiscarded(t *testing.T) {
	dir := t.TempDir()
	store, err := localstore.New(dir, logger.NewNopLogger())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "samples.json"), []byte("{not json"), 0o644))

	var out []sample
	found, err := store.Load("samples", &out)

	assert.NoError(t, err)
	assert.False(t, found)

	// O arquivo original sai do caminho para que a próxima gravação comece limpa.
	_, statErr := os.Stat(filepath.Join(dir, "samples.json"))
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, store.Save("samples", []sample{{Name: "novo"}}))
	found, err = store.Load("samples", &out)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "novo", out[0].Name)
}

func TestStore_TypeMismatchLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	store, err := localstore.New(dir, logger.NewNopLogger())
	require.NoError(t, err)

	payload := `[{"name":"ok","count":1},{"name":"ruim","count":"muitos"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "samples.json"), []byte(payload), 0o644))

	out := []sample{}
	found, err := store.Load("samples", &out)

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, out)

	_, statErr := os.Stat(filepath.Join(dir, "samples.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_LoadRejectsNonPointer(t *testing.T) {
	store, err := localstore.New(t.TempDir(), logger.NewNopLogger())
	require.NoError(t, err)

	_, err = store.Load("samples", []sample{})
	assert.Error(t, err)
}
