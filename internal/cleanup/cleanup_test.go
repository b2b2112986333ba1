package cleanup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestRegistry_RunDeletesNewestFirst(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o700))
	file := filepath.Join(sub, "a.tmp")
	touch(t, file)

	r := New(nil)
	// The directory is registered first, so it only becomes empty (and
	// removable) because its file is deleted before it.
	require.NoError(t, r.Register(sub))
	require.NoError(t, r.Register(file))

	r.Run()

	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(sub)
	assert.True(t, os.IsNotExist(err))
}

func TestRegistry_RegisterAfterRunFails(t *testing.T) {
	r := New(nil)
	r.Run()
	assert.ErrorIs(t, r.Register("/tmp/whatever"), ErrShutdownInProgress)

	// Second Run is a no-op.
	r.Run()
}

func TestRegistry_MissingFilesAreIgnored(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "kept.tmp")
	touch(t, kept)

	r := New(nil)
	require.NoError(t, r.Register(filepath.Join(dir, "never-created")))
	require.NoError(t, r.Register(kept))

	r.Run()
	_, err := os.Stat(kept)
	assert.True(t, os.IsNotExist(err))
}

func TestRegistry_DuplicateRegistrationKeepsFirstPosition(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Register("a"))
	require.NoError(t, r.Register("b"))
	require.NoError(t, r.Register("a"))
	assert.Equal(t, []string{"a", "b"}, r.Pending())
}

func TestRegistry_Remove(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.tmp")
	touch(t, file)

	r := New(nil)
	require.NoError(t, r.Register(file))
	require.NoError(t, r.Register("other"))

	require.NoError(t, r.Remove(file))
	_, err := os.Stat(file)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, []string{"other"}, r.Pending())

	// Already gone.
	assert.NoError(t, r.Remove(file))
}

func TestRegistry_RemoveCompacts(t *testing.T) {
	dir := t.TempDir()
	r := New(nil)
	var paths []string
	for i := range 40 {
		p := filepath.Join(dir, "f"+string(rune('a'+i%26))+string(rune('0'+i/26)))
		paths = append(paths, p)
		require.NoError(t, r.Register(p))
	}
	for _, p := range paths[:35] {
		require.NoError(t, r.Remove(p))
	}
	assert.Equal(t, paths[35:], r.Pending())
	assert.LessOrEqual(t, len(r.paths), 2*len(r.index)+16)
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, Default(), Default())
	SetLogger(nil)
}
