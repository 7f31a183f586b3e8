package overlay

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOverlay(t *testing.T, dir, skill, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, skill+".yaml"), []byte(content), 0o644))
}

func TestStoreGet(t *testing.T) {
	tmpDir := t.TempDir()
	writeOverlay(t, tmpDir, "translator", `skill: translator
options:
  style: casual
`)

	store := NewStore(tmpDir)
	ctx := context.Background()

	o, err := store.Get(ctx, "translator")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "casual", o.Options["style"])

	// Second read is served from cache
	again, err := store.Get(ctx, "translator")
	require.NoError(t, err)
	assert.Same(t, o, again)
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	o, err := store.Get(context.Background(), "nonexistent")
	require.NoError(t, err, "a project without an overlay is not an error")
	assert.Nil(t, o)
}

func TestStoreGetMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))

	o, err := store.Get(context.Background(), "translator")
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestStoreSkillMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	writeOverlay(t, tmpDir, "translator", `skill: pr-writer
options:
  style: casual
`)

	store := NewStore(tmpDir)

	_, err := store.Get(context.Background(), "translator")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, InvalidDocument, cfgErr.Reason)
}

func TestStoreHotReload(t *testing.T) {
	tmpDir := t.TempDir()
	writeOverlay(t, tmpDir, "translator", `options:
  style: formal
`)

	store := NewStore(tmpDir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Watch(ctx))
	defer store.Close()

	o, err := store.Get(ctx, "translator")
	require.NoError(t, err)
	assert.Equal(t, "formal", o.Options["style"])

	writeOverlay(t, tmpDir, "translator", `options:
  style: casual
`)

	require.Eventually(t, func() bool {
		o, err := store.Get(ctx, "translator")
		return err == nil && o != nil && o.Options["style"] == "casual"
	}, 2*time.Second, 10*time.Millisecond, "overlay change should be picked up without restarting")
}
