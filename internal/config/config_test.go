package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	want := Default("household")
	want.Import.FallbackAccount = "acc-misc"
	want.Import.TransferWindowMinutes = 10
	want.Import.SkipSameAccount = true
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("workspace: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestTransferWindow(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ImportConfig{}.TransferWindow())
	assert.Equal(t, 5*time.Minute, ImportConfig{TransferWindowMinutes: -1}.TransferWindow())
	assert.Equal(t, 30*time.Minute, ImportConfig{TransferWindowMinutes: 30}.TransferWindow())
}

func TestDefault(t *testing.T) {
	cfg := Default("home")
	assert.Equal(t, "home", cfg.Workspace.Name)
	assert.Equal(t, 5*time.Minute, cfg.Import.TransferWindow())
	assert.False(t, cfg.Import.SkipSameAccount)
}
