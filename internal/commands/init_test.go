package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankfeed-dev/bankfeed/internal/config"
	"github.com/bankfeed-dev/bankfeed/internal/registry"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "household"))

	for _, d := range []string{"ledger", "presets", "logs", "import", "import/processed"} {
		assert.DirExists(t, filepath.Join(dir, d))
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "household", cfg.Workspace.Name)

	reg, err := registry.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, reg.Accounts())
	assert.NotEmpty(t, reg.Categories(), "a fresh workspace comes with starter categories")
}
