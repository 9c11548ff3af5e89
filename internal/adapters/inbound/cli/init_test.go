package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordercraft/ordercraft/internal/adapters/outbound/config"
	"github.com/ordercraft/ordercraft/internal/domain"
)

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := runRoot(t, "init", tmpDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created .ordercraft.yaml")

	data, err := os.ReadFile(filepath.Join(tmpDir, ".ordercraft.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "path: data/products.json")
	assert.Contains(t, string(data), "score_threshold: 0.3")
}

func TestInitCmd_GeneratedConfigLoads(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := runRoot(t, "init", tmpDir)
	require.NoError(t, err)

	cfg, err := config.New().Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultEngineConfig(), cfg)
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".ordercraft.yaml"), []byte("existing"), 0644))

	_, err := runRoot(t, "init", tmpDir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".ordercraft.yaml"), []byte("old"), 0644))

	_, err := runRoot(t, "init", tmpDir, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, ".ordercraft.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "catalog:")
	assert.NotEqual(t, "old", string(data))
}
