package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetYAML = `
generation:
  max-depth-points: 800
overrides:
  - zone: 2
    env-type: Lake
    ranges:
      MS: {min: 5, max: 15, trend: UP}
      Clay: {min: 1, max: 2, trend: DN}
`

func TestConfigConvert(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "config.db")
	require.NoError(t, os.WriteFile(yamlPath, []byte(presetYAML), 0o600))

	stdout, _, err := execute(t, "config", "convert", "--yaml", yamlPath, "--sqlite", dbPath, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dry run")
	assert.Contains(t, stdout, "[Clay MS]")
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	stdout, _, err = execute(t, "config", "convert", "--yaml", yamlPath, "--sqlite", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Overrides: 1")

	_, _, err = execute(t, "config", "convert", "--yaml", yamlPath, "--sqlite", dbPath)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, "config", "convert", "--yaml", yamlPath, "--sqlite", dbPath, "--force")
	require.NoError(t, err)

	// The converted database drives the catalog like the YAML file would
	stdout, _, err = execute(t, "--config", dbPath, "catalog", "--zone", "2", "--zones", "3", "--env", "Lake")
	require.NoError(t, err)
	assert.Contains(t, stdout, "15.00")
}

func TestConfigInit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db", "config.db")

	stdout, _, err := execute(t, "config", "init", "--sqlite", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ready")

	stdout, _, err = execute(t, "--config", dbPath, "catalog", "--zone", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "PARAMETER")
}

func TestConfigConvertRejectsBadPresets(t *testing.T) {
	yamlPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
overrides:
  - zone: 1
    ranges:
      Nope: {min: 1, max: 2, trend: UP}
`), 0o600))

	_, _, err := execute(t, "config", "convert", "--yaml", yamlPath, "--dry-run")
	assert.Error(t, err)
}
