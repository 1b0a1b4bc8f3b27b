package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/profile"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerateCSV(t *testing.T) {
	stdout, stderr, err := execute(t, "generate",
		"--depths", "0, 2, 4, 6",
		"--percentages", "50,50",
		"--base", "rock", "--env", "lake",
		"--seed", "11",
	)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, profile.Header(), records[0])
	assert.Contains(t, stderr, "seed 11")
	assert.Contains(t, stderr, "4 depths in 2 zones")
}

func TestGenerateIsReproducible(t *testing.T) {
	args := []string{"generate", "--max-depth", "30", "--step", "3", "--zones", "3", "--seed", "99"}

	first, _, err := execute(t, args...)
	require.NoError(t, err)
	second, _, err := execute(t, args...)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, strings.Split(strings.TrimSpace(first), "\n"), 12)
}

func TestGenerateJSONFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "profile.json")

	stdout, stderr, err := execute(t, "generate",
		"--depth-range", "10,20", "--step", "1",
		"--format", "json", "--out", out, "--summary",
	)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Mean")

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var p profile.Profile
	require.NoError(t, json.Unmarshal(data, &p))
	assert.GreaterOrEqual(t, p.MaxDepth(), 10.0)
	assert.LessOrEqual(t, p.MaxDepth(), 20.0)
	assert.Equal(t, len(p.Rows), int(p.MaxDepth())+1)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no depths", []string{"generate", "--zones", "2"}},
		{"bad percentages", []string{"generate", "--depths", "0,1", "--percentages", "60,60"}},
		{"unparsable depths", []string{"generate", "--depths", "0,x"}},
		{"bad geology", []string{"generate", "--max-depth", "4", "--env", "Desert"}},
		{"bad format", []string{"generate", "--max-depth", "4", "--format", "xlsx"}},
		{"bad depth range", []string{"generate", "--depth-range", "20"}},
		{"int-wide depth range", []string{"generate", "--depth-range", "0,9223372036854775807"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestCatalog(t *testing.T) {
	stdout, _, err := execute(t, "catalog", "--zone", "3", "--zones", "3", "--base", "Rock", "--env", "Lake")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 1+len(catalog.Parameters))
	assert.Contains(t, lines[0], "PARAMETER")
	assert.Contains(t, stdout, "65.00")
	assert.Contains(t, stdout, "not modelled")
}

func TestCatalogUsesConfiguredPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
overrides:
  - zone: 1
    ranges:
      MS: {min: 123, max: 456, trend: UP}
`), 0o600))

	stdout, _, err := execute(t, "--config", path, "catalog", "--zone", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "123.00")
	assert.Contains(t, stdout, "456.00")
	assert.Contains(t, stdout, "not modelled", "an override replaces the whole table")
}

func TestCatalogRejectsZones(t *testing.T) {
	_, _, err := execute(t, "catalog", "--zone", "0")
	assert.Error(t, err)

	_, _, err = execute(t, "catalog", "--zone", "4", "--zones", "2")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "paleoprofile 1.0-"))
}

func TestParseRange(t *testing.T) {
	r, err := parseRange(" 5 , 40 ")
	require.NoError(t, err)
	assert.Equal(t, [2]int{5, 40}, r)

	_, err = parseRange("5")
	assert.Error(t, err)
	_, err = parseRange("a,b")
	assert.Error(t, err)
}
