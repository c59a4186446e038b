package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/noisegraph/internal/store"
	"github.com/roach88/noisegraph/internal/testutil"
)

// copyScene copies a testdata scene into a fresh directory.
func copyScene(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSceneRunsAndWritesOutputs(t *testing.T) {
	path := copyScene(t, "ramp.yaml")

	stdout, _, err := execute(t, NewSceneCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ ramp (1 render(s), 1 probe(s))")
	assert.Contains(t, stdout, "1 passed, 0 failed, 1 total")

	_, err = os.Stat(filepath.Join(filepath.Dir(path), "ramp.png"))
	assert.NoError(t, err)
}

func TestSceneOutDirAndDryRun(t *testing.T) {
	path := copyScene(t, "ramp.yaml")
	out := filepath.Join(t.TempDir(), "build")

	_, _, err := execute(t, NewSceneCommand(&RootOptions{Format: "text"}), path, "--out", out)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "ramp.png"))
	assert.NoError(t, err)

	dry := filepath.Join(t.TempDir(), "dry")
	_, _, err = execute(t, NewSceneCommand(&RootOptions{Format: "text"}), path, "--out", dry, "--dry-run")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dry, "ramp.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestSceneFailureExitCode(t *testing.T) {
	stdout, _, err := execute(t, NewSceneCommand(&RootOptions{Format: "text"}),
		filepath.Join("testdata", "failing.cue"), "--dry-run")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, stdout, "✗ failing")
	assert.Contains(t, stdout, "Assertion failed: probe y")
	assert.Contains(t, stdout, "0 passed, 1 failed, 1 total")
}

func TestSceneJSONSummary(t *testing.T) {
	stdout, _, err := execute(t, NewSceneCommand(&RootOptions{Format: "json"}),
		copyScene(t, "ramp.yaml"), filepath.Join("testdata", "failing.cue"), filepath.Join("testdata", "missing.yaml"), "--dry-run")
	require.Error(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   SceneSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	summary := resp.Data
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 2, summary.Failed)

	require.Len(t, summary.Scenes, 3)
	assert.True(t, summary.Scenes[0].Pass)
	require.Len(t, summary.Scenes[0].Renders, 1)
	assert.Equal(t, testutil.RampRasterDigest, summary.Scenes[0].Renders[0].RasterDigest)
	assert.Equal(t, "missing.yaml", summary.Scenes[2].Name)
	assert.Contains(t, summary.Scenes[2].Errors[0], "load failed")
}

func TestSceneGolden(t *testing.T) {
	path := copyScene(t, "ramp.yaml")
	golden := strings.TrimSuffix(path, ".yaml") + ".golden"

	// Without a golden file the comparison fails.
	_, _, err := execute(t, NewSceneCommand(&RootOptions{Format: "text"}), path, "--dry-run", "--golden")
	require.Error(t, err)

	_, _, err = execute(t, NewSceneCommand(&RootOptions{Format: "text"}), path, "--dry-run", "--update")
	require.NoError(t, err)
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scene ramp\n")

	_, _, err = execute(t, NewSceneCommand(&RootOptions{Format: "text"}), path, "--dry-run", "--golden")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte("scene other\n"), 0o644))
	stdout, _, err := execute(t, NewSceneCommand(&RootOptions{Format: "text"}), path, "--dry-run", "--golden")
	require.Error(t, err)
	assert.Contains(t, stdout, "run with --update to accept")
}

func TestSceneRecordsRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")

	_, _, err := execute(t, NewSceneCommand(&RootOptions{Format: "text"}), copyScene(t, "ramp.yaml"), "--db", db, "--dry-run")
	require.NoError(t, err)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.RendersForScene(context.Background(), "ramp")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "plain", runs[0].Name)
}
