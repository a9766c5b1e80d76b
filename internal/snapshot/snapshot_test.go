package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile is a test helper that creates a file with parent directories.
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestFSSnapshotListFiltersAndSorts verifies the walk keeps only source
// files, honors excludes, and returns sorted relative paths.
func TestFSSnapshotListFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b/util.py", "x = 1\n")
	writeFile(t, root, "a/engine.go", "package a\n")
	writeFile(t, root, "README.md", "docs\n")
	writeFile(t, root, "vendor/dep.go", "package dep\n")
	writeFile(t, root, "gen/out.go", "package gen\n")

	snap := NewFSSnapshot(root, []string{"gen/"})
	units, err := snap.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a/engine.go", "b/util.py"}, units)
}

// TestFSSnapshotMeasureMetrics verifies line, complexity and duplication
// measurement over known content.
func TestFSSnapshotMeasureMetrics(t *testing.T) {
	root := t.TempDir()
	content := "def run(total):\n" +
		"    if total > 0:\n" +
		"        total += compute_step_value(total)\n" +
		"\n" +
		"        total += compute_step_value(total)\n" +
		"    return total\n"
	writeFile(t, root, "engine.py", content)

	snap := NewFSSnapshot(root, nil)
	_, err := snap.List(context.Background())
	require.NoError(t, err)

	metrics, err := snap.Measure(context.Background(), "engine.py")
	require.NoError(t, err)
	assert.Equal(t, 5, metrics.Lines, "blank lines are not counted")
	assert.Equal(t, 1, metrics.Complexity)
	// One of the two identical long lines counts as duplicated
	assert.InDelta(t, 1.0/5.0, metrics.DuplicationRatio, 0.001)
}

// TestFSSnapshotReferenceGraph verifies fan-in/fan-out derivation from
// import-like lines.
func TestFSSnapshotReferenceGraph(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "engine.py", "import helpers\nimport physics\n")
	writeFile(t, root, "cli.py", "from helpers import run\n")
	writeFile(t, root, "helpers.py", "x = 1\n")
	writeFile(t, root, "physics.py", "y = 2\n")

	snap := NewFSSnapshot(root, nil)
	_, err := snap.List(context.Background())
	require.NoError(t, err)

	engine, err := snap.Measure(context.Background(), "engine.py")
	require.NoError(t, err)
	assert.Equal(t, 2, engine.FanOut)
	assert.Equal(t, 0, engine.FanIn)

	helpers, err := snap.Measure(context.Background(), "helpers.py")
	require.NoError(t, err)
	assert.Equal(t, 2, helpers.FanIn, "engine.py and cli.py both reference helpers")
}

// TestFSSnapshotMeasureMissingFile verifies measuring a nonexistent unit
// surfaces an error for the marker path.
func TestFSSnapshotMeasureMissingFile(t *testing.T) {
	snap := NewFSSnapshot(t.TempDir(), nil)
	_, err := snap.Measure(context.Background(), "nope.go")
	assert.Error(t, err)
}

// TestNewSelectsImplementation verifies the config-driven choice between the
// filesystem walk and a pre-extracted unit list.
func TestNewSelectsImplementation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	unitsPath := filepath.Join(root, "units.json")
	require.NoError(t, os.WriteFile(unitsPath, []byte(`[{"id":"sim/engine.py","metrics":{"lines":100}}]`), 0o644))

	t.Run("filesystem walk", func(t *testing.T) {
		snap, err := New(&contract.Config{RepoPath: root})
		require.NoError(t, err)
		assert.IsType(t, &FSSnapshot{}, snap)
	})

	t.Run("units file", func(t *testing.T) {
		snap, err := New(&contract.Config{RepoPath: root, UnitsFile: unitsPath})
		require.NoError(t, err)
		assert.IsType(t, &UnitsSnapshot{}, snap)
	})

	t.Run("missing repo path", func(t *testing.T) {
		_, err := New(&contract.Config{RepoPath: filepath.Join(root, "missing")})
		assert.Error(t, err)
	})
}
