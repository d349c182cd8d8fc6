package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	t.Run("basic path resolution", func(t *testing.T) {
		paths, err := GetPaths()
		require.NoError(t, err)
		require.NotNil(t, paths)

		assert.True(t, filepath.IsAbs(paths.ExecutableDir), "ExecutableDir should be absolute")
		assert.True(t, filepath.IsAbs(paths.WorkingDir), "WorkingDir should be absolute")
		assert.Equal(t, filepath.Join(paths.WorkingDir, "logs"), paths.LogsDir)
	})

	t.Run("consistent calls return same paths", func(t *testing.T) {
		paths1, err1 := GetPaths()
		require.NoError(t, err1)

		paths2, err2 := GetPaths()
		require.NoError(t, err2)

		assert.Equal(t, paths1.ExecutableDir, paths2.ExecutableDir)
		assert.Equal(t, paths1.WorkingDir, paths2.WorkingDir)
	})
}

func TestPaths_GetRelativePath(t *testing.T) {
	exeDir := filepath.Join(t.TempDir(), "bin")
	paths := NewPaths(exeDir, t.TempDir())

	got := paths.GetRelativePath(DefaultInputPath)
	want := filepath.Join(exeDir, "..", "ee-nuclear-commissioning", "data", "nuclear_power_plants.xlsx")
	assert.Equal(t, filepath.Clean(want), got)
}

func TestPaths_GetOutputPath(t *testing.T) {
	workDir := t.TempDir()
	paths := NewPaths(t.TempDir(), workDir)

	assert.Equal(t, filepath.Join(workDir, "index.html"), paths.GetOutputPath("index.html"))

	abs := filepath.Join(t.TempDir(), "chart.html")
	assert.Equal(t, abs, paths.GetOutputPath(abs))
}

func TestEnsureDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "deeper", "index.html")

	require.NoError(t, EnsureDir(target))

	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.xlsx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "absent.xlsx")))
}
