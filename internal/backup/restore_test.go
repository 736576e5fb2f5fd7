package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEmpty(t *testing.T) {
	snapshots, err := List(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Backup_20240101_000000", "old.sh"), "1")
	writeFile(t, filepath.Join(root, "Backup_20250101_000000", "a.sh"), "2")
	writeFile(t, filepath.Join(root, "Backup_20250101_000000", "b.sh"), "3")
	writeFile(t, filepath.Join(root, "Backup_20250101_000000_1", "a.sh"), "4")
	writeFile(t, filepath.Join(root, "Not a backup", "x.sh"), "5")
	writeFile(t, filepath.Join(root, "script.sh"), "6")

	snapshots, err := List(root)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	assert.Equal(t, "Backup_20250101_000000_1", snapshots[0].Name)
	assert.Equal(t, "Backup_20250101_000000", snapshots[1].Name)
	assert.Equal(t, "Backup_20240101_000000", snapshots[2].Name)
	assert.Equal(t, []string{"a.sh", "b.sh"}, snapshots[1].Files)
	assert.Equal(t, 2025, snapshots[1].Created.Year())
}

func TestFindUnknown(t *testing.T) {
	_, err := Find(t.TempDir(), "Backup_20990101_000000")
	assert.Error(t, err)
}

func TestRestore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Backup_20250101_000000", "a.sh"), "previous a")
	writeFile(t, filepath.Join(root, "Backup_20250101_000000", "b.sh"), "previous b")
	writeFile(t, filepath.Join(root, "a.sh"), "current a")

	now := time.Date(2025, 2, 2, 10, 0, 0, 0, time.Local)
	result, err := Restore(root, "Backup_20250101_000000", now)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.sh", "b.sh"}, result.Restored)
	assert.Equal(t, filepath.Join(root, "Backup_20250202_100000"), result.BackupDir)

	data, err := os.ReadFile(filepath.Join(root, "a.sh"))
	require.NoError(t, err)
	assert.Equal(t, "previous a", string(data))

	// The replaced file is recoverable from the new backup
	data, err = os.ReadFile(filepath.Join(result.BackupDir, "a.sh"))
	require.NoError(t, err)
	assert.Equal(t, "current a", string(data))

	// The restored snapshot itself is left intact
	assert.FileExists(t, filepath.Join(root, "Backup_20250101_000000", "a.sh"))

	info, err := os.Stat(filepath.Join(root, "b.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestRestoreWithoutConflicts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Backup_20250101_000000", "a.sh"), "previous a")

	result, err := Restore(root, "Backup_20250101_000000", time.Now())
	require.NoError(t, err)
	assert.Empty(t, result.BackupDir, "no backup dir when nothing is replaced")
	assert.Equal(t, []string{"a.sh"}, result.Restored)
}
