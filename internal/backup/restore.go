package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"toolsuite/internal/config"
	"toolsuite/internal/fileops"
)

// Snapshot is an existing backup directory inside the scripts directory
type Snapshot struct {
	Name    string    // Directory name, e.g. Backup_20250314_092653
	Path    string    // Full path
	Created time.Time // Run timestamp parsed from the name
	Files   []string  // Backed up file names
}

// RestoreResult contains the result of a restore operation
type RestoreResult struct {
	Snapshot  string   // Name of the restored snapshot
	Restored  []string // File names copied back into the scripts directory
	BackupDir string   // Where the replaced files went, empty if none
}

// List returns the backup directories in root, newest first
func List(root string) ([]Snapshot, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []Snapshot{}, nil
		}
		return nil, err
	}

	snapshots := []Snapshot{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		created, ok := config.ParseBackupDirName(entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(root, entry.Name())
		files, err := listFiles(path)
		if err != nil {
			continue // Skip unreadable backups
		}

		snapshots = append(snapshots, Snapshot{
			Name:    entry.Name(),
			Path:    path,
			Created: created,
			Files:   files,
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].Created.Equal(snapshots[j].Created) {
			return snapshots[i].Name > snapshots[j].Name
		}
		return snapshots[i].Created.After(snapshots[j].Created)
	})

	return snapshots, nil
}

// Find returns the snapshot with the given name
func Find(root, name string) (*Snapshot, error) {
	snapshots, err := List(root)
	if err != nil {
		return nil, err
	}
	for i := range snapshots {
		if snapshots[i].Name == name {
			return &snapshots[i], nil
		}
	}
	return nil, fmt.Errorf("backup '%s' not found in %s", name, root)
}

// Restore copies every file of the named snapshot back into root. Files it
// would replace are first moved into a new backup set stamped now.
func Restore(root, name string, now time.Time) (*RestoreResult, error) {
	snap, err := Find(root, name)
	if err != nil {
		return nil, err
	}

	result := &RestoreResult{
		Snapshot: snap.Name,
		Restored: []string{},
	}

	set := New(root, now)
	for _, file := range snap.Files {
		dest := filepath.Join(root, file)

		if fileops.Exists(dest) {
			if _, err := set.Move(dest); err != nil {
				result.BackupDir = set.Dir()
				return result, err
			}
		}

		if err := fileops.InstallFile(filepath.Join(snap.Path, file), dest); err != nil {
			result.BackupDir = set.Dir()
			return result, fmt.Errorf("failed to restore %s: %w", file, err)
		}

		result.Restored = append(result.Restored, file)
	}

	result.BackupDir = set.Dir()
	return result, nil
}

// listFiles returns the regular file names of dir in name order
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, entry := range entries {
		if entry.Type().IsRegular() || entry.Type()&os.ModeSymlink != 0 {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
