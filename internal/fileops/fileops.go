// Package fileops holds the file primitives shared by the backup and install
// steps: metadata-preserving copy and move with a cross-device fallback.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// ExecMode is the permission applied to installed scripts, binaries and
// launcher files: rwx for the owner, r-x for group and others.
const ExecMode os.FileMode = 0755

// CopyFile copies src to dst, creating parent directories as needed. The
// permission bits and modification time of src are carried over.
func CopyFile(src, dst string) error {
	// Create destination directory
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	// Get source file info for permissions
	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	// Opening dst with O_TRUNC would empty src when both resolve to one file
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("%s and %s are the same file", src, dst)
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}

	// OpenFile only applies the mode on creation and through the umask
	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}

	return os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
}

// InstallFile copies src to dst and sets ExecMode on the result
func InstallFile(src, dst string) error {
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Chmod(dst, ExecMode)
}

// MoveFile renames src to dst. When the two paths live on different
// filesystems it copies and then removes src.
func MoveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}

	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// Exists reports whether path exists (without following a final symlink)
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
