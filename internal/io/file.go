// Package ioutils provides file system utilities for the synset-downloader.
//
// This package contains functions for:
//   - Directory creation
//   - Atomic file writes (temp file + rename)
//   - Directory size computation
//
// All writes go through a temporary file in the destination directory, so a
// crash never leaves a truncated image under its final name.
package ioutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const tempSuffix = ".part"

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFileAtomic writes the output of write to path.
//
// The data goes to a hidden temporary file next to path which is synced and
// renamed over path on success, so an existing file is replaced in one step.
// The parent directory must exist.
//
// Example:
//
//	err := WriteFileAtomic("/images/n03702248/00000007.jpg", func(w io.Writer) error {
//	    return jpeg.Encode(w, img, nil)
//	})
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*"+tempSuffix)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("write %s: %w", base, err)
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// DirSize returns the total size of the regular files directly inside dir.
//
// Subdirectories and leftover WriteFileAtomic temporary files are not
// counted. A missing directory has size 0 and no error.
func DirSize(dir string) (int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	var total int64
	for _, entry := range entries {
		if !entry.Type().IsRegular() || isTempFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}

// isTempFile reports whether name matches the ".<base>.*.part" pattern used
// by WriteFileAtomic.
func isTempFile(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, tempSuffix)
}
