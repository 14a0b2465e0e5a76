package ioutils

import (
	"fmt"
	"os"

	"github.com/handiism/synset-downloader/internal/model"
)

// Filtered is the result of FilterDownloaded.
type Filtered struct {
	// Pending categories still have to be downloaded.
	Pending []model.Category

	// Downloaded categories already hold data.
	Downloaded []model.Category

	// Blocked categories have a non-directory in place of their output
	// directory and cannot be downloaded.
	Blocked []model.Category
}

// FilterDownloaded sorts categories by the state of their directory below
// outputDir.
//
// A category counts as downloaded when its directory exists and the files in
// it have a non-zero total size. Missing or empty directories, and
// directories holding only zero-byte files, stay pending.
func FilterDownloaded(outputDir string, categories []model.Category) (Filtered, error) {
	result := Filtered{Pending: make([]model.Category, 0, len(categories))}
	for _, category := range categories {
		dir := category.Dir(outputDir)

		info, err := os.Stat(dir)
		switch {
		case os.IsNotExist(err):
			result.Pending = append(result.Pending, category)
			continue
		case err != nil:
			return Filtered{}, fmt.Errorf("inspect %s: %w", category, err)
		case !info.IsDir():
			result.Blocked = append(result.Blocked, category)
			continue
		}

		size, err := DirSize(dir)
		if err != nil {
			return Filtered{}, fmt.Errorf("inspect %s: %w", category, err)
		}
		if size > 0 {
			result.Downloaded = append(result.Downloaded, category)
			continue
		}
		result.Pending = append(result.Pending, category)
	}
	return result, nil
}

// MakeCategoryDirs creates the output directory of every category.
// Existing directories are left untouched.
func MakeCategoryDirs(outputDir string, categories []model.Category) error {
	for _, category := range categories {
		if err := EnsureDir(category.Dir(outputDir)); err != nil {
			return fmt.Errorf("create directory for %s: %w", category, err)
		}
	}
	return nil
}
