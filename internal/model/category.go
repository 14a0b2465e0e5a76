package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ImageExtension is the file extension of every persisted image.
const ImageExtension = ".jpg"

// Category is an ImageNet synset id (WordNet id), e.g. "n03702248".
type Category string

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// Dir returns the output directory of the category below outputDir.
func (c Category) Dir(outputDir string) string {
	return filepath.Join(outputDir, string(c))
}

// ParseCategories splits a comma, whitespace or newline separated list of
// synset ids. Empty entries are dropped and duplicates keep their first position.
//
// Example:
//
//	ParseCategories("n03702248, n02761696\nn03702248") // [n03702248 n02761696]
func ParseCategories(input string) []Category {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	seen := make(map[Category]struct{}, len(fields))
	categories := make([]Category, 0, len(fields))
	for _, field := range fields {
		c := Category(strings.TrimSpace(field))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	return categories
}

// DestinationPath returns the deterministic file path for image index of a
// category: {outputDir}/{category}/{index:08d}.jpg.
//
// The path depends on nothing but its arguments, so two work items never
// share a destination and writers need no locking.
func DestinationPath(outputDir string, category Category, index int) string {
	return filepath.Join(category.Dir(outputDir), FileName(index))
}

// FileName returns the zero-padded file name of image index.
func FileName(index int) string {
	return fmt.Sprintf("%08d%s", index, ImageExtension)
}
