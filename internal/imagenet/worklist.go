package imagenet

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/handiism/synset-downloader/internal/model"
)

// ReadWorklist reads categories from a text file, one synset id per line.
//
// Surrounding whitespace is stripped; blank lines and lines starting with '#'
// are skipped. Duplicates keep their first position.
func ReadWorklist(path string) ([]model.Category, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open worklist: %w", err)
	}
	defer file.Close()

	var categories []model.Category
	seen := make(map[model.Category]struct{})

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c := model.Category(line)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read worklist: %w", err)
	}

	return categories, nil
}

// SelectCategories applies the override rule: a non-empty override replaces
// the worklist file entirely, otherwise the file at path is read.
func SelectCategories(path string, override []model.Category) ([]model.Category, error) {
	if len(override) > 0 {
		return override, nil
	}
	return ReadWorklist(path)
}
