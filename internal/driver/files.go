package driver

import (
	"io/fs"
	"path/filepath"
	"sort"

	"wscheck/internal/config"
)

// ListFiles returns the sorted list of regular files below dir that cfg
// includes. Directories matching an exclude "/**" pattern are not entered.
func ListFiles(dir string, cfg *config.Config) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := cfg.Rel(path)
		if d.IsDir() {
			if path != dir && cfg.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if filepath.Base(path) == config.FileName {
			return nil
		}
		if cfg.Includes(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
