// Package scanner walks a service directory and produces file descriptors
// for every file the scan rules consider relevant.
package scanner

import (
	"io/fs"
	"path/filepath"

	"github.com/louisbranch/dealmate-context/internal/services/catalog"
)

// Scanner walks service directories using a fixed set of rules.
type Scanner struct {
	rules Rules
}

// New creates a scanner for the given rules.
func New(rules Rules) *Scanner {
	return &Scanner{rules: rules}
}

// Scan walks root depth-first in lexical order and returns a descriptor for
// every matching file, with RelativePath measured from root. Directories that
// cannot be read are skipped and reported as warnings. Symlinks are neither
// followed nor indexed.
func (s *Scanner) Scan(serviceName, root string) ([]catalog.FileDescriptor, []catalog.Warning) {
	var (
		files    []catalog.FileDescriptor
		warnings []catalog.Warning
	)

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Either root itself is unusable (d == nil) or a directory's
			// listing failed after it was entered. Both skip the subtree.
			warnings = append(warnings, catalog.Warning{Path: path, Err: err})
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			warnings = append(warnings, catalog.Warning{Path: path, Err: relErr})
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && s.rules.SkipDir(rel, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !s.rules.IncludeFile(rel, d.Name()) {
			return nil
		}
		files = append(files, catalog.FileDescriptor{
			Name:         d.Name(),
			RelativePath: rel,
			AbsolutePath: path,
			ServiceName:  serviceName,
		})
		return nil
	})

	return files, warnings
}
