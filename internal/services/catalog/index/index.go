// Package index owns the service -> file mapping built once at startup.
package index

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/dealmate-context/internal/services/catalog"
)

// Scanner produces file descriptors for one service directory.
type Scanner interface {
	Scan(serviceName, root string) ([]catalog.FileDescriptor, []catalog.Warning)
}

// Index maps service names to their indexed files. It is read-only once
// Build returns, so concurrent readers need no locking.
type Index struct {
	root     string
	order    []string
	services map[string][]catalog.FileDescriptor
	warnings []catalog.Warning
	total    int
}

// Build lists the immediate subdirectories of root, treats each non-hidden
// one as a service, and scans it. Symlinked entries are not services. An
// unreadable root is logged and yields an empty index so the server can still
// answer requests.
func Build(root string, scanner Scanner) *Index {
	idx := &Index{
		root:     root,
		services: make(map[string][]catalog.FileDescriptor),
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		log.Printf("load services from %s: %v", root, err)
		idx.warnings = append(idx.warnings, catalog.Warning{Path: root, Err: err})
		return idx
	}

	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 && !strings.HasPrefix(entry.Name(), ".") {
			log.Printf("skip symlinked service %s", entry.Name())
			continue
		}
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		files, warnings := scanner.Scan(name, filepath.Join(root, name))
		idx.order = append(idx.order, name)
		idx.services[name] = files
		idx.warnings = append(idx.warnings, warnings...)
		idx.total += len(files)
	}
	return idx
}

// Root returns the context root the index was built from.
func (idx *Index) Root() string {
	return idx.root
}

// Services returns service names in directory listing order.
func (idx *Index) Services() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Files returns the descriptors of a service in traversal order.
func (idx *Index) Files(service string) ([]catalog.FileDescriptor, bool) {
	files, ok := idx.services[service]
	if !ok {
		return nil, false
	}
	out := make([]catalog.FileDescriptor, len(files))
	copy(out, files)
	return out, true
}

// Lookup finds a file by exact, case-sensitive relative path within a service.
func (idx *Index) Lookup(service, relativePath string) (catalog.FileDescriptor, bool) {
	files, ok := idx.services[service]
	if !ok {
		return catalog.FileDescriptor{}, false
	}
	relativePath = filepath.ToSlash(relativePath)
	for _, f := range files {
		if f.RelativePath == relativePath {
			return f, true
		}
	}
	return catalog.FileDescriptor{}, false
}

// HasService reports whether service was indexed (even with zero files).
func (idx *Index) HasService(service string) bool {
	_, ok := idx.services[service]
	return ok
}

// Len returns the number of descriptors across all services.
func (idx *Index) Len() int {
	return idx.total
}

// Warnings returns the directories skipped while building.
func (idx *Index) Warnings() []catalog.Warning {
	out := make([]catalog.Warning, len(idx.warnings))
	copy(out, idx.warnings)
	return out
}

// Each calls fn for every descriptor in service order, then file order.
func (idx *Index) Each(fn func(catalog.FileDescriptor)) {
	for _, name := range idx.order {
		for _, f := range idx.services[name] {
			fn(f)
		}
	}
}
