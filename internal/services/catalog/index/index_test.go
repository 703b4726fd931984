package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louisbranch/dealmate-context/internal/services/catalog"
	"github.com/louisbranch/dealmate-context/internal/services/catalog/scanner"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(rel), 0o644))
}

func buildFixture(t *testing.T) (string, *Index) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "serviceA/src/main.rs")
	writeFile(t, root, "serviceA/README.md")
	writeFile(t, root, "serviceB/app.py")
	writeFile(t, root, ".hidden/secret.json")
	writeFile(t, root, "loose.json")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	return root, Build(root, scanner.New(scanner.DefaultRules()))
}

func TestBuildIndexesEveryService(t *testing.T) {
	root, idx := buildFixture(t)

	assert.Equal(t, root, idx.Root())
	assert.Equal(t, []string{"empty", "serviceA", "serviceB"}, idx.Services())
	assert.Equal(t, 3, idx.Len())
	assert.Empty(t, idx.Warnings())

	files, ok := idx.Files("serviceA")
	require.True(t, ok)
	require.Len(t, files, 2)
	assert.Equal(t, "README.md", files[0].RelativePath)
	assert.Equal(t, "src/main.rs", files[1].RelativePath)

	files, ok = idx.Files("empty")
	assert.True(t, ok)
	assert.Empty(t, files)
	assert.True(t, idx.HasService("empty"))
}

func TestBuildSkipsHiddenServices(t *testing.T) {
	_, idx := buildFixture(t)

	_, ok := idx.Files(".hidden")
	assert.False(t, ok)
	assert.False(t, idx.HasService(".hidden"))
}

func TestLookup(t *testing.T) {
	_, idx := buildFixture(t)

	f, ok := idx.Lookup("serviceA", "src/main.rs")
	require.True(t, ok)
	assert.Equal(t, "main.rs", f.Name)
	assert.Equal(t, "serviceA", f.ServiceName)

	_, ok = idx.Lookup("serviceA", "SRC/main.rs")
	assert.False(t, ok, "lookup is case-sensitive")

	_, ok = idx.Lookup("serviceA", "missing.rs")
	assert.False(t, ok)

	_, ok = idx.Lookup("nope", "src/main.rs")
	assert.False(t, ok)
}

func TestBuildMissingRootIsEmpty(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")

	idx := Build(root, scanner.New(scanner.DefaultRules()))

	assert.Empty(t, idx.Services())
	assert.Zero(t, idx.Len())
	require.Len(t, idx.Warnings(), 1)
	assert.ErrorIs(t, idx.Warnings()[0].Err, os.ErrNotExist)
}

func TestEachVisitsInServiceThenFileOrder(t *testing.T) {
	_, idx := buildFixture(t)

	var got []string
	idx.Each(func(f catalog.FileDescriptor) {
		got = append(got, f.ServiceName+"/"+f.RelativePath)
	})

	assert.Equal(t, []string{"serviceA/README.md", "serviceA/src/main.rs", "serviceB/app.py"}, got)
}

func TestAccessorsReturnCopies(t *testing.T) {
	_, idx := buildFixture(t)

	services := idx.Services()
	services[0] = "mutated"
	files, _ := idx.Files("serviceA")
	files[0].RelativePath = "mutated"

	assert.Equal(t, "empty", idx.Services()[0])
	_, ok := idx.Lookup("serviceA", "README.md")
	assert.True(t, ok)
}

type stubScanner struct {
	warnings map[string][]catalog.Warning
}

func (s stubScanner) Scan(service, _ string) ([]catalog.FileDescriptor, []catalog.Warning) {
	return nil, s.warnings[service]
}

func TestBuildCollectsScannerWarnings(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "svc"), 0o755))
	warn := catalog.Warning{Path: "svc/locked", Err: os.ErrPermission}

	idx := Build(root, stubScanner{warnings: map[string][]catalog.Warning{"svc": {warn}}})

	assert.Equal(t, []catalog.Warning{warn}, idx.Warnings())
}

func TestBuildSkipsSymlinkedServices(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "serviceA/app.py")
	outside := t.TempDir()
	writeFile(t, outside, "app.py")
	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	idx := Build(root, scanner.New(scanner.DefaultRules()))

	assert.Equal(t, []string{"serviceA"}, idx.Services())
	assert.False(t, idx.HasService("linked"))
}
