package contextd

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/louisbranch/dealmate-context/internal/platform/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseConfigDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("contextd", pflag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	require.NoError(t, err)

	assert.Equal(t, "./context-index", cfg.ContextPath)
	assert.Equal(t, "jsonl", cfg.Transport)
	assert.Equal(t, "localhost:8081", cfg.HTTPAddr)
	assert.Equal(t, "dealmate", cfg.Scheme)
	assert.Empty(t, cfg.RulesPath)
	assert.False(t, cfg.Version)
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("MCP_CONTEXT_PATH", "/env/context")
	t.Setenv("MCP_TRANSPORT", "mcp")
	t.Setenv("MCP_URI_SCHEME", "acme")

	fs := pflag.NewFlagSet("contextd", pflag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"--transport", "http", "--http-addr", "127.0.0.1:9999", "--rules", "rules.yaml"})
	require.NoError(t, err)

	assert.Equal(t, "/env/context", cfg.ContextPath)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, "127.0.0.1:9999", cfg.HTTPAddr)
	assert.Equal(t, "acme", cfg.Scheme)
	assert.Equal(t, "rules.yaml", cfg.RulesPath)
}

func TestParseConfigVersionFlag(t *testing.T) {
	fs := pflag.NewFlagSet("contextd", pflag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"--version"})
	require.NoError(t, err)
	assert.True(t, cfg.Version)
}

func TestParseConfigRejectsUnknownTransport(t *testing.T) {
	fs := pflag.NewFlagSet("contextd", pflag.ContinueOnError)
	_, err := ParseConfig(fs, []string{"--transport", "grpc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Transport")
}

func TestBuildCatalog(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "billing", "src", "main.rs"), "fn main() {}")
	writeFile(t, filepath.Join(root, "billing", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, "auth", "README.md"), "# auth")

	logs := captureLog(t)

	catalog, idx, err := BuildCatalog(Config{ContextPath: root, Scheme: "dealmate"})
	require.NoError(t, err)

	assert.Equal(t, []string{"auth", "billing"}, idx.Services())
	assert.Equal(t, 2, idx.Len())
	assert.Contains(t, logs.String(), "Loaded 2 services with context from "+root)
	assert.Contains(t, logs.String(), "service auth: 1 files")
	assert.Contains(t, logs.String(), "service billing: 1 files")

	content, err := catalog.Read("dealmate://billing/src/main.rs")
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}", content.Text)
	assert.Equal(t, "text/x-rust", content.MIMEType)
}

func TestBuildCatalogAppliesRulesFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "billing", "notes.txt"), "kept")
	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")
	writeFile(t, rulesPath, "include_extensions: [\".txt\"]\n")

	catalog, _, err := BuildCatalog(Config{ContextPath: root, Scheme: "dealmate", RulesPath: rulesPath})
	require.NoError(t, err)

	content, err := catalog.Read("dealmate://billing/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "kept", content.Text)
}

func TestBuildCatalogMissingRulesFile(t *testing.T) {
	_, _, err := BuildCatalog(Config{ContextPath: t.TempDir(), RulesPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestBuildCatalogMissingRootServesEmptyIndex(t *testing.T) {
	logs := captureLog(t)
	root := filepath.Join(t.TempDir(), "missing")

	catalog, idx, err := BuildCatalog(Config{ContextPath: root})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "index: INDEX_BUILD_WARNING: skipped unreadable directory "+root)
	assert.Contains(t, logs.String(), "Loaded 0 services with context")
	assert.Empty(t, idx.Services())
	assert.Empty(t, catalog.List())

	_, err = catalog.Read("dealmate://billing/main.rs")
	assert.Equal(t, apperrors.CodeServiceNotFound, apperrors.CodeOf(err))
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	err := Run(context.Background(), Config{ContextPath: t.TempDir(), Transport: "grpc"})
	require.Error(t, err)
}
