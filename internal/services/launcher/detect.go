package launcher

import (
	"context"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/dealmate-context/internal/platform/timeouts"
)

// Prober reports whether command runs and exits 0 for `--version`.
type Prober func(ctx context.Context, command string) bool

// VersionProbe runs `command --version` with output discarded.
func VersionProbe(ctx context.Context, command string) bool {
	ctx, cancel := context.WithTimeout(ctx, timeouts.RuntimeProbe)
	defer cancel()
	cmd := exec.CommandContext(ctx, command, "--version")
	cmd.Stdin = nil
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run() == nil
}

// Detect probes every runtime concurrently. The native binary is looked up
// in serverDir first, then on PATH.
func Detect(ctx context.Context, probe Prober, serverDir string) Availability {
	if probe == nil {
		probe = VersionProbe
	}
	nativeCandidates := []string{localBinary(serverDir), nativeBinary}

	var (
		nativeOK  = make([]bool, len(nativeCandidates))
		nodeOK    bool
		python3OK bool
		pythonOK  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, candidate := range nativeCandidates {
		g.Go(func() error {
			nativeOK[i] = probe(gctx, candidate)
			return nil
		})
	}
	g.Go(func() error { nodeOK = probe(gctx, "node"); return nil })
	g.Go(func() error { python3OK = probe(gctx, "python3"); return nil })
	g.Go(func() error { pythonOK = probe(gctx, "python"); return nil })
	_ = g.Wait()

	var avail Availability
	for i, ok := range nativeOK {
		if ok {
			avail.NativePath = nativeCandidates[i]
			break
		}
	}
	avail.Node = nodeOK
	switch {
	case python3OK:
		avail.PythonCommand = "python3"
	case pythonOK:
		avail.PythonCommand = "python"
	}

	names := avail.Names()
	if len(names) == 0 {
		names = []string{"none"}
	}
	log.Printf("Available runtimes: %s", strings.Join(names, ", "))
	return avail
}

// localBinary returns the contextd path inside serverDir. A bare name would be
// resolved through PATH by exec, so same-directory paths keep a "./" prefix.
func localBinary(serverDir string) string {
	path := filepath.Join(serverDir, nativeBinary)
	if filepath.Dir(path) == "." {
		return "." + string(filepath.Separator) + path
	}
	return path
}

// DefaultServerDir returns the directory holding the running executable, or
// the working directory if that cannot be determined.
func DefaultServerDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
