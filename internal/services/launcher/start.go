package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"syscall"
)

// Process describes how to start the chosen runtime.
type Process struct {
	Candidate Candidate
	// Dir is the child's working directory.
	Dir string
	// Env is the child's environment; nil inherits the launcher's.
	Env []string
	// Stdin, Stdout and Stderr default to the launcher's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Start runs the process to completion, forwarding every signal received on
// signals to the child. It returns the child's exit code; a child killed by a
// signal reports 128+signal.
func Start(ctx context.Context, p Process, signals <-chan os.Signal) (int, error) {
	if p.Candidate.Command == "" {
		return 1, fmt.Errorf("runtime command is required")
	}
	cmd := exec.Command(p.Candidate.Command, p.Candidate.Args...)
	cmd.Dir = p.Dir
	cmd.Env = p.Env
	cmd.Stdin = p.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = p.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = p.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	log.Printf("Starting %s server using %s...", p.Candidate.Runtime, p.Candidate.Label)
	if err := cmd.Start(); err != nil {
		return 1, fmt.Errorf("failed to start server: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	for {
		select {
		case sig := <-signals:
			log.Printf("Shutting down server (%v)...", sig)
			if err := cmd.Process.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
				log.Printf("forward signal %v: %v", sig, err)
			}
		case <-ctx.Done():
			_ = cmd.Process.Signal(syscall.SIGTERM)
			ctx = context.Background()
		case err := <-waitErr:
			code := exitCode(err)
			log.Printf("Server exited with code %d", code)
			if code < 0 {
				return 1, err
			}
			return code, nil
		}
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return exitErr.ExitCode()
}
