package dispatch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Serve reads newline-delimited requests from r and writes one response line
// per request to w. Requests are handled one at a time on the calling
// goroutine, so responses keep arrival order. Blank lines are ignored.
//
// Serve returns nil when r reaches EOF or ctx is cancelled, and an error when
// reading r or writing w fails.
func (d *Dispatcher) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	done := make(chan struct{})
	defer close(done)

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadBytes('\n')
			if len(line) > 0 {
				select {
				case lines <- line:
				case <-done:
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("read request: %w", err)
				default:
					return nil
				}
			}
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			if err := enc.Encode(d.Handle(ctx, line)); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}
