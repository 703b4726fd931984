package dispatch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louisbranch/dealmate-context/internal/services/catalog/index"
	"github.com/louisbranch/dealmate-context/internal/services/catalog/resolver"
	"github.com/louisbranch/dealmate-context/internal/services/catalog/resourceuri"
	"github.com/louisbranch/dealmate-context/internal/services/catalog/scanner"
)

func decodeLines(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()
	var responses []map[string]any
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m), "line %q", sc.Text())
		responses = append(responses, m)
	}
	require.NoError(t, sc.Err())
	return responses
}

func TestServeAnswersInArrivalOrder(t *testing.T) {
	d := New(newResolver(t))
	in := strings.Join([]string{
		`{"id":1,"method":"resources/read","params":{"uri":"dealmate://serviceA/src/main.rs"}}`,
		``,
		`{"id":2,"method":"resources/list"}`,
		`garbage`,
		`{"id":3,"method":"bogus"}`,
		`{"id":4,"method":"resources/read","params":{"uri":"dealmate://nope/x"}}`,
	}, "\n")
	var out bytes.Buffer

	require.NoError(t, d.Serve(context.Background(), strings.NewReader(in), &out))

	responses := decodeLines(t, &out)
	require.Len(t, responses, 5)
	assert.Equal(t, float64(1), responses[0]["id"])
	assert.Equal(t, float64(2), responses[1]["id"])
	assert.Nil(t, responses[2]["id"])
	assert.Contains(t, responses[2], "error")
	assert.Equal(t, float64(3), responses[3]["id"])
	assert.Equal(t, map[string]any{"error": "Unknown method: bogus"}, responses[3]["result"])
	assert.Equal(t, float64(4), responses[4]["id"])
	assert.Equal(t, map[string]any{"message": "Service not found: nope"}, responses[4]["error"])
}

func TestServeDoesNotEscapeHTML(t *testing.T) {
	d := New(stubCatalog{})
	var out bytes.Buffer

	require.NoError(t, d.Serve(context.Background(), strings.NewReader(`{"id":1,"method":"<b>"}`+"\n"), &out))

	assert.Contains(t, out.String(), "Unknown method: <b>")
}

func TestServeEmptyContextRoot(t *testing.T) {
	idx := index.Build(filepath.Join(t.TempDir(), "missing"), scanner.New(scanner.DefaultRules()))
	d := New(resolver.New(idx, resourceuri.NewCodec("")))
	var out bytes.Buffer

	require.NoError(t, d.Serve(context.Background(), strings.NewReader(`{"id":1,"method":"resources/list"}`), &out))

	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{"resources":[]}}`, strings.TrimSpace(out.String()))
}

func TestServeStopsOnCancel(t *testing.T) {
	d := New(stubCatalog{})
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.Serve(ctx, pr, io.Discard) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestServeReportsReadErrors(t *testing.T) {
	boom := errors.New("stdin closed badly")

	err := New(stubCatalog{}).Serve(context.Background(), failingReader{err: boom}, io.Discard)

	assert.ErrorIs(t, err, boom)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("stdout gone") }

func TestServeReportsWriteErrors(t *testing.T) {
	err := New(stubCatalog{}).Serve(context.Background(), strings.NewReader(`{"id":1,"method":"resources/list"}`), failingWriter{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "write response")
}
