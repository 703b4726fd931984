package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dealmate-context/internal/platform/branding"
	"github.com/louisbranch/dealmate-context/internal/services/catalog/resolver"
	"github.com/louisbranch/dealmate-context/internal/services/mcp/dispatch"
)

// Catalog is the query surface shared by every transport.
type Catalog interface {
	List() []resolver.Resource
	Read(uri string) (resolver.Content, error)
}

// TransportKind identifies the protocol transport implementation.
type TransportKind string

const (
	// TransportJSONL speaks the line-delimited JSON-RPC protocol on stdio
	// with no handshake.
	TransportJSONL TransportKind = "jsonl"
	// TransportStdio runs the full MCP protocol on stdio.
	TransportStdio TransportKind = "mcp"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the protocol server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the listen address for TransportHTTP. Defaults to
	// localhost:8081.
	HTTPAddr string
	// URITemplate is advertised as a resource template so MCP clients can
	// address files without listing first.
	URITemplate string
}

// Server hosts the catalog behind both protocol flavours.
type Server struct {
	mcpServer  *mcp.Server
	dispatcher *dispatch.Dispatcher
}

// New builds the MCP server and line dispatcher for catalog. Every listed
// resource is registered once; the index is immutable so registrations never
// change afterwards.
func New(catalog Catalog, uriTemplate string) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: branding.ServerName, Version: branding.Version}, &mcp.ServerOptions{
		Instructions: "Read-only source files grouped by service. List resources, then read them by URI.",
	})
	registerCatalogResources(mcpServer, catalog, uriTemplate)

	return &Server{
		mcpServer:  mcpServer,
		dispatcher: dispatch.New(catalog),
	}
}

// Run is the protocol entrypoint and blocks until the transport stops or ctx
// ends.
func Run(ctx context.Context, cfg Config, catalog Catalog) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportJSONL
	}
	server := New(catalog, cfg.URITemplate)

	switch cfg.Transport {
	case TransportJSONL:
		return server.ServeLines(ctx, os.Stdin, os.Stdout)
	case TransportStdio:
		return server.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return server.serveHTTP(ctx, cfg.HTTPAddr)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// ServeLines runs the line-delimited dispatcher over r and w.
func (s *Server) ServeLines(ctx context.Context, r io.Reader, w io.Writer) error {
	if s == nil || s.dispatcher == nil {
		return fmt.Errorf("dispatcher is not configured")
	}
	log.Printf("serving line-delimited JSON-RPC on stdio")
	return s.dispatcher.Serve(ctx, r, w)
}

// serveWithTransport runs the MCP server on transport. Context cancellation
// is a normal shutdown, not an error.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	return err
}
