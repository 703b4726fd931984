// Package service wires protocol transports to the service catalog.
//
// It is the transport adapter layer: the package knows how to run the
// line-delimited JSON-RPC dispatcher on stdio, and how to expose the same
// catalog through the MCP Go SDK over stdio or streamable HTTP. Resolution
// semantics live in the catalog packages.
package service
