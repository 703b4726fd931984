// Package catalog holds the value types shared by the service catalog:
// file descriptors produced by the scanner and warnings accumulated while the
// index is built.
//
// Subpackages split the catalog by lifecycle:
// - scanner walks one service directory,
// - index owns the service -> files mapping built once at startup,
// - resourceuri maps (service, path) pairs to resource URIs and back,
// - resolver answers list/read queries against an immutable index.
package catalog
