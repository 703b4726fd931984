// Package resolver answers list and read queries against the service index.
package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/text/encoding/unicode"

	apperrors "github.com/louisbranch/dealmate-context/internal/platform/errors"
	"github.com/louisbranch/dealmate-context/internal/services/catalog"
	"github.com/louisbranch/dealmate-context/internal/services/catalog/resourceuri"
)

// Index is the read-only view of the service index the resolver needs.
type Index interface {
	HasService(service string) bool
	Lookup(service, relativePath string) (catalog.FileDescriptor, bool)
	Each(fn func(catalog.FileDescriptor))
}

// Resource is one entry of a resource listing.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
}

// Content is the text of one resource.
type Content struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}

// Resolver maps resource URIs to indexed files.
type Resolver struct {
	index    Index
	codec    resourceuri.Codec
	readFile func(string) ([]byte, error)
}

// New creates a resolver over an immutable index.
func New(index Index, codec resourceuri.Codec) *Resolver {
	return &Resolver{
		index:    index,
		codec:    codec,
		readFile: os.ReadFile,
	}
}

// Codec returns the URI codec used by the resolver.
func (r *Resolver) Codec() resourceuri.Codec {
	return r.codec
}

// List returns one resource per indexed file in service order, then file order.
func (r *Resolver) List() []Resource {
	resources := []Resource{}
	r.index.Each(func(f catalog.FileDescriptor) {
		resources = append(resources, Resource{
			URI:         r.codec.Encode(f.ServiceName, f.RelativePath),
			Name:        f.ServiceName + "/" + f.RelativePath,
			Description: f.ServiceName + " - " + f.Name,
			MIMEType:    InferMIMEType(f.Name),
		})
	})
	return resources
}

// Read resolves uri and returns the current on-disk text of the file. The
// index is a snapshot, so a file removed after startup yields READ_ERROR.
func (r *Resolver) Read(uri string) (Content, error) {
	service, relativePath, err := r.codec.Decode(uri)
	if err != nil {
		return Content{}, err
	}
	if !r.index.HasService(service) {
		return Content{}, apperrors.WithMetadata(
			apperrors.CodeServiceNotFound,
			fmt.Sprintf("Service not found: %s", service),
			map[string]string{"service": service},
		)
	}
	file, ok := r.index.Lookup(service, relativePath)
	if !ok {
		return Content{}, apperrors.WithMetadata(
			apperrors.CodeFileNotFound,
			fmt.Sprintf("File not found: %s", relativePath),
			map[string]string{"service": service, "path": relativePath},
		)
	}

	data, err := r.readFile(file.AbsolutePath)
	if err != nil {
		return Content{}, apperrors.WrapWithMetadata(
			apperrors.CodeReadError,
			fmt.Sprintf("Cannot read file: %v", readReason(err)),
			map[string]string{"service": service, "path": relativePath},
			err,
		)
	}
	text, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return Content{}, apperrors.Wrap(apperrors.CodeReadError, fmt.Sprintf("Cannot read file: %v", err), err)
	}

	return Content{
		URI:      uri,
		MIMEType: InferMIMEType(file.Name),
		Text:     string(text),
	}, nil
}

// readReason drops the absolute path from filesystem errors so it never
// reaches protocol clients.
func readReason(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
