// Package resourceuri maps (service, relative path) pairs to resource URIs of
// the form scheme://service/relative/path and back.
//
// No percent-encoding is applied. Service names and paths come from a local,
// trusted directory scan; a name containing "://" does not round-trip.
package resourceuri

import (
	"strings"

	apperrors "github.com/louisbranch/dealmate-context/internal/platform/errors"
)

// DefaultScheme is the scheme used when none is configured.
const DefaultScheme = "dealmate"

const schemeSeparator = "://"

// Codec encodes and decodes resource URIs for one scheme.
type Codec struct {
	scheme string
	prefix string
}

// NewCodec returns a codec for scheme (without "://"). An empty scheme falls
// back to DefaultScheme.
func NewCodec(scheme string) Codec {
	scheme = strings.TrimSuffix(strings.TrimSpace(scheme), schemeSeparator)
	if scheme == "" {
		scheme = DefaultScheme
	}
	return Codec{scheme: scheme, prefix: scheme + schemeSeparator}
}

// Scheme returns the codec's scheme name.
func (c Codec) Scheme() string {
	return c.scheme
}

// Encode builds the URI for a file within a service.
func (c Codec) Encode(service, relativePath string) string {
	return c.prefix + service + "/" + relativePath
}

// Decode splits uri into its service and relative path. The remainder after
// the scheme is split on the first "/" only, so paths keep their separators.
func (c Codec) Decode(uri string) (service, relativePath string, err error) {
	rest, ok := strings.CutPrefix(uri, c.prefix)
	if !ok {
		return "", "", apperrors.WithMetadata(apperrors.CodeInvalidScheme, "Invalid URI scheme", map[string]string{"uri": uri})
	}
	service, relativePath, ok = strings.Cut(rest, "/")
	if !ok {
		return "", "", apperrors.WithMetadata(apperrors.CodeInvalidURI, "Invalid resource path", map[string]string{"uri": uri})
	}
	return service, relativePath, nil
}

// Template returns an RFC 6570 template matching every URI this codec
// produces.
func (c Codec) Template() string {
	return c.prefix + "{service}/{+path}"
}
