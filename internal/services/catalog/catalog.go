package catalog

import (
	"fmt"

	apperrors "github.com/louisbranch/dealmate-context/internal/platform/errors"
)

// FileDescriptor identifies one indexed file inside a service directory.
// Descriptors are created by the scanner and never mutated afterwards.
type FileDescriptor struct {
	// Name is the base filename.
	Name string
	// RelativePath is the path within the service root, always using "/".
	RelativePath string
	// AbsolutePath locates the file on disk. It is used for reads only and
	// is never exposed to protocol clients.
	AbsolutePath string `json:"-"`
	// ServiceName is the top-level directory the file was found under.
	ServiceName string
}

// Warning records a directory that could not be read while building the
// catalog. Warnings never fail a build.
type Warning struct {
	Path string
	Err  error
}

// AsError converts the warning into a structured INDEX_BUILD_WARNING error.
func (w Warning) AsError() error {
	return apperrors.WrapWithMetadata(
		apperrors.CodeIndexBuildWarning,
		fmt.Sprintf("skipped unreadable directory %s", w.Path),
		map[string]string{"path": w.Path},
		w.Err,
	)
}
