// Package errors provides structured error handling for catalog resolution
// and protocol dispatch.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Index build errors
	CodeIndexBuildWarning Code = "INDEX_BUILD_WARNING"

	// Resolution errors
	CodeInvalidScheme   Code = "INVALID_SCHEME"
	CodeInvalidURI      Code = "INVALID_URI"
	CodeServiceNotFound Code = "SERVICE_NOT_FOUND"
	CodeFileNotFound    Code = "FILE_NOT_FOUND"
	CodeReadError       Code = "READ_ERROR"

	// Dispatch errors
	CodeUnknownMethod    Code = "UNKNOWN_METHOD"
	CodeMalformedRequest Code = "MALFORMED_REQUEST"
)

// NotFound reports whether the code describes an addressable resource that
// does not exist.
func (c Code) NotFound() bool {
	switch c {
	case CodeServiceNotFound, CodeFileNotFound:
		return true
	default:
		return false
	}
}

// ClientFault reports whether the code is caused by the request rather than
// by the server's filesystem.
func (c Code) ClientFault() bool {
	switch c {
	case CodeInvalidScheme,
		CodeInvalidURI,
		CodeServiceNotFound,
		CodeFileNotFound,
		CodeUnknownMethod,
		CodeMalformedRequest:
		return true
	default:
		return false
	}
}
