package dispatch

import (
	"encoding/json"

	"github.com/louisbranch/dealmate-context/internal/services/catalog/resolver"
)

// jsonrpcVersion is stamped on every response envelope.
const jsonrpcVersion = "2.0"

// Request is one decoded input line.
type Request struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is one output line. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject is the transport-level error payload.
type ErrorObject struct {
	Message string `json:"message"`
}

// ReadParams are the parameters of resources/read.
type ReadParams struct {
	URI *string `json:"uri"`
}

// ListResult is the result of resources/list.
type ListResult struct {
	Resources []resolver.Resource `json:"resources"`
}

// ReadResult is the result of resources/read.
type ReadResult struct {
	Contents []resolver.Content `json:"contents"`
}

// UnknownMethodResult is returned, as a successful result, for methods the
// dispatcher does not implement.
type UnknownMethodResult struct {
	Error string `json:"error"`
}

func resultResponse(id json.RawMessage, result any) Response {
	return Response{JSONRPC: jsonrpcVersion, ID: id, Result: result}
}

func errorResponse(id json.RawMessage, err error) Response {
	return Response{JSONRPC: jsonrpcVersion, ID: id, Error: &ErrorObject{Message: err.Error()}}
}
