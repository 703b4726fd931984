// Package dispatch implements the line-delimited JSON-RPC protocol: one
// request object per input line, one response envelope per request, in
// arrival order.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/dealmate-context/internal/platform/errors"
	"github.com/louisbranch/dealmate-context/internal/platform/otel"
	"github.com/louisbranch/dealmate-context/internal/services/catalog/resolver"
)

const tracerName = "github.com/louisbranch/dealmate-context/internal/services/mcp/dispatch"

// Method is a supported request method.
type Method string

const (
	// MethodListResources lists every indexed file.
	MethodListResources Method = "resources/list"
	// MethodReadResource reads one file by URI.
	MethodReadResource Method = "resources/read"
)

// Catalog is what the dispatcher queries. *resolver.Resolver satisfies it.
type Catalog interface {
	List() []resolver.Resource
	Read(uri string) (resolver.Content, error)
}

// Dispatcher routes requests to the catalog. It holds no per-request state.
type Dispatcher struct {
	catalog Catalog
	tracer  trace.Tracer
}

// New creates a dispatcher over catalog.
func New(catalog Catalog) *Dispatcher {
	return &Dispatcher{
		catalog: catalog,
		tracer:  otel.Tracer(tracerName),
	}
}

// Handle decodes one raw request and produces its response. It never panics
// on bad input; every failure becomes an envelope.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(recoverID(raw), apperrors.Wrap(
			apperrors.CodeMalformedRequest,
			fmt.Sprintf("Malformed request: %v", err),
			err,
		))
	}
	// null and non-object JSON decode without error into a zero Request.
	if !gjson.ParseBytes(raw).IsObject() {
		return errorResponse(nil, apperrors.New(apperrors.CodeMalformedRequest, "Malformed request: expected a JSON object"))
	}
	if req.Method == "" {
		return errorResponse(recoverID(raw), apperrors.New(apperrors.CodeMalformedRequest, "Malformed request: missing method"))
	}
	return d.Dispatch(ctx, req)
}

// Dispatch routes a decoded request by method.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	id := req.ID
	if len(id) == 0 {
		id = nil
	}

	ctx, span := d.tracer.Start(ctx, "jsonrpc "+req.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("rpc.system", "jsonrpc"),
			attribute.String("rpc.method", req.Method),
			attribute.String("rpc.jsonrpc.request_id", string(id)),
		),
	)
	defer span.End()

	resp := d.route(ctx, req)
	resp.ID = id
	return resp
}

func (d *Dispatcher) route(ctx context.Context, req Request) Response {
	switch Method(req.Method) {
	case MethodListResources:
		return resultResponse(nil, ListResult{Resources: d.catalog.List()})
	case MethodReadResource:
		uri, err := readURI(req.Params)
		if err != nil {
			recordError(ctx, err)
			return errorResponse(nil, err)
		}
		content, err := d.catalog.Read(uri)
		if err != nil {
			recordError(ctx, err)
			return errorResponse(nil, err)
		}
		return resultResponse(nil, ReadResult{Contents: []resolver.Content{content}})
	default:
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("error.code", string(apperrors.CodeUnknownMethod)))
		return resultResponse(nil, UnknownMethodResult{Error: fmt.Sprintf("Unknown method: %s", req.Method)})
	}
}

func readURI(params json.RawMessage) (string, error) {
	missing := apperrors.New(apperrors.CodeMalformedRequest, "Missing required parameter: uri")
	if len(params) == 0 {
		return "", missing
	}
	var p ReadParams
	if err := json.Unmarshal(params, &p); err != nil {
		return "", apperrors.Wrap(apperrors.CodeMalformedRequest, fmt.Sprintf("Malformed params: %v", err), err)
	}
	if p.URI == nil {
		return "", missing
	}
	return *p.URI, nil
}

// recoverID pulls the correlation id out of input that parsed as JSON but not
// as a request. Anything else answers with a null id.
func recoverID(raw []byte) json.RawMessage {
	if !gjson.ValidBytes(raw) {
		return nil
	}
	id := gjson.GetBytes(raw, "id")
	if !id.Exists() {
		return nil
	}
	switch id.Type {
	case gjson.String, gjson.Number, gjson.Null:
		return json.RawMessage(id.Raw)
	default:
		return nil
	}
}

// recordError annotates the request span. Only server-side faults mark the
// span as failed and reach the log.
func recordError(ctx context.Context, err error) {
	code := apperrors.CodeOf(err)
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.code", string(code)))
	if code.ClientFault() {
		return
	}
	span.SetStatus(codes.Error, err.Error())
	log.Printf("dispatch: %s: %v", code, err)
}
