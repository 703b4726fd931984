package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/dealmate-context/internal/platform/errors"
)

const serviceFileTemplateName = "service-file"

// registerCatalogResources adds one MCP resource per catalog entry plus a
// template covering the whole URI space.
func registerCatalogResources(server *mcp.Server, catalog Catalog, uriTemplate string) {
	handler := catalogResourceHandler(catalog)

	for _, res := range catalog.List() {
		// The SDK rejects URIs net/url cannot parse (e.g. a stray "%" in a
		// filename). Those stay reachable through the line protocol.
		if _, err := url.Parse(res.URI); err != nil {
			log.Printf("mcp resource skipped: name=%s err=%v", res.Name, err)
			continue
		}
		server.AddResource(&mcp.Resource{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MIMEType,
		}, handler)
	}

	if strings.TrimSpace(uriTemplate) != "" {
		server.AddResourceTemplate(&mcp.ResourceTemplate{
			Name:        serviceFileTemplateName,
			Description: "A source file within a service directory.",
			URITemplate: uriTemplate,
		}, handler)
	}
}

// catalogResourceHandler reads a file through the catalog. Unknown services
// and files map to the MCP resource-not-found error.
func catalogResourceHandler(catalog Catalog) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
			return nil, fmt.Errorf("resource uri is required")
		}
		uri := req.Params.URI

		content, err := catalog.Read(uri)
		if err != nil {
			if apperrors.CodeOf(err).NotFound() {
				return nil, mcp.ResourceNotFoundError(uri)
			}
			return nil, err
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      content.URI,
					MIMEType: content.MIMEType,
					Text:     content.Text,
				},
			},
		}, nil
	}
}
