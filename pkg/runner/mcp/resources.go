package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	srv.AddResource(navResource(), navHandler(svc))
	srv.AddResource(sourcesResource(), sourcesHandler(svc))
	srv.AddResourceTemplate(reportTemplate(), reportHandler(svc))
}

func navResource() mcp.Resource {
	return mcp.NewResource(
		"medview://nav",
		"Navigation",
		mcp.WithResourceDescription("The navigation tree with the active and expanded flags of the current location."),
		mcp.WithMIMEType("application/json"),
	)
}

func navHandler(svc *Service) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		nodes, err := svc.Nav(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"location": svc.viewer.Location.Path(),
			"nodes":    nodes,
		})
	}
}

func sourcesResource() mcp.Resource {
	return mcp.NewResource(
		"medview://sources",
		"Sources",
		mcp.WithResourceDescription("Load status of every data collection."),
		mcp.WithMIMEType("application/json"),
	)
}

func sourcesHandler(svc *Service) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		sources, err := svc.Sources(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"sources": sources,
			"count":   len(sources),
		})
	}
}

func reportTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		"medview://reports/{id}",
		"Report",
		mcp.WithTemplateDescription("A single report with its body and location."),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

func reportHandler(svc *Service) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := argument(request.Params.Arguments, "id")
		if id == "" {
			return nil, fmt.Errorf("report id is required")
		}
		dto, err := svc.Report(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"report": dto,
		})
	}
}

// argument reads a template argument; the server may hand over a single
// value or the list of values matched by the template.
func argument(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
