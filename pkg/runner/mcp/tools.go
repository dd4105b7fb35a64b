package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(navigateTool(), navigateHandler(svc))
	srv.AddTool(listReportsTool(), listReportsHandler(svc))
	srv.AddTool(getReportTool(), getReportHandler(svc))
}

func navigateTool() mcp.Tool {
	return mcp.NewTool(
		"navigate",
		mcp.WithDescription("Open a location such as #imaging/ct/R1 and return the rendered pane. Unknown sections lead home."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Location path, with or without the leading #."),
		),
	)
}

func navigateHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := svc.Navigate(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(result)
	}
}

func listReportsTool() mcp.Tool {
	return mcp.NewTool(
		"list_reports",
		mcp.WithDescription("List reports newest first, optionally limited to a category and subcategory. Bodies are omitted."),
		mcp.WithString("category",
			mcp.Description("Category such as imaging, pathology or archive."),
		),
		mcp.WithString("subcategory",
			mcp.Description("Subcategory such as ct or biopsy; needs a category."),
		),
	)
}

func listReportsHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Category    string `json:"category"`
			Subcategory string `json:"subcategory"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		reports, err := svc.ListReports(ctx, args.Category, args.Subcategory)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"reports": reports,
			"count":   len(reports),
		})
	}
}

func getReportTool() mcp.Tool {
	return mcp.NewTool(
		"get_report",
		mcp.WithDescription("Fetch a single report with its body."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Report identifier."),
		),
	)
}

func getReportHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Report(ctx, id)
		if errors.Is(err, ErrReportNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no report with id %q", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	}
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
