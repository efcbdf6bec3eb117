// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docata

import (
	"bytes"
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pranc1ngpegasus/docata/services/docata/relation"
	"github.com/pranc1ngpegasus/docata/services/docata/validate"
)

// RelationArgs are the arguments of the deps and refs tools.
type RelationArgs struct {
	ID     string `json:"id" jsonschema:"the document identifier to query"`
	Strict bool   `json:"strict,omitempty" jsonschema:"fail when the identifier has no node in the catalog"`
}

// CheckStructureArgs are the arguments of the check_structure tool.
type CheckStructureArgs struct{}

// NewMCPServer creates an MCP server exposing the deps, refs and
// check_structure tools.
//
// Each tool call reads the catalog or scans the document root fresh, using
// the locations in config. Run the server with server.Run(ctx,
// &mcp.StdioTransport{}).
func NewMCPServer(svc *Service, config HandlerConfig) *mcp.Server {
	config = config.withDefaults()
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "docata",
		Version: config.Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "deps",
		Description: "Lists the documents the given document depends on",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RelationArgs) (*mcp.CallToolResult, any, error) {
		return relationTool(ctx, svc, config, relation.KindDeps, args), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "refs",
		Description: "Lists the documents that depend on the given document",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RelationArgs) (*mcp.CallToolResult, any, error) {
		return relationTool(ctx, svc, config, relation.KindRefs, args), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_structure",
		Description: "Validates document ids, dependencies and cycles under the document root",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CheckStructureArgs) (*mcp.CallToolResult, any, error) {
		if config.DocsDir == "" {
			return errorResult("no document root configured"), nil, nil
		}
		err := svc.CheckStructure(ctx, config.DocsDir)
		var verr *validate.ValidationError
		switch {
		case err == nil:
			return textResult("ok"), nil, nil
		case errors.As(err, &verr):
			return errorResult(verr.Report.String()), nil, nil
		default:
			return errorResult(err.Error()), nil, nil
		}
	})

	return server
}

func relationTool(ctx context.Context, svc *Service, config HandlerConfig, kind relation.Kind, args RelationArgs) *mcp.CallToolResult {
	if args.ID == "" {
		return errorResult("id is required")
	}
	resp, err := svc.QueryRelation(ctx, args.ID, config.CatalogLocation, kind, args.Strict)
	if err != nil {
		return errorResult(err.Error())
	}
	var buf bytes.Buffer
	if err := relation.Write(&buf, resp, relation.FormatJSON); err != nil {
		return errorResult(err.Error())
	}
	return textResult(buf.String())
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
