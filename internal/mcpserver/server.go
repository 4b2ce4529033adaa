// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes read-only article tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"emphasize/internal/articleservice"
)

// Server wraps the MCP server with emphasize tools. The publication surface
// is read-only, so no mutation tools are registered.
type Server struct {
	mcp *server.MCPServer
	svc *articleservice.Service
}

// New creates a new MCP server with all article tools registered.
func New(svc *articleservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"emphasize",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List resolved articles in the current publication snapshot, most recently updated first."),
		mcp.WithString("tag", mcp.Description("Optional tag to filter by")),
	), s.listArticles)

	s.mcp.AddTool(mcp.NewTool("get_article",
		mcp.WithDescription("Read a single article by slug, including its Markdown content."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Article slug (e.g. posts/hello)")),
	), s.getArticle)

	s.mcp.AddTool(mcp.NewTool("publication_status",
		mcp.WithDescription("Report the current snapshot revision, article count, and the process publication toggles."),
	), s.publicationStatus)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := ""
	if v, err := req.RequireString("tag"); err == nil {
		tag = v
	}

	items, _, err := s.svc.ListArticles(ctx, 0, 0, tag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	article, err := s.svc.GetArticle(ctx, slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	out, _ := json.MarshalIndent(article, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) publicationStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.Status(ctx), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
