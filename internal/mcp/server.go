package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-order-extractor/internal/config"
	"github.com/a3tai/mcp-order-extractor/internal/descriptions"
	"github.com/a3tai/mcp-order-extractor/internal/document"
	"github.com/a3tai/mcp-order-extractor/internal/transalliance"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	loader    *document.Loader
	extractor *transalliance.Extractor
	creator   transalliance.OrderCreator
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance. creator receives orders
// when a tool call asks for creation; nil disables creation.
func NewServer(cfg *config.Config, loader *document.Loader, extractor *transalliance.Extractor,
	creator transalliance.OrderCreator, logger *slog.Logger,
) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if loader == nil {
		return nil, fmt.Errorf("loader cannot be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:    cfg,
		loader:    loader,
		extractor: extractor,
		creator:   creator,
		logger:    logger,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"order_extract_file",
		mcp.WithDescription(descriptions.GetToolDescription("order_extract_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the booking PDF, absolute or relative to the configured directory"),
		),
		mcp.WithBoolean("create",
			mcp.Description("Also hand the extracted order to the configured order output"),
		),
	), s.handleExtractFile)

	s.mcpServer.AddTool(mcp.NewTool(
		"order_extract_text",
		mcp.WithDescription(descriptions.GetToolDescription("order_extract_text")),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Booking document text, one document line per line"),
		),
		mcp.WithString("attachment_name",
			mcp.Description("Original file name recorded on the order"),
		),
		mcp.WithBoolean("create",
			mcp.Description("Also hand the extracted order to the configured order output"),
		),
	), s.handleExtractText)

	s.mcpServer.AddTool(mcp.NewTool(
		"order_detect_format",
		mcp.WithDescription(descriptions.GetToolDescription("order_detect_format")),
		mcp.WithString("path",
			mcp.Description("Path to a PDF to check"),
		),
		mcp.WithString("text",
			mcp.Description("Text to check when no path is given"),
		),
	), s.handleDetectFormat)

	s.mcpServer.AddTool(mcp.NewTool(
		"order_list_files",
		mcp.WithDescription(descriptions.GetToolDescription("order_list_files")),
	), s.handleListFiles)

	s.mcpServer.AddTool(mcp.NewTool(
		"order_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("order_server_info")),
	), s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		s.logger.Warn("failed to load document", "path", path, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.extract(ctx, transalliance.Document{
		Lines:          doc.Lines,
		AttachmentName: doc.Name,
	}, boolArgument(request, "create"))
}

func (s *Server) handleExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.extract(ctx, transalliance.Document{
		Lines:          document.LinesFromText(text),
		AttachmentName: stringArgument(request, "attachment_name"),
	}, boolArgument(request, "create"))
}

func (s *Server) extract(ctx context.Context, doc transalliance.Document, create bool) (*mcp.CallToolResult, error) {
	var (
		res *transalliance.Result
		err error
	)
	if create {
		if s.creator == nil {
			return mcp.NewToolResultError("order creation is not configured"), nil
		}
		res, err = s.extractor.Process(ctx, doc, s.creator)
	} else {
		res, err = s.extractor.Extract(doc)
	}
	if err != nil {
		if errors.Is(err, transalliance.ErrUnsupportedDocument) {
			s.logger.Info("rejected document", "attachment", doc.AttachmentName, "error", err)
		} else {
			s.logger.Error("order extraction failed", "attachment", doc.AttachmentName, "error", err)
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(res)
}

func (s *Server) handleDetectFormat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := stringArgument(request, "path")
	text := stringArgument(request, "text")

	var lines []string
	switch {
	case path != "":
		doc, err := s.loader.LoadFile(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		lines = doc.Lines
	case text != "":
		lines = document.LinesFromText(text)
	default:
		return mcp.NewToolResultError("either path or text is required"), nil
	}

	return jsonResult(transalliance.Detect(lines))
}

func (s *Server) handleListFiles(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := s.loader.ListFiles(ctx, maxListedFiles)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No PDF files found in directory: %s", s.loader.Directory())), nil
	}
	return mcp.NewToolResultText(formatFileList(s.loader.Directory(), files)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatServerInfo(s.info(ctx))), nil
}

func boolArgument(request mcp.CallToolRequest, name string) bool {
	v, _ := request.GetArguments()[name].(bool)
	return v
}

func stringArgument(request mcp.CallToolRequest, name string) string {
	v, _ := request.GetArguments()[name].(string)
	return v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	switch s.config.Mode {
	case config.ModeServer:
		return s.runServerMode(ctx)
	case config.ModeStdio:
		return s.runStdioMode(ctx)
	default:
		return fmt.Errorf("unsupported mode: %s", s.config.Mode)
	}
}

// runStdioMode serves MCP over stdin/stdout until stdin closes
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug("starting order extractor in stdio mode", "directory", s.config.Directory)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE on host:port until ctx is cancelled
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting order extractor SSE server", "address", addr, "directory", s.config.Directory)
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve SSE: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down SSE server: %w", err)
	}
	s.logger.Info("SSE server stopped")
	return nil
}
