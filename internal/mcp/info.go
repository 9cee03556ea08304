package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/a3tai/mcp-order-extractor/internal/descriptions"
	"github.com/a3tai/mcp-order-extractor/internal/document"
)

const (
	maxListedFiles = 100
	// server info only prints the first few files
	infoFileLimit = 10
)

// ServerInfo describes the running server and its configuration
type ServerInfo struct {
	ServerName   string              `json:"server_name"`
	Version      string              `json:"version"`
	Directory    string              `json:"directory"`
	MaxFileSize  int64               `json:"max_file_size"`
	Timezone     string              `json:"timezone"`
	DateFallback string              `json:"date_fallback"`
	Output       string              `json:"output"`
	Files        []document.FileInfo `json:"files"`
	Tools        []ToolInfo          `json:"tools"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

func (s *Server) info(ctx context.Context) ServerInfo {
	output := "discarded"
	switch {
	case s.creator == nil:
		output = "disabled"
	case s.config.Output == "-":
		output = "stdout"
	case s.config.Output != "":
		output = s.config.Output
	}

	timezone := s.config.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	files, err := s.loader.ListFiles(ctx, infoFileLimit+1)
	if err != nil {
		s.logger.Warn("failed to list directory for server info", "error", err)
		files = nil
	}

	return ServerInfo{
		ServerName:   s.config.ServerName,
		Version:      s.config.Version,
		Directory:    s.loader.Directory(),
		MaxFileSize:  s.loader.MaxFileSize(),
		Timezone:     timezone,
		DateFallback: s.config.DateFallback,
		Output:       output,
		Files:        files,
		Tools:        availableTools(),
	}
}

func availableTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "order_extract_file",
			Description: descriptions.GetToolDescription("order_extract_file"),
			Usage:       "Extract the order from a booking PDF in the configured directory.",
			Parameters:  "path (required): PDF path, absolute or relative to the directory; create (optional): write the order to the output",
		},
		{
			Name:        "order_extract_text",
			Description: descriptions.GetToolDescription("order_extract_text"),
			Usage:       "Extract the order from booking text that is already available.",
			Parameters:  "text (required): document text; attachment_name (optional); create (optional)",
		},
		{
			Name:        "order_detect_format",
			Description: descriptions.GetToolDescription("order_detect_format"),
			Usage:       "Check a document before extracting it.",
			Parameters:  "path or text (one required)",
		},
		{
			Name:        "order_list_files",
			Description: descriptions.GetToolDescription("order_list_files"),
			Usage:       "Find booking PDFs to extract.",
			Parameters:  "none",
		},
		{
			Name:        "order_server_info",
			Description: descriptions.GetToolDescription("order_server_info"),
			Usage:       "Show this information.",
			Parameters:  "none",
		},
	}
}

func formatServerInfo(info ServerInfo) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", info.ServerName, info.Version)
	text += fmt.Sprintf("Directory: %s\n", info.Directory)
	text += fmt.Sprintf("Max File Size: %d MB\n", info.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Timezone: %s\n", info.Timezone)
	text += fmt.Sprintf("Missing dates: %s\n", info.DateFallback)
	text += fmt.Sprintf("Order output: %s\n\n", info.Output)

	if len(info.Files) > 0 {
		text += "Directory Contents:\n"
		for i, file := range info.Files {
			if i >= infoFileLimit {
				text += "   ... more files available, use order_list_files\n"
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "Directory Contents: No PDF files found\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range info.Tools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	return text
}

func formatFileList(dir string, files []document.FileInfo) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", len(files), dir)
	text += "\nFiles:\n"

	for i, file := range files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime.Format(time.RFC3339))
		if i < len(files)-1 {
			text += "\n"
		}
	}

	return text
}
