package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/a3tai/mcp-order-extractor/internal/config"
	"github.com/a3tai/mcp-order-extractor/internal/document"
	"github.com/a3tai/mcp-order-extractor/internal/transalliance"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json")
	detect       = flag.Bool("detect", false, "Also report whether the lines match the booking layout")
	maxFileSize  = flag.Int64("maxfilesize", config.DefaultMaxFileSize, "Maximum PDF file size in bytes")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	if err := dump(context.Background(), flag.Arg(0), *outputFormat, *detect, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// dump prints the text lines the extractor would see for pdfPath
func dump(ctx context.Context, pdfPath, format string, withDetection bool, w io.Writer) error {
	abs, err := filepath.Abs(pdfPath)
	if err != nil {
		return err
	}

	loader, err := document.NewLoader(*maxFileSize, filepath.Dir(abs), nil)
	if err != nil {
		return err
	}
	doc, err := loader.LoadFile(ctx, abs)
	if err != nil {
		return err
	}

	var detection *transalliance.Detection
	if withDetection {
		d := transalliance.Detect(doc.Lines)
		detection = &d
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			File      string                   `json:"file"`
			Pages     int                      `json:"pages"`
			Lines     []string                 `json:"lines"`
			Detection *transalliance.Detection `json:"detection,omitempty"`
		}{doc.Name, doc.Pages, doc.Lines, detection})
	case "text":
		fmt.Fprintf(w, "File: %s (%d pages, %d lines)\n\n", doc.Name, doc.Pages, len(doc.Lines))
		for i, line := range doc.Lines {
			fmt.Fprintf(w, "%4d  %s\n", i, line)
		}
		if detection != nil {
			fmt.Fprintf(w, "\nSupported layout: %t\n", detection.Supported)
			fmt.Fprintf(w, "Markers: %v\n", detection.Markers)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func printHelp() {
	fmt.Println("PDF Dump Lines - show the text lines extracted from a booking PDF")
	fmt.Println()
	fmt.Println("Line numbers match the indices the order extractor works with, which helps")
	fmt.Println("when a field comes out empty or from the wrong line.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  pdf_dump_lines [options] <pdf-file>")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  pdf_dump_lines booking.pdf")
	fmt.Println("  pdf_dump_lines -detect -format json booking.pdf")
}
