package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-order-extractor/internal/config"
	"github.com/a3tai/mcp-order-extractor/internal/document"
	"github.com/a3tai/mcp-order-extractor/internal/mcp"
	"github.com/a3tai/mcp-order-extractor/internal/sink"
	"github.com/a3tai/mcp-order-extractor/internal/transalliance"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newLogger builds the process logger. Stdio mode owns stdout for the MCP
// protocol, so logs go to stderr and are dropped unless debug is enabled.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	if cfg.IsStdioMode() && !cfg.IsOneShot() && !cfg.IsDebug() {
		w = io.Discard
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsServerMode() {
		opts.AddSource = true
	}
	return slog.New(slog.NewTextHandler(w, opts)).With("service", cfg.ServerName)
}

func newExtractor(cfg *config.Config, logger *slog.Logger) (*transalliance.Extractor, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return transalliance.NewExtractor(
		transalliance.WithLocation(loc),
		transalliance.WithDateFallback(transalliance.DateFallback(cfg.DateFallback)),
		transalliance.WithLogger(logger),
	), nil
}

// newCreator returns the order output and a close function. An empty
// output discards created orders.
func newCreator(cfg *config.Config) (transalliance.OrderCreator, func() error, error) {
	if cfg.Output == "" {
		return sink.Discard{}, func() error { return nil }, nil
	}
	out, err := sink.OpenJSONLines(cfg.Output, cfg.ServerName)
	if err != nil {
		return nil, nil, err
	}
	return out, out.Close, nil
}

// extractOnce loads a single PDF, creates its order and writes the result as JSON to w
func extractOnce(ctx context.Context, path string, loader *document.Loader, extractor *transalliance.Extractor,
	creator transalliance.OrderCreator, w io.Writer,
) error {
	doc, err := loader.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	res, err := extractor.Process(ctx, transalliance.Document{Lines: doc.Lines, AttachmentName: doc.Name}, creator)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, logger *slog.Logger) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
		if err := <-serverErrCh; err != nil {
			return fmt.Errorf("server shutdown with error: %w", err)
		}
	case err := <-serverErrCh:
		if err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger := newLogger(cfg, os.Stderr)
	logger.Debug("starting", "config", cfg.String())

	loader, err := document.NewLoader(cfg.MaxFileSize, cfg.Directory, logger)
	if err != nil {
		return err
	}

	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		return err
	}

	creator, closeCreator, err := newCreator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCreator(); err != nil {
			logger.Error("failed to close order output", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsOneShot() {
		return extractOnce(ctx, cfg.Extract, loader, extractor, creator, os.Stdout)
	}

	server, err := mcp.NewServer(cfg, loader, extractor, creator, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if cfg.IsServerMode() {
		return runServerMode(ctx, cancel, server, logger)
	}
	// In stdio mode the parent process controls our lifecycle
	return server.Run(ctx)
}

func main() {
	err := run(os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, config.ErrVersionRequested):
		printVersion(os.Stdout)
	case errors.Is(err, pflag.ErrHelp):
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP Order Extractor\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
