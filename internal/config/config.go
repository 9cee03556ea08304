package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Date fallback policies for locations without a usable date
	DateFallbackNow  = "now"
	DateFallbackNone = "none"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultMaxFileSize  = 20 * 1024 * 1024 // 20MB
	DefaultTimezone     = "UTC"
	DefaultDateFallback = DateFallbackNow

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "MCP_ORDER"
)

// ErrVersionRequested is returned by Load when --version is on the command line
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the order extractor
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Input configuration
	Directory   string
	MaxFileSize int64 // Maximum PDF file size in bytes

	// Extraction configuration
	Timezone     string // IANA zone booking dates are read in
	DateFallback string // "now" or "none"
	Output       string // JSON Lines file receiving created orders, "-" for stdout, empty to discard
	Extract      string // one-shot: extract this PDF and exit

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeStdio,
		Host:         DefaultHost,
		Port:         DefaultPort,
		Directory:    currentDir,
		MaxFileSize:  DefaultMaxFileSize,
		Timezone:     DefaultTimezone,
		DateFallback: DefaultDateFallback,
		Version:      "1.0.0",
		ServerName:   "mcp-order-extractor",
		LogLevel:     DefaultLogLevel,
	}
}

// LoadFromFlags reads the process command line and environment
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds a configuration from args, MCP_ORDER_* environment variables
// and defaults, in that order of precedence
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return nil, ErrVersionRequested
		}
	}

	v := newViper(cfg)
	flags := newFlagSet(cfg)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	for _, name := range []string{
		"mode", "host", "port", "dir", "loglevel", "maxfilesize",
		"timezone", "datefallback", "output", "extract",
	} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	populateConfig(cfg, v)

	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.Directory)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("datefallback", cfg.DateFallback)
	v.SetDefault("output", cfg.Output)
	v.SetDefault("extract", cfg.Extract)
	return v
}

func newFlagSet(cfg *Config) *pflag.FlagSet {
	flags := pflag.NewFlagSet("mcp-order-extractor", pflag.ContinueOnError)
	flags.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP/SSE server")
	flags.String("host", cfg.Host, "Server host address (server mode only)")
	flags.Int("port", cfg.Port, "Server port (server mode only)")
	flags.String("dir", cfg.Directory, "Directory containing booking PDFs")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	flags.String("timezone", cfg.Timezone, "Time zone booking dates are interpreted in")
	flags.String("datefallback", cfg.DateFallback, "Missing location date policy: 'now' or 'none'")
	flags.String("output", cfg.Output, "JSON Lines file receiving created orders ('-' for stdout, server mode only)")
	flags.String("extract", cfg.Extract, "Extract one PDF, print the order as JSON and exit")
	flags.Usage = func() { usage(flags) }
	return flags
}

func usage(flags *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nMCP Order Extractor - turns Transalliance booking PDFs into order records\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flags.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s --dir=/srv/bookings                          # stdio mode\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8081 --output=o.jsonl   # SSE server\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --extract=booking.pdf --timezone=Europe/Paris # one-shot\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	for _, name := range []string{"MODE", "HOST", "PORT", "DIR", "LOGLEVEL", "MAXFILESIZE", "TIMEZONE", "DATEFALLBACK", "OUTPUT", "EXTRACT"} {
		fmt.Fprintf(os.Stderr, "  %s_%s\n", envPrefix, name)
	}
}

func populateConfig(cfg *Config, v *viper.Viper) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.Directory = v.GetString("dir")
	cfg.LogLevel = strings.ToLower(v.GetString("loglevel"))
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.Timezone = v.GetString("timezone")
	cfg.DateFallback = strings.ToLower(v.GetString("datefallback"))
	cfg.Output = v.GetString("output")
	cfg.Extract = v.GetString("extract")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Port only matters when listening
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.Directory == "" {
		return errors.New("directory cannot be empty")
	}

	if _, err := os.Stat(c.Directory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.Directory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", c.Directory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access directory %s: %w", c.Directory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.DateFallback != DateFallbackNow && c.DateFallback != DateFallbackNone {
		return fmt.Errorf("invalid date fallback: %s (must be one of: now, none)", c.DateFallback)
	}

	// stdout carries the MCP protocol in stdio mode and the result in one-shot mode
	if c.Output == "-" && (c.IsStdioMode() || c.IsOneShot()) {
		return errors.New("output '-' (stdout) is only allowed in server mode")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location resolves the configured time zone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, Directory: %s, LogLevel: %s, MaxFileSize: %d, "+
		"Timezone: %s, DateFallback: %s, Output: %s}",
		c.Mode, c.Host, c.Port, c.Directory, c.LogLevel, c.MaxFileSize,
		c.Timezone, c.DateFallback, c.Output)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsOneShot returns true when a single file should be extracted and the
// process should exit
func (c *Config) IsOneShot() bool {
	return c.Extract != ""
}
