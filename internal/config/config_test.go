package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}
	if cfg.ServerName != "mcp-order-extractor" {
		t.Errorf("Expected default server name to be 'mcp-order-extractor', got '%s'", cfg.ServerName)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.MaxFileSize != 20*1024*1024 {
		t.Errorf("Expected default max file size to be 20MB, got %d", cfg.MaxFileSize)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Expected default timezone to be 'UTC', got '%s'", cfg.Timezone)
	}
	if cfg.DateFallback != "now" {
		t.Errorf("Expected default date fallback to be 'now', got '%s'", cfg.DateFallback)
	}
	if cfg.Output != "" || cfg.Extract != "" {
		t.Errorf("Expected output and extract to be empty, got '%s' and '%s'", cfg.Output, cfg.Extract)
	}

	currentDir, _ := os.Getwd()
	if cfg.Directory != currentDir {
		t.Errorf("Expected default directory to be '%s', got '%s'", currentDir, cfg.Directory)
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid stdio", modify: func(*Config) {}},
		{name: "valid server", modify: func(c *Config) { c.Mode = ModeServer }},
		{name: "invalid mode", modify: func(c *Config) { c.Mode = "http" }, wantErr: "mode must be either"},
		{name: "port zero in server mode", modify: func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, wantErr: "port must be between"},
		{name: "port ignored in stdio mode", modify: func(c *Config) { c.Port = 0 }},
		{name: "empty directory", modify: func(c *Config) { c.Directory = "" }, wantErr: "directory cannot be empty"},
		{name: "zero max file size", modify: func(c *Config) { c.MaxFileSize = 0 }, wantErr: "maximum file size must be positive"},
		{name: "unknown log level", modify: func(c *Config) { c.LogLevel = "trace" }, wantErr: "invalid log level"},
		{name: "unknown date fallback", modify: func(c *Config) { c.DateFallback = "sometimes" }, wantErr: "invalid date fallback"},
		{name: "none date fallback", modify: func(c *Config) { c.DateFallback = DateFallbackNone }},
		{name: "unknown timezone", modify: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: "invalid timezone"},
		{name: "empty timezone means UTC", modify: func(c *Config) { c.Timezone = "" }},
		{name: "stdout output in stdio mode", modify: func(c *Config) { c.Output = "-" }, wantErr: "only allowed in server mode"},
		{name: "stdout output in one-shot mode", modify: func(c *Config) { c.Mode = ModeServer; c.Output = "-"; c.Extract = "a.pdf" }, wantErr: "only allowed in server mode"},
		{name: "stdout output in server mode", modify: func(c *Config) { c.Mode = ModeServer; c.Output = "-" }},
		{name: "file output in stdio mode", modify: func(c *Config) { c.Output = "orders.jsonl" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Config.Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Config.Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "incoming", "bookings")
	cfg := DefaultConfig()
	cfg.Directory = dir

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() unexpected error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Expected directory %s to be created", dir)
	}
}

func TestConfigLocation(t *testing.T) {
	cfg := &Config{Timezone: "UTC"}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("Config.Location() = %v, %v; want UTC", loc, err)
	}

	cfg.Timezone = ""
	if loc, _ := cfg.Location(); loc.String() != "UTC" {
		t.Errorf("Config.Location() with empty timezone = %v, want UTC", loc)
	}

	cfg.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("Config.Location() expected error for unknown zone")
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "192.168.1.1", Port: 9090}

	if got := cfg.Address(); got != "192.168.1.1:9090" {
		t.Errorf("Config.Address() = %v, want %v", got, "192.168.1.1:9090")
	}
}

func TestConfigModes(t *testing.T) {
	tests := []struct {
		cfg        Config
		wantServer bool
		wantStdio  bool
		wantOnce   bool
		wantDebug  bool
	}{
		{cfg: Config{Mode: ModeStdio, LogLevel: "info"}, wantStdio: true},
		{cfg: Config{Mode: ModeServer, LogLevel: "debug"}, wantServer: true, wantDebug: true},
		{cfg: Config{Mode: ModeStdio, Extract: "a.pdf"}, wantStdio: true, wantOnce: true},
	}

	for _, tt := range tests {
		if got := tt.cfg.IsServerMode(); got != tt.wantServer {
			t.Errorf("IsServerMode() = %v, want %v", got, tt.wantServer)
		}
		if got := tt.cfg.IsStdioMode(); got != tt.wantStdio {
			t.Errorf("IsStdioMode() = %v, want %v", got, tt.wantStdio)
		}
		if got := tt.cfg.IsOneShot(); got != tt.wantOnce {
			t.Errorf("IsOneShot() = %v, want %v", got, tt.wantOnce)
		}
		if got := tt.cfg.IsDebug(); got != tt.wantDebug {
			t.Errorf("IsDebug() = %v, want %v", got, tt.wantDebug)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:         "server",
		Host:         "localhost",
		Port:         8080,
		Directory:    "/srv/bookings",
		LogLevel:     "debug",
		MaxFileSize:  1024,
		Timezone:     "Europe/Paris",
		DateFallback: "none",
		Output:       "orders.jsonl",
	}

	result := cfg.String()
	for _, substr := range []string{
		"Mode: server",
		"Host: localhost",
		"Port: 8080",
		"Directory: /srv/bookings",
		"LogLevel: debug",
		"MaxFileSize: 1024",
		"Timezone: Europe/Paris",
		"DateFallback: none",
		"Output: orders.jsonl",
	} {
		if !strings.Contains(result, substr) {
			t.Errorf("Config.String() result doesn't contain expected substring: %s\nGot: %s", substr, result)
		}
	}
}
