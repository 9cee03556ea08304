package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range []string{"MODE", "HOST", "PORT", "DIR", "LOGLEVEL", "MAXFILESIZE", "TIMEZONE", "DATEFALLBACK", "OUTPUT", "EXTRACT"} {
		t.Setenv(envPrefix+"_"+name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)
	dir := t.TempDir()

	cfg, err := Load([]string{"--dir=" + dir})
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, DateFallbackNow, cfg.DateFallback)
	assert.Equal(t, dir, cfg.Directory)
	assert.False(t, cfg.IsOneShot())
}

func TestLoad_Flags(t *testing.T) {
	clearEnvVars(t)
	dir := t.TempDir()

	cfg, err := Load([]string{
		"--mode=server",
		"--host=0.0.0.0",
		"--port=9090",
		"--dir=" + dir,
		"--loglevel=debug",
		"--maxfilesize=1024",
		"--timezone=Europe/London",
		"--datefallback=none",
		"--output=orders.jsonl",
		"--extract=booking.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
	assert.Equal(t, "Europe/London", cfg.Timezone)
	assert.Equal(t, DateFallbackNone, cfg.DateFallback)
	assert.Equal(t, "orders.jsonl", cfg.Output)
	assert.Equal(t, "booking.pdf", cfg.Extract)
	assert.True(t, cfg.IsOneShot())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MCP_ORDER_MODE", "server")
	t.Setenv("MCP_ORDER_HOST", "192.168.1.1")
	t.Setenv("MCP_ORDER_PORT", "3000")
	t.Setenv("MCP_ORDER_DIR", dir)
	t.Setenv("MCP_ORDER_LOGLEVEL", "WARN")
	t.Setenv("MCP_ORDER_MAXFILESIZE", "2000000")
	t.Setenv("MCP_ORDER_TIMEZONE", "UTC")
	t.Setenv("MCP_ORDER_DATEFALLBACK", "None")
	t.Setenv("MCP_ORDER_OUTPUT", "-")
	t.Setenv("MCP_ORDER_EXTRACT", "")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, "192.168.1.1", cfg.Host)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, dir, cfg.Directory)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, int64(2000000), cfg.MaxFileSize)
	assert.Equal(t, DateFallbackNone, cfg.DateFallback)
	assert.Equal(t, "-", cfg.Output)
}

func TestLoad_FlagOverridesEnvironment(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("MCP_ORDER_MODE", "server")
	t.Setenv("MCP_ORDER_PORT", "3000")
	t.Setenv("MCP_ORDER_DATEFALLBACK", "none")

	cfg, err := Load([]string{"--mode=stdio", "--port=8888", "--datefallback=now", "--dir=" + t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, 8888, cfg.Port)
	assert.Equal(t, DateFallbackNow, cfg.DateFallback)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "mode", args: []string{"--mode=invalid"}, wantErr: "mode must be either 'stdio' or 'server'"},
		{name: "port", args: []string{"--mode=server", "--port=99999"}, wantErr: "port must be between 1 and 65535"},
		{name: "log level", args: []string{"--loglevel=verbose"}, wantErr: "invalid log level"},
		{name: "date fallback", args: []string{"--datefallback=later"}, wantErr: "invalid date fallback"},
		{name: "timezone", args: []string{"--timezone=Nowhere/Special"}, wantErr: "invalid timezone"},
		{name: "unknown flag", args: []string{"--colour=blue"}, wantErr: "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			args := append([]string{"--dir=" + t.TempDir()}, tt.args...)

			_, err := Load(args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_VersionFlag(t *testing.T) {
	for _, arg := range []string{"--version", "-version", "-v"} {
		_, err := Load([]string{arg})
		assert.ErrorIs(t, err, ErrVersionRequested, arg)
	}
}
