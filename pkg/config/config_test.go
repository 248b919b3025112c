package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from variables set in the developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, name := range envs {
			t.Setenv(name, "")
		}
	}
	t.Chdir(t.TempDir())
	searchPaths = []string{"config.toml"}
	t.Cleanup(func() { searchPaths = []string{"config.toml", "/config.toml"} })
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(content), 0o600))
	return name
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultServerName, cfg.Server.Name)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Zero(t, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Telemetry.Level)
	assert.Equal(t, LogFormatPretty, cfg.Telemetry.Format)
	assert.Equal(t, filepath.Join(os.TempDir(), DefaultServerName+".log"), cfg.Telemetry.File)
	assert.Equal(t, []string{"all"}, cfg.Toolsets)
	assert.Empty(t, cfg.ConfigFile)
	assert.False(t, cfg.ReadOnly)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITLAB_URL", " https://gitlab.example.com ")
	t.Setenv("GITLAB_TOKEN", "glpat-test")
	t.Setenv("MCP_TELEMETRY_LEVEL", "debug")
	t.Setenv("MCP_TELEMETRY_FORMAT", "json")
	t.Setenv("MCP_LOG_FILE", "/var/log/mr.log")
	t.Setenv("GITLAB_READ_ONLY", "true")
	t.Setenv("GITLAB_TOOLSETS", "merge_requests, other")
	t.Setenv("GITLAB_INSECURE_TLS", "1")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://gitlab.example.com", cfg.GitLab.URL)
	assert.Equal(t, "glpat-test", cfg.GitLab.Token)
	assert.True(t, cfg.GitLab.InsecureTLS)
	assert.Equal(t, "debug", cfg.Telemetry.Level)
	assert.Equal(t, LogFormatJSON, cfg.Telemetry.Format)
	assert.Equal(t, "/var/log/mr.log", cfg.Telemetry.File)
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, []string{"merge_requests", "other"}, cfg.Toolsets)
}

func TestLoad_TransportSelection(t *testing.T) {
	tests := []struct {
		name          string
		httpPort      any
		portEnv       string
		wantTransport Transport
		wantPort      uint16
		wantErr       error
	}{
		{name: "stdio fallback", wantTransport: TransportStdio},
		{name: "PORT env", portEnv: "8080", wantTransport: TransportHTTPStreaming, wantPort: 8080},
		{name: "flag wins over PORT", httpPort: uint16(9000), portEnv: "8080", wantTransport: TransportHTTPStreaming, wantPort: 9000},
		{name: "non-numeric PORT", portEnv: "http", wantErr: ErrInvalidPort},
		{name: "out of range PORT", portEnv: "70000", wantErr: ErrInvalidPort},
		{name: "zero PORT", portEnv: "0", wantErr: ErrInvalidPort},
		{name: "negative flag", httpPort: "-1", wantErr: ErrInvalidPort},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PORT", tc.portEnv)
			v := viper.New()
			if tc.httpPort != nil {
				v.Set("http-port", tc.httpPort)
			}

			cfg, err := Load(v)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTransport, cfg.Server.Transport)
			assert.Equal(t, tc.wantPort, cfg.Server.Port)
			if tc.wantTransport == TransportHTTPStreaming {
				assert.Empty(t, cfg.Telemetry.File, "http transport keeps logging on stderr")
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		wantTransport Transport
		wantPort      uint16
		wantErr       error
	}{
		{
			name: "stdio",
			content: `[server]
name = "review-bot"
transport = "stdio"

[telemetry]
level = "warn"
format = "json"
`,
			wantTransport: TransportStdio,
		},
		{
			name: "http streaming with port key",
			content: `[server]
transport = "http-streaming"
port = 3030
`,
			wantTransport: TransportHTTPStreaming,
			wantPort:      3030,
		},
		{
			name: "http streaming table",
			content: `[server.transport.http-streaming]
port = 4040
`,
			wantTransport: TransportHTTPStreaming,
			wantPort:      4040,
		},
		{
			name: "http streaming without port",
			content: `[server]
transport = "http-streaming"
`,
			wantErr: ErrInvalidPort,
		},
		{
			name: "unknown transport",
			content: `[server]
transport = "websocket"
`,
			wantErr: ErrInvalidTransport,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PORT", "8080")
			writeConfig(t, "config.toml", tc.content)

			cfg, err := Load(viper.New())
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "config.toml", cfg.ConfigFile)
			assert.Equal(t, tc.wantTransport, cfg.Server.Transport)
			assert.Equal(t, tc.wantPort, cfg.Server.Port)
		})
	}
}

func TestLoad_ConfigFileTelemetry(t *testing.T) {
	clearEnv(t)
	writeConfig(t, "config.toml", `[server]
name = "review-bot"
transport = "stdio"

[telemetry]
level = "warn"
format = "json"

[gitlab]
url = "https://gitlab.internal"
ca_cert = "/etc/ssl/gitlab.pem"
`)

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "review-bot", cfg.Server.Name)
	assert.Equal(t, "warn", cfg.Telemetry.Level)
	assert.Equal(t, LogFormatJSON, cfg.Telemetry.Format)
	assert.Equal(t, filepath.Join(os.TempDir(), "review-bot.log"), cfg.Telemetry.File)
	assert.Equal(t, "https://gitlab.internal", cfg.GitLab.URL)
	assert.Equal(t, "/etc/ssl/gitlab.pem", cfg.GitLab.CACert)
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, filepath.Join(t.TempDir(), "custom.toml"), `[telemetry]
file = "/tmp/custom.log"
`)

	v := viper.New()
	v.Set("config", path)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "/tmp/custom.log", cfg.Telemetry.File)

	v = viper.New()
	v.Set("config", filepath.Join(t.TempDir(), "missing.toml"))
	_, err = Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, LogFormatJSON, parseLogFormat("JSON"))
	assert.Equal(t, LogFormatPretty, parseLogFormat("pretty"))
	assert.Equal(t, LogFormatPretty, parseLogFormat("compact"))
	assert.Equal(t, LogFormatPretty, parseLogFormat(""))
}

func TestConfig_UseStdio(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	require.Equal(t, TransportHTTPStreaming, cfg.Server.Transport)

	cfg.UseStdio()
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Zero(t, cfg.Server.Port)
	assert.Equal(t, filepath.Join(os.TempDir(), DefaultServerName+".log"), cfg.Telemetry.File)

	cfg.Telemetry.File = "/var/log/explicit.log"
	cfg.UseStdio()
	assert.Equal(t, "/var/log/explicit.log", cfg.Telemetry.File)
}
