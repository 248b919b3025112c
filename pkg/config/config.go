// Package config resolves the server configuration from flags, environment variables and an
// optional TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/gitlab"
	"github.com/spf13/viper"
)

// DefaultServerName is used for the MCP implementation name and the stdio log file.
const DefaultServerName = "gitlab-mr-mcp-server"

var (
	// ErrInvalidPort is returned when an HTTP port cannot be parsed as a TCP port number.
	ErrInvalidPort = errors.New("invalid port")
	// ErrInvalidTransport is returned for an unknown server.transport value.
	ErrInvalidTransport = errors.New("invalid transport")
)

// searchPaths are tried in order when no --config flag is given.
var searchPaths = []string{"config.toml", "/config.toml"}

// Transport selects how the MCP server talks to its client.
type Transport string

const (
	TransportStdio         Transport = "stdio"
	TransportHTTPStreaming Transport = "http-streaming"
)

// LogFormat selects the logrus formatter.
type LogFormat string

const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

type ServerConfig struct {
	Name      string
	Transport Transport
	// Port is only meaningful for TransportHTTPStreaming.
	Port uint16
}

type TelemetryConfig struct {
	Level  string
	Format LogFormat
	File   string
}

type GitLabConfig struct {
	URL         string
	Token       string
	CACert      string
	InsecureTLS bool
}

// Config is the fully resolved startup configuration.
type Config struct {
	Server         ServerConfig
	Telemetry      TelemetryConfig
	GitLab         GitLabConfig
	ReadOnly       bool
	CommandLogging bool
	ValidateToken  bool
	Toolsets       []string
	// ConfigFile is the TOML file that was read, empty when none was found.
	ConfigFile string
}

// envBindings maps viper keys to the environment variables that feed them.
var envBindings = map[string][]string{
	"gitlab.url":             {"GITLAB_URL"},
	"gitlab.token":           {"GITLAB_TOKEN"},
	"gitlab.ca_cert":         {"GITLAB_CA_CERT"},
	"gitlab.insecure_tls":    {"GITLAB_INSECURE_TLS"},
	"telemetry.level":        {"MCP_TELEMETRY_LEVEL"},
	"telemetry.format":       {"MCP_TELEMETRY_FORMAT"},
	"telemetry.file":         {"MCP_LOG_FILE"},
	"port":                   {"PORT"},
	"read-only":              {"GITLAB_READ_ONLY"},
	"validate-token":         {"GITLAB_VALIDATE_TOKEN"},
	"enable-command-logging": {"GITLAB_ENABLE_COMMAND_LOGGING"},
	"toolsets":               {"GITLAB_TOOLSETS"},
}

// Load reads configuration into a Config. Flags must already be bound to v by the caller;
// precedence follows viper: flags, then environment, then the config file, then defaults.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("server.name", DefaultServerName)
	v.SetDefault("telemetry.level", "info")
	v.SetDefault("telemetry.format", string(LogFormatPretty))

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	used, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	transport, port, err := resolveTransport(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Name:      strings.TrimSpace(v.GetString("server.name")),
			Transport: transport,
			Port:      port,
		},
		Telemetry: TelemetryConfig{
			Level:  strings.TrimSpace(v.GetString("telemetry.level")),
			Format: parseLogFormat(v.GetString("telemetry.format")),
			File:   strings.TrimSpace(v.GetString("telemetry.file")),
		},
		GitLab: GitLabConfig{
			URL:         strings.TrimSpace(v.GetString("gitlab.url")),
			Token:       strings.TrimSpace(v.GetString("gitlab.token")),
			CACert:      strings.TrimSpace(v.GetString("gitlab.ca_cert")),
			InsecureTLS: v.GetBool("gitlab.insecure_tls"),
		},
		ReadOnly:       v.GetBool("read-only"),
		CommandLogging: v.GetBool("enable-command-logging"),
		ValidateToken:  v.GetBool("validate-token"),
		Toolsets:       parseToolsets(v.GetStringSlice("toolsets")),
		ConfigFile:     used,
	}
	if cfg.Server.Name == "" {
		cfg.Server.Name = DefaultServerName
	}

	// stdout carries protocol frames on stdio, so logs must go to a file.
	if cfg.Server.Transport == TransportStdio {
		cfg.UseStdio()
	}

	return cfg, nil
}

// UseStdio switches c to the stdio transport regardless of what was configured.
func (c *Config) UseStdio() {
	c.Server.Transport = TransportStdio
	c.Server.Port = 0
	if c.Telemetry.File == "" {
		c.Telemetry.File = filepath.Join(os.TempDir(), c.Server.Name+".log")
	}
}

func readConfigFile(v *viper.Viper) (string, error) {
	v.SetConfigType("toml")

	if explicit := strings.TrimSpace(v.GetString("config")); explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	for _, path := range searchPaths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

// resolveTransport honours server.transport from the config file first. Without one, the
// --http-port flag wins over PORT, and stdio is the fallback.
func resolveTransport(v *viper.Viper) (Transport, uint16, error) {
	// Table form: [server.transport.http-streaming] port = 8080
	if v.IsSet("server.transport.http-streaming.port") {
		port, err := parsePort(v.GetString("server.transport.http-streaming.port"))
		return TransportHTTPStreaming, port, err
	}

	switch raw := strings.TrimSpace(v.GetString("server.transport")); Transport(raw) {
	case TransportStdio:
		return TransportStdio, 0, nil
	case TransportHTTPStreaming:
		port, err := parsePort(v.GetString("server.port"))
		return TransportHTTPStreaming, port, err
	case "":
	default:
		return "", 0, fmt.Errorf("%w: %q (expected %q or %q)", ErrInvalidTransport, raw, TransportStdio, TransportHTTPStreaming)
	}

	if v.IsSet("http-port") {
		port, err := parsePort(v.GetString("http-port"))
		return TransportHTTPStreaming, port, err
	}
	if raw := strings.TrimSpace(v.GetString("port")); raw != "" {
		port, err := parsePort(raw)
		return TransportHTTPStreaming, port, err
	}
	return TransportStdio, 0, nil
}

func parsePort(raw string) (uint16, error) {
	raw = strings.TrimSpace(raw)
	port, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidPort, raw, err)
	}
	if port == 0 {
		return 0, fmt.Errorf("%w %q: must be between 1 and 65535", ErrInvalidPort, raw)
	}
	return uint16(port), nil
}

// parseLogFormat treats anything other than "json" as pretty output.
func parseLogFormat(raw string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(raw), string(LogFormatJSON)) {
		return LogFormatJSON
	}
	return LogFormatPretty
}

// parseToolsets accepts both repeated flags and a single comma separated env value.
func parseToolsets(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if name := strings.TrimSpace(part); name != "" {
				out = append(out, name)
			}
		}
	}
	if len(out) == 0 {
		return append([]string(nil), gitlab.DefaultTools...)
	}
	return out
}
