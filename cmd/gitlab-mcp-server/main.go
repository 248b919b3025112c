package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/config"
	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/credentials"
	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/gitlab"
	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/httpserver"
	iolog "github.com/InkyQuill/gitlab-mr-mcp-server/pkg/log"
	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/translations"
	"github.com/awnumar/memguard"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Injected by goreleaser
var version = "dev"
var commit = "none"
var date = "unknown"

var (
	rootCmd = &cobra.Command{
		Use:   "gitlab-mcp-server",
		Short: "GitLab merge request MCP server",
		Long: `An MCP server that lets assistants read GitLab merge requests and post review discussions and notes.
Without a subcommand the transport comes from configuration: server.transport, --http-port, PORT, then stdio.`,
		Version:      fmt.Sprintf("Version: %s\nCommit: %s\nBuild Date: %s", version, commit, date),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	stdioCmd = &cobra.Command{
		Use:   "stdio",
		Short: "Start server communicating via standard input/output",
		Long:  `Starts the MCP server, listening for JSON-RPC messages on stdin and sending responses to stdout.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			cfg.UseStdio()
			return run(cmd.Context(), cfg)
		},
	}

	httpCmd = &cobra.Command{
		Use:   "http",
		Short: "Start server on streamable HTTP",
		Long:  `Starts the MCP server on [::]:<port>, serving MCP at /mcp plus /health and /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			if cfg.Server.Transport != config.TransportHTTPStreaming {
				return errors.New("the http command needs a port: set --http-port, PORT or server.port in config.toml")
			}
			return run(cmd.Context(), cfg)
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SetVersionTemplate("{{.Short}}\n{{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a TOML config file (default: ./config.toml, then /config.toml)")
	flags.Uint16("http-port", 0, "Serve streamable HTTP on this port instead of stdio")
	flags.String("gitlab-url", "", "GitLab base URL, e.g. https://gitlab.com (env GITLAB_URL)")
	flags.String("gitlab-token", "", "GitLab personal access token (env GITLAB_TOKEN, falls back to the OS keyring)")
	flags.String("gitlab-ca-cert", "", "PEM bundle used to verify a self-managed GitLab (env GITLAB_CA_CERT)")
	flags.Bool("gitlab-insecure-tls", false, "Skip TLS verification for GitLab (env GITLAB_INSECURE_TLS)")
	flags.String("log-level", "info", "Log level: trace, debug, info, warn, error (env MCP_TELEMETRY_LEVEL)")
	flags.String("log-format", "pretty", "Log format: pretty or json (env MCP_TELEMETRY_FORMAT)")
	flags.String("log-file", "", "Write logs to this file (env MCP_LOG_FILE); stdio defaults to <tmp>/<server name>.log")
	flags.StringSlice("toolsets", gitlab.DefaultTools, "Comma-separated list of toolsets to enable (env GITLAB_TOOLSETS)")
	flags.Bool("read-only", false, "Only register tools that do not modify GitLab (env GITLAB_READ_ONLY)")
	flags.Bool("validate-token", false, "Check the token against GET /user at startup (env GITLAB_VALIDATE_TOKEN)")
	flags.Bool("enable-command-logging", false, "Log every JSON-RPC frame at debug level with secrets redacted")
	flags.Bool("export-translations", false, "Write gitlab-mr-mcp-server-translations.json with all translation keys and exit")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("http-port", flags.Lookup("http-port"))
	_ = viper.BindPFlag("gitlab.url", flags.Lookup("gitlab-url"))
	_ = viper.BindPFlag("gitlab.token", flags.Lookup("gitlab-token"))
	_ = viper.BindPFlag("gitlab.ca_cert", flags.Lookup("gitlab-ca-cert"))
	_ = viper.BindPFlag("gitlab.insecure_tls", flags.Lookup("gitlab-insecure-tls"))
	_ = viper.BindPFlag("telemetry.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("telemetry.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("telemetry.file", flags.Lookup("log-file"))
	_ = viper.BindPFlag("toolsets", flags.Lookup("toolsets"))
	_ = viper.BindPFlag("read-only", flags.Lookup("read-only"))
	_ = viper.BindPFlag("validate-token", flags.Lookup("validate-token"))
	_ = viper.BindPFlag("enable-command-logging", flags.Lookup("enable-command-logging"))
	_ = viper.BindPFlag("export-translations", flags.Lookup("export-translations"))

	rootCmd.AddCommand(stdioCmd, httpCmd)
}

// initConfig loads .env from the working directory. Variables already set in the environment win.
func initConfig() {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}
}

// initLogger sets up the logrus logger based on configuration.
func initLogger(telemetry config.TelemetryConfig) (*log.Logger, error) {
	logger := log.New()

	lvl, err := log.ParseLevel(telemetry.Level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to 'info': %v", telemetry.Level, err)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)

	if telemetry.File != "" {
		file, err := os.OpenFile(telemetry.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file '%s': %w", telemetry.File, err)
		}
		logger.SetOutput(file)
	} else {
		logger.SetOutput(os.Stderr)
	}

	switch telemetry.Format {
	case config.LogFormatJSON:
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}

// newRegistry returns the registry backing /metrics, with Go runtime and process collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func run(parent context.Context, cfg *config.Config) error {
	logger, err := initLogger(cfg.Telemetry)
	if err != nil {
		stdlog.Printf("Failed to initialize logger: %v", err)
		return err
	}
	logger.WithFields(log.Fields{
		"transport": cfg.Server.Transport,
		"config":    cfg.ConfigFile,
	}).Info("Logger initialized")

	t, dumpTranslations := translations.TranslationHelper(logger, "")
	if viper.GetBool("export-translations") {
		logger.Info("Exporting translations and exiting...")
		dumpTranslations()
		return nil
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds, err := credentials.Resolve(cfg.GitLab.URL, cfg.GitLab.Token)
	if err != nil {
		logger.WithError(err).Error("Missing GitLab configuration")
		return err
	}
	logger.Infof("Using GitLab at %s (token from %s)", creds.URL, creds.Source)

	token, err := creds.Token.Reveal()
	if err != nil {
		return err
	}

	reg := newRegistry()
	metrics := gitlab.NewMetrics(reg)

	client, err := gitlab.NewClient(creds.URL, token,
		gitlab.WithUserAgent("gitlab-mr-mcp-server/"+version),
		gitlab.WithMetrics(metrics),
		gitlab.WithTLS(cfg.GitLab.CACert, cfg.GitLab.InsecureTLS),
	)
	if err != nil {
		logger.WithError(err).Error("Failed to create GitLab client")
		return err
	}
	if cfg.GitLab.InsecureTLS {
		logger.Warn("TLS verification for GitLab is disabled")
	}

	if cfg.ValidateToken {
		validateTokenOnStartup(ctx, logger, client)
	}

	logger.Infof("Enabled toolsets: %v", cfg.Toolsets)
	logger.Infof("Read-only mode: %t", cfg.ReadOnly)
	toolsetGroup, err := gitlab.InitToolsets(cfg.Toolsets, cfg.ReadOnly, client, t)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize toolsets")
		return err
	}

	mcpServer := gitlab.NewServer(cfg.Server.Name, version, logger, metrics, t)
	toolsetGroup.RegisterTools(mcpServer)
	logger.Infof("Registered tools: %v", toolsetGroup.ActiveToolNames())

	if cfg.Server.Transport == config.TransportHTTPStreaming {
		return runHTTP(ctx, logger, mcpServer, reg, cfg.Server.Port)
	}
	return runStdio(ctx, logger, mcpServer, cfg.CommandLogging)
}

// validateTokenOnStartup only warns: a server with a bad token still starts and reports
// authentication failures per tool call.
func validateTokenOnStartup(ctx context.Context, logger *log.Logger, client *gitlab.Client) {
	glClient, err := gitlab.NewValidationClient(client)
	if err != nil {
		logger.WithError(err).Warn("Could not build token validation client")
		return
	}
	identity, err := gitlab.ValidateToken(ctx, glClient)
	if err != nil {
		logger.WithError(err).Warn("Token validation failed")
		return
	}
	logger.Infof("Token validated for user %s (%s)", identity.Username, identity.Name)
}

func runStdio(ctx context.Context, logger *log.Logger, mcpServer *server.MCPServer, commandLogging bool) error {
	stdioServer := server.NewStdioServer(mcpServer)
	stdioServer.SetErrorLogger(stdlog.New(logger.Writer(), "[StdioServer] ", 0))

	errC := make(chan error, 1)
	go func() {
		in, out := io.Reader(os.Stdin), io.Writer(os.Stdout)
		if commandLogging {
			logger.Warn("Command logging enabled - secrets are redacted on a best-effort basis")
			loggedIO := iolog.NewIOLogger(in, out, logger)
			in, out = loggedIO, loggedIO
		}
		errC <- stdioServer.Listen(ctx, in, out)
	}()

	fmt.Fprintf(os.Stderr, "GitLab MR MCP Server running on stdio (Version: %s, Commit: %s)\n", version, commit)

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errC:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("Server encountered an error")
			return err
		}
		logger.Info("Server listener stopped")
	}
	return nil
}

func runHTTP(ctx context.Context, logger *log.Logger, mcpServer *server.MCPServer, reg *prometheus.Registry, port uint16) error {
	srv, err := httpserver.New(mcpServer, reg, logger, httpserver.Config{Port: port})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "GitLab MR MCP Server listening on %s%s (Version: %s, Commit: %s)\n", srv.Addr(), httpserver.MCPPath, version, commit)
	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Error("HTTP server stopped with an error")
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}

func main() {
	err := rootCmd.Execute()
	// Wipe every enclave and locked buffer before exiting.
	memguard.Purge()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
