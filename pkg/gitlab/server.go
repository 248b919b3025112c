package gitlab

import (
	"context"
	"time"

	"github.com/InkyQuill/gitlab-mr-mcp-server/pkg/translations"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
)

const outcomeSuccess = "success"

// NewServer creates the MCP server with tool capabilities, panic recovery and
// per-call logging and metrics. Tools are registered separately through InitToolsets.
func NewServer(appName, appVersion string, logger *log.Logger, metrics *Metrics, t map[string]string) *server.MCPServer {
	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithInstructions(translations.Translate(t, translations.SERVER_INSTRUCTIONS)),
		server.WithToolHandlerMiddleware(toolCallMiddleware(logger, metrics)),
	}
	return server.NewMCPServer(appName, appVersion, opts...)
}

// toolCallMiddleware logs every tool call and records its outcome. The outcome is
// the error kind for failed calls and "success" otherwise.
func toolCallMiddleware(logger *log.Logger, metrics *Metrics) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, request)
			elapsed := time.Since(start)

			outcome := callOutcome(result, err)
			metrics.observeToolCall(request.Params.Name, outcome, elapsed)

			entry := logger.WithFields(log.Fields{
				"tool":     request.Params.Name,
				"outcome":  outcome,
				"duration": elapsed.String(),
			})
			switch {
			case err != nil:
				entry.WithError(err).Error("Tool call failed")
			case outcome != outcomeSuccess:
				if payload, ok := ErrorPayloadFromResult(result); ok {
					entry = entry.WithField("error", payload.Message)
				}
				entry.Warn("Tool call returned an error")
			default:
				entry.Debug("Tool call completed")
			}
			return result, err
		}
	}
}

func callOutcome(result *mcp.CallToolResult, err error) string {
	if err != nil {
		return string(KindInternal)
	}
	if result == nil || !result.IsError {
		return outcomeSuccess
	}
	if payload, ok := ErrorPayloadFromResult(result); ok {
		return string(payload.Kind)
	}
	return "error"
}
