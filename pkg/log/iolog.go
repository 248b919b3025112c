// Package log provides stdio traffic logging for the MCP server.
package log

import (
	"encoding/json"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	redacted     = "***REDACTED***"
	maxLoggedLen = 2000
)

// Keys are compared after lowercasing and dropping '-' and '_', so PRIVATE-TOKEN and private_token both match.
var sensitiveKeys = map[string]struct{}{
	"token":         {},
	"privatetoken":  {},
	"accesstoken":   {},
	"password":      {},
	"secret":        {},
	"apikey":        {},
	"authorization": {},
}

// IOLogger wraps the stdio transport and logs each JSON-RPC frame at debug level.
type IOLogger struct {
	in     io.Reader
	out    io.Writer
	logger *log.Logger
}

// NewIOLogger creates a new IOLogger instance
func NewIOLogger(in io.Reader, out io.Writer, logger *log.Logger) *IOLogger {
	return &IOLogger{
		in:     in,
		out:    out,
		logger: logger,
	}
}

// Read implements io.Reader, logging incoming messages
func (iol *IOLogger) Read(p []byte) (n int, err error) {
	n, err = iol.in.Read(p)
	if n > 0 && iol.logger.IsLevelEnabled(log.DebugLevel) {
		for _, frame := range frames(p[:n]) {
			iol.logger.Debugf("IN: %s", redactSensitive(frame))
		}
	}
	return
}

// Write implements io.Writer, logging outgoing messages
func (iol *IOLogger) Write(p []byte) (n int, err error) {
	if iol.logger.IsLevelEnabled(log.DebugLevel) {
		for _, frame := range frames(p) {
			iol.logger.Debugf("OUT: %s", redactSensitive(frame))
		}
	}
	return iol.out.Write(p)
}

// frames splits newline-delimited JSON-RPC traffic into non-empty messages.
func frames(p []byte) []string {
	lines := strings.Split(string(p), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// redactSensitive masks credential-like fields at any depth and truncates long messages.
// Input that is not JSON is only truncated.
func redactSensitive(msg string) string {
	if !isLikelyJSON(msg) {
		return truncate(msg)
	}

	var raw any
	if err := json.Unmarshal([]byte(msg), &raw); err != nil {
		return truncate(msg)
	}

	out, err := json.Marshal(redactValue(raw))
	if err != nil {
		return truncate(msg)
	}
	return truncate(string(out))
}

func redactValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for key, child := range val {
			if isSensitiveKey(key) {
				val[key] = redacted
				continue
			}
			val[key] = redactValue(child)
		}
		return val
	case []any:
		for i, child := range val {
			val[i] = redactValue(child)
		}
		return val
	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(key))
	_, ok := sensitiveKeys[normalized]
	return ok
}

func truncate(s string) string {
	if len(s) > maxLoggedLen {
		return s[:maxLoggedLen] + "... (truncated)"
	}
	return s
}

// isLikelyJSON checks if a string appears to be JSON
func isLikelyJSON(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}
