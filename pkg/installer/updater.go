package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UpdateConfig adds or replaces the ServerName entry in the config file of env. Other keys in
// the file are preserved and the previous file is kept as <path>.bak.
func UpdateConfig(env string, paths *ConfigPaths, config ServerConfig) error {
	switch env {
	case "VS Code":
		return updateVSCodeConfig(paths, config)
	case "Claude Desktop":
		return updateServers(paths.ClaudeDesktop, config, "mcpServers")
	case "Claude Code":
		config.Type = "stdio"
		return updateServers(paths.ClaudeCode, config, "mcpServers")
	case "Cursor":
		return updateServers(paths.Cursor, config, "mcpServers")
	default:
		return fmt.Errorf("unknown environment: %s", env)
	}
}

// updateVSCodeConfig prefers the workspace .vscode/mcp.json and falls back to user settings.
func updateVSCodeConfig(paths *ConfigPaths, config ServerConfig) error {
	if err := updateServers(paths.VSCodeWorkspace, config, "servers"); err == nil {
		return nil
	}
	return updateServers(paths.VSCodeUserSettings, config, "mcp", "servers")
}

// updateServers sets doc[keys...][ServerName] = config in the JSON file at path.
func updateServers(path string, config ServerConfig, keys ...string) error {
	doc := make(map[string]any)
	if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse existing config: %w", err)
		}
	}

	parent := doc
	for _, key := range keys {
		child, ok := parent[key].(map[string]any)
		if !ok {
			child = make(map[string]any)
			parent[key] = child
		}
		parent = child
	}
	parent[ServerName] = config

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return writeJSONFile(path, doc)
}

// writeJSONFile writes JSON data to a file with backup
func writeJSONFile(path string, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	backupPath := path + ".bak"
	previous, readErr := os.ReadFile(path)
	if readErr == nil {
		if err := os.WriteFile(backupPath, previous, 0o600); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	// The file may hold a token, so it is not world readable.
	if err := os.WriteFile(path, jsonData, 0o600); err != nil {
		if readErr == nil {
			_ = os.WriteFile(path, previous, 0o600)
		}
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
