package installer

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths holds paths to configuration files for different development environments
type ConfigPaths struct {
	VSCodeUserSettings string
	VSCodeWorkspace    string
	ClaudeDesktop      string
	ClaudeCode         string
	Cursor             string
}

// GetConfigPaths returns the MCP client config locations for the current platform.
func GetConfigPaths() *ConfigPaths {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("USERPROFILE")
	}
	return configPathsFor(runtime.GOOS, home, os.Getenv("APPDATA"))
}

func configPathsFor(goos, home, appData string) *ConfigPaths {
	paths := &ConfigPaths{
		ClaudeCode: filepath.Join(home, ".claude.json"),
		Cursor:     filepath.Join(home, ".cursor", "mcp.json"),
		// Relative to the directory the installer runs in.
		VSCodeWorkspace: filepath.Join(".vscode", "mcp.json"),
	}

	switch goos {
	case "windows":
		paths.VSCodeUserSettings = filepath.Join(appData, "Code", "User", "settings.json")
		paths.ClaudeDesktop = filepath.Join(appData, "Claude", "claude_desktop_config.json")
		paths.Cursor = filepath.Join(appData, "Cursor", "mcp.json")
	case "darwin":
		support := filepath.Join(home, "Library", "Application Support")
		paths.VSCodeUserSettings = filepath.Join(support, "Code", "User", "settings.json")
		paths.ClaudeDesktop = filepath.Join(support, "Claude", "claude_desktop_config.json")
	default:
		paths.VSCodeUserSettings = filepath.Join(home, ".config", "Code", "User", "settings.json")
		paths.ClaudeDesktop = filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}

	return paths
}

// GetProjectRoot walks up from the working directory to the nearest go.mod. Without one it
// returns the working directory.
func GetProjectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return wd, nil
		}
		dir = parent
	}
}
