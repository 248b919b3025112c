package installer

import (
	"fmt"
	"os"
	"path/filepath"
)

// DockerImage is the image tag produced by the Dockerfile.
const DockerImage = "gitlab-mr-mcp-server:latest"

// BinaryConfig holds configuration for the MCP server binary
type BinaryConfig struct {
	Mode      string
	LocalPath string
	Command   string
	Args      []string
	Env       map[string]string
}

// GetBinaryConfig determines how an MCP client should launch the server in the given mode.
func GetBinaryConfig(mode string, projectRoot string) (*BinaryConfig, error) {
	config := &BinaryConfig{
		Mode: mode,
		Env:  make(map[string]string),
	}

	if mode == ModeDocker {
		// docker forwards the listed variables from the env block of the client config.
		config.Command = "docker"
		config.Args = []string{
			"run", "-i", "--rm",
			"-e", "GITLAB_URL",
			"-e", "GITLAB_TOKEN",
			DockerImage,
			"stdio",
		}
		return config, nil
	}

	localPath := filepath.Join(projectRoot, "bin", "gitlab-mcp-server")
	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("binary not found at %s. Please run 'make build' first", localPath)
	}
	absPath, err := filepath.Abs(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	config.LocalPath = absPath
	config.Command = absPath
	config.Args = []string{"stdio"}
	return config, nil
}

// AddReadOnlyEnv adds GITLAB_READ_ONLY when read-only mode is enabled. In docker mode the
// variable is also forwarded into the container.
func (bc *BinaryConfig) AddReadOnlyEnv(readOnly bool) {
	if !readOnly {
		return
	}
	if bc.Mode == ModeDocker {
		bc.Args = insertBeforeImage(bc.Args, "-e", "GITLAB_READ_ONLY")
	}
	bc.Env["GITLAB_READ_ONLY"] = "true"
}

func insertBeforeImage(args []string, extra ...string) []string {
	for i, arg := range args {
		if arg == DockerImage {
			out := make([]string, 0, len(args)+len(extra))
			out = append(out, args[:i]...)
			out = append(out, extra...)
			return append(out, args[i:]...)
		}
	}
	return append(args, extra...)
}
