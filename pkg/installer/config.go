package installer

// ServerConfig is one entry under "mcpServers" (or "servers" for VS Code).
type ServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Type    string            `json:"type,omitempty"`
}

// CreateServerConfig builds the client entry. An empty token is left out of the env block so
// the server falls back to the OS keyring.
func CreateServerConfig(bc *BinaryConfig, gitlabURL string, readOnly bool, token string) ServerConfig {
	config := ServerConfig{
		Command: bc.Command,
		Args:    append([]string(nil), bc.Args...),
		Env:     make(map[string]string, len(bc.Env)+3),
	}
	for k, v := range bc.Env {
		config.Env[k] = v
	}

	config.Env["GITLAB_URL"] = gitlabURL
	if token != "" {
		config.Env["GITLAB_TOKEN"] = token
	}
	if readOnly {
		config.Env["GITLAB_READ_ONLY"] = "true"
	}
	return config
}
