package installer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	ServerName = "gitlab-mr"

	ModeLocal  = "local"
	ModeDocker = "docker"

	DefaultGitLabURL = "https://gitlab.com"
)

// Environments lists the MCP clients the installer knows how to configure.
var Environments = []string{
	"VS Code",
	"Claude Desktop",
	"Claude Code",
	"Cursor",
}

// PromptConfig holds the configuration collected from user prompts
type PromptConfig struct {
	Mode      string
	GitLabURL string
	Token     string
	ReadOnly  bool
	// UseKeyring stores the token in the OS keyring instead of the client config. Local mode only.
	UseKeyring bool
}

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// readSecret reads a line without echo.
	readSecret func() (string, error)
}

// NewPrompter returns a Prompter on the process terminal. Token input is hidden when stdin is a terminal.
func NewPrompter() *Prompter {
	p := &Prompter{in: bufio.NewReader(os.Stdin), out: os.Stdout}
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		p.readSecret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(p.out)
			return string(b), err
		}
	}
	return p
}

func (p *Prompter) ask(question string) string {
	fmt.Fprint(p.out, question)
	line, _ := p.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (p *Prompter) askYesNo(question string) bool {
	answer := strings.ToLower(p.ask(question))
	return answer == "y" || answer == "yes"
}

func (p *Prompter) askSecret(question string) (string, error) {
	if p.readSecret == nil {
		return p.ask(question), nil
	}
	fmt.Fprint(p.out, question)
	secret, err := p.readSecret()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(secret), nil
}

// PromptUser collects configuration from the user via interactive prompts
func (p *Prompter) PromptUser() (*PromptConfig, error) {
	config := &PromptConfig{}

	switch mode := p.ask("Select mode [local/docker] (default: local): "); mode {
	case "", ModeLocal:
		config.Mode = ModeLocal
	case ModeDocker:
		config.Mode = ModeDocker
	default:
		return nil, fmt.Errorf("invalid mode: %s. Must be 'local' or 'docker'", mode)
	}

	config.GitLabURL = p.ask(fmt.Sprintf("GitLab URL (default: %s): ", DefaultGitLabURL))
	if config.GitLabURL == "" {
		config.GitLabURL = DefaultGitLabURL
	}

	token, err := p.askSecret("GitLab access token (needs the api scope): ")
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}
	config.Token = token

	config.ReadOnly = p.askYesNo("Enable read-only mode? (y/n, default: n): ")

	// A container cannot reach the host keyring.
	if config.Mode == ModeLocal {
		config.UseKeyring = p.askYesNo("Store the token in the OS keyring instead of the client config? (y/n, default: n): ")
	}

	return config, nil
}

// PromptEnvironments asks user which development environments to configure
func (p *Prompter) PromptEnvironments() []string {
	fmt.Fprintln(p.out, "\nSelect development environments to configure (comma-separated, or 'all'):")
	for i, env := range Environments {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, env)
	}

	input := p.ask("Your choice (default: all): ")
	if input == "" || strings.EqualFold(input, "all") {
		return Environments
	}

	var selected []string
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if env, ok := matchEnvironment(part); ok {
			selected = append(selected, env)
		} else {
			fmt.Fprintf(p.out, "Warning: Unknown environment '%s', skipping\n", part)
		}
	}

	if len(selected) == 0 {
		return Environments
	}
	return selected
}

// matchEnvironment accepts a 1-based index or a case-insensitive name.
func matchEnvironment(choice string) (string, bool) {
	var idx int
	if _, err := fmt.Sscanf(choice, "%d", &idx); err == nil {
		if idx >= 1 && idx <= len(Environments) {
			return Environments[idx-1], true
		}
		return "", false
	}
	for _, env := range Environments {
		if strings.EqualFold(choice, env) {
			return env, true
		}
	}
	return "", false
}
