// Package credentials resolves the GitLab token and keeps it in protected memory until the
// client is built.
package credentials

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/awnumar/memguard"
	"github.com/zalando/go-keyring"
)

// KeyringService is the service name under which tokens are stored in the OS keyring.
const KeyringService = "gitlab-mr-mcp-server"

var (
	ErrMissingURL   = errors.New("GitLab URL is required: set GITLAB_URL or --gitlab-url")
	ErrMissingToken = errors.New("GitLab token is required: set GITLAB_TOKEN or --gitlab-token, or store one in the OS keyring")
)

// Source records where a token came from.
type Source string

const (
	SourceConfig  Source = "config"
	SourceKeyring Source = "keyring"
)

// Secret holds a token inside a memguard enclave.
type Secret struct {
	enclave *memguard.Enclave
}

// NewSecret seals value into an enclave. The empty string is rejected.
func NewSecret(value string) (*Secret, error) {
	if value == "" {
		return nil, ErrMissingToken
	}
	// NewEnclave wipes the buffer it is given.
	return &Secret{enclave: memguard.NewEnclave([]byte(value))}, nil
}

// Reveal decrypts the token. The returned string is an ordinary heap copy.
func (s *Secret) Reveal() (string, error) {
	if s == nil || s.enclave == nil {
		return "", ErrMissingToken
	}
	lb, err := s.enclave.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open token enclave: %w", err)
	}
	defer lb.Destroy()
	return string(lb.Bytes()), nil
}

// Credentials is the resolved GitLab endpoint and token.
type Credentials struct {
	URL    string
	Token  *Secret
	Source Source
}

// KeyringUser derives the keyring account name from the GitLab URL: the lower-cased host,
// including any explicit port.
func KeyringUser(baseURL string) (string, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return "", ErrMissingURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid GitLab URL %q: %w", baseURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid GitLab URL %q: missing host", baseURL)
	}
	return strings.ToLower(u.Host), nil
}

// Resolve returns credentials for baseURL. An explicit token wins; otherwise the OS keyring is
// consulted. A missing URL or token is an error.
func Resolve(baseURL, token string) (*Credentials, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrMissingURL
	}

	if token = strings.TrimSpace(token); token != "" {
		secret, err := NewSecret(token)
		if err != nil {
			return nil, err
		}
		return &Credentials{URL: baseURL, Token: secret, Source: SourceConfig}, nil
	}

	user, err := KeyringUser(baseURL)
	if err != nil {
		return nil, err
	}
	stored, err := keyring.Get(KeyringService, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrMissingToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token from keyring: %w", err)
	}

	secret, err := NewSecret(strings.TrimSpace(stored))
	if err != nil {
		return nil, err
	}
	return &Credentials{URL: baseURL, Token: secret, Source: SourceKeyring}, nil
}

// Store saves token in the OS keyring for the host of baseURL.
func Store(baseURL, token string) error {
	user, err := KeyringUser(baseURL)
	if err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return ErrMissingToken
	}
	if err := keyring.Set(KeyringService, user, strings.TrimSpace(token)); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// Delete removes the stored token for baseURL. A missing entry is not an error.
func Delete(baseURL string) error {
	user, err := KeyringUser(baseURL)
	if err != nil {
		return err
	}
	if err := keyring.Delete(KeyringService, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}
