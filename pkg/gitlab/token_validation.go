package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gl "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/time/rate"
)

// TokenIdentity describes the account behind a validated token.
type TokenIdentity struct {
	Username    string
	Name        string
	ValidatedAt time.Time
}

// NewValidationClient builds an official GitLab client that shares c's URL, token and transport.
// Retries and client-side rate limiting are disabled so startup fails fast.
func NewValidationClient(c *Client) (*gl.Client, error) {
	return gl.NewClient(c.token,
		gl.WithBaseURL(c.baseURL),
		gl.WithHTTPClient(c.http),
		gl.WithoutRetries(),
		gl.WithCustomLimiter(rate.NewLimiter(rate.Inf, 0)),
	)
}

// ValidateToken checks the token against GET /user. A 401 is reported as an invalid request.
func ValidateToken(ctx context.Context, glClient *gl.Client) (*TokenIdentity, error) {
	user, resp, err := glClient.Users.CurrentUser(gl.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, InvalidRequest("GitLab token is invalid or expired", err.Error())
		}
		return nil, fmt.Errorf("failed to validate GitLab token: %w", err)
	}

	return &TokenIdentity{
		Username:    user.Username,
		Name:        user.Name,
		ValidatedAt: time.Now(),
	}, nil
}
