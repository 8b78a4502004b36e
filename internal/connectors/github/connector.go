package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"golang.org/x/oauth2"
)

// Connector publishes documents to a GitHub repository through the contents API
type Connector struct {
	client *github.Client
	owner  string
	repo   string
	config common.GitHubConfig
	logger arbor.ILogger
}

// Option configures a Connector
type Option func(*Connector) error

// WithBaseURL points the client at a different API root (GitHub Enterprise or tests)
func WithBaseURL(baseURL string) Option {
	return func(c *Connector) error {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("invalid github base url: %w", err)
		}
		c.client.BaseURL = u
		return nil
	}
}

// NewConnector creates a new GitHub connector for config.Repo ("owner/name")
func NewConnector(config common.GitHubConfig, logger arbor.ILogger, opts ...Option) (*Connector, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("github token is required")
	}
	owner, repo, ok := strings.Cut(config.Repo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("github repo must be owner/name, got %q", config.Repo)
	}

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: config.Token},
	)
	tc := oauth2.NewClient(ctx, ts)

	c := &Connector{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
		config: config,
		logger: logger,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// TestConnection verifies the token can read the target repository
func (c *Connector) TestConnection(ctx context.Context) error {
	_, _, err := c.client.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		return fmt.Errorf("github connection test failed: %w", err)
	}
	return nil
}

// Ensure interface compliance
var _ interfaces.Publisher = (*Connector)(nil)
