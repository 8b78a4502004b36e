package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"github.com/ternarybob/candle/internal/interfaces"
)

// RepoFile represents a file from a GitHub repository
type RepoFile struct {
	Path    string // Full path: public/schedule.json
	SHA     string // Blob SHA, required to update the file
	Size    int    // File size in bytes
	Content []byte // Decoded content
}

// GetFileContent fetches a single file on the configured branch.
// A missing file returns interfaces.ErrNotFound.
func (c *Connector) GetFileContent(ctx context.Context, path string) (*RepoFile, error) {
	content, _, resp, err := c.client.Repositories.GetContents(ctx, c.owner, c.repo, path, &github.RepositoryContentGetOptions{
		Ref: c.config.Branch,
	})
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, interfaces.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file content: %w", err)
	}
	if content == nil {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	file := &RepoFile{
		Path: content.GetPath(),
		SHA:  content.GetSHA(),
		Size: content.GetSize(),
	}

	// Decode content (base64)
	if content.Content != nil {
		decoded, err := base64.StdEncoding.DecodeString(*content.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to decode content: %w", err)
		}
		file.Content = decoded
	}

	return file, nil
}

// PublishFile creates or updates path with content in a single commit.
// Unchanged content is skipped.
func (c *Connector) PublishFile(ctx context.Context, path string, content []byte, message string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
	}
	if c.config.CommitterName != "" && c.config.CommitterEmail != "" {
		opts.Committer = &github.CommitAuthor{
			Name:  github.String(c.config.CommitterName),
			Email: github.String(c.config.CommitterEmail),
		}
	}
	if c.config.Branch != "" {
		opts.Branch = github.String(c.config.Branch)
	}

	existing, err := c.GetFileContent(ctx, path)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		if _, _, err := c.client.Repositories.CreateFile(ctx, c.owner, c.repo, path, opts); err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		c.logger.Info().Str("path", path).Str("repo", c.config.Repo).Msg("Created file")
		return nil

	case err != nil:
		return err

	case string(existing.Content) == string(content):
		c.logger.Debug().Str("path", path).Msg("File unchanged, skipping commit")
		return nil
	}

	opts.SHA = github.String(existing.SHA)
	if _, _, err := c.client.Repositories.UpdateFile(ctx, c.owner, c.repo, path, opts); err != nil {
		return fmt.Errorf("failed to update %s: %w", path, err)
	}
	c.logger.Info().Str("path", path).Str("repo", c.config.Repo).Msg("Updated file")
	return nil
}
