package publish

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

// GitHubRepo creates files through the GitHub contents API.
type GitHubRepo struct {
	client *github.Client
	owner  string
	name   string
	branch string
}

// NewGitHubRepo returns a client for repo ("owner/name") authenticated with
// token. An empty branch commits to the repository default.
func NewGitHubRepo(token, repo, branch string, timeout time.Duration) (*GitHubRepo, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("invalid repository %q, want owner/name", repo)
	}
	httpClient := &http.Client{Timeout: timeout}
	return &GitHubRepo{
		client: github.NewClient(httpClient).WithAuthToken(token),
		owner:  owner,
		name:   name,
		branch: branch,
	}, nil
}

// WithBaseURL points the client at another API root, such as an enterprise
// host or a test server.
func (g *GitHubRepo) WithBaseURL(raw string) (*GitHubRepo, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	g.client.BaseURL = u
	return g, nil
}

func (g *GitHubRepo) CreateFile(ctx context.Context, path, message string, content []byte) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
	}
	if g.branch != "" {
		opts.Branch = github.String(g.branch)
	}

	_, resp, err := g.client.Repositories.CreateFile(ctx, g.owner, g.name, path, opts)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("create %s/%s:%s (status %d): %w", g.owner, g.name, path, resp.StatusCode, err)
		}
		return fmt.Errorf("create %s/%s:%s: %w", g.owner, g.name, path, err)
	}
	return nil
}
