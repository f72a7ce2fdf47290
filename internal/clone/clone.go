package clone

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/re-centris/method-extractor/internal/common/logger"
)

const githubPrefix = "https://github.com/"

// ErrNotPublicRepo is returned for URLs that are not reachable public GitHub repositories
var ErrNotPublicRepo = errors.New("not a public GitHub repository")

// RepoInfo contains information about a repository
type RepoInfo struct {
	Author string
	Name   string
	URL    string
}

// ParseRepoURL parses a GitHub repository URL and returns RepoInfo
func ParseRepoURL(url string) (*RepoInfo, error) {
	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	if len(parts) < 2 || parts[len(parts)-1] == "" || parts[len(parts)-2] == "" {
		return nil, fmt.Errorf("invalid repository URL: %s", url)
	}

	name := strings.TrimSuffix(parts[len(parts)-1], ".git")
	author := parts[len(parts)-2]
	if name == "" {
		return nil, fmt.Errorf("invalid repository URL: %s", url)
	}

	return &RepoInfo{
		Author: author,
		Name:   name,
		URL:    url,
	}, nil
}

// Options contains options for cloning repositories
type Options struct {
	// Dir is the parent of the temporary clone directories; empty means
	// the system temp directory.
	Dir string
	// Depth limits history; 0 clones everything.
	Depth int
	// Keep leaves clones on disk after Cleanup.
	Keep bool
}

// Cloner fetches remote repositories into temporary directories
type Cloner struct {
	opts   Options
	client *http.Client
	prefix string
}

// New creates a cloner
func New(opts Options) *Cloner {
	return &Cloner{
		opts:   opts,
		client: &http.Client{Timeout: 15 * time.Second},
		prefix: githubPrefix,
	}
}

// IsPublicRepo reports whether url names a GitHub repository that answers
// an anonymous request with 200 OK.
func (c *Cloner) IsPublicRepo(ctx context.Context, url string) bool {
	if !strings.HasPrefix(url, c.prefix) {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, strings.TrimSuffix(url, ".git"), nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Debug("Repository probe failed", zap.String("url", url), zap.Error(err))
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Clone checks that url is a public GitHub repository and clones it into a
// fresh temporary directory, returning its path.
func (c *Cloner) Clone(ctx context.Context, url string) (string, error) {
	if !c.IsPublicRepo(ctx, url) {
		return "", fmt.Errorf("%w: %s", ErrNotPublicRepo, url)
	}
	return c.fetch(ctx, url)
}

func (c *Cloner) fetch(ctx context.Context, url string) (string, error) {
	info, err := ParseRepoURL(url)
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp(c.opts.Dir, "cloned-"+info.Name+"-")
	if err != nil {
		return "", fmt.Errorf("failed to create clone directory: %w", err)
	}

	logger.Info("Cloning repository",
		zap.String("url", url),
		zap.String("path", dir))

	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          url,
		Depth:        c.opts.Depth,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to clone repository %s: %w", url, err)
	}

	logger.Info("Successfully cloned repository",
		zap.String("repo", info.Author+"/"+info.Name))
	return dir, nil
}

// Cleanup removes a clone unless the cloner keeps them
func (c *Cloner) Cleanup(dir string) error {
	if c.opts.Keep || dir == "" {
		return nil
	}
	return os.RemoveAll(dir)
}
