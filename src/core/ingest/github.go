package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v74/github"
)

// GitHubAdapter pulls markdown and text files from GitHub repositories.
// Sources look like "https://github.com/owner/repo" optionally followed
// by a path inside the repository. Without a path the repository README
// is collected.
type GitHubAdapter struct {
	client *github.Client
}

func NewGitHubAdapter(token string) *GitHubAdapter {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubAdapter{client: client}
}

func isGitHubHost(host string) bool {
	return host == "github.com" || host == "www.github.com"
}

func (a *GitHubAdapter) SourceType() string {
	return SourceTypeGitHub
}

func (a *GitHubAdapter) Matches(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && isGitHubHost(u.Host)
}

// parseSource splits a GitHub URL into owner, repo and an optional path
// inside the repository.
func parseSource(source string) (owner, repo, path string, err error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to parse github source: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("github source must name owner and repository: %q", source)
	}

	owner, repo = parts[0], parts[1]
	rest := parts[2:]
	// Strip the browse prefix from copy-pasted URLs.
	if len(rest) >= 2 && (rest[0] == "blob" || rest[0] == "tree") {
		rest = rest[2:]
	}
	return owner, repo, strings.Join(rest, "/"), nil
}

func (a *GitHubAdapter) Collect(ctx context.Context, source string) ([]CollectedDocument, error) {
	owner, repo, path, err := parseSource(source)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return a.collectReadme(ctx, owner, repo)
	}
	return a.collectPath(ctx, owner, repo, path)
}

func (a *GitHubAdapter) collectReadme(ctx context.Context, owner, repo string) ([]CollectedDocument, error) {
	readme, _, err := a.client.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository readme: %w", err)
	}

	content, err := readme.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode readme content: %w", err)
	}

	return []CollectedDocument{{
		Name:       fmt.Sprintf("%s/%s: %s", owner, repo, readme.GetName()),
		SourceType: SourceTypeGitHub,
		Path:       fmt.Sprintf("https://github.com/%s/%s/blob/HEAD/%s", owner, repo, readme.GetPath()),
		Content:    content,
		Metadata: map[string]interface{}{
			"owner":     owner,
			"repo":      repo,
			"repo_path": readme.GetPath(),
			"sha":       readme.GetSHA(),
		},
	}}, nil
}

func (a *GitHubAdapter) collectPath(ctx context.Context, owner, repo, path string) ([]CollectedDocument, error) {
	file, dir, _, err := a.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository contents: %w", err)
	}

	if file != nil {
		doc, err := a.fileDocument(owner, repo, file)
		if err != nil {
			return nil, err
		}
		return []CollectedDocument{doc}, nil
	}

	var docs []CollectedDocument
	for _, entry := range dir {
		if entry.GetType() != "file" || !textExtensions[strings.ToLower(extOf(entry.GetName()))] {
			continue
		}
		full, _, _, err := a.client.Repositories.GetContents(ctx, owner, repo, entry.GetPath(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get file %s: %w", entry.GetPath(), err)
		}
		if full == nil {
			continue
		}
		doc, err := a.fileDocument(owner, repo, full)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (a *GitHubAdapter) fileDocument(owner, repo string, file *github.RepositoryContent) (CollectedDocument, error) {
	content, err := file.GetContent()
	if err != nil {
		return CollectedDocument{}, fmt.Errorf("failed to decode file content: %w", err)
	}

	return CollectedDocument{
		Name:       fmt.Sprintf("%s/%s: %s", owner, repo, file.GetName()),
		SourceType: SourceTypeGitHub,
		Path:       fmt.Sprintf("https://github.com/%s/%s/blob/HEAD/%s", owner, repo, file.GetPath()),
		Content:    content,
		Metadata: map[string]interface{}{
			"owner":     owner,
			"repo":      repo,
			"repo_path": file.GetPath(),
			"sha":       file.GetSHA(),
		},
	}, nil
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
