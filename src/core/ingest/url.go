package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

// URLAdapter fetches a web page and extracts its visible text. GitHub
// URLs are excluded; the GitHub adapter owns those.
type URLAdapter struct {
	client *resty.Client
}

func NewURLAdapter(client *resty.Client) *URLAdapter {
	if client == nil {
		client = resty.New()
	}
	return &URLAdapter{client: client}
}

func (a *URLAdapter) SourceType() string {
	return SourceTypeURL
}

func (a *URLAdapter) Matches(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return !isGitHubHost(u.Host)
}

func (a *URLAdapter) Collect(ctx context.Context, source string) ([]CollectedDocument, error) {
	resp, err := a.client.R().SetContext(ctx).Get(source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch url: status %s", resp.Status())
	}

	contentType := resp.Header().Get("Content-Type")
	body := string(resp.Body())

	var title, text string
	if strings.Contains(contentType, "text/html") {
		title, text, err = extractHTMLText(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse html: %w", err)
		}
	} else {
		text = body
	}

	name := title
	if name == "" {
		name = source
	}

	return []CollectedDocument{{
		Name:       name,
		SourceType: SourceTypeURL,
		Path:       source,
		Content:    text,
		Metadata: map[string]interface{}{
			"content_type": contentType,
			"title":        title,
		},
	}}, nil
}

// blockElements force a paragraph break around their text so the
// chunkers see document structure instead of one long line.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "tr": true, "br": true, "blockquote": true, "pre": true,
}

// extractHTMLText returns the page title and the visible text with
// block boundaries rendered as blank lines.
func extractHTMLText(page string) (string, string, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", "", err
	}

	var title string
	var sb strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
			if n.Data == "title" && title == "" && n.FirstChild != nil {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
		case html.TextNode:
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				sb.WriteString(trimmed)
				sb.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			sb.WriteString("\n\n")
		}
	}
	walk(root)

	return title, collapseBlankRuns(sb.String()), nil
}

// collapseBlankRuns trims each line and squeezes runs of blank lines to
// one paragraph break.
func collapseBlankRuns(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
