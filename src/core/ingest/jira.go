package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
)

// JiraAdapter fetches issues from a Jira instance. Sources use the
// "jira://" scheme followed by an issue key, e.g. "jira://PROJ-42".
type JiraAdapter struct {
	client  *resty.Client
	baseURL string
}

var issueKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]+-\d+$`)

func NewJiraAdapter(baseURL, email, apiToken string, client *resty.Client) *JiraAdapter {
	if client == nil {
		client = resty.New()
	}
	if email != "" || apiToken != "" {
		client.SetBasicAuth(email, apiToken)
	}
	return &JiraAdapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (a *JiraAdapter) SourceType() string {
	return SourceTypeJira
}

func (a *JiraAdapter) Matches(source string) bool {
	key, ok := strings.CutPrefix(source, "jira://")
	return ok && issueKeyPattern.MatchString(key)
}

type jiraIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string `json:"summary"`
		Description string `json:"description"`
		Status      struct {
			Name string `json:"name"`
		} `json:"status"`
		IssueType struct {
			Name string `json:"name"`
		} `json:"issuetype"`
		Comment struct {
			Comments []struct {
				Author struct {
					DisplayName string `json:"displayName"`
				} `json:"author"`
				Body string `json:"body"`
			} `json:"comments"`
		} `json:"comment"`
	} `json:"fields"`
}

func (a *JiraAdapter) Collect(ctx context.Context, source string) ([]CollectedDocument, error) {
	key := strings.TrimPrefix(source, "jira://")
	if !issueKeyPattern.MatchString(key) {
		return nil, fmt.Errorf("invalid jira issue key: %q", key)
	}

	var issue jiraIssue
	resp, err := a.client.R().
		SetContext(ctx).
		SetResult(&issue).
		Get(fmt.Sprintf("%s/rest/api/2/issue/%s", a.baseURL, key))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jira issue: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch jira issue: status %s", resp.Status())
	}

	var sb strings.Builder
	sb.WriteString(issue.Fields.Summary)
	if issue.Fields.Description != "" {
		sb.WriteString("\n\n")
		sb.WriteString(issue.Fields.Description)
	}
	for _, comment := range issue.Fields.Comment.Comments {
		sb.WriteString("\n\n")
		sb.WriteString(comment.Author.DisplayName)
		sb.WriteString(": ")
		sb.WriteString(comment.Body)
	}

	return []CollectedDocument{{
		Name:       fmt.Sprintf("%s: %s", issue.Key, issue.Fields.Summary),
		SourceType: SourceTypeJira,
		Path:       fmt.Sprintf("%s/browse/%s", a.baseURL, issue.Key),
		Content:    sb.String(),
		Metadata: map[string]interface{}{
			"issue_key":  issue.Key,
			"issue_type": issue.Fields.IssueType.Name,
			"status":     issue.Fields.Status.Name,
		},
	}}, nil
}
