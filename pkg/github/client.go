package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Client wraps both the REST API client (go-github) and GraphQL client (githubv4)
type Client struct {
	REST    *github.Client
	GraphQL *githubv4.Client
}

// CreateIssueMutation is the createIssue GraphQL mutation.
type CreateIssueMutation struct {
	CreateIssue struct {
		Issue struct {
			ID     githubv4.ID
			Number int
			URL    githubv4.URI
		}
	} `graphql:"createIssue(input: $input)"`
}

// AddProjectV2ItemMutation is the addProjectV2ItemById GraphQL mutation.
type AddProjectV2ItemMutation struct {
	AddProjectV2ItemById struct {
		Item struct {
			ID githubv4.ID
		}
	} `graphql:"addProjectV2ItemById(input: $input)"`
}

// NewClient creates a new GitHub client with both REST and GraphQL capabilities
func NewClient(token string) *Client {
	var httpClient *http.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = http.DefaultClient
	}

	return &Client{
		REST:    github.NewClient(httpClient),
		GraphQL: githubv4.NewClient(httpClient),
	}
}

// GetAuthenticatedUser returns information about the authenticated user
func (c *Client) GetAuthenticatedUser(ctx context.Context) (*github.User, error) {
	user, _, err := c.REST.Users.Get(ctx, "")
	return user, err
}

// GetRepositoryID returns the GraphQL node id of owner/name.
func (c *Client) GetRepositoryID(ctx context.Context, owner, name string) (string, error) {
	var q struct {
		Repository struct {
			ID githubv4.ID
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	if err := c.GraphQL.Query(ctx, &q, vars); err != nil {
		return "", err
	}
	return fmt.Sprint(q.Repository.ID), nil
}

// GetProjectV2ID returns the node id of the owner's project with the given title.
func (c *Client) GetProjectV2ID(ctx context.Context, owner, title string) (string, error) {
	var q struct {
		RepositoryOwner struct {
			ProjectV2Owner struct {
				ProjectsV2 struct {
					Nodes []struct {
						ID    githubv4.ID
						Title string
					}
				} `graphql:"projectsV2(first: 20, query: $title)"`
			} `graphql:"... on ProjectV2Owner"`
		} `graphql:"repositoryOwner(login: $owner)"`
	}
	vars := map[string]interface{}{
		"owner": githubv4.String(owner),
		"title": githubv4.String(title),
	}
	if err := c.GraphQL.Query(ctx, &q, vars); err != nil {
		return "", err
	}
	for _, p := range q.RepositoryOwner.ProjectV2Owner.ProjectsV2.Nodes {
		if p.Title == title {
			return fmt.Sprint(p.ID), nil
		}
	}
	return "", fmt.Errorf("project %q not found for %s", title, owner)
}

// FindIssueByTitle returns the number and node id of the issue with exactly
// this title, or 0 when there is none.
func (c *Client) FindIssueByTitle(ctx context.Context, owner, repo, title string) (int, string, error) {
	query := fmt.Sprintf("repo:%s/%s is:issue in:title %q", owner, repo, title)
	result, _, err := c.REST.Search.Issues(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 50},
	})
	if err != nil {
		return 0, "", err
	}
	for _, issue := range result.Issues {
		if issue.GetTitle() == title {
			return issue.GetNumber(), issue.GetNodeID(), nil
		}
	}
	return 0, "", nil
}

// GetOrCreateLabel returns the node id of the label, creating it if needed.
func (c *Client) GetOrCreateLabel(ctx context.Context, owner, repo, labelName string) (githubv4.ID, error) {
	label, _, err := c.REST.Issues.GetLabel(ctx, owner, repo, labelName)
	if err == nil {
		return githubv4.ID(label.GetNodeID()), nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	label, _, err = c.REST.Issues.CreateLabel(ctx, owner, repo, &github.Label{Name: github.String(labelName)})
	if err != nil {
		return nil, err
	}
	return githubv4.ID(label.GetNodeID()), nil
}

// GetOrCreateMilestone returns the milestone with the given title, creating it if needed.
func (c *Client) GetOrCreateMilestone(ctx context.Context, owner, repo, title string) (*github.Milestone, error) {
	opts := &github.MilestoneListOptions{State: "all", ListOptions: github.ListOptions{PerPage: 100}}
	for {
		milestones, resp, err := c.REST.Issues.ListMilestones(ctx, owner, repo, opts)
		if err != nil {
			return nil, err
		}
		for _, m := range milestones {
			if m.GetTitle() == title {
				return m, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	m, _, err := c.REST.Issues.CreateMilestone(ctx, owner, repo, &github.Milestone{Title: github.String(title)})
	return m, err
}

// CreateIssue runs the createIssue mutation.
func (c *Client) CreateIssue(ctx context.Context, input githubv4.CreateIssueInput) (*CreateIssueMutation, error) {
	var m CreateIssueMutation
	if err := c.GraphQL.Mutate(ctx, &m, input, nil); err != nil {
		return nil, err
	}
	return &m, nil
}

// AddIssueToProjectV2 adds an issue to a project board.
func (c *Client) AddIssueToProjectV2(ctx context.Context, projectID, contentID githubv4.ID) (*AddProjectV2ItemMutation, error) {
	var m AddProjectV2ItemMutation
	input := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: projectID,
		ContentID: contentID,
	}
	if err := c.GraphQL.Mutate(ctx, &m, input, nil); err != nil {
		return nil, err
	}
	return &m, nil
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}
