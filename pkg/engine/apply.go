package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goblinsan/fplan/pkg/fplan"
	ghclient "github.com/goblinsan/fplan/pkg/github"
	gogithub "github.com/google/go-github/v66/github"
	"github.com/shurcooL/githubv4"
)

// GitHubClient defines the interface for GitHub operations needed by the engine.
type GitHubClient interface {
	GetRepositoryID(ctx context.Context, owner, name string) (string, error)
	GetProjectV2ID(ctx context.Context, owner, title string) (string, error)
	GetOrCreateMilestone(ctx context.Context, owner, repo, title string) (*gogithub.Milestone, error)
	FindIssueByTitle(ctx context.Context, owner, repo, title string) (int, string, error)
	GetOrCreateLabel(ctx context.Context, owner, repo, labelName string) (githubv4.ID, error)
	CreateIssue(ctx context.Context, input githubv4.CreateIssueInput) (*ghclient.CreateIssueMutation, error)
	AddIssueToProjectV2(ctx context.Context, projectID, contentID githubv4.ID) (*ghclient.AddProjectV2ItemMutation, error)
}

// Ensure *github.Client satisfies the interface at compile time.
var _ GitHubClient = (*ghclient.Client)(nil)

// ServiceLabelPrefix prefixes the label derived from a task's effort service.
const ServiceLabelPrefix = "service:"

// Options configures the behavior of ApplyPlan.
type Options struct {
	DryRun bool
	// Project is the title of a Project V2 board to add issues to.
	Project string
	// Out receives progress and dry-run output. Defaults to stdout.
	Out io.Writer
}

// Report summarizes the results of an ApplyPlan execution.
type Report struct {
	MilestonesSynced  int      `json:"milestones_synced"`
	EpicsCreated      int      `json:"epics_created"`
	EpicsSkipped      int      `json:"epics_skipped"`
	IssuesCreated     int      `json:"issues_created"`
	IssuesSkipped     int      `json:"issues_skipped"`
	TicketsReferenced int      `json:"tickets_referenced"`
	EpicURLs          []string `json:"epic_urls,omitempty"`
}

func (r *Report) String() string {
	return fmt.Sprintf("Summary: %d milestones synced, %d epics created (%d skipped), %d issues created (%d skipped), %d existing tickets referenced",
		r.MilestonesSynced, r.EpicsCreated, r.EpicsSkipped, r.IssuesCreated, r.IssuesSkipped, r.TicketsReferenced)
}

// applier carries the state shared by one ApplyPlan run.
type applier struct {
	client     GitHubClient
	owner      string
	repo       string
	repoID     string
	projectID  string
	out        io.Writer
	report     *Report
	milestones map[string]githubv4.ID
}

// ApplyPlan exports features to GitHub: one issue per task, then one epic
// per feature that links its task issues. Tasks that already carry a ticket
// are referenced instead of created.
func ApplyPlan(ctx context.Context, client GitHubClient, repository string, features []fplan.Feature, opts Options) (*Report, error) {
	repoParts := strings.Split(repository, "/")
	if len(repoParts) != 2 || repoParts[0] == "" || repoParts[1] == "" {
		return nil, fmt.Errorf("invalid repository format: %s", repository)
	}
	a := &applier{
		client:     client,
		owner:      repoParts[0],
		repo:       repoParts[1],
		out:        opts.Out,
		report:     &Report{},
		milestones: make(map[string]githubv4.ID),
	}
	if a.out == nil {
		a.out = os.Stdout
	}

	if opts.DryRun {
		fmt.Fprintf(a.out, "[dry-run] Repository: %s/%s\n", a.owner, a.repo)
		if opts.Project != "" {
			fmt.Fprintf(a.out, "[dry-run] Project: %s\n", opts.Project)
		}
		for _, f := range features {
			a.dryRunFeature(f)
		}
		return a.report, nil
	}

	repoID, err := client.GetRepositoryID(ctx, a.owner, a.repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository id: %w", err)
	}
	a.repoID = repoID

	if opts.Project != "" {
		projectID, err := client.GetProjectV2ID(ctx, a.owner, opts.Project)
		if err != nil {
			return nil, fmt.Errorf("failed to get project id: %w", err)
		}
		a.projectID = projectID
	}

	for _, f := range features {
		if err := a.applyFeature(ctx, f); err != nil {
			return nil, err
		}
	}
	return a.report, nil
}

func (a *applier) dryRunFeature(f fplan.Feature) {
	fmt.Fprintf(a.out, "[dry-run] Would create epic: %s\n", f.Title)
	for _, t := range f.Tasks {
		if t.Ticket != "" {
			fmt.Fprintf(a.out, "[dry-run]   Would reference ticket %s: %s\n", t.Ticket, t.Title)
			a.report.TicketsReferenced++
			continue
		}
		fmt.Fprintf(a.out, "[dry-run]   Would create issue: %s\n", t.Title)
		if label := serviceLabel(t); label != "" {
			fmt.Fprintf(a.out, "[dry-run]     Label: %s\n", label)
		}
		if t.By != nil && t.By.When != "" {
			fmt.Fprintf(a.out, "[dry-run]     Milestone: %s\n", t.By.When)
		}
	}
}

func (a *applier) applyFeature(ctx context.Context, f fplan.Feature) error {
	var checklist []string
	for _, t := range f.Tasks {
		if t.Ticket != "" {
			checklist = append(checklist, fmt.Sprintf("- [ ] %s %s", t.Ticket, t.Title))
			a.report.TicketsReferenced++
			continue
		}
		number, err := a.applyTask(ctx, t)
		if err != nil {
			return err
		}
		checklist = append(checklist, fmt.Sprintf("- [ ] #%d", number))
	}

	existingNum, existingNodeID, err := a.client.FindIssueByTitle(ctx, a.owner, a.repo, f.Title)
	if err != nil {
		return fmt.Errorf("failed to check for existing epic %q: %w", f.Title, err)
	}
	if existingNum > 0 {
		fmt.Fprintf(a.out, "Skipping epic (already exists): #%d %s\n", existingNum, f.Title)
		a.report.EpicsSkipped++
		return a.addToProject(ctx, githubv4.ID(existingNodeID))
	}

	body := githubv4.String(EpicBody(f, checklist))
	epic, err := a.client.CreateIssue(ctx, githubv4.CreateIssueInput{
		RepositoryID: githubv4.ID(a.repoID),
		Title:        githubv4.String(f.Title),
		Body:         &body,
	})
	if err != nil {
		return fmt.Errorf("failed to create epic issue: %w", err)
	}
	if err := a.addToProject(ctx, epic.CreateIssue.Issue.ID); err != nil {
		return err
	}

	a.report.EpicsCreated++
	a.report.EpicURLs = append(a.report.EpicURLs, epic.CreateIssue.Issue.URL.String())
	fmt.Fprintf(a.out, "Created epic: %s (%s)\n", f.Title, epic.CreateIssue.Issue.URL.String())
	return nil
}

// applyTask creates the issue for t, or finds the existing one, and returns
// its number.
func (a *applier) applyTask(ctx context.Context, t fplan.Task) (int, error) {
	existingNum, existingNodeID, err := a.client.FindIssueByTitle(ctx, a.owner, a.repo, t.Title)
	if err != nil {
		return 0, fmt.Errorf("failed to check for existing issue %q: %w", t.Title, err)
	}
	if existingNum > 0 {
		fmt.Fprintf(a.out, "  Skipping issue (already exists): #%d %s\n", existingNum, t.Title)
		a.report.IssuesSkipped++
		return existingNum, a.addToProject(ctx, githubv4.ID(existingNodeID))
	}

	var labelIDs []githubv4.ID
	if label := serviceLabel(t); label != "" {
		labelID, err := a.client.GetOrCreateLabel(ctx, a.owner, a.repo, label)
		if err != nil {
			return 0, fmt.Errorf("failed to get or create label %s: %w", label, err)
		}
		labelIDs = append(labelIDs, labelID)
	}

	var milestoneID *githubv4.ID
	if t.By != nil && t.By.When != "" {
		id, err := a.milestone(ctx, t.By.When)
		if err != nil {
			return 0, err
		}
		milestoneID = &id
	}

	body := githubv4.String(TaskBody(t))
	issue, err := a.client.CreateIssue(ctx, githubv4.CreateIssueInput{
		RepositoryID: githubv4.ID(a.repoID),
		Title:        githubv4.String(t.Title),
		Body:         &body,
		LabelIDs:     &labelIDs,
		MilestoneID:  milestoneID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create issue %q: %w", t.Title, err)
	}
	a.report.IssuesCreated++
	if err := a.addToProject(ctx, issue.CreateIssue.Issue.ID); err != nil {
		return 0, err
	}
	return issue.CreateIssue.Issue.Number, nil
}

func (a *applier) milestone(ctx context.Context, title string) (githubv4.ID, error) {
	if id, ok := a.milestones[title]; ok {
		return id, nil
	}
	m, err := a.client.GetOrCreateMilestone(ctx, a.owner, a.repo, title)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create milestone %s: %w", title, err)
	}
	id := githubv4.ID(m.GetNodeID())
	a.milestones[title] = id
	a.report.MilestonesSynced++
	return id, nil
}

func (a *applier) addToProject(ctx context.Context, contentID githubv4.ID) error {
	if a.projectID == "" {
		return nil
	}
	if _, err := a.client.AddIssueToProjectV2(ctx, githubv4.ID(a.projectID), contentID); err != nil {
		return fmt.Errorf("failed to add issue to project: %w", err)
	}
	return nil
}

func serviceLabel(t fplan.Task) string {
	if t.Effort == nil || t.Effort.Service == "" {
		return ""
	}
	return ServiceLabelPrefix + t.Effort.Service
}
