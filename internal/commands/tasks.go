package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"regexp"
	"time"

	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/output"
	"todoist/internal/service"
)

func init() {
	Register(&TasksCmd{})
}

// taskJSON is a task with the CLI enrichments attached: comments
// inline, and optionally the resolved section name.
type taskJSON struct {
	service.Task
	Comments    []service.Comment `json:"comments"`
	SectionName *string           `json:"section_name,omitempty"`
}

// olderThanRe matches age filters like "30d", "2w", "3m".
var olderThanRe = regexp.MustCompile(`^(\d+)([dwm])$`)

// TasksCmd lists tasks with comments inline.
type TasksCmd struct {
	projectID          string
	project            string
	sectionID          string
	section            string
	label              string
	assignee           string
	createdBefore      string
	olderThan          string
	includeSectionName bool
}

func (c *TasksCmd) Name() string     { return "tasks" }
func (c *TasksCmd) Synopsis() string { return "List tasks with comments inline" }
func (c *TasksCmd) Usage() string {
	return "todoist tasks [common flags] [--project <name>] [--section <name>] [--label <name>] [--assignee <name>] [--created-before YYYY-MM-DD] [--older-than 30d|2w|3m] [--include-section-name]"
}
func (c *TasksCmd) NeedsAuth() bool { return true }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.projectID, "project-id", "", "")
	fs.StringVar(&c.project, "project", "", "")
	fs.StringVar(&c.sectionID, "section-id", "", "")
	fs.StringVar(&c.section, "section", "", "")
	fs.StringVar(&c.label, "label", "", "")
	fs.StringVar(&c.assignee, "assignee", "", "")
	fs.StringVar(&c.createdBefore, "created-before", "", "")
	fs.StringVar(&c.olderThan, "older-than", "", "")
	fs.BoolVar(&c.includeSectionName, "include-section-name", false, "")
}

func (c *TasksCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.createdBefore != "" && c.olderThan != "" {
		fmt.Fprintln(errOut, "error: cannot use both --older-than and --created-before")
		return exitcode.Failure
	}

	projectID := c.projectID
	if c.project != "" {
		var err error
		projectID, err = resolveProject(ctx, svc, c.project)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return failNotFound(errOut, "project", c.project)
			}
			return fail(errOut, err)
		}
	}

	sectionID := c.sectionID
	if c.section != "" {
		if projectID == "" {
			fmt.Fprintln(errOut, "error: --section requires --project or --project-id")
			return exitcode.Failure
		}
		var err error
		sectionID, err = resolveSection(ctx, svc, projectID, c.section)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return failNotFound(errOut, "section", c.section)
			}
			return fail(errOut, err)
		}
	}

	tasks, err := svc.Tasks(ctx, service.TaskQuery{
		ProjectID: projectID,
		SectionID: sectionID,
		Label:     c.label,
	})
	if err != nil {
		return fail(errOut, err)
	}

	// Assignee filtering is client-side: the API has no such parameter.
	if c.assignee != "" {
		if projectID == "" {
			fmt.Fprintln(errOut, "error: --assignee requires --project or --project-id to resolve the collaborator")
			return exitcode.Failure
		}
		assigneeID, err := resolveAssignee(ctx, svc, projectID, c.assignee)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return failNotFound(errOut, "collaborator", c.assignee)
			}
			return fail(errOut, err)
		}
		tasks = filterTasks(tasks, func(t service.Task) bool { return t.AssigneeID == assigneeID })
	}

	if c.createdBefore != "" || c.olderThan != "" {
		cutoff, err := c.cutoff(time.Now())
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.Failure
		}
		tasks = filterTasks(tasks, func(t service.Task) bool {
			created, ok := parseCreatedAt(t.CreatedAt)
			return ok && created.Before(cutoff)
		})
	}

	enriched := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		et, err := enrichTask(ctx, svc, t)
		if err != nil {
			return fail(errOut, err)
		}
		enriched = append(enriched, et)
	}

	if c.includeSectionName {
		if projectID == "" {
			fmt.Fprintln(errOut, "warning: --include-section-name requires --project to work, ignoring")
		} else {
			sections, err := svc.Sections(ctx, projectID)
			if err != nil {
				return fail(errOut, err)
			}
			names := make(map[string]string, len(sections))
			for _, s := range sections {
				names[s.ID] = s.Name
			}
			for i := range enriched {
				if sid := enriched[i].SectionID; sid != "" {
					if name, ok := names[sid]; ok {
						enriched[i].SectionName = &name
					}
				}
			}
		}
	}

	if err := output.JSON(out, enriched); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}

// cutoff computes the creation-date cutoff from whichever age flag is set.
func (c *TasksCmd) cutoff(now time.Time) (time.Time, error) {
	if c.olderThan != "" {
		m := olderThanRe.FindStringSubmatch(c.olderThan)
		if m == nil {
			return time.Time{}, fmt.Errorf("--older-than format should be like '30d', '2w', or '3m'")
		}
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		days := map[string]int{"d": 1, "w": 7, "m": 30}[m[2]]
		return now.AddDate(0, 0, -n*days), nil
	}
	day, err := time.Parse("2006-01-02", c.createdBefore)
	if err != nil {
		return time.Time{}, fmt.Errorf("--created-before must be YYYY-MM-DD")
	}
	// End of the named day: tasks created on it still count.
	return day.Add(24*time.Hour - time.Second), nil
}

// parseCreatedAt parses the timestamp Todoist returns for created_at,
// ignoring sub-second precision and timezone suffix variants.
func parseCreatedAt(s string) (time.Time, bool) {
	if len(s) < 19 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02T15:04:05", s[:19])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func filterTasks(tasks []service.Task, keep func(service.Task) bool) []service.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// enrichTask attaches comments to a task, fetching them only when the
// comment count says there are any.
func enrichTask(ctx context.Context, svc service.Service, t service.Task) (taskJSON, error) {
	et := taskJSON{Task: t, Comments: []service.Comment{}}
	if t.CommentCount > 0 {
		comments, err := svc.Comments(ctx, t.ID, "")
		if err != nil {
			return taskJSON{}, err
		}
		et.Comments = comments
	}
	return et, nil
}
