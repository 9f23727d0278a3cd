package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/output"
	"todoist/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd creates a new task.
type AddCmd struct {
	description string
	projectID   string
	project     string
	sectionID   string
	section     string
	parentID    string
	labels      string
	priority    int
	due         string
}

func (c *AddCmd) Name() string     { return "add" }
func (c *AddCmd) Synopsis() string { return "Create a new task" }
func (c *AddCmd) Usage() string {
	return "todoist add [common flags] [--project <name>] [--section <name>] [--labels a,b] [--priority 1-4] [--due <text>] <content...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.projectID, "project-id", "", "")
	fs.StringVar(&c.project, "project", "", "")
	fs.StringVar(&c.sectionID, "section-id", "", "")
	fs.StringVar(&c.section, "section", "", "")
	fs.StringVar(&c.parentID, "parent-id", "", "")
	fs.StringVar(&c.labels, "labels", "", "")
	fs.IntVar(&c.priority, "priority", 0, "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	content := strings.TrimSpace(strings.Join(args, " "))
	if content == "" {
		fmt.Fprintln(errOut, "error: task content required")
		return exitcode.Failure
	}
	if c.priority != 0 && (c.priority < 1 || c.priority > 4) {
		fmt.Fprintln(errOut, "error: --priority must be 1-4 (1=normal, 4=urgent)")
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

	var labels []string
	if c.labels != "" {
		labels = strings.Split(c.labels, ",")
	}

	task, err := svc.AddTask(ctx, service.NewTask{
		Content:     content,
		Description: c.description,
		ProjectID:   projectID,
		SectionID:   sectionID,
		ParentID:    c.parentID,
		Labels:      labels,
		Priority:    c.priority,
		DueString:   c.due,
	})
	if err != nil {
		return fail(errOut, err)
	}

	if err := output.JSON(out, task); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
