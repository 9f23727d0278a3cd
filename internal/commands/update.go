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
	Register(&UpdateCmd{})
}

// optionalString is a flag value that remembers whether it was set,
// so --description "" can clear a description.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string     { return o.value }
func (o *optionalString) Set(s string) error { o.value = s; o.set = true; return nil }

// UpdateCmd updates or moves an existing task. Moves (project,
// section) run first, then field updates, then the task is fetched
// and printed.
type UpdateCmd struct {
	content     string
	description optionalString
	projectID   string
	project     string
	sectionID   string
	section     string
	labels      string
	priority    int
	due         string
}

func (c *UpdateCmd) Name() string     { return "update" }
func (c *UpdateCmd) Synopsis() string { return "Update or move an existing task" }
func (c *UpdateCmd) Usage() string {
	return "todoist update [common flags] [--content <text>] [--project <name>] [--section <name>] [--labels a,b] [--priority 1-4] [--due <text>] <id>"
}
func (c *UpdateCmd) NeedsAuth() bool { return true }

func (c *UpdateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.content, "content", "", "")
	fs.Var(&c.description, "description", "")
	fs.StringVar(&c.projectID, "project-id", "", "")
	fs.StringVar(&c.project, "project", "", "")
	fs.StringVar(&c.sectionID, "section-id", "", "")
	fs.StringVar(&c.section, "section", "", "")
	fs.StringVar(&c.labels, "labels", "", "")
	fs.IntVar(&c.priority, "priority", 0, "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *UpdateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task ID required")
		return exitcode.Failure
	}
	id := args[0]

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
		// Section names resolve within the target project if the task
		// is moving, otherwise within its current project.
		resolveIn := projectID
		if resolveIn == "" {
			task, err := svc.Task(ctx, id)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					fmt.Fprintf(errOut, "error: task '%s' not found or invalid\n", id)
					return exitcode.Failure
				}
				return fail(errOut, err)
			}
			resolveIn = task.ProjectID
		}
		var err error
		sectionID, err = resolveSection(ctx, svc, resolveIn, c.section)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return failNotFound(errOut, "section", c.section)
			}
			return fail(errOut, err)
		}
	}

	update := service.TaskUpdate{
		Content:   c.content,
		Priority:  c.priority,
		DueString: c.due,
	}
	if c.description.set {
		desc := c.description.value
		update.Description = &desc
	}
	if c.labels != "" {
		update.Labels = strings.Split(c.labels, ",")
	}

	move := service.TaskMove{
		ProjectID: projectID,
		SectionID: sectionID,
	}

	if update.IsZero() && move.IsZero() {
		fmt.Fprintln(errOut, "error: no update parameters provided")
		return exitcode.Failure
	}

	if !move.IsZero() {
		if err := svc.MoveTask(ctx, id, move); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				fmt.Fprintf(errOut, "error: task '%s' not found or invalid\n", id)
				return exitcode.Failure
			}
			return fail(errOut, err)
		}
	}

	if !update.IsZero() {
		if err := svc.UpdateTask(ctx, id, update); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				fmt.Fprintf(errOut, "error: task '%s' not found or invalid\n", id)
				return exitcode.Failure
			}
			return fail(errOut, err)
		}
	}

	task, err := svc.Task(ctx, id)
	if err != nil {
		return fail(errOut, err)
	}
	if err := output.JSON(out, task); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
