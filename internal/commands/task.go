package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/output"
	"todoist/internal/service"
)

func init() {
	Register(&TaskCmd{})
}

// TaskCmd fetches a single task with comments inline.
type TaskCmd struct{}

func (c *TaskCmd) Name() string     { return "task" }
func (c *TaskCmd) Synopsis() string { return "Get a single task" }
func (c *TaskCmd) Usage() string    { return "todoist task [common flags] <id>" }
func (c *TaskCmd) NeedsAuth() bool  { return true }

func (c *TaskCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TaskCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task ID required")
		return exitcode.Failure
	}
	id := args[0]

	task, err := svc.Task(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fmt.Fprintf(errOut, "error: task '%s' not found or invalid\n", id)
			return exitcode.Failure
		}
		return fail(errOut, err)
	}

	enriched, err := enrichTask(ctx, svc, task)
	if err != nil {
		return fail(errOut, err)
	}

	if err := output.JSON(out, enriched); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
