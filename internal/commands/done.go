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
	Register(&DoneCmd{})
}

// DoneCmd marks a task completed.
type DoneCmd struct{}

func (c *DoneCmd) Name() string     { return "done" }
func (c *DoneCmd) Synopsis() string { return "Complete a task" }
func (c *DoneCmd) Usage() string    { return "todoist done [common flags] <id>" }
func (c *DoneCmd) NeedsAuth() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task ID required")
		return exitcode.Failure
	}
	id := args[0]

	if err := svc.CompleteTask(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			fmt.Fprintf(errOut, "error: task '%s' not found or invalid\n", id)
			return exitcode.Failure
		}
		return fail(errOut, err)
	}

	result := map[string]any{"success": true, "task_id": id}
	if err := output.JSON(out, result); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
