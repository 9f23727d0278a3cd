package commands

import (
	"context"
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
	Register(&FilterCmd{})
}

// FilterCmd passes a query through to Todoist's native filter syntax.
// No comment enrichment: a filter can match a lot of tasks.
type FilterCmd struct{}

func (c *FilterCmd) Name() string     { return "filter" }
func (c *FilterCmd) Synopsis() string { return "Filter tasks using Todoist filter syntax" }
func (c *FilterCmd) Usage() string    { return "todoist filter [common flags] <query>" }
func (c *FilterCmd) NeedsAuth() bool  { return true }

func (c *FilterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *FilterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: filter query required (e.g. 'today', 'overdue', '#Work')")
		return exitcode.Failure
	}
	query := strings.Join(args, " ")

	tasks, err := svc.FilterTasks(ctx, query)
	if err != nil {
		return fail(errOut, err)
	}
	if err := output.JSON(out, tasks); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
