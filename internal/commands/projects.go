package commands

import (
	"context"
	"flag"
	"io"

	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/output"
	"todoist/internal/service"
)

func init() {
	Register(&ProjectsCmd{})
}

// ProjectsCmd lists all projects.
type ProjectsCmd struct{}

func (c *ProjectsCmd) Name() string     { return "projects" }
func (c *ProjectsCmd) Synopsis() string { return "List all projects" }
func (c *ProjectsCmd) Usage() string    { return "todoist projects [common flags]" }
func (c *ProjectsCmd) NeedsAuth() bool  { return true }

func (c *ProjectsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	projects, err := svc.Projects(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	if err := output.JSON(out, projects); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
