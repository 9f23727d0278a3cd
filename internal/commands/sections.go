package commands

import (
	"context"
	"errors"
	"flag"
	"io"

	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/output"
	"todoist/internal/service"
)

func init() {
	Register(&SectionsCmd{})
}

// SectionsCmd lists sections, optionally filtered by project.
type SectionsCmd struct {
	projectID string
	project   string
}

func (c *SectionsCmd) Name() string     { return "sections" }
func (c *SectionsCmd) Synopsis() string { return "List sections" }
func (c *SectionsCmd) Usage() string {
	return "todoist sections [common flags] [--project-id <id> | --project <name>]"
}
func (c *SectionsCmd) NeedsAuth() bool { return true }

func (c *SectionsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.projectID, "project-id", "", "")
	fs.StringVar(&c.project, "project", "", "")
}

func (c *SectionsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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

	sections, err := svc.Sections(ctx, projectID)
	if err != nil {
		return fail(errOut, err)
	}
	if err := output.JSON(out, sections); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
