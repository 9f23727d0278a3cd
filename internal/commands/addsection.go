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
	Register(&AddSectionCmd{})
}

// AddSectionCmd creates a section (a GTD "outcome") in a project.
type AddSectionCmd struct {
	projectID string
	project   string
}

func (c *AddSectionCmd) Name() string     { return "add-section" }
func (c *AddSectionCmd) Synopsis() string { return "Create a new section" }
func (c *AddSectionCmd) Usage() string {
	return "todoist add-section [common flags] (--project-id <id> | --project <name>) <name...>"
}
func (c *AddSectionCmd) NeedsAuth() bool { return true }

func (c *AddSectionCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.projectID, "project-id", "", "")
	fs.StringVar(&c.project, "project", "", "")
}

func (c *AddSectionCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: section name required")
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
	if projectID == "" {
		fmt.Fprintln(errOut, "error: --project-id or --project is required for add-section")
		return exitcode.Failure
	}

	section, err := svc.AddSection(ctx, name, projectID)
	if err != nil {
		return fail(errOut, err)
	}
	if err := output.JSON(out, section); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
