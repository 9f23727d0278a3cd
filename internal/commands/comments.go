package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/output"
	"todoist/internal/service"
)

func init() {
	Register(&CommentsCmd{})
	Register(&CollaboratorsCmd{})
}

// CommentsCmd fetches comments standalone. Rarely needed: tasks and
// task inline them already.
type CommentsCmd struct {
	taskID    string
	projectID string
}

func (c *CommentsCmd) Name() string     { return "comments" }
func (c *CommentsCmd) Synopsis() string { return "Get comments for a task or project" }
func (c *CommentsCmd) Usage() string {
	return "todoist comments [common flags] (--task-id <id> | --project-id <id>)"
}
func (c *CommentsCmd) NeedsAuth() bool { return true }

func (c *CommentsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.taskID, "task-id", "", "")
	fs.StringVar(&c.projectID, "project-id", "", "")
}

func (c *CommentsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.taskID == "" && c.projectID == "" {
		fmt.Fprintln(errOut, "error: --task-id or --project-id is required")
		return exitcode.Failure
	}

	comments, err := svc.Comments(ctx, c.taskID, c.projectID)
	if err != nil {
		return fail(errOut, err)
	}
	if err := output.JSON(out, comments); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}

// CollaboratorsCmd lists the users sharing a project.
type CollaboratorsCmd struct {
	projectID string
}

func (c *CollaboratorsCmd) Name() string     { return "collaborators" }
func (c *CollaboratorsCmd) Synopsis() string { return "Get project collaborators" }
func (c *CollaboratorsCmd) Usage() string {
	return "todoist collaborators [common flags] --project-id <id>"
}
func (c *CollaboratorsCmd) NeedsAuth() bool { return true }

func (c *CollaboratorsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.projectID, "project-id", "", "")
}

func (c *CollaboratorsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.projectID == "" {
		fmt.Fprintln(errOut, "error: --project-id is required")
		return exitcode.Failure
	}

	collaborators, err := svc.Collaborators(ctx, c.projectID)
	if err != nil {
		return fail(errOut, err)
	}
	if err := output.JSON(out, collaborators); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
