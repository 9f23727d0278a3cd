package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd prints usage.
type HelpCmd struct{}

func (c *HelpCmd) Name() string     { return "help" }
func (c *HelpCmd) Synopsis() string { return "Print usage" }
func (c *HelpCmd) Usage() string    { return "todoist help" }
func (c *HelpCmd) NeedsAuth() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, HelpText)
	return exitcode.Success
}

// HelpText is also printed by the dispatcher when no command is given.
const HelpText = `Usage:
  todoist auth [--manual] [--code <url-or-code>] [--status]
  todoist logout
  todoist projects
  todoist sections [--project-id <id> | --project <name>]
  todoist tasks [--project <name>] [--section <name>] [--label <name>]
                [--assignee <name>] [--created-before YYYY-MM-DD]
                [--older-than 30d|2w|3m] [--include-section-name]
  todoist task <id>
  todoist filter <query>
  todoist add [--project <name>] [--section <name>] [--description <text>]
              [--labels a,b] [--priority 1-4] [--due <text>] <content...>
  todoist update [--content <text>] [--project <name>] [--section <name>]
                 [--description <text>] [--labels a,b] [--priority 1-4]
                 [--due <text>] <id>
  todoist done <id>
  todoist add-section (--project-id <id> | --project <name>) <name...>
  todoist comments (--task-id <id> | --project-id <id>)
  todoist collaborators --project-id <id>
  todoist doctor
  todoist version
  todoist help

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Output is JSON on stdout; errors go to stderr. Exit code 0 on
success, 1 on failure.
`
